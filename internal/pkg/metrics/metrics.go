// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vms_check_ins_total",
		Help: "Visit check-ins by company resolution outcome.",
	}, []string{"outcome"})

	LocationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vms_company_locations_created_total",
		Help: "Company locations registered by check-ins.",
	})

	CheckOuts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vms_check_outs_total",
		Help: "Visit check-outs.",
	})

	QRGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vms_qr_generated_total",
		Help: "QR code generations by result.",
	}, []string{"result"})

	QRScans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vms_qr_scans_total",
		Help: "QR code scans by validity.",
	}, []string{"valid"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vms_uploads_total",
		Help: "Object storage uploads by folder and result.",
	}, []string{"folder", "result"})
)

func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
