package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"vms/backend/internal/router"
	"vms/backend/internal/service/qr"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill-qr",
	Short: "Generate QR codes for verified vendors that have none",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.db.Close()

		uploader, err := router.NewUploader(e.cfg.Storage)
		if err != nil {
			return err
		}
		renderer, err := qr.CheckRenderer(qr.NewPNGRenderer())
		if err != nil {
			return err
		}

		summary, err := router.NewGenerator(e.db, uploader, renderer).Backfill(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}
