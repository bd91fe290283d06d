package geofence

import (
	"fmt"
	"strings"
)

const visitingPrefix = "Visiting: "

// VisitingPrefix is the purpose prefix that attributes a visit to company.
func VisitingPrefix(company string) string {
	return visitingPrefix + company
}

// ComposePurpose attributes purpose to designation. It is the only place a
// visit purpose gets its company prefix; a purpose that already carries the
// prefix, followed by the end of the text or ". ", is returned as is.
func ComposePurpose(designation, purpose string) string {
	purpose = strings.TrimSpace(purpose)
	if designation == "" {
		return purpose
	}

	prefix := VisitingPrefix(designation)
	if purpose == prefix || strings.HasPrefix(purpose, prefix+". ") {
		return purpose
	}
	if purpose == "" {
		return prefix
	}
	return fmt.Sprintf("%s. %s", prefix, purpose)
}
