package utils

import (
	"log"
	"strings"
)

// LogEvent writes one structured line for a service-level event. Keep the
// message a short summary, never a payload.
func LogEvent(requestID, component, action, message string) {
	rid := strings.TrimSpace(requestID)
	if rid == "" {
		rid = "-"
	}
	log.Printf("component=%s action=%s request_id=%s msg=%s",
		strings.ToLower(strings.TrimSpace(component)), action, rid, message)
}
