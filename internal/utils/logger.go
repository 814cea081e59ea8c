package utils

import (
	"log"
	"strings"
)

// LogEvent prints a standardized log line with module, action and
// request id.  Keep message short and free of personal data such as
// phone numbers.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
