package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseRange parses start/end epoch-millisecond parameters. Both are
// required; ordering is the caller's contract.
func parseRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr == "" || endStr == "" {
		return start, end, fmt.Errorf("start and end parameters are required")
	}
	startMs, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return start, end, fmt.Errorf("invalid start parameter: %q", startStr)
	}
	endMs, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return start, end, fmt.Errorf("invalid end parameter: %q", endStr)
	}
	if endMs < startMs {
		return start, end, fmt.Errorf("end must not precede start")
	}
	return time.UnixMilli(startMs), time.UnixMilli(endMs), nil
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
