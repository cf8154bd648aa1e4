package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Pre-allocated header value slices. Direct map assignment avoids the
// []string{v} alloc that Header.Set creates on every call.
var (
	jsonCT      = []string{"application/json"}
	plainTextCT = []string{"text/plain"}
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		return
	}
	w.Header()["Content-Type"] = jsonCT
	w.WriteHeader(status)
	w.Write(data)
}

// writePlainText writes msg verbatim with Content-Type: text/plain. Used for
// the gateway's own core-pipeline error responses (404 route failure, 502
// upstream failure, 500 panic recovery), which spec.md mandates as literal
// plain-text bodies rather than a JSON envelope.
func writePlainText(w http.ResponseWriter, status int, msg string) {
	w.Header()["Content-Type"] = plainTextCT
	w.WriteHeader(status)
	w.Write([]byte(msg))
}
