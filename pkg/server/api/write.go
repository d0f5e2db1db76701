package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes v as a JSON response with the given status. v is encoded
// before the header goes out, so a value that cannot be encoded turns into a
// 500 error instead of an empty body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(NewServerError("failed to encode response"))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// WriteError writes an error response with the status of its type.
func WriteError(w http.ResponseWriter, resp *ErrorResponse) {
	WriteJSON(w, StatusCode(resp.Error.Type), resp)
}
