package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"intlab/rpncalc/pkg/server/api"
)

// decodeJSON reads a single JSON object from the body, capped at maxBytes.
// It returns an error response ready to write on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) *api.ErrorResponse {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return api.NewError(api.ErrorTypeTooLarge, api.CodeBodyTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			return api.NewInvalidRequestError(api.CodeInvalidJSON, "", "request body is empty")
		default:
			return api.NewInvalidRequestError(api.CodeInvalidJSON, "", "invalid JSON: "+err.Error())
		}
	}

	if dec.More() {
		return api.NewInvalidRequestError(api.CodeInvalidJSON, "", "request body must contain a single JSON object")
	}
	return nil
}
