package server

import (
	"encoding/json"
	"net/http"

	"github.com/elkscene/elkscene/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// statusFor maps error codes to HTTP statuses:
//   - structural defects → 422, the document itself is unprocessable
//   - layout rejections and bad requests → 400, the engine understood and said no
//   - timeouts → 504, other engine failures → 502
//   - missing runs → 404
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeLayoutRejected):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	case errors.IsStructural(err):
		return http.StatusUnprocessableEntity
	case errors.IsTransport(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeDocument sends an already serialized JSON document.
func writeDocument(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{
		Code:  string(errors.GetCode(err)),
		Error: errors.UserMessage(err),
	})
}
