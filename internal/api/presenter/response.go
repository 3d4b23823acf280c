package presenter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/glossa/internal/service"
)

// Response is the common envelope. Rejections carry a machine-readable
// code; rate rejections additionally carry retry_after seconds when a
// window end is computable.
type Response struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Code          string `json:"code,omitempty"`
	RetryAfter    int64  `json:"retryAfter,omitempty"`
	Data          any    `json:"data,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

// Data wraps a successful payload in the envelope.
func Data(w http.ResponseWriter, r *http.Request, data any, status int) {
	JSON(w, r, Response{Success: true, Data: data}, status)
}

// Reject writes a typed rejection.
func Reject(w http.ResponseWriter, r *http.Request, status int, message, code string, retryAfter int64) {
	correlationID, _ := r.Context().Value("correlation_id").(string)
	JSON(w, r, Response{
		Message:       message,
		Code:          code,
		RetryAfter:    retryAfter,
		CorrelationID: correlationID,
	}, status)
}

// Err maps a service error to its rejection. Unclassified errors default
// to 400 without a code.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	code := ""
	var httpErr *service.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
		code = httpErr.Code
	}
	Reject(w, r, status, err.Error(), code, 0)
}
