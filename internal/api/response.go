// Package api exposes the radio HAL over an HTTP control API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wifi-control/whal/internal/wifi"
)

// Response is the uniform envelope of every API reply.
type Response struct {
	Result    string      `json:"result"`
	Data      interface{} `json:"data,omitempty"`
	Code      string      `json:"code,omitempty"`
	Message   string      `json:"message,omitempty"`
	RequestID string      `json:"requestId"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Result:    "ok",
		Data:      data,
		RequestID: requestID(r),
	})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, http.StatusBadRequest, Response{
		Result:    "error",
		Code:      "BAD_REQUEST",
		Message:   msg,
		RequestID: requestID(r),
	})
}

// writeHALError maps the HAL error taxonomy onto HTTP status codes. The
// gateway statuses mark the radio, not the API, as the failing party.
func writeHALError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var status int
	var code string
	switch {
	case errors.Is(err, wifi.ErrTimeout):
		status, code = http.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, wifi.ErrNotSupported):
		status, code = http.StatusNotImplemented, "NOT_SUPPORTED"
	default:
		status, code = http.StatusBadGateway, "FAILURE"
	}
	log.Warn().Err(err).Str("code", code).Msg("radio operation failed")
	writeJSON(w, status, Response{
		Result:    "error",
		Code:      code,
		Message:   err.Error(),
		RequestID: requestID(r),
	})
}
