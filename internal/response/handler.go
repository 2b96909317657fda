// Package response writes the JSON envelopes handlers return and maps
// service errors to HTTP statuses.
package response

import (
	"net/http"

	"github.com/Rishabh-devloper/wealthwise/internal/log"
)

type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, status int, data any)
	WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type responseHandler struct {
	Log *log.Logger
}

func New(logger *log.Logger) *responseHandler {
	return &responseHandler{Log: logger}
}
