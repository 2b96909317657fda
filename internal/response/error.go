package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Rishabh-devloper/wealthwise/internal/errs"
	"github.com/Rishabh-devloper/wealthwise/internal/log"
)

type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Overflow string `json:"overflow,omitempty"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeError(w, r, status, ErrorResponse{Code: code, Message: message})
}

func (h *responseHandler) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := log.FromContext(r.Context())
		logger.Error("failed to encode error response", "error", err, "status", status, "code", body.Code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.FromContext(r.Context())

	switch e := err.(type) {
	case *errs.UnauthorizedError:
		logger.Warn("unauthorized request", "error", e.Message)
		h.WriteError(w, r, http.StatusUnauthorized, "unauthorized", e.Message)

	case *errs.NotFoundError:
		logger.Warn("resource not found", "error", e.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", e.Message)

	case *errs.ValidationError:
		logger.Warn("validation failed", "error", e.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", e.Message)

	case *errs.OverLimitError:
		logger.Warn("contribution over limit",
			"error", e.Message,
			"overflow", e.Overflow.String())
		h.writeError(w, r, http.StatusUnprocessableEntity, ErrorResponse{
			Code:     "over_limit",
			Message:  e.Message,
			Overflow: e.Overflow.String(),
		})

	case *errs.StorageError:
		logger.Error("storage error", "error", e.Cause)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	default:
		logger.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
