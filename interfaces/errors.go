package interfaces

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruitment-tracker/domain"
)

const (
	codeNotFound           = "not_found"
	codeInvalidAction      = "invalid_action"
	codeNoStagesConfigured = "no_stages_configured"
	codeStageNotInRole     = "stage_not_in_role"
	codeValidation         = "validation_failed"
	codeInvalidRequest     = "invalid_request"
	codeApplicationClosed  = "application_closed"
	codeConflict           = "conflict"
	codeRateLimited        = "rate_limited"
	codeInternal           = "internal_error"
)

// errorStatus maps a domain error onto an HTTP status and a machine code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrInvalidAction):
		return http.StatusBadRequest, codeInvalidAction
	case errors.Is(err, domain.ErrNoStagesConfigured):
		return http.StatusBadRequest, codeNoStagesConfigured
	case errors.Is(err, domain.ErrStageNotInRole):
		return http.StatusBadRequest, codeStageNotInRole
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, domain.ErrApplicationClosed):
		return http.StatusConflict, codeApplicationClosed
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, codeConflict
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.Log.WithError(err).WithFields(requestFields(c)).Error("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

func (h *HTTPHandler) bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeInvalidRequest})
}
