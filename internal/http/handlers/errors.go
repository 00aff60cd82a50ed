package handlers

import (
	"net/http"

	"backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses. Internal detail is
// never forwarded to the caller beyond a summary message.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsInternal(err):
		// wrapped cause stays server-side
		RespondError(c, http.StatusInternalServerError, "internal server error", nil)
	default:
		RespondError(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
