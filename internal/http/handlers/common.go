package handlers

import (
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends the standard error envelope with request_id included.
// Every error response carries success=false so the dashboard can branch on
// one field.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"success":    false,
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}
