// Package handlers implements the webhook, classification, registry and
// stats endpoints on top of the services layer.
//
// Every failure is answered with ErrorResponse carrying a stable code, so
// callers (including the platform's delivery logs) can tell a rejected
// update from a transient server fault:
//
//	HTTP/1.1 422 Unprocessable Entity
//	{"request_id":"123e...","code":"unknown_kind","message":"unknown update kind: \"business_message\""}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-tg-updates/internal/http/middleware"
)

// ErrorResponse is the error envelope shared by all endpoints.
type ErrorResponse struct {
	// Echo of X-Request-ID.
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// One of the ErrCode constants.
	Code string `json:"code" example:"unknown_kind"`
	// Never carries internal error text for 5xx.
	Message string `json:"message" example:"unknown update kind: \"business_message\""`
}

// fail aborts the request with a structured error. Server errors (>=500) are
// logged with the request-scoped logger; 4xx are left to the access log.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := middleware.RequestIDFrom(c)
	if reqID == "" {
		reqID = c.Writer.Header().Get("X-Request-ID")
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Strs("causes", c.Errors.Errors()).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{RequestID: reqID, Code: code, Message: msg})
}

// Fail is the exported variant of fail() for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) { c.JSON(status, body) }

// failErr maps err with classifyError and writes the envelope.
func failErr(c *gin.Context, err error) {
	status, code, msg := classifyError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	fail(c, status, code, msg)
}
