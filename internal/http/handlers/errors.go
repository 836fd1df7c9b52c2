// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and give clients a stable, machine-readable
// taxonomy alongside the human-readable message. Generic codes mirror HTTP
// status semantics; the update-specific ones name the classification failure.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "unknown_kind",
//	  "message": "unknown update kind: \"business_message\""
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-tg-updates/internal/services"
	"github.com/tbourn/go-tg-updates/internal/telegram"
	"github.com/tbourn/go-tg-updates/internal/updates"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"

	// Update-specific:
	ErrCodeUnknownKind      = "unknown_kind"
	ErrCodeMalformedPayload = "malformed_payload"
	ErrCodePublishFailed    = "publish_failed"
	ErrCodeStatsFailed      = "stats_failed"
)

// classifyError maps a decode, classification or ingestion error to an HTTP
// status and error code. The message is safe to return to the caller except
// for 5xx, where a generic one is substituted.
func classifyError(err error) (status int, code, msg string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large"
	case errors.Is(err, telegram.ErrEmptyPayload), errors.Is(err, services.ErrEmptyUpdate):
		return http.StatusBadRequest, ErrCodeBadRequest, "update body required"
	case errors.Is(err, updates.ErrUnknownKind):
		return http.StatusUnprocessableEntity, ErrCodeUnknownKind, err.Error()
	case errors.Is(err, updates.ErrMalformedPayload), errors.Is(err, updates.ErrUnknownSubkind):
		return http.StatusUnprocessableEntity, ErrCodeMalformedPayload, err.Error()
	case errors.Is(err, services.ErrPublishFailed):
		return http.StatusBadGateway, ErrCodePublishFailed, "failed to dispatch update"
	default:
		return http.StatusInternalServerError, ErrCodeInternal, "internal server error"
	}
}
