// Package services holds the application logic behind the webhook: it turns
// decoded updates into access objects, deduplicates redeliveries, forwards
// updates to the dispatch sink and maintains classification counters.
//
// This file centralizes service-level error values. Core classification
// errors (updates.ErrUnknownKind, updates.ErrMalformedPayload, ...) pass
// through unchanged; translation into HTTP status codes happens in handlers.
package services

import "errors"

var (
	// ErrEmptyUpdate is returned when no update was supplied.
	ErrEmptyUpdate = errors.New("update is empty")

	// ErrPublishFailed wraps a dispatch-sink failure. No receipt is written,
	// so the platform's redelivery of the same update is processed again.
	ErrPublishFailed = errors.New("failed to publish update")
)
