// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they decode the request, delegate to the
// application services and translate results and errors into the response
// conventions defined in response.go and errors.go.
package handlers

import (
	"context"

	"github.com/tbourn/go-tg-updates/internal/services"
	"github.com/tbourn/go-tg-updates/internal/telegram"
)

// IngestService classifies and ingests updates.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type IngestService interface {
	// Ingest classifies u, deduplicates it by update_id and dispatches it.
	Ingest(ctx context.Context, u *telegram.Update) (*services.IngestResult, error)
	// Classify reports the classification of u without side effects.
	Classify(ctx context.Context, u *telegram.Update) (services.Classification, error)
}

// StatsService reads classification counters.
type StatsService interface {
	Counters(ctx context.Context) ([]services.Counter, error)
	Snapshot(ctx context.Context) (services.Snapshot, error)
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	ingest IngestService
	stats  StatsService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(ingest IngestService, stats StatsService) *Handlers {
	return &Handlers{ingest: ingest, stats: stats}
}
