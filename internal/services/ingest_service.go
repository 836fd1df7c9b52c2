// Package services – IngestService
//
// IngestService is the path every webhook delivery takes: classify, build the
// access object, recognise redeliveries by update_id, publish to the dispatch
// sink and record the outcome. Receipts are written only after a successful
// publish, so a failed dispatch is retried by the platform's own redelivery.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the update id, kind and sub-kind.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-tg-updates/internal/publish"
	"github.com/tbourn/go-tg-updates/internal/repo"
	"github.com/tbourn/go-tg-updates/internal/telegram"
	"github.com/tbourn/go-tg-updates/internal/updates"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultReceiptTTL is used when IngestService.ReceiptTTL is unset.
const DefaultReceiptTTL = 24 * time.Hour

// Classification is the side-effect free result of classifying an update.
type Classification struct {
	Kind             updates.Kind      `json:"kind"`
	Subkind          updates.Subkind   `json:"subkind"`
	MatchingSubkinds []updates.Subkind `json:"matching_subkinds"`
}

// IngestResult is the outcome of Ingest. Replay is true when the update_id
// had already been accepted; the access object is still returned.
type IngestResult struct {
	Context *updates.Context `json:"context"`
	Replay  bool             `json:"replay"`
}

// IngestService coordinates classification, deduplication and dispatch.
type IngestService struct {
	DB *gorm.DB

	// Publisher receives every new update. Nil disables dispatch.
	Publisher publish.Publisher

	// ReceiptTTL bounds how long an update_id is remembered.
	ReceiptTTL time.Duration

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// NewIngestService constructs an IngestService with the default receipt TTL.
func NewIngestService(db *gorm.DB, p publish.Publisher) *IngestService {
	return &IngestService{DB: db, Publisher: p, ReceiptTTL: DefaultReceiptTTL}
}

// Classify reports the kind, sub-kind and every matching sub-kind of u
// without touching storage or the sink.
func (s *IngestService) Classify(ctx context.Context, u *telegram.Update) (Classification, error) {
	_, span := otel.Tracer("services/IngestService").Start(ctx, "Classify")
	defer span.End()

	if u == nil {
		return Classification{}, ErrEmptyUpdate
	}
	span.SetAttributes(attribute.Int64("update.id", u.UpdateID))

	kind, sub, err := updates.Classify(u)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Classification{Kind: kind, Subkind: sub}, err
	}
	span.SetAttributes(
		attribute.String("update.kind", string(kind)),
		attribute.String("update.subkind", string(sub)),
	)

	out := Classification{Kind: kind, Subkind: sub, MatchingSubkinds: []updates.Subkind{}}
	if kind.MessageBearing() {
		c, err := updates.Build(u, kind, sub)
		if err != nil {
			return out, err
		}
		if m, ok := c.EffectiveMessage().Get(); ok {
			if all := updates.MatchingSubkinds(m); all != nil {
				out.MatchingSubkinds = all
			}
		}
	}
	return out, nil
}

// Ingest processes one delivery. See the package comment for the order of
// steps; errors are either core classification errors, ErrPublishFailed or
// storage errors.
func (s *IngestService) Ingest(ctx context.Context, u *telegram.Update) (*IngestResult, error) {
	ctx, span := otel.Tracer("services/IngestService").Start(ctx, "Ingest")
	defer span.End()

	if u == nil {
		rejectedTotal.WithLabelValues(reasonEmpty).Inc()
		return nil, ErrEmptyUpdate
	}
	span.SetAttributes(attribute.Int64("update.id", u.UpdateID))

	uc, err := updates.New(u)
	if err != nil {
		rejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("update.kind", string(uc.Kind)),
		attribute.String("update.subkind", string(uc.Subkind)),
	)

	lg := zerolog.Ctx(ctx)
	now := s.now()

	if u.UpdateID != 0 {
		_, err := repo.GetReceipt(ctx, s.DB, u.UpdateID, now)
		switch {
		case err == nil:
			replaysTotal.Inc()
			lg.Debug().Int64("update_id", u.UpdateID).Msg("redelivered update")
			return &IngestResult{Context: uc, Replay: true}, nil
		case !errors.Is(err, repo.ErrNotFound):
			fail(span, err)
			return nil, err
		}
	}

	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, uc); err != nil {
			publishFailuresTotal.Inc()
			lg.Warn().Err(err).Int64("update_id", u.UpdateID).Str("kind", string(uc.Kind)).Msg("publish failed")
			fail(span, err)
			return nil, fmt.Errorf("%w: %v", ErrPublishFailed, err)
		}
	}

	replay := false
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.UpdateID != 0 {
			if _, err := repo.CreateReceipt(ctx, tx, u.UpdateID, string(uc.Kind), string(uc.Subkind), s.ttl()); err != nil {
				if errors.Is(err, repo.ErrDuplicate) {
					replay = true
					return nil
				}
				return err
			}
		}
		return repo.IncrementKindCounter(ctx, tx, string(uc.Kind), string(uc.Subkind), now)
	})
	if err != nil {
		fail(span, err)
		return nil, err
	}
	if replay {
		// A concurrent delivery of the same update won the receipt.
		replaysTotal.Inc()
		return &IngestResult{Context: uc, Replay: true}, nil
	}

	classifiedTotal.WithLabelValues(string(uc.Kind), subkindLabel(uc.Subkind)).Inc()
	return &IngestResult{Context: uc}, nil
}

// PurgeReceipts deletes receipts that expired at or before now.
func (s *IngestService) PurgeReceipts(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := otel.Tracer("services/IngestService").Start(ctx, "PurgeReceipts")
	defer span.End()

	n, err := repo.PurgeReceipts(ctx, s.DB, now)
	if err != nil {
		fail(span, err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("receipts.purged", n))
	return n, nil
}

func (s *IngestService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *IngestService) ttl() time.Duration {
	if s.ReceiptTTL > 0 {
		return s.ReceiptTTL
	}
	return DefaultReceiptTTL
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
