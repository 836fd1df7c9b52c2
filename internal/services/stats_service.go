package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-tg-updates/internal/repo"
	"github.com/tbourn/go-tg-updates/internal/updates"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Counter is one (kind, sub-kind) tally.
type Counter struct {
	Kind      updates.Kind    `json:"kind"`
	Subkind   updates.Subkind `json:"subkind"`
	Total     int64           `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Snapshot summarises the counter table for conditional responses.
type Snapshot struct {
	Rows         int64
	Sum          int64
	MaxUpdatedAt *time.Time
}

// StatsService reads classification counters.
type StatsService struct {
	DB *gorm.DB
}

// NewStatsService constructs a StatsService.
func NewStatsService(db *gorm.DB) *StatsService { return &StatsService{DB: db} }

// Counters returns every counter ordered by kind registry order, then by
// sub-kind priority with the no-sub-kind row first. Rows naming a kind or
// sub-kind this build does not know sort last, by name.
func (s *StatsService) Counters(ctx context.Context) ([]Counter, error) {
	ctx, span := otel.Tracer("services/StatsService").Start(ctx, "Counters")
	defer span.End()

	rows, err := repo.ListKindCounters(ctx, s.DB)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	out := make([]Counter, 0, len(rows))
	for _, r := range rows {
		out = append(out, Counter{
			Kind:      updates.Kind(r.Kind),
			Subkind:   updates.Subkind(r.Subkind),
			Total:     r.Total,
			UpdatedAt: r.UpdatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := kindRank(out[i].Kind), kindRank(out[j].Kind)
		if ki != kj {
			return ki < kj
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		si, sj := subkindRank(out[i].Subkind), subkindRank(out[j].Subkind)
		if si != sj {
			return si < sj
		}
		return out[i].Subkind < out[j].Subkind
	})
	span.SetAttributes(attribute.Int("counters.rows", len(out)))
	return out, nil
}

// Snapshot returns the aggregate used to derive the stats ETag.
func (s *StatsService) Snapshot(ctx context.Context) (Snapshot, error) {
	ctx, span := otel.Tracer("services/StatsService").Start(ctx, "Snapshot")
	defer span.End()

	rows, sum, maxAt, err := repo.CountersStats(ctx, s.DB)
	if err != nil {
		fail(span, err)
		return Snapshot{}, err
	}
	return Snapshot{Rows: rows, Sum: sum, MaxUpdatedAt: maxAt}, nil
}

var kindOrder = func() map[updates.Kind]int {
	m := make(map[updates.Kind]int)
	for i, d := range updates.Kinds() {
		m[d.Kind] = i
	}
	return m
}()

func kindRank(k updates.Kind) int {
	if i, ok := kindOrder[k]; ok {
		return i
	}
	return len(kindOrder)
}

func subkindRank(s updates.Subkind) int {
	if s == updates.SubkindNone {
		return -1
	}
	d, err := updates.LookupSubkind(s)
	if err != nil {
		return len(updates.Subkinds())
	}
	return d.Priority
}
