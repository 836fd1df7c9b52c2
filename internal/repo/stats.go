// Package repo implements the data persistence layer for update receipts and
// kind counters, backed by GORM. This file maintains the per-(kind, sub-kind)
// counters and the aggregate used for conditional responses (ETag) on the
// stats endpoint.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-tg-updates/internal/domain"
)

// IncrementKindCounter adds one to the counter for (kind, subkind), creating
// it on first use. The upsert is a single statement so concurrent webhook
// deliveries do not lose increments.
func IncrementKindCounter(ctx context.Context, db *gorm.DB, kind, subkind string, now time.Time) error {
	row := &domain.KindCounter{Kind: kind, Subkind: subkind, Total: 1, UpdatedAt: now}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kind"}, {Name: "subkind"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total":      gorm.Expr("total + ?", 1),
			"updated_at": now,
		}),
	}).Create(row).Error
}

// ListKindCounters returns every counter row. Ordering is left to the caller,
// which knows the registry order.
func ListKindCounters(ctx context.Context, db *gorm.DB) ([]domain.KindCounter, error) {
	var out []domain.KindCounter
	if err := db.WithContext(ctx).Order("kind ASC, subkind ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountersStats returns the number of counter rows, the sum of all totals and
// the latest UpdatedAt. When there are no rows, maxUpdatedAt is nil.
func CountersStats(ctx context.Context, db *gorm.DB) (rows, sum int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.KindCounter{})

	if err = q.Count(&rows).Error; err != nil {
		return 0, 0, nil, err
	}
	if rows == 0 {
		return 0, 0, nil, nil
	}

	var agg struct{ Sum int64 }
	if err = db.WithContext(ctx).Model(&domain.KindCounter{}).Select("COALESCE(SUM(total), 0) AS sum").Scan(&agg).Error; err != nil {
		return 0, 0, nil, err
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.KindCounter{}).Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, nil, err
	}
	return rows, agg.Sum, &row.UpdatedAt, nil
}
