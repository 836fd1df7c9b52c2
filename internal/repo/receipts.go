// Package repo implements the data persistence layer for update receipts and
// kind counters, backed by GORM. This file provides the receipt helpers used
// to recognise webhook redeliveries of an update_id.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-tg-updates/internal/domain"
)

// ErrDuplicate indicates that a receipt already exists for the update_id.
var ErrDuplicate = errors.New("duplicate")

// GetReceipt returns the non-expired receipt for updateID or ErrNotFound.
func GetReceipt(ctx context.Context, db *gorm.DB, updateID int64, now time.Time) (*domain.UpdateReceipt, error) {
	var rec domain.UpdateReceipt
	err := db.WithContext(ctx).
		Where("update_id = ? AND expires_at > ?", updateID, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateReceipt inserts a receipt and returns ErrDuplicate on unique violation.
//
// An expired receipt for the same update_id is replaced, so an update the
// platform reuses the id of after the TTL is accepted again.
func CreateReceipt(ctx context.Context, db *gorm.DB, updateID int64, kind, subkind string, ttl time.Duration) (*domain.UpdateReceipt, error) {
	now := time.Now().UTC()
	rec := &domain.UpdateReceipt{
		ID:        uuid.NewString(),
		UpdateID:  updateID,
		Kind:      kind,
		Subkind:   subkind,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("update_id = ? AND expires_at <= ?", updateID, now).
			Delete(&domain.UpdateReceipt{}).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeReceipts deletes every receipt that expired at or before now and
// returns how many rows were removed.
func PurgeReceipts(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.UpdateReceipt{})
	return res.RowsAffected, res.Error
}

// isUniqueViolation recognises unique-constraint failures. glebarez/sqlite
// often returns them as plain-text errors.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
