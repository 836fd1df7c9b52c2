// Package domain defines the persistence models for update receipts and
// classification counters. These types are mapped with GORM and shared across
// the repository and service layers.
package domain

import "time"

// UpdateReceipt records that an update_id was accepted. Telegram redelivers an
// update until the webhook answers 2xx, so a live receipt marks a redelivery
// as a replay instead of a new event.
type UpdateReceipt struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UpdateID  int64     `gorm:"type:INTEGER NOT NULL;uniqueIndex:ux_update_receipt"`
	Kind      string    `gorm:"type:TEXT NOT NULL"`
	Subkind   string    `gorm:"type:TEXT NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (UpdateReceipt) TableName() string { return "update_receipts" }
