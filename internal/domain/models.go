package domain

import "time"

// KindCounter is the running total of accepted updates for one
// (kind, sub-kind) pair. Subkind is empty for kinds without sub-kinds and for
// messages that matched none.
type KindCounter struct {
	ID        uint      `json:"-"          gorm:"primaryKey;autoIncrement"`
	Kind      string    `json:"kind"       gorm:"type:varchar(64);not null;uniqueIndex:ux_kind_subkind,priority:1"`
	Subkind   string    `json:"subkind"    gorm:"type:varchar(64);not null;uniqueIndex:ux_kind_subkind,priority:2"`
	Total     int64     `json:"total"      gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for KindCounter.
func (KindCounter) TableName() string { return "kind_counters" }
