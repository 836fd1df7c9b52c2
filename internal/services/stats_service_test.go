package services

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-tg-updates/internal/domain"
	"github.com/tbourn/go-tg-updates/internal/repo"
	"github.com/tbourn/go-tg-updates/internal/updates"
)

func TestStatsService_Counters_RegistryOrder(t *testing.T) {
	db := newSvcDB(t, &domain.KindCounter{})
	ctx := context.Background()
	now := time.Now().UTC()

	seed := []struct{ kind, sub string }{
		{"poll", ""},
		{"message", "photo"},
		{"callback_query", ""},
		{"message", ""},
		{"message", "voice"},
		{"zz_future", ""},
		{"edited_message", "text"},
	}
	for _, s := range seed {
		if err := repo.IncrementKindCounter(ctx, db, s.kind, s.sub, now); err != nil {
			t.Fatalf("seed %v: %v", s, err)
		}
	}

	got, err := NewStatsService(db).Counters(ctx)
	if err != nil {
		t.Fatalf("Counters: %v", err)
	}
	want := []struct {
		kind updates.Kind
		sub  updates.Subkind
	}{
		{updates.KindMessage, updates.SubkindNone},
		{updates.KindMessage, updates.SubkindVoice},
		{updates.KindMessage, updates.SubkindPhoto},
		{updates.KindEditedMessage, updates.SubkindText},
		{updates.KindCallbackQuery, updates.SubkindNone},
		{updates.KindPoll, updates.SubkindNone},
		{"zz_future", updates.SubkindNone},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Kind != want[i].kind || got[i].Subkind != want[i].sub {
			t.Fatalf("row %d = %s/%q, want %s/%q", i, got[i].Kind, got[i].Subkind, want[i].kind, want[i].sub)
		}
		if got[i].Total != 1 {
			t.Fatalf("row %d total = %d", i, got[i].Total)
		}
	}
}

func TestStatsService_Counters_Error(t *testing.T) {
	db := newSvcDB(t) // no tables
	if _, err := NewStatsService(db).Counters(context.Background()); err == nil {
		t.Fatalf("expected error without kind_counters table")
	}
}

func TestStatsService_Snapshot(t *testing.T) {
	db := newSvcDB(t, &domain.KindCounter{})
	ctx := context.Background()
	s := NewStatsService(db)

	snap, err := s.Snapshot(ctx)
	if err != nil || snap.Rows != 0 || snap.MaxUpdatedAt != nil {
		t.Fatalf("empty snapshot = %+v err=%v", snap, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	_ = repo.IncrementKindCounter(ctx, db, "message", "text", now)
	_ = repo.IncrementKindCounter(ctx, db, "message", "text", now)
	_ = repo.IncrementKindCounter(ctx, db, "poll", "", now)

	snap, err = s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Rows != 2 || snap.Sum != 3 || snap.MaxUpdatedAt == nil {
		t.Fatalf("snapshot = %+v", snap)
	}
}
