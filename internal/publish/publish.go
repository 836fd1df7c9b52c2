// Package publish forwards classified updates to downstream consumers. The
// NATS publisher routes each update to a subject derived from its kind and
// sub-kind, so consumers subscribe to exactly the shapes they handle.
package publish

import (
	"context"
	"strings"

	"github.com/tbourn/go-tg-updates/internal/updates"
)

// Publisher delivers one classified update.
type Publisher interface {
	Publish(ctx context.Context, c *updates.Context) error
}

// Func adapts a function to Publisher.
type Func func(ctx context.Context, c *updates.Context) error

// Publish calls f.
func (f Func) Publish(ctx context.Context, c *updates.Context) error { return f(ctx, c) }

// Nop discards every update.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, *updates.Context) error { return nil }

// Subject returns "<prefix>.<kind>" or, when a sub-kind matched,
// "<prefix>.<kind>.<subkind>".
func Subject(prefix string, kind updates.Kind, sub updates.Subkind) string {
	var b strings.Builder
	if p := strings.Trim(prefix, "."); p != "" {
		b.WriteString(p)
		b.WriteByte('.')
	}
	b.WriteString(string(kind))
	if sub != updates.SubkindNone {
		b.WriteByte('.')
		b.WriteString(string(sub))
	}
	return b.String()
}
