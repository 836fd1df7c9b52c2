package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tbourn/go-tg-updates/internal/updates"
)

// Message headers set on every published update.
const (
	HeaderKind     = "Tg-Update-Kind"
	HeaderSubkind  = "Tg-Update-Subkind"
	HeaderUpdateID = "Tg-Update-Id"
)

// DefaultPublishTimeout bounds the flush after a publish when none is given.
const DefaultPublishTimeout = 2 * time.Second

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NatsPublisher publishes the JSON access object of each update to
// Subject(prefix, kind, subkind).
type NatsPublisher struct {
	conn    conn
	prefix  string
	timeout time.Duration
}

// NewNatsPublisher connects to url and returns a publisher for prefix.
func NewNatsPublisher(url, prefix string, timeout time.Duration, opts ...nats.Option) (*NatsPublisher, error) {
	opts = append([]nats.Option{nats.Name("tg-updates")}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	if !nc.IsConnected() {
		nc.Close()
		return nil, errors.New("failed to verify nats connection")
	}
	return newNatsPublisher(nc, prefix, timeout), nil
}

func newNatsPublisher(c conn, prefix string, timeout time.Duration) *NatsPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &NatsPublisher{conn: c, prefix: prefix, timeout: timeout}
}

// Publish implements Publisher. It returns once the server has acknowledged
// the flush or the timeout elapsed.
func (p *NatsPublisher) Publish(ctx context.Context, c *updates.Context) error {
	if c == nil {
		return updates.ErrNilUpdate
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}

	msg := nats.NewMsg(Subject(p.prefix, c.Kind, c.Subkind))
	msg.Data = data
	msg.Header.Set(HeaderKind, string(c.Kind))
	if c.Subkind != updates.SubkindNone {
		msg.Header.Set(HeaderSubkind, string(c.Subkind))
	}
	if c.Update != nil {
		msg.Header.Set(HeaderUpdateID, strconv.FormatInt(c.Update.UpdateID, 10))
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Subject, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush %s: %w", msg.Subject, err)
	}
	return nil
}

// Close drains the connection, delivering anything still buffered.
func (p *NatsPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain nats connection: %w", err)
	}
	return nil
}
