package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-tg-updates/internal/updates"
)

var (
	// classifiedTotal counts accepted updates. Both labels come from the
	// registries, so cardinality is bounded by their size.
	classifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tgupdates_classified_total",
			Help: "Updates accepted, by kind and message sub-kind.",
		},
		[]string{"kind", "subkind"},
	)

	rejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tgupdates_rejected_total",
			Help: "Updates rejected before dispatch, by reason.",
		},
		[]string{"reason"},
	)

	replaysTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tgupdates_replays_total",
			Help: "Redelivered updates recognised by their receipt.",
		},
	)

	publishFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tgupdates_publish_failures_total",
			Help: "Updates the dispatch sink failed to accept.",
		},
	)
)

func init() {
	prometheus.MustRegister(classifiedTotal, rejectedTotal, replaysTotal, publishFailuresTotal)
}

// Rejection reasons used as the "reason" label.
const (
	reasonEmpty       = "empty"
	reasonUnknownKind = "unknown_kind"
	reasonSubkind     = "unknown_subkind"
	reasonMalformed   = "malformed_payload"
	reasonOther       = "other"
)

func rejectReason(err error) string {
	switch {
	case errors.Is(err, updates.ErrNilUpdate):
		return reasonEmpty
	case errors.Is(err, updates.ErrUnknownKind):
		return reasonUnknownKind
	case errors.Is(err, updates.ErrUnknownSubkind):
		return reasonSubkind
	case errors.Is(err, updates.ErrMalformedPayload):
		return reasonMalformed
	default:
		return reasonOther
	}
}

// subkindLabel renders SubkindNone as "none" so the label is never empty.
func subkindLabel(s updates.Subkind) string {
	if s == updates.SubkindNone {
		return "none"
	}
	return string(s)
}
