// Package updates classifies inbound Telegram updates and narrows them into an
// access object that exposes only the properties valid for the matched kind.
//
// The package is pure: two immutable registries built at init, a classifier,
// and a context builder. Nothing here performs I/O or holds mutable state, so
// every function is safe for concurrent use.
package updates

import "errors"

// Classification and construction errors. They are returned wrapped with
// detail; match them with errors.Is.
var (
	// ErrNilUpdate is returned when no update was supplied.
	ErrNilUpdate = errors.New("nil update")

	// ErrUnknownKind means the update's tag matches no registered kind. It
	// signals a schema version skew between the platform and this build.
	ErrUnknownKind = errors.New("unknown update kind")

	// ErrUnknownSubkind means a message sub-kind name is not registered.
	ErrUnknownSubkind = errors.New("unknown message sub-kind")

	// ErrMalformedPayload means the kind is known but its payload does not
	// carry the fields the registry declares mandatory.
	ErrMalformedPayload = errors.New("malformed update payload")

	// ErrUnknownProperty is returned by property lookups on an access object
	// for names no registry declares.
	ErrUnknownProperty = errors.New("unknown property")
)
