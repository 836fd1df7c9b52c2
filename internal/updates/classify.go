package updates

import (
	"fmt"

	"github.com/tbourn/go-tg-updates/internal/telegram"
)

// Classify determines the kind of u and, for message-bearing kinds, the
// message sub-kind. It is a pure function of u's field-presence pattern.
//
// The kind is the first registered kind whose payload is set. The platform
// sets exactly one; should several be set, registry order decides. A message
// carrying none of the registered sub-kind fields classifies as SubkindNone,
// which is not an error.
func Classify(u *telegram.Update) (Kind, Subkind, error) {
	if u == nil {
		return "", SubkindNone, ErrNilUpdate
	}

	d, payload, ok := matchKind(u)
	if !ok {
		return "", SubkindNone, unknownTag(u)
	}
	if err := d.validate(payload); err != nil {
		return d.Kind, SubkindNone, fmt.Errorf("%s: %w", d.Kind, err)
	}
	if !d.MessageBearing {
		return d.Kind, SubkindNone, nil
	}

	sd, ok := matchSubkind(d.message(u))
	if !ok {
		return d.Kind, SubkindNone, nil
	}
	if err := sd.validate(d.message(u)); err != nil {
		return d.Kind, sd.Subkind, fmt.Errorf("%s.%w", d.Kind, err)
	}
	return d.Kind, sd.Subkind, nil
}

// MatchingSubkinds returns every registered sub-kind present on m, in
// priority order. The first element, if any, is what Classify reports.
func MatchingSubkinds(m *telegram.Message) []Subkind {
	if m == nil {
		return nil
	}
	var out []Subkind
	for i := range subkindTable {
		if subkindTable[i].present(m) {
			out = append(out, subkindTable[i].Subkind)
		}
	}
	return out
}

func matchKind(u *telegram.Update) (KindDescriptor, any, bool) {
	for _, d := range kindTable {
		if p, ok := d.payload(u); ok {
			return d, p, true
		}
	}
	return KindDescriptor{}, nil, false
}

func matchSubkind(m *telegram.Message) (SubkindDescriptor, bool) {
	if m == nil {
		return SubkindDescriptor{}, false
	}
	for _, d := range subkindTable {
		if d.present(m) {
			return d, true
		}
	}
	return SubkindDescriptor{}, false
}

func unknownTag(u *telegram.Update) error {
	keys := u.UnknownKeys()
	if len(keys) == 0 {
		return fmt.Errorf("%w: <empty>", ErrUnknownKind)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, keys[0])
}
