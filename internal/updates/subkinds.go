package updates

import (
	"fmt"
	"reflect"

	"github.com/tbourn/go-tg-updates/internal/telegram"
)

// Subkind is the payload shape of a message-bearing update, named by the
// property the access object exposes it under.
type Subkind string

// SubkindNone is the classification of a message that carries none of the
// registered payload fields.
const SubkindNone Subkind = ""

// Message sub-kinds.
const (
	SubkindVoice                 Subkind = "voice"
	SubkindVideoNote             Subkind = "video_note"
	SubkindVideo                 Subkind = "video"
	SubkindAnimation             Subkind = "animation"
	SubkindVenue                 Subkind = "venue"
	SubkindText                  Subkind = "text"
	SubkindSupergroupChatCreated Subkind = "supergroup_chat_created"
	SubkindSuccessfulPayment     Subkind = "successful_payment"
	SubkindSticker               Subkind = "sticker"
	SubkindPinnedMessage         Subkind = "pinned_message"
	SubkindPhoto                 Subkind = "photo"
	SubkindNewChatTitle          Subkind = "new_chat_title"
	SubkindNewChatPhoto          Subkind = "new_chat_photo"
	SubkindNewChatMembers        Subkind = "new_chat_members"
	SubkindMigrateToChatID       Subkind = "migrate_to_chat_id"
	SubkindMigrateFromChatID     Subkind = "migrate_from_chat_id"
	SubkindLocation              Subkind = "location"
	SubkindLeftChatMember        Subkind = "left_chat_member"
	SubkindInvoice               Subkind = "invoice"
	SubkindGroupChatCreated      Subkind = "group_chat_created"
	SubkindGame                  Subkind = "game"
	SubkindDice                  Subkind = "dice"
	SubkindDocument              Subkind = "document"
	SubkindDeleteChatPhoto       Subkind = "delete_chat_photo"
	SubkindContact               Subkind = "contact"
	SubkindChannelChatCreated    Subkind = "channel_chat_created"
	SubkindAudio                 Subkind = "audio"
	SubkindConnectedWebsite      Subkind = "connected_website"
	SubkindPassportData          Subkind = "passport_data"
	SubkindPoll                  Subkind = "poll"
	SubkindForward               Subkind = "forward"
)

// SubkindDescriptor describes one message sub-kind. Field is the raw message
// field that carries the payload; Property is the name the access object
// exposes it under. The two differ only for forwarded messages.
type SubkindDescriptor struct {
	Subkind     Subkind
	Field       string
	Property    string
	PayloadType string
	Priority    int

	present  func(*telegram.Message) bool
	payload  func(*telegram.Message) any
	validate func(*telegram.Message) error
}

// Renamed reports whether the exposed property differs from the raw field.
func (d SubkindDescriptor) Renamed() bool { return d.Field != d.Property }

func describeSubkind[T any](
	field, property string,
	get func(*telegram.Message) T,
	present func(T) bool,
	check func(T) error,
) SubkindDescriptor {
	return SubkindDescriptor{
		Subkind:     Subkind(property),
		Field:       field,
		Property:    property,
		PayloadType: reflect.TypeFor[T]().String(),
		present:     func(m *telegram.Message) bool { return present(get(m)) },
		payload:     func(m *telegram.Message) any { return get(m) },
		validate: func(m *telegram.Message) error {
			if check == nil {
				return nil
			}
			if err := check(get(m)); err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			return nil
		},
	}
}

func sub[T any](field string, get func(*telegram.Message) T, present func(T) bool, check func(T) error) SubkindDescriptor {
	return describeSubkind(field, field, get, present, check)
}

func notNil[T any](p *T) bool { return p != nil }
func nonEmpty(s string) bool { return s != "" }
func nonZero(n int64) bool { return n != 0 }
func isSet(b bool) bool { return b }
func listed[T any](s []T) bool { return s != nil }
func mandatory(what string, ok bool) error { return require(what, ok) }

func fileID(id string) error { return mandatory("file_id", id != "") }

func photoSizes(p []telegram.PhotoSize) error {
	if len(p) == 0 {
		return mandatory("photo sizes", false)
	}
	for _, s := range p {
		if err := fileID(s.FileID); err != nil {
			return err
		}
	}
	return nil
}

// subkindTable is the registry in priority order: when a message carries
// several registered fields, the earliest entry wins.
var subkindTable = []SubkindDescriptor{
	sub("voice", func(m *telegram.Message) *telegram.Voice { return m.Voice }, notNil,
		func(v *telegram.Voice) error { return fileID(v.FileID) }),
	sub("video_note", func(m *telegram.Message) *telegram.VideoNote { return m.VideoNote }, notNil,
		func(v *telegram.VideoNote) error { return fileID(v.FileID) }),
	sub("video", func(m *telegram.Message) *telegram.Video { return m.Video }, notNil,
		func(v *telegram.Video) error { return fileID(v.FileID) }),
	sub("animation", func(m *telegram.Message) *telegram.Animation { return m.Animation }, notNil,
		func(a *telegram.Animation) error { return fileID(a.FileID) }),
	sub("venue", func(m *telegram.Message) *telegram.Venue { return m.Venue }, notNil,
		func(v *telegram.Venue) error { return mandatory("title", v.Title != "") }),
	sub("text", func(m *telegram.Message) string { return m.Text }, nonEmpty, nil),
	sub("supergroup_chat_created", func(m *telegram.Message) bool { return m.SupergroupChatCreated }, isSet, nil),
	sub("successful_payment", func(m *telegram.Message) *telegram.SuccessfulPayment { return m.SuccessfulPayment }, notNil,
		func(p *telegram.SuccessfulPayment) error { return mandatory("currency", p.Currency != "") }),
	sub("sticker", func(m *telegram.Message) *telegram.Sticker { return m.Sticker }, notNil,
		func(s *telegram.Sticker) error { return fileID(s.FileID) }),
	sub("pinned_message", func(m *telegram.Message) *telegram.Message { return m.PinnedMessage }, notNil, nil),
	sub("photo", func(m *telegram.Message) []telegram.PhotoSize { return m.Photo }, listed, photoSizes),
	sub("new_chat_title", func(m *telegram.Message) string { return m.NewChatTitle }, nonEmpty, nil),
	sub("new_chat_photo", func(m *telegram.Message) []telegram.PhotoSize { return m.NewChatPhoto }, listed, photoSizes),
	sub("new_chat_members", func(m *telegram.Message) []telegram.User { return m.NewChatMembers }, listed,
		func(u []telegram.User) error { return mandatory("members", len(u) > 0) }),
	sub("migrate_to_chat_id", func(m *telegram.Message) int64 { return m.MigrateToChatID }, nonZero, nil),
	sub("migrate_from_chat_id", func(m *telegram.Message) int64 { return m.MigrateFromChatID }, nonZero, nil),
	sub("location", func(m *telegram.Message) *telegram.Location { return m.Location }, notNil, nil),
	sub("left_chat_member", func(m *telegram.Message) *telegram.User { return m.LeftChatMember }, notNil,
		func(u *telegram.User) error { return mandatory("id", u.ID != 0) }),
	sub("invoice", func(m *telegram.Message) *telegram.Invoice { return m.Invoice }, notNil,
		func(i *telegram.Invoice) error { return mandatory("title", i.Title != "") }),
	sub("group_chat_created", func(m *telegram.Message) bool { return m.GroupChatCreated }, isSet, nil),
	sub("game", func(m *telegram.Message) *telegram.Game { return m.Game }, notNil,
		func(g *telegram.Game) error { return mandatory("title", g.Title != "") }),
	sub("dice", func(m *telegram.Message) *telegram.Dice { return m.Dice }, notNil,
		func(d *telegram.Dice) error { return mandatory("emoji", d.Emoji != "") }),
	sub("document", func(m *telegram.Message) *telegram.Document { return m.Document }, notNil,
		func(d *telegram.Document) error { return fileID(d.FileID) }),
	sub("delete_chat_photo", func(m *telegram.Message) bool { return m.DeleteChatPhoto }, isSet, nil),
	sub("contact", func(m *telegram.Message) *telegram.Contact { return m.Contact }, notNil,
		func(c *telegram.Contact) error { return mandatory("phone_number", c.PhoneNumber != "") }),
	sub("channel_chat_created", func(m *telegram.Message) bool { return m.ChannelChatCreated }, isSet, nil),
	sub("audio", func(m *telegram.Message) *telegram.Audio { return m.Audio }, notNil,
		func(a *telegram.Audio) error { return fileID(a.FileID) }),
	sub("connected_website", func(m *telegram.Message) string { return m.ConnectedWebsite }, nonEmpty, nil),
	sub("passport_data", func(m *telegram.Message) *telegram.PassportData { return m.PassportData }, notNil, nil),
	sub("poll", func(m *telegram.Message) *telegram.Poll { return m.Poll }, notNil,
		func(p *telegram.Poll) error { return mandatory("id", p.ID != "") }),
	describeSubkind("forward_date", "forward", func(m *telegram.Message) int64 { return m.ForwardDate }, nonZero, nil),
}

var (
	subkindIndex = make(map[Subkind]int, len(subkindTable))
	fieldIndex   = make(map[string]int, len(subkindTable))
	// reverseIndex maps an exposed property back to its raw field name.
	reverseIndex = make(map[string]string, len(subkindTable))
)

func init() {
	renamed := 0
	for i := range subkindTable {
		d := &subkindTable[i]
		d.Priority = i
		if _, dup := fieldIndex[d.Field]; dup {
			panic("updates: duplicate sub-kind field " + d.Field)
		}
		if _, dup := reverseIndex[d.Property]; dup {
			panic("updates: duplicate sub-kind property " + d.Property)
		}
		if d.Renamed() {
			renamed++
		}
		subkindIndex[d.Subkind] = i
		fieldIndex[d.Field] = i
		reverseIndex[d.Property] = d.Field
	}
	if renamed != 1 {
		panic(fmt.Sprintf("updates: expected exactly one renamed sub-kind, found %d", renamed))
	}
}

// LookupSubkind returns the descriptor registered for s.
func LookupSubkind(s Subkind) (SubkindDescriptor, error) {
	i, ok := subkindIndex[s]
	if !ok {
		return SubkindDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownSubkind, string(s))
	}
	return subkindTable[i], nil
}

// SubkindByField returns the sub-kind whose raw message field is field.
func SubkindByField(field string) (SubkindDescriptor, error) {
	i, ok := fieldIndex[field]
	if !ok {
		return SubkindDescriptor{}, fmt.Errorf("%w: field %q", ErrUnknownSubkind, field)
	}
	return subkindTable[i], nil
}

// ReverseLookup maps an exposed property name back to the raw message field
// that carries it.
func ReverseLookup(property string) (string, error) {
	field, ok := reverseIndex[property]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProperty, property)
	}
	return field, nil
}

// Subkinds returns every registered sub-kind in priority order.
func Subkinds() []SubkindDescriptor {
	out := make([]SubkindDescriptor, len(subkindTable))
	copy(out, subkindTable)
	return out
}

// Known reports whether s is a registered sub-kind.
func (s Subkind) Known() bool {
	_, ok := subkindIndex[s]
	return ok
}
