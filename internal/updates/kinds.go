package updates

import (
	"fmt"
	"reflect"

	"github.com/tbourn/go-tg-updates/internal/telegram"
)

// Kind is the top-level variant of an update, named by its wire field.
type Kind string

// Update kinds, in the order the platform documents them.
const (
	KindMessage            Kind = "message"
	KindEditedMessage      Kind = "edited_message"
	KindChannelPost        Kind = "channel_post"
	KindEditedChannelPost  Kind = "edited_channel_post"
	KindInlineQuery        Kind = "inline_query"
	KindChosenInlineResult Kind = "chosen_inline_result"
	KindCallbackQuery      Kind = "callback_query"
	KindShippingQuery      Kind = "shipping_query"
	KindPreCheckoutQuery   Kind = "pre_checkout_query"
	KindPoll               Kind = "poll"
	KindPollAnswer         Kind = "poll_answer"
	KindMyChatMember       Kind = "my_chat_member"
	KindChatMember         Kind = "chat_member"
	KindChatJoinRequest    Kind = "chat_join_request"
)

// KindDescriptor describes one update kind: the canonical property the access
// object publishes its payload under and the payload's type.
type KindDescriptor struct {
	Kind           Kind
	Property       string
	PayloadType    string
	MessageBearing bool

	payload  func(*telegram.Update) (any, bool)
	message  func(*telegram.Update) *telegram.Message
	validate func(any) error
	attach   func(*Context, *telegram.Update)
}

func describeKind[T any](
	k Kind,
	property string,
	get func(*telegram.Update) *T,
	slot func(*Context) *Field[*T],
	check func(*T) error,
) KindDescriptor {
	d := KindDescriptor{
		Kind:        k,
		Property:    property,
		PayloadType: reflect.TypeFor[T]().Name(),
		payload: func(u *telegram.Update) (any, bool) {
			p := get(u)
			return p, p != nil
		},
		validate: func(v any) error {
			if check == nil {
				return nil
			}
			return check(v.(*T))
		},
		attach: func(c *Context, u *telegram.Update) {
			*slot(c) = Present(get(u))
		},
	}
	if _, ok := any((*T)(nil)).(*telegram.Message); ok {
		d.MessageBearing = true
		d.message = func(u *telegram.Update) *telegram.Message {
			m, _ := any(get(u)).(*telegram.Message)
			return m
		}
	}
	return d
}

func require(what string, ok bool) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: missing %s", ErrMalformedPayload, what)
}

var kindTable = []KindDescriptor{
	describeKind(KindMessage, "message",
		func(u *telegram.Update) *telegram.Message { return u.Message },
		func(c *Context) *Field[*telegram.Message] { return &c.Message }, nil),
	describeKind(KindEditedMessage, "editedMessage",
		func(u *telegram.Update) *telegram.Message { return u.EditedMessage },
		func(c *Context) *Field[*telegram.Message] { return &c.EditedMessage }, nil),
	describeKind(KindChannelPost, "channelPost",
		func(u *telegram.Update) *telegram.Message { return u.ChannelPost },
		func(c *Context) *Field[*telegram.Message] { return &c.ChannelPost }, nil),
	describeKind(KindEditedChannelPost, "editedChannelPost",
		func(u *telegram.Update) *telegram.Message { return u.EditedChannelPost },
		func(c *Context) *Field[*telegram.Message] { return &c.EditedChannelPost }, nil),
	describeKind(KindInlineQuery, "inlineQuery",
		func(u *telegram.Update) *telegram.InlineQuery { return u.InlineQuery },
		func(c *Context) *Field[*telegram.InlineQuery] { return &c.InlineQuery },
		func(q *telegram.InlineQuery) error { return require("inline_query.id", q.ID != "") }),
	describeKind(KindChosenInlineResult, "chosenInlineResult",
		func(u *telegram.Update) *telegram.ChosenInlineResult { return u.ChosenInlineResult },
		func(c *Context) *Field[*telegram.ChosenInlineResult] { return &c.ChosenInlineResult },
		func(r *telegram.ChosenInlineResult) error {
			return require("chosen_inline_result.result_id", r.ResultID != "")
		}),
	describeKind(KindCallbackQuery, "callbackQuery",
		func(u *telegram.Update) *telegram.CallbackQuery { return u.CallbackQuery },
		func(c *Context) *Field[*telegram.CallbackQuery] { return &c.CallbackQuery },
		func(q *telegram.CallbackQuery) error { return require("callback_query.id", q.ID != "") }),
	describeKind(KindShippingQuery, "shippingQuery",
		func(u *telegram.Update) *telegram.ShippingQuery { return u.ShippingQuery },
		func(c *Context) *Field[*telegram.ShippingQuery] { return &c.ShippingQuery },
		func(q *telegram.ShippingQuery) error { return require("shipping_query.id", q.ID != "") }),
	describeKind(KindPreCheckoutQuery, "preCheckoutQuery",
		func(u *telegram.Update) *telegram.PreCheckoutQuery { return u.PreCheckoutQuery },
		func(c *Context) *Field[*telegram.PreCheckoutQuery] { return &c.PreCheckoutQuery },
		func(q *telegram.PreCheckoutQuery) error { return require("pre_checkout_query.id", q.ID != "") }),
	describeKind(KindPoll, "poll",
		func(u *telegram.Update) *telegram.Poll { return u.Poll },
		func(c *Context) *Field[*telegram.Poll] { return &c.Poll },
		func(p *telegram.Poll) error { return require("poll.id", p.ID != "") }),
	describeKind(KindPollAnswer, "pollAnswer",
		func(u *telegram.Update) *telegram.PollAnswer { return u.PollAnswer },
		func(c *Context) *Field[*telegram.PollAnswer] { return &c.PollAnswer },
		func(a *telegram.PollAnswer) error { return require("poll_answer.poll_id", a.PollID != "") }),
	describeKind(KindMyChatMember, "myChatMember",
		func(u *telegram.Update) *telegram.ChatMemberUpdated { return u.MyChatMember },
		func(c *Context) *Field[*telegram.ChatMemberUpdated] { return &c.MyChatMember },
		func(m *telegram.ChatMemberUpdated) error { return require("my_chat_member.chat", m.Chat != nil) }),
	describeKind(KindChatMember, "chatMember",
		func(u *telegram.Update) *telegram.ChatMemberUpdated { return u.ChatMember },
		func(c *Context) *Field[*telegram.ChatMemberUpdated] { return &c.ChatMember },
		func(m *telegram.ChatMemberUpdated) error { return require("chat_member.chat", m.Chat != nil) }),
	describeKind(KindChatJoinRequest, "chatJoinRequest",
		func(u *telegram.Update) *telegram.ChatJoinRequest { return u.ChatJoinRequest },
		func(c *Context) *Field[*telegram.ChatJoinRequest] { return &c.ChatJoinRequest },
		func(r *telegram.ChatJoinRequest) error { return require("chat_join_request.chat", r.Chat != nil) }),
}

var (
	kindIndex      = make(map[Kind]int, len(kindTable))
	kindByProperty = make(map[string]int, len(kindTable))
)

func init() {
	for i, d := range kindTable {
		if _, dup := kindIndex[d.Kind]; dup {
			panic("updates: duplicate kind " + string(d.Kind))
		}
		if _, dup := kindByProperty[d.Property]; dup {
			panic("updates: duplicate kind property " + d.Property)
		}
		kindIndex[d.Kind] = i
		kindByProperty[d.Property] = i
	}
}

// LookupKind returns the descriptor registered for k.
func LookupKind(k Kind) (KindDescriptor, error) {
	i, ok := kindIndex[k]
	if !ok {
		return KindDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
	return kindTable[i], nil
}

// KindByProperty returns the kind whose canonical property is name.
func KindByProperty(name string) (KindDescriptor, error) {
	i, ok := kindByProperty[name]
	if !ok {
		return KindDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	return kindTable[i], nil
}

// Kinds returns every registered kind descriptor in registry order.
func Kinds() []KindDescriptor {
	out := make([]KindDescriptor, len(kindTable))
	copy(out, kindTable)
	return out
}

// Known reports whether k is a registered kind.
func (k Kind) Known() bool {
	_, ok := kindIndex[k]
	return ok
}

// MessageBearing reports whether updates of kind k carry a Message payload.
func (k Kind) MessageBearing() bool {
	i, ok := kindIndex[k]
	return ok && kindTable[i].MessageBearing
}
