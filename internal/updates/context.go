package updates

import (
	"encoding/json"
	"fmt"

	"github.com/tbourn/go-tg-updates/internal/telegram"
)

// Context is the access object for one classified update. The property of the
// matched kind holds its payload; the property of every other kind holds the
// absent marker. When a message sub-kind matched, Payload holds that field's
// value and PayloadProperty names it.
type Context struct {
	Kind    Kind
	Subkind Subkind
	Update  *telegram.Update

	Message            Field[*telegram.Message]
	EditedMessage      Field[*telegram.Message]
	ChannelPost        Field[*telegram.Message]
	EditedChannelPost  Field[*telegram.Message]
	InlineQuery        Field[*telegram.InlineQuery]
	ChosenInlineResult Field[*telegram.ChosenInlineResult]
	CallbackQuery      Field[*telegram.CallbackQuery]
	ShippingQuery      Field[*telegram.ShippingQuery]
	PreCheckoutQuery   Field[*telegram.PreCheckoutQuery]
	Poll               Field[*telegram.Poll]
	PollAnswer         Field[*telegram.PollAnswer]
	MyChatMember       Field[*telegram.ChatMemberUpdated]
	ChatMember         Field[*telegram.ChatMemberUpdated]
	ChatJoinRequest    Field[*telegram.ChatJoinRequest]

	Payload         Field[any]
	PayloadProperty string
}

// New classifies u and builds its access object.
func New(u *telegram.Update) (*Context, error) {
	kind, sub, err := Classify(u)
	if err != nil {
		return nil, err
	}
	return Build(u, kind, sub)
}

// Build constructs the access object for u as kind (and sub-kind, for
// message-bearing kinds). It fails when kind or sub is not registered, or when
// u does not actually carry the payload they name.
//
// Every kind property starts as the absent marker (the zero Field); only the
// matched kind's property is set.
func Build(u *telegram.Update, kind Kind, sub Subkind) (*Context, error) {
	if u == nil {
		return nil, ErrNilUpdate
	}
	d, err := LookupKind(kind)
	if err != nil {
		return nil, err
	}
	if _, ok := d.payload(u); !ok {
		return nil, fmt.Errorf("%w: update carries no %s payload", ErrMalformedPayload, kind)
	}

	c := &Context{Kind: kind, Subkind: SubkindNone, Update: u}
	d.attach(c, u)

	if sub == SubkindNone {
		return c, nil
	}
	if !d.MessageBearing {
		return nil, fmt.Errorf("%w: %s updates have no message sub-kind", ErrMalformedPayload, kind)
	}
	sd, err := LookupSubkind(sub)
	if err != nil {
		return nil, err
	}
	m := d.message(u)
	if !sd.present(m) {
		return nil, fmt.Errorf("%w: %s has no %s field", ErrMalformedPayload, kind, sd.Field)
	}
	c.Subkind = sub
	c.Payload = Present(sd.payload(m))
	c.PayloadProperty = sd.Property
	return c, nil
}

// Property returns the value behind a canonical kind property such as
// "callbackQuery": present for the matched kind, absent for every other.
func (c *Context) Property(name string) (Field[any], error) {
	d, err := KindByProperty(name)
	if err != nil {
		return Absent[any](), err
	}
	if d.Kind != c.Kind {
		return Absent[any](), nil
	}
	p, _ := d.payload(c.Update)
	return Present(p), nil
}

// SubProperty returns the value behind an exposed sub-kind property such as
// "forward": present for the matched sub-kind, absent for every other.
func (c *Context) SubProperty(name string) (Field[any], error) {
	if _, err := ReverseLookup(name); err != nil {
		return Absent[any](), err
	}
	if c.Subkind == SubkindNone || name != c.PayloadProperty {
		return Absent[any](), nil
	}
	return c.Payload, nil
}

// EffectiveMessage returns the message of a message-bearing update, or the
// message a callback query button was attached to.
func (c *Context) EffectiveMessage() Field[*telegram.Message] {
	switch {
	case c.Message.IsPresent():
		return c.Message
	case c.EditedMessage.IsPresent():
		return c.EditedMessage
	case c.ChannelPost.IsPresent():
		return c.ChannelPost
	case c.EditedChannelPost.IsPresent():
		return c.EditedChannelPost
	}
	if q, ok := c.CallbackQuery.Get(); ok && q.Message != nil {
		return Present(q.Message)
	}
	return Absent[*telegram.Message]()
}

// From returns the user that triggered the update, when the kind has one.
func (c *Context) From() Field[*telegram.User] {
	var u *telegram.User
	switch c.Kind {
	case KindMessage, KindEditedMessage, KindChannelPost, KindEditedChannelPost:
		u = c.EffectiveMessage().OrElse(&telegram.Message{}).From
	case KindInlineQuery:
		u = c.InlineQuery.MustGet().From
	case KindChosenInlineResult:
		u = c.ChosenInlineResult.MustGet().From
	case KindCallbackQuery:
		u = c.CallbackQuery.MustGet().From
	case KindShippingQuery:
		u = c.ShippingQuery.MustGet().From
	case KindPreCheckoutQuery:
		u = c.PreCheckoutQuery.MustGet().From
	case KindPollAnswer:
		u = c.PollAnswer.MustGet().User
	case KindMyChatMember:
		u = c.MyChatMember.MustGet().From
	case KindChatMember:
		u = c.ChatMember.MustGet().From
	case KindChatJoinRequest:
		u = c.ChatJoinRequest.MustGet().From
	}
	if u == nil {
		return Absent[*telegram.User]()
	}
	return Present(u)
}

// Chat returns the chat the update belongs to, when the kind has one.
func (c *Context) Chat() Field[*telegram.Chat] {
	var ch *telegram.Chat
	switch c.Kind {
	case KindMessage, KindEditedMessage, KindChannelPost, KindEditedChannelPost, KindCallbackQuery:
		if m, ok := c.EffectiveMessage().Get(); ok {
			ch = m.Chat
		}
	case KindMyChatMember:
		ch = c.MyChatMember.MustGet().Chat
	case KindChatMember:
		ch = c.ChatMember.MustGet().Chat
	case KindChatJoinRequest:
		ch = c.ChatJoinRequest.MustGet().Chat
	}
	if ch == nil {
		return Absent[*telegram.Chat]()
	}
	return Present(ch)
}

// contextJSON fixes the wire shape of an access object: every canonical kind
// property is always emitted, absent ones as null.
type contextJSON struct {
	Kind               Kind                               `json:"kind"`
	Subkind            Subkind                            `json:"subkind"`
	UpdateID           int64                              `json:"update_id"`
	Message            Field[*telegram.Message]           `json:"message"`
	EditedMessage      Field[*telegram.Message]           `json:"editedMessage"`
	ChannelPost        Field[*telegram.Message]           `json:"channelPost"`
	EditedChannelPost  Field[*telegram.Message]           `json:"editedChannelPost"`
	InlineQuery        Field[*telegram.InlineQuery]       `json:"inlineQuery"`
	ChosenInlineResult Field[*telegram.ChosenInlineResult] `json:"chosenInlineResult"`
	CallbackQuery      Field[*telegram.CallbackQuery]     `json:"callbackQuery"`
	ShippingQuery      Field[*telegram.ShippingQuery]     `json:"shippingQuery"`
	PreCheckoutQuery   Field[*telegram.PreCheckoutQuery]  `json:"preCheckoutQuery"`
	Poll               Field[*telegram.Poll]              `json:"poll"`
	PollAnswer         Field[*telegram.PollAnswer]        `json:"pollAnswer"`
	MyChatMember       Field[*telegram.ChatMemberUpdated] `json:"myChatMember"`
	ChatMember         Field[*telegram.ChatMemberUpdated] `json:"chatMember"`
	ChatJoinRequest    Field[*telegram.ChatJoinRequest]   `json:"chatJoinRequest"`
	Payload            map[string]any                     `json:"payload,omitempty"`
}

// MarshalJSON encodes the access object with absent properties as null.
func (c *Context) MarshalJSON() ([]byte, error) {
	out := contextJSON{
		Kind:               c.Kind,
		Subkind:            c.Subkind,
		Message:            c.Message,
		EditedMessage:      c.EditedMessage,
		ChannelPost:        c.ChannelPost,
		EditedChannelPost:  c.EditedChannelPost,
		InlineQuery:        c.InlineQuery,
		ChosenInlineResult: c.ChosenInlineResult,
		CallbackQuery:      c.CallbackQuery,
		ShippingQuery:      c.ShippingQuery,
		PreCheckoutQuery:   c.PreCheckoutQuery,
		Poll:               c.Poll,
		PollAnswer:         c.PollAnswer,
		MyChatMember:       c.MyChatMember,
		ChatMember:         c.ChatMember,
		ChatJoinRequest:    c.ChatJoinRequest,
	}
	if c.Update != nil {
		out.UpdateID = c.Update.UpdateID
	}
	if v, ok := c.Payload.Get(); ok {
		out.Payload = map[string]any{c.PayloadProperty: v}
	}
	return json.Marshal(out)
}
