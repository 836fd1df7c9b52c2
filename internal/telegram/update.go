package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"
)

// ErrEmptyPayload is returned by Decode when there is nothing to decode.
var ErrEmptyPayload = errors.New("telegram: empty update payload")

// Update is one inbound event. The platform sets exactly one of the payload
// fields; which one is set is the update's tag.
//
// Top-level keys this version does not model (update kinds introduced by a
// newer Bot API) are kept in Unknown so callers can tell a foreign tag apart
// from an empty object.
type Update struct {
	UpdateID           int64               `json:"update_id"`
	Message            *Message            `json:"message,omitempty"`
	EditedMessage      *Message            `json:"edited_message,omitempty"`
	ChannelPost        *Message            `json:"channel_post,omitempty"`
	EditedChannelPost  *Message            `json:"edited_channel_post,omitempty"`
	InlineQuery        *InlineQuery        `json:"inline_query,omitempty"`
	ChosenInlineResult *ChosenInlineResult `json:"chosen_inline_result,omitempty"`
	CallbackQuery      *CallbackQuery      `json:"callback_query,omitempty"`
	ShippingQuery      *ShippingQuery      `json:"shipping_query,omitempty"`
	PreCheckoutQuery   *PreCheckoutQuery   `json:"pre_checkout_query,omitempty"`
	Poll               *Poll               `json:"poll,omitempty"`
	PollAnswer         *PollAnswer         `json:"poll_answer,omitempty"`
	MyChatMember       *ChatMemberUpdated  `json:"my_chat_member,omitempty"`
	ChatMember         *ChatMemberUpdated  `json:"chat_member,omitempty"`
	ChatJoinRequest    *ChatJoinRequest    `json:"chat_join_request,omitempty"`

	// Unknown holds unrecognised top-level keys with non-null values.
	Unknown map[string]json.RawMessage `json:"-"`
}

// modelledKeys are the top-level keys decoded into typed fields.
var modelledKeys = map[string]struct{}{
	"update_id":            {},
	"message":              {},
	"edited_message":       {},
	"channel_post":         {},
	"edited_channel_post":  {},
	"inline_query":         {},
	"chosen_inline_result": {},
	"callback_query":       {},
	"shipping_query":       {},
	"pre_checkout_query":   {},
	"poll":                 {},
	"poll_answer":          {},
	"my_chat_member":       {},
	"chat_member":          {},
	"chat_join_request":    {},
}

// UnmarshalJSON decodes the typed payload fields and records any other
// top-level key in Unknown.
func (u *Update) UnmarshalJSON(data []byte) error {
	type plain Update
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}
	for k, v := range top {
		if _, ok := modelledKeys[k]; ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		if p.Unknown == nil {
			p.Unknown = make(map[string]json.RawMessage)
		}
		p.Unknown[k] = v
	}

	*u = Update(p)
	return nil
}

// UnknownKeys returns the unrecognised top-level keys in lexical order.
func (u *Update) UnknownKeys() []string {
	if u == nil || len(u.Unknown) == 0 {
		return nil
	}
	keys := make([]string, 0, len(u.Unknown))
	for k := range u.Unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode parses a single update from its JSON encoding.
func Decode(data []byte) (*Update, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyPayload
	}
	var u Update
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DecodeReader reads r to the end and parses it with Decode.
func DecodeReader(r io.Reader) (*Update, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
