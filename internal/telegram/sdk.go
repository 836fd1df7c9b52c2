package telegram

import (
	"encoding/json"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-telegram/bot/models"
	"github.com/mymmrac/telego"
)

// The SDK bridges below let bots built on the common Go Bot API clients hand
// their already-decoded updates to this package. All three SDKs keep the wire
// field names in their json tags, so a re-encode is a faithful conversion.

// FromBotAPI converts an update received through go-telegram-bot-api.
func FromBotAPI(u tgbotapi.Update) (*Update, error) {
	return reencode("telegram-bot-api", u)
}

// FromTelego converts an update received through telego.
func FromTelego(u telego.Update) (*Update, error) {
	return reencode("telego", u)
}

// FromGoTelegram converts an update received through go-telegram/bot.
func FromGoTelegram(u *models.Update) (*Update, error) {
	if u == nil {
		return nil, fmt.Errorf("go-telegram: %w", ErrEmptyPayload)
	}
	return reencode("go-telegram", u)
}

// SDK names accepted by DecodeVia.
const (
	SDKBotAPI     = "botapi"
	SDKTelego     = "telego"
	SDKGoTelegram = "go-telegram"
)

// ErrUnknownSDK is returned by DecodeVia for an unsupported SDK name.
var ErrUnknownSDK = errors.New("unknown sdk")

// DecodeVia parses data into the named SDK's Update type and converts the
// result back. Fields the SDK does not model are dropped on the way.
func DecodeVia(sdk string, data []byte) (*Update, error) {
	switch sdk {
	case "":
		return Decode(data)
	case SDKBotAPI:
		var u tgbotapi.Update
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, fmt.Errorf("telegram-bot-api: %w", err)
		}
		return FromBotAPI(u)
	case SDKTelego:
		var u telego.Update
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, fmt.Errorf("telego: %w", err)
		}
		return FromTelego(u)
	case SDKGoTelegram:
		var u models.Update
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, fmt.Errorf("go-telegram: %w", err)
		}
		return FromGoTelegram(&u)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSDK, sdk)
}

func reencode(sdk string, v any) (*Update, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: encode update: %w", sdk, err)
	}
	u, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: decode update: %w", sdk, err)
	}
	return u, nil
}
