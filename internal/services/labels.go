package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-tg-updates/internal/updates"
)

// Label renders a registry name such as "chosen_inline_result" for display:
// "Chosen Inline Result". The empty sub-kind renders as "None".
func Label(name string) string {
	if name == "" {
		return "None"
	}
	// Casers are stateful; build one per call.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// KindRow is one row of the kind registry listing.
type KindRow struct {
	Kind           updates.Kind `json:"kind"`
	Label          string       `json:"label"`
	Property       string       `json:"property"`
	PayloadType    string       `json:"payload_type"`
	MessageBearing bool         `json:"message_bearing"`
}

// SubkindRow is one row of the sub-kind registry listing.
type SubkindRow struct {
	Priority    int             `json:"priority"`
	Subkind     updates.Subkind `json:"subkind"`
	Label       string          `json:"label"`
	Field       string          `json:"field"`
	Property    string          `json:"property"`
	PayloadType string          `json:"payload_type"`
	Renamed     bool            `json:"renamed"`
}

// KindRows lists the kind registry in registry order.
func KindRows() []KindRow {
	ks := updates.Kinds()
	out := make([]KindRow, 0, len(ks))
	for _, d := range ks {
		out = append(out, KindRow{
			Kind:           d.Kind,
			Label:          Label(string(d.Kind)),
			Property:       d.Property,
			PayloadType:    d.PayloadType,
			MessageBearing: d.MessageBearing,
		})
	}
	return out
}

// SubkindRows lists the sub-kind registry in priority order.
func SubkindRows() []SubkindRow {
	ss := updates.Subkinds()
	out := make([]SubkindRow, 0, len(ss))
	for _, d := range ss {
		out = append(out, SubkindRow{
			Priority:    d.Priority,
			Subkind:     d.Subkind,
			Label:       Label(string(d.Subkind)),
			Field:       d.Field,
			Property:    d.Property,
			PayloadType: d.PayloadType,
			Renamed:     d.Renamed(),
		})
	}
	return out
}
