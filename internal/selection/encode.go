// Package selection converts between a customer's chosen catalog items and
// the delimited "detail" string persisted on each order.
//
// Two token formats exist in stored data:
//
//	[Grade1] (Math) Book1   current format, the only one written
//	[Grade1] Book1          legacy format, subject recovered from the catalog
//
// Tokens are joined with " | ".
package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/shopspring/decimal"
)

// Separator joins tokens inside a detail string.
const Separator = " | "

// ErrReservedText is returned for catalog values that would not survive a
// round trip through a detail string.
var ErrReservedText = errors.New("catalog text uses a reserved character")

// CheckItem reports whether it can be written as a token and read back.
// A "|" anywhere can merge with the separator, and "]" would end the grade
// bracket early. Parentheses in subjects and names are allowed.
func CheckItem(it catalog.Item) error {
	for _, f := range []struct{ field, value string }{
		{"grade", it.Grade}, {"subject", it.Subject}, {"name", it.Name},
	} {
		if strings.Contains(f.value, "|") {
			return fmt.Errorf("%w: %s %q contains \"|\"", ErrReservedText, f.field, f.value)
		}
	}
	if strings.Contains(it.Grade, "]") {
		return fmt.Errorf("%w: grade %q contains \"]\"", ErrReservedText, it.Grade)
	}
	return nil
}

// Entry is the structured form of one purchased item.
type Entry struct {
	Grade   string `json:"grade"`
	Subject string `json:"subject"`
	Item    string `json:"item"`
}

// EntryFor returns the entry describing a catalog item.
func EntryFor(it catalog.Item) Entry {
	return Entry{Grade: it.Grade, Subject: it.Subject, Item: it.Name}
}

// Token renders the entry in the current "[grade] (subject) item" format.
func (e Entry) Token() string {
	return "[" + e.Grade + "] (" + e.Subject + ") " + e.Item
}

// LegacyToken renders the entry in the old "[grade] item" format.
func (e Entry) LegacyToken() string {
	return "[" + e.Grade + "] " + e.Item
}

// Flags marks which catalog items are selected.
type Flags map[catalog.Key]bool

// Encoded is the result of encoding a selection.
type Encoded struct {
	Entries []Entry
	Detail  string
	Total   decimal.Decimal
}

// Encode walks the catalog in order and emits one entry per selected item.
// Keys in flags that are not in the catalog are ignored. An empty selection
// encodes to an empty detail and a zero total.
func Encode(c *catalog.Catalog, flags Flags) Encoded {
	out := Encoded{Total: decimal.Zero}
	for _, it := range c.Items() {
		if !flags[it.Key()] {
			continue
		}
		out.Entries = append(out.Entries, EntryFor(it))
		out.Total = out.Total.Add(it.Price)
	}
	out.Detail = Join(out.Entries)
	return out
}

// Join serializes entries into a detail string.
func Join(entries []Entry) string {
	tokens := make([]string, len(entries))
	for i, e := range entries {
		tokens[i] = e.Token()
	}
	return strings.Join(tokens, Separator)
}

// Tokens splits a detail string into its non-empty tokens.
func Tokens(detail string) []string {
	if strings.TrimSpace(detail) == "" {
		return nil
	}
	parts := strings.Split(detail, Separator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Selected reports whether it appears in detail in either token format.
// Used to pre-check items when an existing order is edited.
func Selected(detail string, it catalog.Item) bool {
	e := EntryFor(it)
	for _, tok := range Tokens(detail) {
		if tok == e.Token() || tok == e.LegacyToken() {
			return true
		}
	}
	return false
}

// FlagsFromDetail returns the catalog items already present in detail.
func FlagsFromDetail(detail string, c *catalog.Catalog) Flags {
	set := make(map[string]bool)
	for _, tok := range Tokens(detail) {
		set[tok] = true
	}
	flags := make(Flags)
	for _, it := range c.Items() {
		e := EntryFor(it)
		if set[e.Token()] || set[e.LegacyToken()] {
			flags[it.Key()] = true
		}
	}
	return flags
}
