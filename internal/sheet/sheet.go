// Package sheet reads and writes the CSV exports of the legacy spreadsheet
// (the "Inventario" and "Pedidos" worksheets).
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/schoolsupply/orderdesk/internal/selection"
)

// TimeLayout is how the spreadsheet stores timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("sheet: missing column")

// header maps normalized column titles to their index.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	titles, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return header{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(titles))
	for i, t := range titles {
		// Normalize also drops a leading byte order mark.
		k := selection.Normalize(t)
		if _, ok := h[k]; !ok {
			h[k] = i
		}
	}
	return h, nil
}

// require checks that every named column is present.
func (h header) require(names ...string) error {
	for _, n := range names {
		if _, ok := h[selection.Normalize(n)]; !ok {
			return fmt.Errorf("%w %q", ErrMissingColumn, n)
		}
	}
	return nil
}

// get returns the trimmed cell for the first present alias, or "".
func (h header) get(rec []string, names ...string) string {
	for _, n := range names {
		i, ok := h[selection.Normalize(n)]
		if !ok || i >= len(rec) {
			continue
		}
		return strings.TrimSpace(rec[i])
	}
	return ""
}

func (h header) has(names ...string) bool {
	for _, n := range names {
		if _, ok := h[selection.Normalize(n)]; ok {
			return true
		}
	}
	return false
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}
