package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/money"
	"github.com/schoolsupply/orderdesk/internal/selection"
)

// Catalog column titles.
const (
	colGrade   = "Grado"
	colSubject = "Area"
	colItem    = "Libro"
	colCost    = "Costo"
	colPrice   = "Precio Venta"
	colProfit  = "Ganancia"
)

// ReadCatalog parses an "Inventario" export. Grado and Libro are required;
// missing Costo or Precio Venta columns read as zero.
func ReadCatalog(r io.Reader) ([]catalog.Item, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, nil
	}
	if err := h.require(colGrade, colItem); err != nil {
		return nil, err
	}

	var items []catalog.Item
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		it := catalog.Item{
			Grade:   h.get(rec, colGrade),
			Subject: h.get(rec, colSubject, "Materia"),
			Name:    h.get(rec, colItem),
			Cost:    money.Parse(h.get(rec, colCost)),
			Price:   money.Parse(h.get(rec, colPrice, "Precio")),
		}
		if err := selection.CheckItem(it); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// WriteCatalog writes items with the derived Ganancia column.
func WriteCatalog(w io.Writer, items []catalog.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colGrade, colSubject, colItem, colCost, colPrice, colProfit}); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write([]string{
			it.Grade,
			it.Subject,
			it.Name,
			it.Cost.String(),
			it.Price.String(),
			it.Profit().String(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
