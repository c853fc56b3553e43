package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/schoolsupply/orderdesk/internal/enum"
	"github.com/schoolsupply/orderdesk/internal/money"
	"github.com/schoolsupply/orderdesk/internal/selection"
	"github.com/shopspring/decimal"
)

// Order column titles, in export order.
var orderColumns = []string{
	"ID_Pedido", "Fecha_Creacion", "Ultima_Modificacion", "Cliente", "Celular",
	"Detalle", "Total", "Abonado", "Saldo", "Estado", "Comprobante", "Comprobante2",
	"Historial_Cambios",
}

// Order is one row of the "Pedidos" worksheet.
type Order struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Customer  string
	Phone     string
	Detail    string
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Balance   decimal.Decimal
	Status    string
	Receipt1  string
	Receipt2  string
	ChangeLog string
}

var statusByLabel = map[string]string{
	"nuevo":         enum.OrderStatusNew,
	"pagado":        enum.OrderStatusPaidInFull,
	"pagado total":  enum.OrderStatusPaidInFull,
	"abonado":       enum.OrderStatusPartiallyPaid,
	"abono parcial": enum.OrderStatusPartiallyPaid,
	"en impresion":  enum.OrderStatusPrinting,
	"entregado":     enum.OrderStatusDelivered,
	"anulado":       enum.OrderStatusCancelled,
}

var labelByStatus = map[string]string{
	enum.OrderStatusNew:           "Nuevo",
	enum.OrderStatusPartiallyPaid: "Abonado",
	enum.OrderStatusPaidInFull:    "Pagado",
	enum.OrderStatusPrinting:      "En Impresión",
	enum.OrderStatusDelivered:     "Entregado",
	enum.OrderStatusCancelled:     "Anulado",
}

// ParseStatus maps a spreadsheet status label, or an order status constant,
// to the order status. An empty label is New.
func ParseStatus(label string) (string, error) {
	if label == "" {
		return enum.OrderStatusNew, nil
	}
	if enum.IsValidOrderStatus(label) {
		return label, nil
	}
	if s, ok := statusByLabel[selection.Normalize(label)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("sheet: unknown status %q", label)
}

// StatusLabel returns the spreadsheet label for an order status.
func StatusLabel(status string) string {
	if l, ok := labelByStatus[status]; ok {
		return l
	}
	return status
}

// ReadOrders parses a "Pedidos" export. ID_Pedido is required. A missing
// Comprobante2 column defaults to "No"; rows with an empty id are skipped.
// Unparseable timestamps read as the zero time.
func ReadOrders(r io.Reader) ([]Order, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, nil
	}
	if err := h.require("ID_Pedido"); err != nil {
		return nil, err
	}

	var orders []Order
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read order row: %w", err)
		}
		line++

		o := Order{
			ID:        h.get(rec, "ID_Pedido"),
			CreatedAt: parseTime(h.get(rec, "Fecha_Creacion")),
			UpdatedAt: parseTime(h.get(rec, "Ultima_Modificacion")),
			Customer:  h.get(rec, "Cliente"),
			Phone:     h.get(rec, "Celular"),
			Detail:    h.get(rec, "Detalle"),
			Total:     money.Parse(h.get(rec, "Total")),
			Paid:      money.Parse(h.get(rec, "Abonado")),
			Receipt1:  orAbsent(h.get(rec, "Comprobante")),
			Receipt2:  orAbsent(h.get(rec, "Comprobante2")),
			ChangeLog: h.get(rec, "Historial_Cambios"),
		}
		if o.ID == "" {
			continue
		}
		if h.has("Saldo") {
			o.Balance = money.Parse(h.get(rec, "Saldo"))
		} else {
			o.Balance = o.Total.Sub(o.Paid)
		}
		if o.ChangeLog == "" {
			o.ChangeLog = enum.ChangeLogOriginal
		}
		o.Status, err = ParseStatus(h.get(rec, "Estado"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if o.UpdatedAt.IsZero() {
			o.UpdatedAt = o.CreatedAt
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// WriteOrders writes orders in the spreadsheet layout.
func WriteOrders(w io.Writer, orders []Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orderColumns); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write([]string{
			o.ID,
			formatTime(o.CreatedAt),
			formatTime(o.UpdatedAt),
			o.Customer,
			o.Phone,
			o.Detail,
			o.Total.String(),
			o.Paid.String(),
			o.Balance.String(),
			StatusLabel(o.Status),
			orAbsent(o.Receipt1),
			orAbsent(o.Receipt2),
			o.ChangeLog,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseTime(s string) time.Time {
	for _, layout := range []string{TimeLayout, "2006-01-02 15:04", "2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

func orAbsent(ref string) string {
	if ref == "" || ref == "nan" {
		return enum.ReceiptAbsent
	}
	return ref
}
