package sheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/enum"
	"github.com/schoolsupply/orderdesk/internal/selection"
	"github.com/shopspring/decimal"
)

func TestReadCatalog(t *testing.T) {
	in := "\ufeffGrado,Área,Libro,Costo,Precio Venta\n" +
		"Grade1,Math,Book1,\"$ 30,000\",\"$ 50,000\"\n" +
		" Grade1 , English ,Book2,25000,45000\n"

	items, err := ReadCatalog(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Subject != "Math" || !items[0].Price.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("item 0: got %+v", items[0])
	}
	if items[1].Grade != "Grade1" || items[1].Subject != "English" {
		t.Errorf("item 1 not trimmed: %+v", items[1])
	}
}

func TestReadCatalog_MissingPriceColumns(t *testing.T) {
	items, err := ReadCatalog(strings.NewReader("Grado,Area,Libro\nG1,M,B\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !items[0].Cost.IsZero() || !items[0].Price.IsZero() {
		t.Errorf("expected zero money, got %+v", items[0])
	}
}

func TestReadCatalog_MissingRequired(t *testing.T) {
	_, err := ReadCatalog(strings.NewReader("Grado,Area\nG1,M\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadCatalog_ReservedText(t *testing.T) {
	_, err := ReadCatalog(strings.NewReader("Grado,Area,Libro\nG1,M,Book\nG1,M,Book | Vol 2\n"))
	if !errors.Is(err, selection.ErrReservedText) {
		t.Fatalf("expected ErrReservedText, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestReadCatalog_Empty(t *testing.T) {
	items, err := ReadCatalog(strings.NewReader(""))
	if err != nil || items != nil {
		t.Fatalf("expected nil, nil; got %v, %v", items, err)
	}
}

func TestWriteCatalog(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCatalog(&buf, []catalog.Item{
		{Grade: "G1", Subject: "Math", Name: "Book1", Cost: decimal.NewFromInt(30000), Price: decimal.NewFromInt(50000)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Grado,Area,Libro,Costo,Precio Venta,Ganancia\nG1,Math,Book1,30000,50000,20000\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestReadOrders_LegacyLayout(t *testing.T) {
	in := "ID_Pedido,Fecha_Creacion,Cliente,Celular,Detalle,Total,Abonado,Saldo,Estado,Comprobante\n" +
		"0001,2024-01-15 10:30:00,Ana,300 111 2222,[Grade1] Book1,50000,20000,30000,Abono Parcial,https://x/1\n" +
		",,,,,,,,,\n" +
		"0002,2024-01-16 09:00:00,Luis,3003334444,[Grade1] (Math) Book1,50000,50000,0,En Impresión,nan\n"

	orders, err := ReadOrders(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}

	o := orders[0]
	if o.Status != enum.OrderStatusPartiallyPaid {
		t.Errorf("status: got %q", o.Status)
	}
	if o.Receipt2 != enum.ReceiptAbsent {
		t.Errorf("missing Comprobante2 should default to No, got %q", o.Receipt2)
	}
	if o.ChangeLog != enum.ChangeLogOriginal {
		t.Errorf("change log: got %q", o.ChangeLog)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)
	if !o.CreatedAt.Equal(want) || !o.UpdatedAt.Equal(want) {
		t.Errorf("times: created=%v updated=%v", o.CreatedAt, o.UpdatedAt)
	}
	if !o.Balance.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("balance: got %s", o.Balance)
	}

	if orders[1].Status != enum.OrderStatusPrinting {
		t.Errorf("status: got %q", orders[1].Status)
	}
	if orders[1].Receipt1 != enum.ReceiptAbsent {
		t.Errorf("nan receipt should be absent, got %q", orders[1].Receipt1)
	}
}

func TestReadOrders_DerivesBalance(t *testing.T) {
	orders, err := ReadOrders(strings.NewReader("ID_Pedido,Total,Abonado\n7,100,40\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !orders[0].Balance.Equal(decimal.NewFromInt(60)) {
		t.Errorf("balance: got %s", orders[0].Balance)
	}
}

func TestReadOrders_UnknownStatus(t *testing.T) {
	_, err := ReadOrders(strings.NewReader("ID_Pedido,Estado\n1,Perdido\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
}

func TestOrdersRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	in := []Order{{
		ID: "0003", CreatedAt: ts, UpdatedAt: ts, Customer: "Eva", Phone: "3005556666",
		Detail: "[Grade1] (Math) Book1 | [Grade1] (English) Book2", Total: decimal.NewFromInt(95000),
		Paid: decimal.NewFromInt(95000), Balance: decimal.Zero, Status: enum.OrderStatusDelivered,
		Receipt1: "Manual", Receipt2: "", ChangeLog: "Admin Manual",
	}}

	var buf bytes.Buffer
	if err := WriteOrders(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "Entregado") {
		t.Errorf("status should be written as label: %s", buf.String())
	}

	out, err := ReadOrders(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := out[0]
	if got.Detail != in[0].Detail || got.Status != enum.OrderStatusDelivered || got.Receipt2 != enum.ReceiptAbsent {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(ts) || !got.Total.Equal(in[0].Total) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", enum.OrderStatusNew},
		{"Nuevo", enum.OrderStatusNew},
		{"Pagado", enum.OrderStatusPaidInFull},
		{"Pagado Total", enum.OrderStatusPaidInFull},
		{"ABONADO", enum.OrderStatusPartiallyPaid},
		{"Anulado", enum.OrderStatusCancelled},
		{enum.OrderStatusPrinting, enum.OrderStatusPrinting},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
