package whatsapp

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDigits(t *testing.T) {
	if got := Digits("+57 300-111 2222"); got != "573001112222" {
		t.Errorf("got %q", got)
	}
}

func TestLink(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		text  string
		cc    string
		want  string
	}{
		{"adds default country code", "300 111 2222", "", "", "https://wa.me/573001112222"},
		{"keeps existing code", "+57 3001112222", "", "", "https://wa.me/573001112222"},
		{"custom code", "5551234", "", "1", "https://wa.me/15551234"},
		{"escapes text", "3001112222", "Hola Ana\nSaldo: $5", "", "https://wa.me/573001112222?text=Hola%20Ana%0ASaldo%3A%20%245"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Link(tt.phone, tt.text, tt.cc); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInviteMessage(t *testing.T) {
	want := "Hola, pide aquí: https://pedidos.example.com?rol=cliente"
	if got := InviteMessage("https://pedidos.example.com/"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOrderSummary(t *testing.T) {
	got := OrderSummary("0004", "Ana", decimal.NewFromInt(95000), decimal.NewFromInt(50000), decimal.NewFromInt(45000))
	want := "Hola Ana, tu pedido 0004 fue registrado.\nTotal: $95,000\nAbonado: $50,000\nSaldo: $45,000"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
