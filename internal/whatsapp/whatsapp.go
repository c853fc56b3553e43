// Package whatsapp builds wa.me deep links and the messages sent through them.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/schoolsupply/orderdesk/internal/money"
	"github.com/shopspring/decimal"
)

// DefaultCountryCode is prefixed to numbers that do not already carry it.
const DefaultCountryCode = "57"

// Digits strips everything but ASCII digits from phone.
func Digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// Link returns a wa.me link that opens a chat with phone prefilled with text.
// countryCode is added when the number does not start with it; empty means
// DefaultCountryCode.
func Link(phone, text, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	number := Digits(phone)
	if !strings.HasPrefix(number, countryCode) {
		number = countryCode + number
	}
	link := "https://wa.me/" + number
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// InviteMessage is the text sent to invite a customer to the order form.
func InviteMessage(appURL string) string {
	return "Hola, pide aquí: " + strings.TrimRight(appURL, "/") + "?rol=cliente"
}

// OrderSummary is the confirmation text for an order.
func OrderSummary(orderID, customer string, total, paid, balance decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s, tu pedido %s fue registrado.\n", customer, orderID)
	fmt.Fprintf(&b, "Total: %s\n", money.Format(total))
	fmt.Fprintf(&b, "Abonado: %s\n", money.Format(paid))
	fmt.Fprintf(&b, "Saldo: %s", money.Format(balance))
	return b.String()
}
