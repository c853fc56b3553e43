package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/schoolsupply/orderdesk/internal/handler"
)

func newShareRouter(appURL string) *chi.Mux {
	h := handler.NewShareHandler(&mockOrderStore{orders: sampleOrders()}, appURL, "57")
	r := chi.NewRouter()
	r.Route("/admin/share", h.RegisterRoutes)
	return r
}

func TestShareInvite(t *testing.T) {
	r := newShareRouter("https://pedidos.example.com/")

	rr := doJSON(t, r, "GET", "/admin/share/invite?phone=300+123+4567", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["message"] != "Hola, pide aquí: https://pedidos.example.com?rol=cliente" {
		t.Errorf("message: got %v", resp["message"])
	}
	link := resp["link"].(string)
	if !strings.HasPrefix(link, "https://wa.me/573001234567?text=Hola%2C%20pide") {
		t.Errorf("link: got %s", link)
	}
}

func TestShareInvite_Errors(t *testing.T) {
	if rr := doJSON(t, newShareRouter("https://x.test"), "GET", "/admin/share/invite", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("missing phone: got %d", rr.Code)
	}
	if rr := doJSON(t, newShareRouter(""), "GET", "/admin/share/invite?phone=1", nil); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("no app url: got %d", rr.Code)
	}
}

func TestShareOrder(t *testing.T) {
	r := newShareRouter("https://x.test")

	rr := doJSON(t, r, "GET", "/admin/share/orders/0002", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	msg := resp["message"].(string)
	if !strings.Contains(msg, "0002") || !strings.Contains(msg, "Saldo: $25,000") {
		t.Errorf("message: got %q", msg)
	}
	if !strings.HasPrefix(resp["link"].(string), "https://wa.me/573001234567?text=") {
		t.Errorf("link: got %v", resp["link"])
	}

	if rr := doJSON(t, r, "GET", "/admin/share/orders/0404", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown order: got %d", rr.Code)
	}
}
