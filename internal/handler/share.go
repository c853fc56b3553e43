package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/schoolsupply/orderdesk/internal/whatsapp"
)

// ShareHandler builds WhatsApp links for admins.
type ShareHandler struct {
	store       OrderStore
	appURL      string
	countryCode string
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(store OrderStore, appURL, countryCode string) *ShareHandler {
	return &ShareHandler{store: store, appURL: appURL, countryCode: countryCode}
}

// RegisterRoutes registers share endpoints.
// Expected to be mounted at /admin/share.
func (h *ShareHandler) RegisterRoutes(r chi.Router) {
	r.Get("/invite", h.Invite)
	r.Get("/orders/{id}", h.Order)
}

type shareResponse struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// Invite returns a link that opens a chat with the phone query parameter
// carrying the public order form URL.
func (h *ShareHandler) Invite(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if whatsapp.Digits(phone) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}
	if h.appURL == "" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "public app URL is not configured"})
		return
	}
	msg := whatsapp.InviteMessage(h.appURL)
	writeJSON(w, http.StatusOK, shareResponse{Message: msg, Link: whatsapp.Link(phone, msg, h.countryCode)})
}

// Order returns a link that sends the order summary to its customer.
func (h *ShareHandler) Order(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		internalError(w, "get order", err)
		return
	}
	msg := whatsapp.OrderSummary(o.ID, o.CustomerName,
		database.Decimal(o.Total), database.Decimal(o.Paid), database.Decimal(o.Balance))
	writeJSON(w, http.StatusOK, shareResponse{Message: msg, Link: whatsapp.Link(o.Phone, msg, h.countryCode)})
}
