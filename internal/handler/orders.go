package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/schoolsupply/orderdesk/internal/logger"
	"github.com/schoolsupply/orderdesk/internal/receipt"
	"github.com/schoolsupply/orderdesk/internal/selection"
	"github.com/schoolsupply/orderdesk/internal/service"
	"github.com/schoolsupply/orderdesk/internal/sheet"
	"github.com/schoolsupply/orderdesk/internal/whatsapp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxUploadSize caps multipart order forms, receipt included.
const maxUploadSize = 10 << 20

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*service.Result, error)
	Edit(ctx context.Context, req service.EditRequest) (*service.Result, error)
	CreateManual(ctx context.Context, req service.ManualRequest) (*service.Result, error)
	UpdateStatuses(ctx context.Context, updates []service.StatusUpdate) (int, error)
	Delete(ctx context.Context, id string) error
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id string) (database.Order, error)
	ListOrders(ctx context.Context, search string) ([]database.Order, error)
	ListOrdersByPhoneDigits(ctx context.Context, digits string) ([]database.Order, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc      OrderServicer
	store    OrderStore
	catalogs CatalogSource
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore, catalogs CatalogSource) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, catalogs: catalogs}
}

// RegisterRoutes registers the customer-facing order endpoints. limit, when
// not nil, wraps the submission endpoint.
func (h *OrderHandler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	if limit != nil {
		r.With(limit).Post("/orders", h.Submit)
	} else {
		r.Post("/orders", h.Submit)
	}
	r.Get("/orders/lookup", h.Lookup)
	r.Get("/orders/{id}", h.Get)
	r.Put("/orders/{id}", h.Edit)
}

// RegisterAdminRoutes registers admin order endpoints.
// Expected to be mounted at /admin/orders.
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.CreateManual)
	r.Patch("/status", h.UpdateStatuses)
	r.Get("/export.csv", h.Export)
	r.Get("/{id}", h.AdminGet)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type selectionItem struct {
	Grade   string `json:"grade"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

type manualOrderRequest struct {
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	Items        []selectionItem `json:"items"`
	Paid         string          `json:"paid"`
	Status       string          `json:"status"`
}

type statusUpdateRequest struct {
	Updates []struct {
		ID      string `json:"id"`
		Status  string `json:"status"`
		Balance string `json:"balance"`
	} `json:"updates"`
}

type orderResponse struct {
	ID           string       `json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	CustomerName string       `json:"customer_name"`
	Phone        string       `json:"phone"`
	Detail       string       `json:"detail"`
	Total        string       `json:"total"`
	Paid         string       `json:"paid"`
	Balance      string       `json:"balance"`
	Status       string       `json:"status"`
	Receipt1     receiptField `json:"receipt_1"`
	Receipt2     receiptField `json:"receipt_2"`
	ChangeLog    string       `json:"change_log"`
}

type receiptField struct {
	Ref  string       `json:"ref"`
	Kind receipt.Kind `json:"kind"`
}

type orderDetailResponse struct {
	orderResponse
	Grades   []selection.GradePresence `json:"grades"`
	Selected []selection.Entry         `json:"selected"`
}

type submitResponse struct {
	Order   orderResponse `json:"order"`
	Warning string        `json:"warning,omitempty"`
}

// --- Customer handlers ---

// Submit handles a new customer order sent as multipart/form-data with the
// fields customer_name, phone, items (JSON), payment_type, amount and the
// receipt file.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	form, ok := parseOrderForm(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Submit(r.Context(), service.SubmitRequest{
		CustomerName: form.customerName,
		Phone:        form.phone,
		Selection:    form.selection,
		PaymentType:  form.paymentType,
		Amount:       form.amount,
		Receipt:      form.receipt,
	})
	if err != nil {
		writeServiceError(w, "submit order", err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{Order: toOrderResponse(res.Order), Warning: res.Warning})
}

// Lookup returns the orders of a phone number that still have a balance,
// or the latest one when all are settled.
func (h *OrderHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	digits := whatsapp.Digits(r.URL.Query().Get("phone"))
	if digits == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}

	orders, err := h.store.ListOrdersByPhoneDigits(r.Context(), digits)
	if err != nil {
		internalError(w, "list orders by phone", err)
		return
	}

	picked := service.PendingOrLatest(orders)
	resp := make([]orderResponse, len(picked))
	for i, o := range picked {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one order to its customer. The phone query parameter must
// match the order's phone.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	h.writeDetail(w, r, order)
}

// Edit changes an open order. Same form as Submit; the receipt is optional
// and stored in the second slot. The phone query parameter identifies the
// customer.
func (h *OrderHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadOwned(w, r); !ok {
		return
	}
	form, ok := parseOrderForm(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Edit(r.Context(), service.EditRequest{
		ID:           chi.URLParam(r, "id"),
		CustomerName: form.customerName,
		Phone:        form.phone,
		Selection:    form.selection,
		PaymentType:  form.paymentType,
		Amount:       form.amount,
		Receipt:      form.receipt,
	})
	if err != nil {
		writeServiceError(w, "edit order", err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Order: toOrderResponse(res.Order), Warning: res.Warning})
}

// --- Admin handlers ---

// List returns every order, optionally filtered by customer name (q).
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		internalError(w, "list orders", err)
		return
	}
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// AdminGet returns any order with its decoded selection.
func (h *OrderHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		internalError(w, "get order", err)
		return
	}
	h.writeDetail(w, r, order)
}

// CreateManual records an in-person order.
func (h *OrderHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req manualOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	paid, err := parseAmount(req.Paid)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid paid amount"})
		return
	}

	res, err := h.svc.CreateManual(r.Context(), service.ManualRequest{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Selection:    toFlags(req.Items),
		Paid:         paid,
		Status:       req.Status,
	})
	if err != nil {
		writeServiceError(w, "create manual order", err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{Order: toOrderResponse(res.Order)})
}

// UpdateStatuses applies the bulk status and balance editor.
func (h *OrderHandler) UpdateStatuses(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	updates := make([]service.StatusUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		if u.ID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
			return
		}
		balance, err := parseAmount(u.Balance)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid balance for order " + u.ID})
			return
		}
		updates = append(updates, service.StatusUpdate{ID: u.ID, Status: u.Status, Balance: balance})
	}

	n, err := h.svc.UpdateStatuses(r.Context(), updates)
	if err != nil {
		writeServiceError(w, "update statuses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": n, "updated": n > 0})
}

// Delete removes an order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export downloads all orders in the spreadsheet layout.
func (h *OrderHandler) Export(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context(), "")
	if err != nil {
		internalError(w, "list orders", err)
		return
	}
	rows := make([]sheet.Order, len(orders))
	for i, o := range orders {
		rows[i] = toSheetOrder(o)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="Pedidos.csv"`)
	if err := sheet.WriteOrders(w, rows); err != nil {
		logger.L().Error("write orders csv", zap.Error(err))
	}
}

// --- Helpers ---

type orderForm struct {
	customerName string
	phone        string
	paymentType  string
	amount       decimal.Decimal
	selection    selection.Flags
	receipt      *service.Upload
}

// parseOrderForm reads the multipart order form. It writes a 400 and
// returns false on malformed input.
func parseOrderForm(w http.ResponseWriter, r *http.Request) (orderForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return orderForm{}, false
	}

	var items []selectionItem
	if raw := r.FormValue("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid items"})
			return orderForm{}, false
		}
	}

	amount, err := parseAmount(r.FormValue("amount"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		return orderForm{}, false
	}

	form := orderForm{
		customerName: r.FormValue("customer_name"),
		phone:        r.FormValue("phone"),
		paymentType:  strings.ToUpper(strings.TrimSpace(r.FormValue("payment_type"))),
		amount:       amount,
		selection:    toFlags(items),
	}

	file, hdr, err := r.FormFile("receipt")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read receipt"})
			return orderForm{}, false
		}
		form.receipt = &service.Upload{Filename: hdr.Filename, Data: data}
	case errors.Is(err, http.ErrMissingFile):
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid receipt"})
		return orderForm{}, false
	}
	return form, true
}

// loadOwned fetches the order in the URL and checks that the phone query
// parameter matches it. Mismatches are reported as not found.
func (h *OrderHandler) loadOwned(w http.ResponseWriter, r *http.Request) (database.Order, bool) {
	digits := whatsapp.Digits(r.URL.Query().Get("phone"))
	if digits == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return database.Order{}, false
	}

	order, err := h.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return database.Order{}, false
		}
		internalError(w, "get order", err)
		return database.Order{}, false
	}
	if whatsapp.Digits(order.Phone) != digits {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return database.Order{}, false
	}
	return order, true
}

func (h *OrderHandler) writeDetail(w http.ResponseWriter, r *http.Request, order database.Order) {
	c, err := h.catalogs.Catalog(r.Context())
	if err != nil {
		internalError(w, "load catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetail(order, c))
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case service.IsValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, service.ErrOrderClosed):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		internalError(w, op, err)
	}
}

// parseAmount parses a decimal form value; empty means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func toFlags(items []selectionItem) selection.Flags {
	flags := make(selection.Flags, len(items))
	for _, it := range items {
		flags[catalog.Key{
			Grade:   strings.TrimSpace(it.Grade),
			Subject: strings.TrimSpace(it.Subject),
			Name:    strings.TrimSpace(it.Name),
		}] = true
	}
	return flags
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:           o.ID,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Detail:       o.Detail,
		Total:        database.Decimal(o.Total).String(),
		Paid:         database.Decimal(o.Paid).String(),
		Balance:      database.Decimal(o.Balance).String(),
		Status:       o.Status,
		Receipt1:     receiptField{Ref: o.Receipt1, Kind: receipt.Classify(o.Receipt1)},
		Receipt2:     receiptField{Ref: o.Receipt2, Kind: receipt.Classify(o.Receipt2)},
		ChangeLog:    o.ChangeLog,
	}
}

func toOrderDetail(o database.Order, c *catalog.Catalog) orderDetailResponse {
	decoded := selection.Decode(o.Detail, c)
	flags := selection.FlagsFromDetail(o.Detail, c)
	selected := make([]selection.Entry, 0, len(flags))
	for _, it := range c.Items() {
		if flags[it.Key()] {
			selected = append(selected, selection.EntryFor(it))
		}
	}
	grades := decoded.Grades
	if grades == nil {
		grades = []selection.GradePresence{}
	}
	return orderDetailResponse{
		orderResponse: toOrderResponse(o),
		Grades:        grades,
		Selected:      selected,
	}
}

func toSheetOrder(o database.Order) sheet.Order {
	return sheet.Order{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Customer:  o.CustomerName,
		Phone:     o.Phone,
		Detail:    o.Detail,
		Total:     database.Decimal(o.Total),
		Paid:      database.Decimal(o.Paid),
		Balance:   database.Decimal(o.Balance),
		Status:    o.Status,
		Receipt1:  o.Receipt1,
		Receipt2:  o.Receipt2,
		ChangeLog: o.ChangeLog,
	}
}
