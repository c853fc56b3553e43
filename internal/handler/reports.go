package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/schoolsupply/orderdesk/internal/logger"
	"github.com/schoolsupply/orderdesk/internal/matrix"
	"go.uber.org/zap"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	ListOrders(ctx context.Context, search string) ([]database.Order, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	store    ReportsStore
	catalogs CatalogSource
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore, catalogs CatalogSource) *ReportsHandler {
	return &ReportsHandler{store: store, catalogs: catalogs}
}

// RegisterRoutes registers report endpoints.
// Expected to be mounted at /admin/reports.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/matrix", h.Matrix)
	r.Get("/matrix.xlsx", h.MatrixXLSX)
}

// Matrix returns the per-grade purchase matrix as JSON.
func (h *ReportsHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}
	if report.Sections == nil {
		report.Sections = []matrix.Section{}
	}
	writeJSON(w, http.StatusOK, report)
}

// MatrixXLSX downloads the matrix as a workbook.
func (h *ReportsHandler) MatrixXLSX(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	// Render fully before writing so a failure can still become a 500.
	var buf bytes.Buffer
	if err := matrix.WriteXLSX(&buf, report); err != nil {
		internalError(w, "write matrix xlsx", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+matrix.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logger.L().Warn("send matrix xlsx", zap.Error(err))
	}
}

func (h *ReportsHandler) build(w http.ResponseWriter, r *http.Request) (matrix.Report, bool) {
	orders, err := h.store.ListOrders(r.Context(), "")
	if err != nil {
		internalError(w, "list orders", err)
		return matrix.Report{}, false
	}
	c, err := h.catalogs.Catalog(r.Context())
	if err != nil {
		internalError(w, "load catalog", err)
		return matrix.Report{}, false
	}

	rows := make([]matrix.Order, len(orders))
	for i, o := range orders {
		rows[i] = matrix.Order{
			ID:       o.ID,
			Customer: o.CustomerName,
			Phone:    o.Phone,
			Detail:   o.Detail,
			Total:    database.Decimal(o.Total),
			Balance:  database.Decimal(o.Balance),
		}
	}
	return matrix.Build(rows, c), true
}
