package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/logger"
	"github.com/schoolsupply/orderdesk/internal/selection"
	"github.com/schoolsupply/orderdesk/internal/service"
	"github.com/schoolsupply/orderdesk/internal/sheet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxCatalogBody caps catalog uploads.
const maxCatalogBody = 2 << 20

// CatalogSource returns the current catalog.
// Satisfied by *cache.CatalogCache.
type CatalogSource interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

// CatalogReplacer replaces the catalog. Satisfied by *service.CatalogService.
type CatalogReplacer interface {
	Replace(ctx context.Context, items []catalog.Item) (int, error)
}

// CatalogHandler handles catalog endpoints.
type CatalogHandler struct {
	catalogs CatalogSource
	replacer CatalogReplacer
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogs CatalogSource, replacer CatalogReplacer) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs, replacer: replacer}
}

// RegisterRoutes registers the public catalog endpoint.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/catalog", h.Public)
}

// RegisterAdminRoutes registers admin catalog endpoints.
// Expected to be mounted at /admin/catalog.
func (h *CatalogHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/", h.Replace)
	r.Get("/summary", h.Summary)
	r.Get("/export.csv", h.Export)
}

// --- Response types ---

type publicCatalogResponse struct {
	Grades []publicGrade `json:"grades"`
}

type publicGrade struct {
	Grade    string          `json:"grade"`
	Subjects []publicSubject `json:"subjects"`
}

type publicSubject struct {
	Subject string       `json:"subject"`
	Items   []publicItem `json:"items"`
}

type publicItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type adminItem struct {
	Grade   string          `json:"grade"`
	Subject string          `json:"subject"`
	Name    string          `json:"name"`
	Cost    decimal.Decimal `json:"cost"`
	Price   decimal.Decimal `json:"price"`
	Profit  decimal.Decimal `json:"profit"`
}

// --- Handlers ---

// Public returns the catalog grouped by grade and subject, without costs.
func (h *CatalogHandler) Public(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Catalog(r.Context())
	if err != nil {
		internalError(w, "load catalog", err)
		return
	}

	resp := publicCatalogResponse{Grades: make([]publicGrade, 0, len(c.Grades()))}
	for _, g := range c.Grades() {
		pg := publicGrade{Grade: g}
		for _, s := range c.Subjects(g) {
			ps := publicSubject{Subject: s}
			for _, it := range c.ItemsInGrade(g) {
				if it.Subject == s {
					ps.Items = append(ps.Items, publicItem{Name: it.Name, Price: it.Price})
				}
			}
			pg.Subjects = append(pg.Subjects, ps)
		}
		resp.Grades = append(resp.Grades, pg)
	}
	writeJSON(w, http.StatusOK, resp)
}

// List returns every catalog item with cost and profit.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Catalog(r.Context())
	if err != nil {
		internalError(w, "load catalog", err)
		return
	}
	items := make([]adminItem, 0, c.Len())
	for _, it := range c.Items() {
		items = append(items, adminItem{
			Grade:   it.Grade,
			Subject: it.Subject,
			Name:    it.Name,
			Cost:    it.Cost,
			Price:   it.Price,
			Profit:  it.Profit(),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// Replace swaps the whole catalog. Accepts a JSON array of items or, with
// Content-Type text/csv, a spreadsheet export.
func (h *CatalogHandler) Replace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCatalogBody)

	var items []catalog.Item
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" {
		var err error
		items, err = sheet.ReadCatalog(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	for _, it := range items {
		if it.Cost.IsNegative() || it.Price.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cost and price must not be negative"})
			return
		}
		if err := selection.CheckItem(it); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	n, err := h.replacer.Replace(r.Context(), items)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCatalog) || errors.Is(err, selection.ErrReservedText) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		internalError(w, "replace catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"items": n})
}

// Summary returns per-grade cost, price and profit totals.
func (h *CatalogHandler) Summary(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Catalog(r.Context())
	if err != nil {
		internalError(w, "load catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, c.Summary())
}

// Export downloads the catalog in the spreadsheet layout.
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Catalog(r.Context())
	if err != nil {
		internalError(w, "load catalog", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="Catalogo.csv"`)
	if err := sheet.WriteCatalog(w, c.Items()); err != nil {
		logger.L().Error("write catalog csv", zap.Error(err))
	}
}
