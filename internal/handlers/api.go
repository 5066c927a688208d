package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
	"retail-dashboard/internal/services"
)

// SelectionFromQuery builds the filter selection from repeated region
// and category query parameters. An absent key selects all observed
// values; a present key with only empty values selects nothing.
func SelectionFromQuery(q url.Values) models.FilterSelection {
	var sel models.FilterSelection
	if vals, ok := q["region"]; ok {
		sel.Regions = compactValues(vals)
	}
	if vals, ok := q["category"]; ok {
		sel.Categories = compactValues(vals)
	}
	return sel
}

func compactValues(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) filtered(r *http.Request) []models.Record {
	return h.analytics.Filter(SelectionFromQuery(r.URL.Query()))
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, services.KPIs(h.filtered(r)))
}

func (h *APIHandlers) HandleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, services.MonthlyTrend(h.filtered(r)))
}

func (h *APIHandlers) HandleRegionSales(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, services.RegionSales(h.filtered(r)))
}

func (h *APIHandlers) HandleCategorySales(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, services.CategorySales(h.filtered(r)))
}

func (h *APIHandlers) HandleProfitLoss(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, services.ProfitLoss(h.filtered(r)))
}

func (h *APIHandlers) HandleLossProducts(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, services.TopLossProducts(h.filtered(r)))
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Options())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
