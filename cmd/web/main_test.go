package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"retail-dashboard/internal/config"
	"retail-dashboard/internal/models"
	"retail-dashboard/internal/server"
	"retail-dashboard/internal/services"
)

func newTestAnalytics() *services.Analytics {
	a := services.NewAnalytics()
	mk := func(date, region, category, product string, sales, profit float64) models.Record {
		t, _ := time.Parse("2006-01-02", date)
		status := models.StatusLoss
		if profit > 0 {
			status = models.StatusProfit
		}
		return models.Record{
			OrderDate:    t,
			Region:       region,
			Category:     category,
			Product:      product,
			Sales:        sales,
			Profit:       profit,
			Year:         t.Year(),
			Month:        t.Month().String(),
			ProfitStatus: status,
		}
	}
	a.SetData([]models.Record{
		mk("2023-01-15", "East", "Furniture", "Desk", 500, 50),
		mk("2023-02-10", "West", "Technology", "Phone", 800, -20),
	})
	return a
}

func newTestServer(t *testing.T, analytics *services.Analytics) *server.Server {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	templateHandlers := &server.TemplateHandlers{
		Dashboard: newDashboardHandler(analytics),
	}
	return server.NewServer(analytics, logger, cfg, templateHandlers)
}

func TestDashboardHandler(t *testing.T) {
	handler := newDashboardHandler(newTestAnalytics())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, want := range []string{"Retail Sales Analytics Dashboard", "kpi-cards", "East", "Furniture", "report.xlsx", "summary.pdf"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard page missing %q", want)
		}
	}
}

func TestDashboardHandler_NoData(t *testing.T) {
	handler := newDashboardHandler(services.NewAnalytics())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Upload a dataset") {
		t.Error("empty state prompt missing before any upload")
	}
}

func TestDashboardHandler_FilterApplied(t *testing.T) {
	handler := newDashboardHandler(newTestAnalytics())

	req := httptest.NewRequest(http.MethodGet, "/?region=West", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	body := rec.Body.String()
	// West's sole transaction is a loss.
	if !strings.Contains(body, "Phone") {
		t.Error("West loss product missing from the page")
	}
	if !strings.Contains(body, "region=West") {
		t.Error("download links should carry the active filter")
	}
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t, newTestAnalytics())

	routes := []string{
		"/",
		"/health",
		"/admin/stats",
		"/api/kpis",
		"/api/monthly-trend",
		"/api/region-sales",
		"/api/category-sales",
		"/api/profit-loss",
		"/api/loss-products",
		"/api/filters",
		"/charts/monthly.png",
		"/charts/regions.png",
		"/charts/categories.png",
		"/charts/profit-loss.png",
		"/export/report.xlsx",
		"/export/summary.pdf",
		"/sse/refresh",
	}

	for _, route := range routes {
		req := httptest.NewRequest(http.MethodGet, route, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", route, rec.Code, http.StatusOK)
		}
	}
}

func TestServerRoutes_NotFound(t *testing.T) {
	srv := newTestServer(t, newTestAnalytics())

	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServerRoutes_HealthPayload(t *testing.T) {
	srv := newTestServer(t, newTestAnalytics())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var envelope struct {
		Data    map[string]string `json:"data"`
		Success bool              `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Success || envelope.Data["status"] != "healthy" {
		t.Errorf("unexpected health payload: %+v", envelope)
	}
}
