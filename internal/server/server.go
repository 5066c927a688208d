package server

import (
	"log/slog"
	"net/http"

	"retail-dashboard/internal/config"
	"retail-dashboard/internal/handlers"
	"retail-dashboard/internal/services"
)

type Server struct {
	analytics      *services.Analytics
	mux            *http.ServeMux
	logger         *slog.Logger
	apiHandlers    *handlers.APIHandlers
	uploadHandlers *handlers.UploadHandlers
	exportHandlers *handlers.ExportHandlers
	sseHandlers    *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, cfg *config.Config, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:      analytics,
		mux:            http.NewServeMux(),
		logger:         logger,
		apiHandlers:    handlers.NewAPIHandlers(analytics, logger),
		uploadHandlers: handlers.NewUploadHandlers(analytics, logger, cfg.Dataset.MaxUploadBytes),
		exportHandlers: handlers.NewExportHandlers(analytics, logger),
		sseHandlers:    handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// Dataset upload
	s.mux.HandleFunc("POST /api/upload", s.uploadHandlers.HandleUpload)

	// REST API endpoints, all filterable by region/category params
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/monthly-trend", s.apiHandlers.HandleMonthlyTrend)
	s.mux.HandleFunc("GET /api/region-sales", s.apiHandlers.HandleRegionSales)
	s.mux.HandleFunc("GET /api/category-sales", s.apiHandlers.HandleCategorySales)
	s.mux.HandleFunc("GET /api/profit-loss", s.apiHandlers.HandleProfitLoss)
	s.mux.HandleFunc("GET /api/loss-products", s.apiHandlers.HandleLossProducts)
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)

	// Chart images
	s.mux.HandleFunc("GET /charts/monthly.png", s.exportHandlers.HandleMonthlyChart)
	s.mux.HandleFunc("GET /charts/regions.png", s.exportHandlers.HandleRegionChart)
	s.mux.HandleFunc("GET /charts/categories.png", s.exportHandlers.HandleCategoryChart)
	s.mux.HandleFunc("GET /charts/profit-loss.png", s.exportHandlers.HandleProfitLossChart)

	// Report downloads
	s.mux.HandleFunc("GET /export/report.xlsx", s.exportHandlers.HandleExcelExport)
	s.mux.HandleFunc("GET /export/summary.pdf", s.exportHandlers.HandlePDFExport)

	// Datastar SSE endpoint
	s.mux.HandleFunc("GET /sse/refresh", s.sseHandlers.HandleRefresh)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
