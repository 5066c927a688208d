package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"retail-dashboard/internal/models"
)

func TestSSEHandlers_HandleRefresh(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh", nil)
	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	body := rec.Body.String()
	for _, fragment := range []string{"kpi-cards", "loss-content", "charts"} {
		if !strings.Contains(body, fragment) {
			t.Errorf("SSE response missing %q fragment", fragment)
		}
	}
}

func TestSSEHandlers_HandleRefresh_FilterParams(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh?region=West", nil)
	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, req)

	body := rec.Body.String()
	// West has a single loss-making product.
	if !strings.Contains(body, "Phone") {
		t.Errorf("expected Phone in loss table, got: %s", body)
	}
	if strings.Contains(body, "Laptop") {
		t.Error("East rows leaked through the West filter")
	}
}

func TestChartGridHTML(t *testing.T) {
	sel := models.FilterSelection{Regions: []string{"East"}}
	html := chartGridHTML(sel)

	for _, src := range []string{"/charts/monthly.png", "/charts/regions.png", "/charts/categories.png", "/charts/profit-loss.png"} {
		if !strings.Contains(html, src) {
			t.Errorf("chart grid missing %q", src)
		}
	}
	if !strings.Contains(html, "region=East") {
		t.Error("selection not propagated into chart URLs")
	}
}

func TestSelectionQuery(t *testing.T) {
	t.Run("nil slices add nothing", func(t *testing.T) {
		q := SelectionQuery(models.FilterSelection{})
		if len(q) != 0 {
			t.Errorf("expected empty query, got %v", q)
		}
	})

	t.Run("empty slice keeps key present", func(t *testing.T) {
		q := SelectionQuery(models.FilterSelection{Regions: []string{}})
		if _, ok := q["region"]; !ok {
			t.Error("region key should stay present for an empty selection")
		}
	})

	t.Run("round trip through query parsing", func(t *testing.T) {
		sel := models.FilterSelection{Regions: []string{"East", "West"}, Categories: []string{}}
		parsed, err := url.ParseQuery(SelectionQuery(sel).Encode())
		if err != nil {
			t.Fatal(err)
		}
		got := SelectionFromQuery(parsed)
		if len(got.Regions) != 2 {
			t.Errorf("regions = %v, want 2 values", got.Regions)
		}
		if got.Categories == nil || len(got.Categories) != 0 {
			t.Errorf("categories = %#v, want empty non-nil", got.Categories)
		}
	})
}
