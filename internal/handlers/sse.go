package handlers

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"retail-dashboard/internal/models"
	"retail-dashboard/internal/reports"
	"retail-dashboard/internal/services"
	"github.com/starfederation/datastar-go/datastar"
)

var kpiTemplate = template.Must(template.New("kpiCards").Funcs(template.FuncMap{
	"amount": reports.FormatAmount,
}).Parse(`
<div id="kpi-cards" class="kpi-row">
<div class="kpi-card"><span class="kpi-label">Total Sales</span><strong>{{amount .TotalSales}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total Profit</span><strong>{{amount .TotalProfit}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total Orders</span><strong>{{.TotalOrders}}</strong></div>
</div>`))

var lossTableTemplate = template.Must(template.New("lossTable").Parse(`
<div id="loss-content">
<table class="modern-table">
<thead><tr><th>Product</th><th>Profit</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Product}}</td>
<td class="loss"><strong>{{printf "%.2f" .Profit}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// filterSignals mirrors the datastar signals bound to the filter
// widgets on the dashboard page.
type filterSignals struct {
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

func (h *SSEHandlers) selection(r *http.Request) models.FilterSelection {
	var signals filterSignals
	if err := datastar.ReadSignals(r, &signals); err == nil && (signals.Regions != nil || signals.Categories != nil) {
		return models.FilterSelection{
			Regions:    signals.Regions,
			Categories: signals.Categories,
		}
	}
	return SelectionFromQuery(r.URL.Query())
}

// HandleRefresh re-renders the KPI cards, the loss table and the chart
// images for the current filter selection in one SSE response.
func (h *SSEHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sel := h.selection(r)
	rows := h.analytics.Filter(sel)

	var kpiHTML strings.Builder
	if err := kpiTemplate.Execute(&kpiHTML, services.KPIs(rows)); err != nil {
		h.logger.Error("render kpi cards", "error", err)
		return
	}
	sse.PatchElements(kpiHTML.String())

	var lossHTML strings.Builder
	if err := lossTableTemplate.Execute(&lossHTML, services.TopLossProducts(rows)); err != nil {
		h.logger.Error("render loss table", "error", err)
		return
	}
	sse.PatchElements(lossHTML.String())

	sse.PatchElements(chartGridHTML(sel))

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// chartGridHTML rebuilds the chart image grid with the selection baked
// into each image URL; a timestamp defeats browser caching.
func chartGridHTML(sel models.FilterSelection) string {
	query := SelectionQuery(sel)
	query.Set("t", fmt.Sprintf("%d", time.Now().UnixNano()))
	qs := template.HTMLEscapeString(query.Encode())

	var b strings.Builder
	b.WriteString(`<div id="charts" class="chart-grid">`)
	for _, img := range []struct{ src, alt string }{
		{"/charts/monthly.png", "Monthly Sales Trend"},
		{"/charts/regions.png", "Sales by Region"},
		{"/charts/categories.png", "Category-wise Sales"},
		{"/charts/profit-loss.png", "Profit vs Loss"},
	} {
		fmt.Fprintf(&b, `<img src="%s?%s" alt="%s">`, img.src, qs, img.alt)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// SelectionQuery converts a selection back into its query-parameter
// form. A nil slice contributes nothing (all values); an empty non-nil
// slice contributes one empty value so the key stays present.
func SelectionQuery(sel models.FilterSelection) url.Values {
	query := url.Values{}
	addAll := func(key string, vals []string) {
		if vals == nil {
			return
		}
		if len(vals) == 0 {
			query.Add(key, "")
			return
		}
		for _, v := range vals {
			query.Add(key, v)
		}
	}
	addAll("region", sel.Regions)
	addAll("category", sel.Categories)
	return query
}
