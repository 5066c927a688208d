// Package templates holds the dashboard page component. The page is an
// html/template wrapped as a templ component so handlers render it the
// same way as any other component.
package templates

import (
	"html/template"
	"slices"

	"retail-dashboard/internal/models"
	"retail-dashboard/internal/reports"
	"github.com/a-h/templ"
)

type DashboardData struct {
	HasData      bool
	Options      models.FilterOptions
	Selected     models.FilterSelection
	KPI          models.KPI
	LossProducts []models.LossProduct
	// Query is the active selection as an encoded query string, typed
	// template.URL so chart and download links keep it verbatim.
	Query template.URL
}

// RegionChecked reports whether a region checkbox starts checked. With
// no explicit selection every observed value is selected.
func (d DashboardData) RegionChecked(region string) bool {
	if d.Selected.Regions == nil {
		return true
	}
	return slices.Contains(d.Selected.Regions, region)
}

func (d DashboardData) CategoryChecked(category string) bool {
	if d.Selected.Categories == nil {
		return true
	}
	return slices.Contains(d.Selected.Categories, category)
}

func Dashboard(data DashboardData) templ.Component {
	return templ.FromGoHTML(dashboardTemplate, data)
}

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"amount": reports.FormatAmount,
}).Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Retail Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6f8; color: #1d2733; }
header { background: #1d2733; color: #fff; padding: 1rem 2rem; }
header h1 { margin: 0; font-size: 1.3rem; }
main { display: flex; gap: 1.5rem; padding: 1.5rem 2rem; align-items: flex-start; }
aside { background: #fff; border-radius: 8px; padding: 1rem 1.25rem; min-width: 220px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
aside h2 { font-size: .95rem; margin: .75rem 0 .35rem; }
aside label { display: block; font-size: .9rem; padding: .1rem 0; }
section.content { flex: 1; }
.kpi-row { display: flex; gap: 1rem; margin-bottom: 1.25rem; }
.kpi-card { background: #fff; border-radius: 8px; padding: .9rem 1.25rem; flex: 1; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.kpi-card strong { display: block; font-size: 1.4rem; margin-top: .25rem; }
.kpi-label { color: #5b6b7c; font-size: .85rem; }
.chart-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; margin-bottom: 1.25rem; }
.chart-grid img { width: 100%; background: #fff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.modern-table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.modern-table th, .modern-table td { text-align: left; padding: .5rem .9rem; border-bottom: 1px solid #eef1f4; }
.modern-table th { background: #f0f2f5; font-size: .85rem; }
td.loss { color: #b3261e; }
.downloads a { display: inline-block; margin-right: .75rem; margin-top: .75rem; padding: .5rem .9rem; background: #2456c9; color: #fff; border-radius: 6px; text-decoration: none; font-size: .9rem; }
button { margin-top: .75rem; padding: .45rem .9rem; border: 0; border-radius: 6px; background: #2456c9; color: #fff; cursor: pointer; }
.empty { background: #fff; border-radius: 8px; padding: 2rem; text-align: center; color: #5b6b7c; }
</style>
</head>
<body>
<header><h1>Retail Sales Analytics Dashboard</h1></header>
<main>
<aside>
<h2>Dataset</h2>
<form method="post" action="/api/upload" enctype="multipart/form-data">
<input type="file" name="dataset" accept=".csv,.xlsx" required>
<button type="submit">Upload</button>
</form>
{{if .HasData}}
<form method="get" action="/">
<h2>Region</h2>
{{range .Options.Regions}}
<label><input type="checkbox" name="region" value="{{.}}" data-bind-regions {{if $.RegionChecked .}}checked{{end}}> {{.}}</label>
{{end}}
<h2>Category</h2>
{{range .Options.Categories}}
<label><input type="checkbox" name="category" value="{{.}}" data-bind-categories {{if $.CategoryChecked .}}checked{{end}}> {{.}}</label>
{{end}}
<button type="submit">Apply Filters</button>
<button type="button" data-on-click="@get('/sse/refresh')">Live Refresh</button>
</form>
<div class="downloads">
<h2>Reports</h2>
<a href="/export/report.xlsx?{{.Query}}">Excel Report</a>
<a href="/export/summary.pdf?{{.Query}}">PDF Summary</a>
</div>
{{end}}
</aside>
<section class="content">
{{if .HasData}}
<div id="kpi-cards" class="kpi-row">
<div class="kpi-card"><span class="kpi-label">Total Sales</span><strong>{{amount .KPI.TotalSales}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total Profit</span><strong>{{amount .KPI.TotalProfit}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Total Orders</span><strong>{{.KPI.TotalOrders}}</strong></div>
</div>
<div id="charts" class="chart-grid">
<img src="/charts/monthly.png?{{.Query}}" alt="Monthly Sales Trend">
<img src="/charts/regions.png?{{.Query}}" alt="Sales by Region">
<img src="/charts/categories.png?{{.Query}}" alt="Category-wise Sales">
<img src="/charts/profit-loss.png?{{.Query}}" alt="Profit vs Loss">
</div>
<h2>Top Loss-Making Products</h2>
<div id="loss-content">
<table class="modern-table">
<thead><tr><th>Product</th><th>Profit</th></tr></thead>
<tbody>
{{range .LossProducts}}<tr>
<td>{{.Product}}</td>
<td class="loss"><strong>{{printf "%.2f" .Profit}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>
{{else}}
<div class="empty">Upload a dataset (CSV or Excel) to start the analysis.</div>
{{end}}
</section>
</main>
</body>
</html>`
