package report

import "html/template"

var dashboardTemplate = template.Must(template.New("dashboard").Parse(htmlTemplate))

const htmlTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root {
  --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6;
  --muted: #6c757d; --accent: #d73027;
}
@media (prefers-color-scheme: dark) {
  :root { --bg: #1a1a2e; --fg: #e9ecef; --card-bg: #16213e; --border: #495057; --muted: #adb5bd; --accent: #ff6b6b; }
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1400px; margin: 0 auto; }
header { margin-bottom: 1.5rem; border-bottom: 3px solid var(--accent); padding-bottom: .75rem; }
header h1 { font-size: 1.6rem; margin-bottom: .25rem; }
header p { color: var(--muted); font-size: .875rem; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: .75rem; margin-bottom: 1.5rem; }
.card { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: .75rem; text-align: center; }
.card .value { font-size: 1.5rem; font-weight: 700; color: var(--accent); }
.card .label { font-size: .75rem; color: var(--muted); text-transform: uppercase; }
.charts { display: grid; grid-template-columns: repeat(2, 1fr); gap: 1rem; }
@media (max-width: 900px) { .charts { grid-template-columns: 1fr; } }
.chart-box { background: #fff; border: 1px solid var(--border); border-radius: 8px; padding: .75rem; }
.chart-box.wide { grid-column: 1 / -1; }
.chart-box img { width: 100%; height: auto; display: block; }
footer { margin-top: 1.5rem; font-size: .75rem; color: var(--muted); }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p>Gerado em {{.GeneratedAt.Format "02/01/2006 15:04:05"}} &middot; fonte: {{.Source}}</p>
</header>

<section class="cards" id="summary">
  <div class="card"><div class="value">{{.Summary.Total}}</div><div class="label">Total de focos</div></div>
  <div class="card"><div class="value">{{.Summary.Municipalities}}</div><div class="label">Municípios afetados</div></div>
  <div class="card"><div class="value">{{.Summary.PeriodDays}}</div><div class="label">Dias no período</div></div>
  <div class="card"><div class="value">{{printf "%.1f" .Summary.DailyMean}}</div><div class="label">Média diária</div></div>
  <div class="card"><div class="value">{{.Summary.First.Format "02/01/2006"}}</div><div class="label">Primeiro foco</div></div>
  <div class="card"><div class="value">{{.Summary.Last.Format "02/01/2006"}}</div><div class="label">Último foco</div></div>
</section>

<section class="charts" id="charts">
{{range .Panels}}  <div class="chart-box{{if .Wide}} wide{{end}}" id="{{.ID}}"><img alt="{{.Title}}" src="{{.Image}}"></div>
{{end}}</section>

<footer>Execução {{.RunID}}</footer>
</body>
</html>
`
