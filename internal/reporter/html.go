package reporter

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"sql-remap/internal/model"
)

// HTMLReporter renders a ConversionResult as a standalone HTML file.
type HTMLReporter struct {
	target string
}

func NewHTMLReporter(target string) *HTMLReporter {
	return &HTMLReporter{target: target}
}

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"join":  func(s []string) string { return strings.Join(s, ", ") },
	"lower": strings.ToLower,
	"inc":   func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>SQL conversion report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #1c2b36; }
pre { background: #f4f6f8; padding: 1em; border-radius: 4px; overflow-x: auto; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #cbd4db; padding: 0.4em 0.8em; text-align: left; }
th { background: #e8edf1; }
.mapped { color: #0a7d33; }
.unmapped { color: #9a6700; }
.ambiguous { color: #b42318; }
</style>
</head>
<body>
<h1>Converted query</h1>
<pre>{{.ConvertedQuery}}</pre>

{{if .Outcomes}}
<h2>Resolution outcomes</h2>
<table>
<thead><tr><th>Kind</th><th>Type</th><th>Legacy</th><th>Target</th><th>Reason</th><th>Candidates</th><th>Comment</th></tr></thead>
<tbody>
{{range .Outcomes}}
<tr>
<td class="{{lower (printf "%s" .Kind)}}">{{.Kind}}</td>
<td>{{if .IsTable}}table{{else}}column{{end}}</td>
<td>{{.Legacy}}</td>
<td>{{.Target}}</td>
<td>{{.Reason}}</td>
<td>{{join .Candidates}}</td>
<td>{{.Comment}}</td>
</tr>
{{end}}
</tbody>
</table>
{{end}}

{{if .Diagnostics}}
<h2>Diagnostics</h2>
<table>
<thead><tr><th>Statement</th><th>Kind</th><th>Message</th></tr></thead>
<tbody>
{{range .Diagnostics}}
<tr><td>{{inc .Statement}}</td><td>{{.Kind}}</td><td>{{.Message}}</td></tr>
{{end}}
</tbody>
</table>
{{end}}
</body>
</html>
`))

func (r *HTMLReporter) Report(result *model.ConversionResult) error {
	f, err := os.Create(r.target)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := htmlTmpl.Execute(f, result); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
