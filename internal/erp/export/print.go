package export

import (
	"html/template"
	"io"
)

var printTemplate = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Doc.Title}} {{.Doc.TicketNo}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 24px; }
header { display: flex; justify-content: space-between; align-items: baseline; }
table { border-collapse: collapse; width: 100%; margin-top: 24px; }
td { border: 1px solid #999; padding: 6px 8px; }
td.label { width: 38%; }
tr.bold td { font-weight: bold; }
@media print { .no-print { display: none; } }
</style>
</head>
<body onload="window.print()">
<header>
<div class="company">{{.Company}}</div>
<div>
<h2 class="title">{{.Doc.Title}}</h2>
<div class="ticket-no">Ticket No: {{.Doc.TicketNo}}</div>
</div>
</header>
<table id="ticket-to-print">
{{- range .Doc.Rows}}
<tr{{if .Bold}} class="bold"{{end}}><td class="label">{{.Label}}</td><td class="value">{{.Value}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// WritePrintHTML 打印页，打开后自动调起浏览器打印
func WritePrintHTML(w io.Writer, doc Document, company string) error {
	return printTemplate.Execute(w, struct {
		Doc     Document
		Company string
	}{doc, company})
}
