package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// WritePDF A4 单页：抬头、磅单号、两列网格，净重加粗
func WritePDF(w io.Writer, doc Document, company string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 10, 15)
	pdf.SetTitle(doc.Title+" "+doc.TicketNo, true)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(15, 10)
	pdf.CellFormat(60, 12, tr(company), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 20)
	pdf.SetXY(15, 14)
	pdf.CellFormat(180, 8, tr(doc.Title), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(180, 8, tr("Ticket No: "+doc.TicketNo), "", 1, "R", false, 0, "")

	pdf.SetY(40)
	for _, row := range doc.Rows {
		style := ""
		if row.Bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(70, 8, tr(row.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(110, 8, tr(row.Value), "1", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
