package export

import (
	"net/url"
	"strings"

	"github.com/bitfantasy/bws/internal/erp/entity"
)

// MailBody 邮件正文
func MailBody(doc Document) string {
	if doc.Kind == entity.TicketKindSales {
		return salesMailBody(doc)
	}
	var b strings.Builder
	for _, f := range doc.Fields {
		b.WriteString(FieldLabel(f.Key))
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func salesMailBody(doc Document) string {
	field := func(key string) string {
		for _, f := range doc.Fields {
			if f.Key == key {
				return f.Value
			}
		}
		return ""
	}
	row := func(label string) string {
		for _, r := range doc.Rows {
			if r.Label == label {
				return r.Value
			}
		}
		return ""
	}

	lines := []string{
		"Sales Ticket: " + doc.TicketNo,
		"Date: " + field("date"),
		"Customer: " + field("customer_name"),
		"Truck No: " + field("truck_no"),
		"-----------------------------------",
		"DETAILS",
		"-----------------------------------",
		"Material Destination: " + field("material_destination"),
		"Final Destination: " + field("destination"),
		"Material Code: " + field("material_code"),
		"Time In: " + field("time_in"),
		"Time Out: " + field("time_out"),
		"Gross Weight: " + row("Gross Weight (kg)") + " kg",
		"Tare Weight: " + row("Tare Weight (kg)") + " kg",
		"Net Weight: " + row("Net Weight (kg)") + " kg",
		"Driver: " + orNA(field("driver_name")),
		"Operator: " + field("operator_name"),
	}
	return strings.Join(lines, "\n")
}

// MailtoLink mailto:?subject=...&body=...
func MailtoLink(doc Document) string {
	subject := doc.Title + " Details: " + doc.TicketNo
	return "mailto:?subject=" + mailEscape(subject) + "&body=" + mailEscape(MailBody(doc))
}

// mailEscape percent-encodes like encodeURIComponent; mail clients do not
// decode + as a space.
func mailEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
