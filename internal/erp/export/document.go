// Package export renders finished tickets as PDF, CSV, XLSX, mail links and
// printable HTML.
package export

import (
	"strconv"
	"strings"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Row 展示行
type Row struct {
	Label string
	Value string
	Bold  bool
}

// Field 原始字段（CSV、邮件正文使用）
type Field struct {
	Key   string
	Value string
}

// Document 单张磅单的导出内容
type Document struct {
	Kind      entity.TicketKind
	Title     string
	TicketNo  string
	NetWeight entity.Weight
	Rows      []Row
	Fields    []Field
}

// FileName Purchase_Ticket_PT-001.pdf
// 磅单号中 [A-Za-z0-9._-] 以外的字符替换为下划线，结果可直接用作文件名和对象键
func (d Document) FileName(ext string) string {
	return safeName(strings.ReplaceAll(d.Title, " ", "_")+"_"+d.TicketNo) + "." + ext
}

// safeName 只保留字母、数字、点、下划线和连字符
func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, s)
}

// FormatWeight 千分位格式，未知显示 N/A
func FormatWeight(w entity.Weight) string {
	kg, ok := w.Kg()
	if !ok {
		return entity.WeightUnknown
	}
	return humanize.CommafWithDigits(kg.InexactFloat64(), 2)
}

// FieldLabel customer_name -> Customer Name
func FieldLabel(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

func orNA(s string) string {
	if s == "" {
		return entity.WeightUnknown
	}
	return s
}

func temperature(t *float64) string {
	if t == nil {
		return ""
	}
	return strconv.FormatFloat(*t, 'f', -1, 64)
}

// PurchaseDocument 采购磅单导出内容
func PurchaseDocument(t entity.PurchaseTicket) Document {
	return Document{
		Kind:      entity.TicketKindPurchase,
		Title:     "Purchase Ticket",
		TicketNo:  t.ID,
		NetWeight: t.NetWeight,
		Rows: []Row{
			{Label: "Ticket Number", Value: t.ID},
			{Label: "Serial No", Value: t.SerialNo},
			{Label: "Date", Value: t.Date},
			{Label: "Customer", Value: t.CustomerName},
			{Label: "Time In", Value: t.TimeIn},
			{Label: "Order No", Value: t.PONo},
			{Label: "Time Out", Value: t.TimeOut},
			{Label: "Destination", Value: t.Destination},
			{Label: "Materials", Value: t.MaterialCode},
			{Label: "Transporter", Value: t.Transporter},
			{Label: "Gross Weight (kg)", Value: FormatWeight(t.GrossWeight)},
			{Label: "Truck Number", Value: t.TruckNo},
			{Label: "Tare Weight (kg)", Value: FormatWeight(t.TareWeight)},
			{Label: "Truck Driver", Value: t.DriverName},
			{Label: "Net Weight (kg)", Value: FormatWeight(t.NetWeight), Bold: true},
			{Label: "Source", Value: t.Origin},
			{Label: "Operator", Value: t.OperatorName},
			{Label: "Notes", Value: orNA(t.Notes)},
		},
		Fields: []Field{
			{"id", t.ID},
			{"serial_no", t.SerialNo},
			{"date", t.Date},
			{"customer_name", t.CustomerName},
			{"truck_no", t.TruckNo},
			{"origin", t.Origin},
			{"transporter", t.Transporter},
			{"material_code", t.MaterialCode},
			{"time_in", t.TimeIn},
			{"time_out", t.TimeOut},
			{"tare_weight", t.TareWeight.String()},
			{"po_no", t.PONo},
			{"gross_weight", t.GrossWeight.String()},
			{"net_weight", t.NetWeight.String()},
			{"driver_name", t.DriverName},
			{"destination", t.Destination},
			{"operator_name", t.OperatorName},
			{"status", t.Status},
			{"notes", t.Notes},
		},
	}
}

// SalesDocument 销售磅单导出内容；有温度时在出厂时间后插入温度行
func SalesDocument(t entity.SalesTicket) Document {
	rows := []Row{
		{Label: "Date", Value: t.Date},
		{Label: "Customer", Value: t.CustomerName},
		{Label: "Truck No.", Value: t.TruckNo},
		{Label: "Material Code", Value: t.MaterialCode},
		{Label: "LPO No.", Value: t.LPONo},
		{Label: "Transporter", Value: t.Transporter},
		{Label: "Driver Name", Value: t.DriverName},
		{Label: "Material Destination", Value: t.MaterialDestination},
		{Label: "Final Destination", Value: t.Destination},
		{Label: "Time In", Value: t.TimeIn},
		{Label: "Time Out", Value: t.TimeOut},
		{Label: "Gross Weight (kg)", Value: FormatWeight(t.GrossWeight)},
		{Label: "Tare Weight (kg)", Value: FormatWeight(t.TareWeight)},
		{Label: "Net Weight (kg)", Value: FormatWeight(t.NetWeight), Bold: true},
		{Label: "Operator", Value: t.OperatorName},
	}
	if t.Temperature != nil && *t.Temperature != 0 {
		rows = append(rows[:11], append([]Row{{Label: "Temperature (°C)", Value: temperature(t.Temperature)}}, rows[11:]...)...)
	}

	return Document{
		Kind:      entity.TicketKindSales,
		Title:     "Sales Ticket",
		TicketNo:  t.ID,
		NetWeight: t.NetWeight,
		Rows:      rows,
		Fields: []Field{
			{"id", t.ID},
			{"date", t.Date},
			{"customer_name", t.CustomerName},
			{"truck_no", t.TruckNo},
			{"material_destination", t.MaterialDestination},
			{"transporter", t.Transporter},
			{"material_code", t.MaterialCode},
			{"time_in", t.TimeIn},
			{"source_id", t.SourceID},
			{"time_out", t.TimeOut},
			{"temperature", temperature(t.Temperature)},
			{"tare_weight", t.TareWeight.String()},
			{"lpo_no", t.LPONo},
			{"gross_weight", t.GrossWeight.String()},
			{"driver_name", t.DriverName},
			{"net_weight", t.NetWeight.String()},
			{"destination", t.Destination},
			{"operator_name", t.OperatorName},
		},
	}
}
