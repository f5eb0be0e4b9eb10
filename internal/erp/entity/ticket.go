package entity

import "time"

// 采购磅单状态
const (
	PurchaseStatusPending   = "Pending"
	PurchaseStatusReceived  = "Received"
	PurchaseStatusCancelled = "Cancelled"
)

// PurchaseStatuses 采购磅单全部状态
var PurchaseStatuses = []string{PurchaseStatusPending, PurchaseStatusReceived, PurchaseStatusCancelled}

// TicketKind 磅单类型，各自独立的编号空间
type TicketKind string

const (
	TicketKindSales    TicketKind = "sales"
	TicketKindPurchase TicketKind = "purchase"
)

// TicketCore 销售/采购磅单公共字段
type TicketCore struct {
	ID           string   `json:"id" gorm:"primaryKey;size:64"`
	Date         string   `json:"date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	CustomerName string   `json:"customer_name" gorm:"size:200"`
	TruckNo      string   `json:"truck_no" gorm:"size:50;index"`
	Transporter  string   `json:"transporter" gorm:"size:200"`
	MaterialCode string   `json:"material_code" gorm:"size:100"`
	TimeIn       string   `json:"time_in" gorm:"size:5"` // HH:MM
	TimeOut      string   `json:"time_out" gorm:"size:5"`
	Temperature  *float64 `json:"temperature,omitempty"`
	DriverName   string   `json:"driver_name" gorm:"size:100"`
	Destination  string   `json:"destination" gorm:"size:200"`
	OperatorName string   `json:"operator_name" gorm:"size:100"`

	GrossWeight Weight `json:"gross_weight" gorm:"type:decimal(12,2)"`
	TareWeight  Weight `json:"tare_weight" gorm:"type:decimal(12,2)"`
	NetWeight   Weight `json:"net_weight" gorm:"type:decimal(12,2)"`

	Notes     string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t TicketCore) TicketID() string   { return t.ID }
func (t TicketCore) TicketDate() string { return t.Date }

// SalesTicket 销售磅单（出厂）
type SalesTicket struct {
	TicketCore
	LPONo               string `json:"lpo_no" gorm:"size:50"`
	MaterialDestination string `json:"material_destination" gorm:"size:200"`
	SourceID            string `json:"source_id" gorm:"size:50"`
}

func (SalesTicket) TableName() string {
	return "bws_sales_tickets"
}

func (SalesTicket) Kind() TicketKind { return TicketKindSales }

// TicketStatus 销售磅单无状态
func (SalesTicket) TicketStatus() string { return "" }

// SearchFields 关键字搜索字段
func (t SalesTicket) SearchFields() []string {
	return []string{t.ID, t.CustomerName, t.MaterialCode, t.TruckNo, t.LPONo}
}

// PurchaseTicket 采购磅单（进厂）
type PurchaseTicket struct {
	TicketCore
	SerialNo string `json:"serial_no" gorm:"size:50"`
	Origin   string `json:"origin" gorm:"size:200"` // 料源
	PONo     string `json:"po_no" gorm:"size:50;index"`
	Status   string `json:"status" gorm:"size:20;not null;default:Pending"`
}

func (PurchaseTicket) TableName() string {
	return "bws_purchase_tickets"
}

func (PurchaseTicket) Kind() TicketKind { return TicketKindPurchase }

func (t PurchaseTicket) TicketStatus() string { return t.Status }

// SearchFields 关键字搜索字段
func (t PurchaseTicket) SearchFields() []string {
	return []string{t.ID, t.CustomerName, t.MaterialCode, t.TruckNo, t.PONo}
}
