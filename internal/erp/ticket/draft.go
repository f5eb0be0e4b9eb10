package ticket

import "github.com/bitfantasy/bws/internal/erp/entity"

// 表单默认值
const (
	DefaultTransporter         = "RAD INTERNATIONAL"
	DefaultPurchaseDestination = "DIC-100 ASPHALT PLANT"
	DefaultSalesMaterialCode   = "WET MIX"
	DefaultMaterialDestination = "WET MIX, MACADAM"
	NotApplicable              = "N/A"
)

// PurchaseMaterials 采购磅单可选物料
var PurchaseMaterials = []string{
	`0-5 mm (3/16")`,
	`5-10 mm (3/8")`,
	`10-20 mm (3/4")`,
	`20-40 mm (1 1/2")`,
}

// Draft 磅单草稿，所有字段可选；nil 表示未填写
type Draft struct {
	ID           *string        `json:"id"`
	Date         *string        `json:"date"`
	CustomerName *string        `json:"customer_name"`
	TruckNo      *string        `json:"truck_no"`
	Transporter  *string        `json:"transporter"`
	MaterialCode *string        `json:"material_code"`
	TimeIn       *string        `json:"time_in"`
	TimeOut      *string        `json:"time_out"`
	Temperature  *float64       `json:"temperature"`
	DriverName   *string        `json:"driver_name"`
	Destination  *string        `json:"destination"`
	OperatorName *string        `json:"operator_name"`
	GrossWeight  *entity.Weight `json:"gross_weight"`
	TareWeight   *entity.Weight `json:"tare_weight"`
	Notes        *string        `json:"notes"`

	// 销售磅单
	LPONo               *string `json:"lpo_no"`
	MaterialDestination *string `json:"material_destination"`
	SourceID            *string `json:"source_id"`

	// 采购磅单
	SerialNo *string `json:"serial_no"`
	Origin   *string `json:"origin"`
	PONo     *string `json:"po_no"`
	Status   *string `json:"status"`
}

// NewSalesDraft 新建销售磅单的初始表单
func NewSalesDraft(today string) Draft {
	unknown := entity.UnknownWeight()
	return Draft{
		ID:                  ptr(""),
		Date:                ptr(today),
		MaterialCode:        ptr(DefaultSalesMaterialCode),
		MaterialDestination: ptr(DefaultMaterialDestination),
		SourceID:            ptr(NotApplicable),
		OperatorName:        ptr(NotApplicable),
		GrossWeight:         &unknown,
		TareWeight:          &unknown,
	}
}

// NewPurchaseDraft 新建采购磅单的初始表单，操作员为当前用户
func NewPurchaseDraft(today, operator string) Draft {
	unknown := entity.UnknownWeight()
	return Draft{
		ID:           ptr(""),
		Date:         ptr(today),
		CustomerName: ptr(NotApplicable),
		Transporter:  ptr(DefaultTransporter),
		Destination:  ptr(DefaultPurchaseDestination),
		OperatorName: ptr(operator),
		Status:       ptr(entity.PurchaseStatusPending),
		GrossWeight:  &unknown,
		TareWeight:   &unknown,
	}
}

// DraftFromSales 编辑模式：以已保存的销售磅单为草稿
func DraftFromSales(t entity.SalesTicket) Draft {
	d := draftFromCore(t.TicketCore)
	d.LPONo = ptr(t.LPONo)
	d.MaterialDestination = ptr(t.MaterialDestination)
	d.SourceID = ptr(t.SourceID)
	return d
}

// DraftFromPurchase 编辑模式：以已保存的采购磅单为草稿
func DraftFromPurchase(t entity.PurchaseTicket) Draft {
	d := draftFromCore(t.TicketCore)
	d.SerialNo = ptr(t.SerialNo)
	d.Origin = ptr(t.Origin)
	d.PONo = ptr(t.PONo)
	d.Status = ptr(t.Status)
	return d
}

func draftFromCore(c entity.TicketCore) Draft {
	gross, tare := c.GrossWeight, c.TareWeight
	d := Draft{
		ID:           ptr(c.ID),
		Date:         ptr(c.Date),
		CustomerName: ptr(c.CustomerName),
		TruckNo:      ptr(c.TruckNo),
		Transporter:  ptr(c.Transporter),
		MaterialCode: ptr(c.MaterialCode),
		TimeIn:       ptr(c.TimeIn),
		TimeOut:      ptr(c.TimeOut),
		DriverName:   ptr(c.DriverName),
		Destination:  ptr(c.Destination),
		OperatorName: ptr(c.OperatorName),
		GrossWeight:  &gross,
		TareWeight:   &tare,
		Notes:        ptr(c.Notes),
	}
	if c.Temperature != nil {
		temp := *c.Temperature
		d.Temperature = &temp
	}
	return d
}

// Merge 用 patch 中已填写的字段覆盖草稿
func (d Draft) Merge(patch Draft) Draft {
	if patch.ID != nil {
		d.ID = patch.ID
	}
	if patch.Date != nil {
		d.Date = patch.Date
	}
	if patch.CustomerName != nil {
		d.CustomerName = patch.CustomerName
	}
	if patch.TruckNo != nil {
		d.TruckNo = patch.TruckNo
	}
	if patch.Transporter != nil {
		d.Transporter = patch.Transporter
	}
	if patch.MaterialCode != nil {
		d.MaterialCode = patch.MaterialCode
	}
	if patch.TimeIn != nil {
		d.TimeIn = patch.TimeIn
	}
	if patch.TimeOut != nil {
		d.TimeOut = patch.TimeOut
	}
	if patch.Temperature != nil {
		d.Temperature = patch.Temperature
	}
	if patch.DriverName != nil {
		d.DriverName = patch.DriverName
	}
	if patch.Destination != nil {
		d.Destination = patch.Destination
	}
	if patch.OperatorName != nil {
		d.OperatorName = patch.OperatorName
	}
	if patch.GrossWeight != nil {
		d.GrossWeight = patch.GrossWeight
	}
	if patch.TareWeight != nil {
		d.TareWeight = patch.TareWeight
	}
	if patch.Notes != nil {
		d.Notes = patch.Notes
	}
	if patch.LPONo != nil {
		d.LPONo = patch.LPONo
	}
	if patch.MaterialDestination != nil {
		d.MaterialDestination = patch.MaterialDestination
	}
	if patch.SourceID != nil {
		d.SourceID = patch.SourceID
	}
	if patch.SerialNo != nil {
		d.SerialNo = patch.SerialNo
	}
	if patch.Origin != nil {
		d.Origin = patch.Origin
	}
	if patch.PONo != nil {
		d.PONo = patch.PONo
	}
	if patch.Status != nil {
		d.Status = patch.Status
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func weight(p *entity.Weight) entity.Weight {
	if p == nil {
		return entity.UnknownWeight()
	}
	return *p
}
