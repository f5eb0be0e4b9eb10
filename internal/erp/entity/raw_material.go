package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// 计量单位
const (
	UnitTon        = "Ton"
	UnitCubicMeter = "Cubic Meter"
	UnitBag        = "Bag"
	UnitDrum       = "Drum"
	UnitLiter      = "Liter"
	UnitKilogram   = "Kilogram"
	UnitPercent    = "Percent" // 配合比组分
)

// Units 全部计量单位
var Units = []string{UnitTon, UnitCubicMeter, UnitBag, UnitDrum, UnitLiter, UnitKilogram, UnitPercent}

// 原材料分类
const (
	MaterialCategoryAggregates = "Aggregates"
	MaterialCategoryLiquid     = "Liquid"
)

// RawMaterial 原材料；单位为 Percent 时 Stock 表示配合比百分数
type RawMaterial struct {
	ID          string          `json:"id" gorm:"primaryKey;size:32"` // RM-001
	Name        string          `json:"name" gorm:"size:200;not null"`
	Category    string          `json:"category" gorm:"size:50;index"`
	Stock       decimal.Decimal `json:"stock" gorm:"type:decimal(14,4);not null;default:0"`
	Unit        string          `json:"unit_of_measure" gorm:"column:unit_of_measure;size:20;not null"`
	SupplierID  string          `json:"supplier_id" gorm:"size:32;index"` // 弱引用，删除供应商不级联
	DateAdded   string          `json:"date_added" gorm:"size:10"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (RawMaterial) TableName() string {
	return "bws_raw_materials"
}

// IsMixComponent 是否配合比组分
func (m RawMaterial) IsMixComponent() bool {
	return m.Unit == UnitPercent
}
