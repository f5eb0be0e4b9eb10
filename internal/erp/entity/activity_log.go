package entity

import (
	"time"

	"gorm.io/datatypes"
)

// 操作类型
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionBulkDelete = "bulk_delete"
	ActionMixDesign  = "mix_design"
	ActionExport     = "export"
)

// ActivityLog 操作日志（审计）
type ActivityLog struct {
	ID           string         `json:"id" gorm:"primaryKey;size:32"`
	EntityType   string         `json:"entity_type" gorm:"size:50;not null;index:idx_activity_entity"` // sales_ticket/purchase_ticket/supplier/raw_material
	EntityID     string         `json:"entity_id" gorm:"size:64;not null;index:idx_activity_entity"`
	Action       string         `json:"action" gorm:"size:50;not null"`
	Content      string         `json:"content" gorm:"type:text"`
	Snapshot     datatypes.JSON `json:"snapshot,omitempty"`
	OperatorID   string         `json:"operator_id" gorm:"size:32"`
	OperatorName string         `json:"operator_name" gorm:"size:100"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
}

func (ActivityLog) TableName() string {
	return "bws_activity_logs"
}
