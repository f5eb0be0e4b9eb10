package entity

import "time"

// Supplier 供应商（料场、石料厂）
type Supplier struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"` // SUP-001
	Name          string    `json:"name" gorm:"size:200;not null"`
	ContactPerson string    `json:"contact_person" gorm:"size:100"`
	Phone         string    `json:"phone" gorm:"size:50"`
	Email         string    `json:"email" gorm:"size:200"`
	Address       string    `json:"address" gorm:"size:500"`
	CreatedBy     string    `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "bws_suppliers"
}
