package repository

import (
	"errors"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	SalesTicket    *TicketRepository[entity.SalesTicket]
	PurchaseTicket *TicketRepository[entity.PurchaseTicket]
	Supplier       *SupplierRepository
	RawMaterial    *RawMaterialRepository
	ActivityLog    *ActivityLogRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		SalesTicket:    NewTicketRepository[entity.SalesTicket](db),
		PurchaseTicket: NewTicketRepository[entity.PurchaseTicket](db),
		Supplier:       NewSupplierRepository(db),
		RawMaterial:    NewRawMaterialRepository(db),
		ActivityLog:    NewActivityLogRepository(db),
	}
}
