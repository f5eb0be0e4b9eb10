package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/ticket"
	"gorm.io/gorm"
)

// TicketModel 销售磅单或采购磅单
type TicketModel interface {
	entity.SalesTicket | entity.PurchaseTicket
	TicketID() string
}

// TicketRepository 磅单仓库，销售与采购各一张表
type TicketRepository[T TicketModel] struct {
	db *gorm.DB
}

func NewTicketRepository[T TicketModel](db *gorm.DB) *TicketRepository[T] {
	return &TicketRepository[T]{db: db}
}

// List 按录入顺序返回全部磅单
func (r *TicketRepository[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// FindByID 根据编号查找磅单
func (r *TicketRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// IDs 已有编号集合
func (r *TicketRepository[T]) IDs(ctx context.Context) (ticket.IDSet, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(new(T)).Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ticket.NewIDSet(ids...), nil
}

// Create 创建磅单；主键冲突返回 DuplicateIDError
func (r *TicketRepository[T]) Create(ctx context.Context, item *T) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ticket.DuplicateIDError{ID: (*item).TicketID()}
	}
	return err
}

// Update 整单保存
func (r *TicketRepository[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete 删除磅单
func (r *TicketRepository[T]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany 批量删除，返回删除条数
func (r *TicketRepository[T]) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(new(T))
	return result.RowsAffected, result.Error
}
