package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/repository"
	"github.com/bitfantasy/bws/internal/sse"
)

// SupplierService 供应商服务
type SupplierService struct {
	repo     *repository.SupplierRepository
	activity *ActivityService
	hub      *sse.Hub
}

func NewSupplierService(repo *repository.SupplierRepository, activity *ActivityService, hub *sse.Hub) *SupplierService {
	return &SupplierService{repo: repo, activity: activity, hub: hub}
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
}

// List 获取供应商列表
func (s *SupplierService) List(ctx context.Context, search string) ([]entity.Supplier, error) {
	return s.repo.FindAll(ctx, strings.TrimSpace(search))
}

// Get 获取供应商详情
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, op Operator, req *CreateSupplierRequest) (*entity.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, persistence("generate supplier code", err)
	}

	supplier := &entity.Supplier{
		ID:            code,
		Name:          name,
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		Address:       strings.TrimSpace(req.Address),
		CreatedBy:     op.ID,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, persistence("create supplier", err)
	}

	s.changed(ctx, op, supplier.ID, entity.ActionCreate, "created supplier "+supplier.Name, supplier)
	return supplier, nil
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, op Operator, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		supplier.Name = name
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = strings.TrimSpace(*req.ContactPerson)
	}
	if req.Phone != nil {
		supplier.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		supplier.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		supplier.Address = strings.TrimSpace(*req.Address)
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, persistence("update supplier", err)
	}

	s.changed(ctx, op, supplier.ID, entity.ActionUpdate, "updated supplier "+supplier.Name, supplier)
	return supplier, nil
}

// Delete 删除供应商
func (s *SupplierService) Delete(ctx context.Context, op Operator, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, op, id, entity.ActionDelete, "deleted supplier "+id, nil)
	return nil
}

// DeleteMany 批量删除供应商
func (s *SupplierService) DeleteMany(ctx context.Context, op Operator, ids []string) (int64, error) {
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, persistence("delete suppliers", err)
	}
	if n > 0 {
		s.activity.Record(ctx, op, EntitySupplier, "bulk", entity.ActionBulkDelete, fmt.Sprintf("deleted %d suppliers", n), ids)
		s.hub.PublishChange(sse.RecordChange{Entity: EntitySupplier, IDs: ids, Action: entity.ActionBulkDelete, UserID: op.ID})
	}
	return n, nil
}

func (s *SupplierService) changed(ctx context.Context, op Operator, id, action, content string, snapshot any) {
	s.activity.Record(ctx, op, EntitySupplier, id, action, content, snapshot)
	s.hub.PublishChange(sse.RecordChange{Entity: EntitySupplier, IDs: []string{id}, Action: action, UserID: op.ID})
}
