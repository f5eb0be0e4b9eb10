package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"gorm.io/gorm"
)

// SupplierRepository 供应商仓库
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// FindAll 查询供应商列表
func (r *SupplierRepository) FindAll(ctx context.Context, search string) ([]entity.Supplier, error) {
	items := []entity.Supplier{}
	query := r.db.WithContext(ctx).Model(&entity.Supplier{})

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(contact_person) LIKE LOWER(?) OR id LIKE ?", like, like, like)
	}

	err := query.Order("id ASC").Find(&items).Error
	return items, err
}

// FindByID 根据ID查找供应商
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// Create 创建供应商
func (r *SupplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// Update 更新供应商
func (r *SupplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete 删除供应商
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Supplier{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany 批量删除供应商
func (r *SupplierRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&entity.Supplier{})
	return result.RowsAffected, result.Error
}

// Count 供应商数量
func (r *SupplierRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Supplier{}).Count(&count).Error
	return count, err
}

// GenerateCode 生成供应商编码 SUP-{3位}
func (r *SupplierRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Supplier{}).
		Select("COALESCE(MAX(id), 'SUP-000')").
		Where("id LIKE ?", "SUP-%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "SUP-%03d", &seq)
	seq++
	return fmt.Sprintf("SUP-%03d", seq), nil
}
