package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RawMaterialRepository 原材料仓库
type RawMaterialRepository struct {
	db *gorm.DB
}

func NewRawMaterialRepository(db *gorm.DB) *RawMaterialRepository {
	return &RawMaterialRepository{db: db}
}

// FindAll 按分类、单位筛选原材料
func (r *RawMaterialRepository) FindAll(ctx context.Context, category, unit string) ([]entity.RawMaterial, error) {
	items := []entity.RawMaterial{}
	query := r.db.WithContext(ctx).Model(&entity.RawMaterial{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if unit != "" {
		query = query.Where("unit_of_measure = ?", unit)
	}
	err := query.Order("id ASC").Find(&items).Error
	return items, err
}

// FindByID 根据ID查找原材料
func (r *RawMaterialRepository) FindByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create 创建原材料
func (r *RawMaterialRepository) Create(ctx context.Context, m *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Update 更新原材料
func (r *RawMaterialRepository) Update(ctx context.Context, m *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// UpdateStocks 在一个事务内更新多条记录的数量（配合比保存）
func (r *RawMaterialRepository) UpdateStocks(ctx context.Context, stocks map[string]decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, stock := range stocks {
			result := tx.Model(&entity.RawMaterial{}).Where("id = ?", id).Update("stock", stock)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("raw material %s: %w", id, ErrNotFound)
			}
		}
		return nil
	})
}

// Delete 删除原材料
func (r *RawMaterialRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.RawMaterial{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count 原材料数量
func (r *RawMaterialRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.RawMaterial{}).Count(&count).Error
	return count, err
}

// GenerateCode 生成原材料编码 RM-{3位}
func (r *RawMaterialRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.RawMaterial{}).
		Select("COALESCE(MAX(id), 'RM-000')").
		Where("id LIKE ?", "RM-%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "RM-%03d", &seq)
	seq++
	return fmt.Sprintf("RM-%03d", seq), nil
}
