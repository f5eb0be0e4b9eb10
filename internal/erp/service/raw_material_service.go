package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/repository"
	"github.com/bitfantasy/bws/internal/erp/ticket"
	"github.com/bitfantasy/bws/internal/shared/clock"
	"github.com/bitfantasy/bws/internal/sse"
	"github.com/shopspring/decimal"
)

// MixDesignTolerance 配合比合计允许的偏差（百分点）
var MixDesignTolerance = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// RawMaterialService 原材料服务
type RawMaterialService struct {
	repo     *repository.RawMaterialRepository
	activity *ActivityService
	hub      *sse.Hub
	clock    clock.Clock
}

func NewRawMaterialService(repo *repository.RawMaterialRepository, activity *ActivityService, hub *sse.Hub, clk clock.Clock) *RawMaterialService {
	if clk == nil {
		clk = clock.Real()
	}
	return &RawMaterialService{repo: repo, activity: activity, hub: hub, clock: clk}
}

// CreateRawMaterialRequest 创建原材料请求
type CreateRawMaterialRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Stock       decimal.Decimal `json:"stock"`
	Unit        string          `json:"unit_of_measure"`
	SupplierID  string          `json:"supplier_id"`
	DateAdded   string          `json:"date_added"`
	Description string          `json:"description"`
}

// UpdateRawMaterialRequest 更新原材料请求
type UpdateRawMaterialRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Stock       *decimal.Decimal `json:"stock"`
	Unit        *string          `json:"unit_of_measure"`
	SupplierID  *string          `json:"supplier_id"`
	DateAdded   *string          `json:"date_added"`
	Description *string          `json:"description"`
}

// List 按分类、单位筛选
func (s *RawMaterialService) List(ctx context.Context, category, unit string) ([]entity.RawMaterial, error) {
	return s.repo.FindAll(ctx, category, unit)
}

// Get 获取原材料详情
func (s *RawMaterialService) Get(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建原材料
func (s *RawMaterialService) Create(ctx context.Context, op Operator, req *CreateRawMaterialRequest) (*entity.RawMaterial, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	unit := req.Unit
	if unit == "" {
		unit = entity.UnitTon
	}
	if !slices.Contains(entity.Units, unit) {
		return nil, ErrInvalidUnit
	}

	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, persistence("generate raw material code", err)
	}

	m := &entity.RawMaterial{
		ID:          code,
		Name:        name,
		Category:    strings.TrimSpace(req.Category),
		Stock:       req.Stock,
		Unit:        unit,
		SupplierID:  req.SupplierID,
		DateAdded:   req.DateAdded,
		Description: req.Description,
	}
	if m.DateAdded == "" {
		m.DateAdded = s.clock.Now().Format(ticket.DateLayout)
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, persistence("create raw material", err)
	}

	s.changed(ctx, op, m.ID, entity.ActionCreate, "created raw material "+m.Name, m)
	return m, nil
}

// MixDesignBalance 配合比合计
type MixDesignBalance struct {
	Total    string `json:"total"`
	Balanced bool   `json:"balanced"`
}

// RawMaterialUpdate 更新结果；修改前或修改后为 Percent 组分时附带配合比合计
type RawMaterialUpdate struct {
	*entity.RawMaterial
	MixDesign *MixDesignBalance `json:"mix_design,omitempty"`
}

// Update 更新原材料
func (s *RawMaterialService) Update(ctx context.Context, op Operator, id string, req *UpdateRawMaterialRequest) (*RawMaterialUpdate, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasComponent := m.Unit == entity.UnitPercent

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		m.Name = name
	}
	if req.Category != nil {
		m.Category = strings.TrimSpace(*req.Category)
	}
	if req.Stock != nil {
		m.Stock = *req.Stock
	}
	if req.Unit != nil {
		if !slices.Contains(entity.Units, *req.Unit) {
			return nil, ErrInvalidUnit
		}
		m.Unit = *req.Unit
	}
	if req.SupplierID != nil {
		m.SupplierID = *req.SupplierID
	}
	if req.DateAdded != nil {
		m.DateAdded = *req.DateAdded
	}
	if req.Description != nil {
		m.Description = *req.Description
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, persistence("update raw material", err)
	}

	s.changed(ctx, op, m.ID, entity.ActionUpdate, "updated raw material "+m.Name, m)

	res := &RawMaterialUpdate{RawMaterial: m}
	if wasComponent || m.Unit == entity.UnitPercent {
		// 保存已成功，合计读取失败时不附带
		if design, err := s.MixDesign(ctx); err == nil {
			res.MixDesign = &MixDesignBalance{Total: design.Total.StringFixed(2), Balanced: design.Balanced}
		}
	}
	return res, nil
}

// Delete 删除原材料
func (s *RawMaterialService) Delete(ctx context.Context, op Operator, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, op, id, entity.ActionDelete, "deleted raw material "+id, nil)
	return nil
}

// MixDesign 配合比：单位为 Percent 的原材料
type MixDesign struct {
	Components []entity.RawMaterial `json:"components"`
	Total      decimal.Decimal      `json:"total"`
	Balanced   bool                 `json:"balanced"`
}

func newMixDesign(components []entity.RawMaterial) *MixDesign {
	total := decimal.Zero
	for _, c := range components {
		total = total.Add(c.Stock)
	}
	return &MixDesign{
		Components: components,
		Total:      total,
		Balanced:   balanced(total),
	}
}

func balanced(total decimal.Decimal) bool {
	return total.Sub(hundred).Abs().LessThanOrEqual(MixDesignTolerance)
}

// MixDesign 当前配合比
func (s *RawMaterialService) MixDesign(ctx context.Context) (*MixDesign, error) {
	components, err := s.repo.FindAll(ctx, "", entity.UnitPercent)
	if err != nil {
		return nil, persistence("load mix design", err)
	}
	return newMixDesign(components), nil
}

// SaveMixDesign 保存配合比，只写入有变化的组分。合计偏离 100% 且未确认时返回 MixDesignWarning
func (s *RawMaterialService) SaveMixDesign(ctx context.Context, op Operator, proportions map[string]decimal.Decimal, force bool) (*MixDesign, error) {
	current, err := s.MixDesign(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(current.Components))
	for i, c := range current.Components {
		byID[c.ID] = i
	}

	next := slices.Clone(current.Components)
	changed := map[string]decimal.Decimal{}
	for id, pct := range proportions {
		i, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%s: %w", id, ErrNotMixComponent)
		}
		if !next[i].Stock.Equal(pct) {
			next[i].Stock = pct
			changed[id] = pct
		}
	}

	design := newMixDesign(next)
	if !design.Balanced && !force {
		return nil, &MixDesignWarning{Total: design.Total.StringFixed(2)}
	}
	if len(changed) == 0 {
		return design, nil
	}

	if err := s.repo.UpdateStocks(ctx, changed); err != nil {
		return nil, persistence("save mix design", err)
	}

	ids := make([]string, 0, len(changed))
	for id := range changed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	s.activity.Record(ctx, op, EntityRawMaterial, "mix_design", entity.ActionMixDesign,
		fmt.Sprintf("updated mix design, total %s%%", design.Total.StringFixed(2)), changed)
	s.hub.PublishChange(sse.RecordChange{Entity: EntityRawMaterial, IDs: ids, Action: entity.ActionMixDesign, UserID: op.ID})
	return design, nil
}

func (s *RawMaterialService) changed(ctx context.Context, op Operator, id, action, content string, snapshot any) {
	s.activity.Record(ctx, op, EntityRawMaterial, id, action, content, snapshot)
	s.hub.PublishChange(sse.RecordChange{Entity: EntityRawMaterial, IDs: []string{id}, Action: action, UserID: op.ID})
}
