package handler

import (
	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RawMaterialHandler 原材料处理器
type RawMaterialHandler struct {
	svc *service.RawMaterialService
}

func NewRawMaterialHandler(svc *service.RawMaterialService) *RawMaterialHandler {
	return &RawMaterialHandler{svc: svc}
}

// List 原材料列表
// GET /api/v1/raw-materials?category=Aggregates&unit=Ton
func (h *RawMaterialHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("category"), c.Query("unit"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, ListResponse{Items: items, Pagination: NewPagination(1, max(len(items), 1), len(items))})
}

// Units 计量单位
// GET /api/v1/raw-materials/units
func (h *RawMaterialHandler) Units(c *gin.Context) {
	Success(c, entity.Units)
}

// Get 原材料详情
// GET /api/v1/raw-materials/:id
func (h *RawMaterialHandler) Get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, m)
}

// Create 创建原材料
// POST /api/v1/raw-materials
func (h *RawMaterialHandler) Create(c *gin.Context) {
	var req service.CreateRawMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m, err := h.svc.Create(c.Request.Context(), GetOperator(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, m)
}

// Update 更新原材料
// PUT /api/v1/raw-materials/:id
func (h *RawMaterialHandler) Update(c *gin.Context) {
	var req service.UpdateRawMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m, err := h.svc.Update(c.Request.Context(), GetOperator(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, m)
}

// Delete 删除原材料
// DELETE /api/v1/raw-materials/:id
func (h *RawMaterialHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetOperator(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// GetMixDesign 当前配合比
// GET /api/v1/raw-materials/mix-design
func (h *RawMaterialHandler) GetMixDesign(c *gin.Context) {
	design, err := h.svc.MixDesign(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, design)
}

// SaveMixDesignRequest 保存配合比请求；force 为 true 表示已确认合计不为 100%
type SaveMixDesignRequest struct {
	Proportions map[string]decimal.Decimal `json:"proportions" binding:"required"`
	Force       bool                       `json:"force"`
}

// SaveMixDesign 保存配合比
// PUT /api/v1/raw-materials/mix-design
func (h *RawMaterialHandler) SaveMixDesign(c *gin.Context) {
	var req SaveMixDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	design, err := h.svc.SaveMixDesign(c.Request.Context(), GetOperator(c), req.Proportions, req.Force)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, design)
}
