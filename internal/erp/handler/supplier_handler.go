package handler

import (
	"github.com/bitfantasy/bws/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// SupplierHandler 供应商处理器
type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// ListSuppliers 供应商列表
// GET /api/v1/suppliers?search=xxx
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, ListResponse{Items: items, Pagination: NewPagination(1, max(len(items), 1), len(items))})
}

// GetSupplier 供应商详情
// GET /api/v1/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, supplier)
}

// CreateSupplier 创建供应商
// POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Create(c.Request.Context(), GetOperator(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, supplier)
}

// UpdateSupplier 更新供应商
// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), GetOperator(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, supplier)
}

// DeleteSupplier 删除供应商
// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetOperator(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// BulkDeleteSuppliers 批量删除供应商
// DELETE /api/v1/suppliers  {"ids": [...]}
func (h *SupplierHandler) BulkDeleteSuppliers(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	n, err := h.svc.DeleteMany(c.Request.Context(), GetOperator(c), req.IDs)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{"deleted": n})
}
