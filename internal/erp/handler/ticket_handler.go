package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/bitfantasy/bws/internal/erp/export"
	"github.com/bitfantasy/bws/internal/erp/service"
	"github.com/bitfantasy/bws/internal/erp/ticket"
	"github.com/gin-gonic/gin"
)

// TicketHandler 磅单处理器，销售与采购共用
type TicketHandler[T service.TicketEntity] struct {
	svc    *service.TicketService[T]
	export *service.ExportService
}

func NewTicketHandler[T service.TicketEntity](svc *service.TicketService[T], exportSvc *service.ExportService) *TicketHandler[T] {
	return &TicketHandler[T]{svc: svc, export: exportSvc}
}

// List 磅单列表
// GET /api/v1/purchase-tickets?status=Pending&date_from=2023-10-01&date_to=2023-10-31&search=T-123
func (h *TicketHandler[T]) List(c *gin.Context) {
	q := ticket.QueryFromValues(c.Request.URL.Query())
	items, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}

	total := len(items)
	if c.Query("page") == "" {
		pageSize := max(total, 1)
		Success(c, ListResponse{Items: items, Pagination: NewPagination(1, pageSize, total)})
		return
	}

	page, pageSize := GetPagination(c)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	Success(c, ListResponse{Items: items[start:end], Pagination: NewPagination(page, pageSize, total)})
}

// Get 磅单详情
// GET /api/v1/purchase-tickets/:id
func (h *TicketHandler[T]) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, item)
}

// New 新建表单默认值
// GET /api/v1/purchase-tickets/new
func (h *TicketHandler[T]) New(c *gin.Context) {
	Success(c, h.svc.Initial(GetOperator(c)))
}

// CheckID 编号唯一性检查
// GET /api/v1/purchase-tickets/check-id?id=PT-001
func (h *TicketHandler[T]) CheckID(c *gin.Context) {
	id := c.Query("id")
	err := h.svc.CheckID(c.Request.Context(), id)
	var perr *service.PersistenceError
	if errors.As(err, &perr) {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{
		"id":        id,
		"available": err == nil,
		"message":   ticket.Message(err),
	})
}

// Preview 编辑器状态（净重、编号检查），不保存
// POST /api/v1/purchase-tickets/preview?id=PT-001
func (h *TicketHandler[T]) Preview(c *gin.Context) {
	var patch ticket.Draft
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	res, err := h.svc.Preview(c.Request.Context(), GetOperator(c), c.Query("id"), patch)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, res)
}

// Create 创建磅单
// POST /api/v1/purchase-tickets
func (h *TicketHandler[T]) Create(c *gin.Context) {
	var patch ticket.Draft
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	item, err := h.svc.Create(c.Request.Context(), GetOperator(c), patch)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, item)
}

// Update 更新磅单
// PUT /api/v1/purchase-tickets/:id
func (h *TicketHandler[T]) Update(c *gin.Context) {
	var patch ticket.Draft
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	item, err := h.svc.Update(c.Request.Context(), GetOperator(c), c.Param("id"), patch)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, item)
}

// Delete 删除磅单
// DELETE /api/v1/purchase-tickets/:id
func (h *TicketHandler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetOperator(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// BulkDeleteRequest 批量删除请求
type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// BulkDelete 批量删除磅单
// DELETE /api/v1/purchase-tickets  {"ids": [...]}
func (h *TicketHandler[T]) BulkDelete(c *gin.Context) {
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

func (h *TicketHandler[T]) document(c *gin.Context) (export.Document, bool) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return export.Document{}, false
	}
	return service.DocumentOf(*item), true
}

// ExportPDF 下载 PDF
// GET /api/v1/purchase-tickets/:id/export/pdf
func (h *TicketHandler[T]) ExportPDF(c *gin.Context) {
	doc, ok := h.document(c)
	if !ok {
		return
	}
	data, err := h.export.PDF(c.Request.Context(), GetOperator(c), doc)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	attachment(c, doc.FileName("pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportCSV 下载 CSV
// GET /api/v1/purchase-tickets/:id/export/csv
func (h *TicketHandler[T]) ExportCSV(c *gin.Context) {
	doc, ok := h.document(c)
	if !ok {
		return
	}
	data, err := h.export.CSV(doc)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	attachment(c, doc.FileName("csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Print 打印页
// GET /api/v1/purchase-tickets/:id/export/print
func (h *TicketHandler[T]) Print(c *gin.Context) {
	doc, ok := h.document(c)
	if !ok {
		return
	}
	data, err := h.export.Print(doc)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// Mailto 邮件分享链接
// GET /api/v1/purchase-tickets/:id/export/mailto
func (h *TicketHandler[T]) Mailto(c *gin.Context) {
	doc, ok := h.document(c)
	if !ok {
		return
	}
	Success(c, gin.H{"url": h.export.Mailto(doc)})
}

// ExportXLSX 按当前筛选条件导出 Excel
// GET /api/v1/purchase-tickets/export/xlsx?status=&date_from=&date_to=&search=
func (h *TicketHandler[T]) ExportXLSX(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), ticket.QueryFromValues(c.Request.URL.Query()))
	if err != nil {
		HandleError(c, err)
		return
	}
	docs := make([]export.Document, 0, len(items))
	for _, it := range items {
		docs = append(docs, service.DocumentOf(it))
	}

	f, filename, err := h.export.Workbook(h.svc.Kind(), docs)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	attachment(c, filename)
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// attachment 设置下载文件名，按 RFC 6266 转义
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
