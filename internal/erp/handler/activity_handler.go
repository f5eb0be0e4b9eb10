package handler

import (
	"github.com/bitfantasy/bws/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// ActivityHandler 操作日志处理器
type ActivityHandler struct {
	svc *service.ActivityService
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// ListActivityLogs 查询操作日志
// GET /api/v1/activity-logs?entity_type=purchase_ticket&entity_id=PT-001&page=1&page_size=20
func (h *ActivityHandler) ListActivityLogs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), c.Query("entity_type"), c.Query("entity_id"), page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, ListResponse{Items: items, Pagination: NewPagination(page, pageSize, int(total))})
}
