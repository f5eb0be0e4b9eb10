package handler

import (
	"errors"
	"strconv"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/repository"
	"github.com/bitfantasy/bws/internal/erp/service"
	"github.com/bitfantasy/bws/internal/erp/ticket"
	"github.com/bitfantasy/bws/internal/sse"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Auth           *AuthHandler
	SalesTicket    *TicketHandler[entity.SalesTicket]
	PurchaseTicket *TicketHandler[entity.PurchaseTicket]
	Supplier       *SupplierHandler
	RawMaterial    *RawMaterialHandler
	Activity       *ActivityHandler
	SSE            *SSEHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, hub *sse.Hub) *Handlers {
	return &Handlers{
		Auth:           NewAuthHandler(svc.Auth, svc.Settings),
		SalesTicket:    NewTicketHandler(svc.SalesTicket, svc.Export),
		PurchaseTicket: NewTicketHandler(svc.PurchaseTicket, svc.Export),
		Supplier:       NewSupplierHandler(svc.Supplier),
		RawMaterial:    NewRawMaterialHandler(svc.RawMaterial),
		Activity:       NewActivityHandler(svc.Activity),
		SSE:            NewSSEHandler(hub),
	}
}

// === 响应辅助函数 ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(page, pageSize, total int) *Pagination {
	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	ErrorWithData(c, code, message, nil)
}

func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// 业务错误码
const (
	CodeMissingTicketNo    = 40001
	CodeInvalidField       = 40002
	CodeInvalidCredentials = 40101
	CodeDuplicateTicketNo  = 40901
	CodeMixDesignUnbalance = 40902
)

// HandleError 把服务层错误映射为响应
func HandleError(c *gin.Context, err error) {
	var verr *ticket.ValidationError
	var warn *service.MixDesignWarning
	var perr *service.PersistenceError

	switch {
	case errors.Is(err, ticket.ErrDuplicateID):
		ErrorWithData(c, CodeDuplicateTicketNo, ticket.Message(err), gin.H{"field": "id"})
	case errors.Is(err, ticket.ErrMissingID):
		ErrorWithData(c, CodeMissingTicketNo, ticket.Message(err), gin.H{"field": "id"})
	case errors.As(err, &verr):
		ErrorWithData(c, CodeInvalidField, verr.Error(), gin.H{"field": verr.Field})
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "record not found")
	case errors.As(err, &warn):
		ErrorWithData(c, CodeMixDesignUnbalance, warn.Error(), gin.H{"total": warn.Total})
	case errors.Is(err, service.ErrInvalidCredentials):
		Error(c, CodeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidUnit),
		errors.Is(err, service.ErrNotMixComponent):
		BadRequest(c, err.Error())
	case errors.As(err, &perr):
		InternalError(c, perr.Error())
	default:
		InternalError(c, err.Error())
	}
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetOperator 当前登录用户
func GetOperator(c *gin.Context) service.Operator {
	op := service.Operator{ID: GetUserID(c)}
	if name, ok := c.Get("user_name"); ok {
		op.Name, _ = name.(string)
	}
	return op
}

// GetRoles 当前用户角色
func GetRoles(c *gin.Context) []string {
	value, _ := c.Get("roles")
	roles, _ := value.([]string)
	return roles
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
