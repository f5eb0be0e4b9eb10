package handler

import (
	"github.com/bitfantasy/bws/internal/erp/navigation"
	"github.com/bitfantasy/bws/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册 /api/v1 下的业务路由；各分组按侧边栏角色表授权
func RegisterRoutes(v1 *gin.RouterGroup, h *Handlers, jwtSecret string) {
	// 认证 (无需登录)
	v1.POST("/auth/login", h.Auth.Login)

	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtSecret))
	{
		authorized.GET("/auth/me", h.Auth.GetCurrentUser)
		authorized.GET("/navigation", h.Auth.Navigation)
		authorized.GET("/settings", h.Auth.Settings)
		authorized.GET("/events", h.SSE.Stream)

		sales := authorized.Group("/sales-tickets", middleware.RequireAnyRole(navigation.RolesFor("/sales")...))
		registerTicketRoutes(sales, h.SalesTicket)

		purchases := authorized.Group("/purchase-tickets", middleware.RequireAnyRole(navigation.RolesFor("/purchases")...))
		registerTicketRoutes(purchases, h.PurchaseTicket)

		suppliers := authorized.Group("/suppliers", middleware.RequireAnyRole(navigation.RolesFor("/vendors")...))
		{
			suppliers.GET("", h.Supplier.ListSuppliers)
			suppliers.POST("", h.Supplier.CreateSupplier)
			suppliers.DELETE("", h.Supplier.BulkDeleteSuppliers)
			suppliers.GET("/:id", h.Supplier.GetSupplier)
			suppliers.PUT("/:id", h.Supplier.UpdateSupplier)
			suppliers.DELETE("/:id", h.Supplier.DeleteSupplier)
		}

		materials := authorized.Group("/raw-materials", middleware.RequireAnyRole(navigation.RolesFor("/materials")...))
		{
			materials.GET("", h.RawMaterial.List)
			materials.POST("", h.RawMaterial.Create)
			materials.GET("/units", h.RawMaterial.Units)
			materials.GET("/mix-design", h.RawMaterial.GetMixDesign)
			materials.PUT("/mix-design", h.RawMaterial.SaveMixDesign)
			materials.GET("/:id", h.RawMaterial.Get)
			materials.PUT("/:id", h.RawMaterial.Update)
			materials.DELETE("/:id", h.RawMaterial.Delete)
		}

		audit := authorized.Group("/activity-logs", middleware.RequireAnyRole(navigation.RolesFor("/audit")...))
		{
			audit.GET("", h.Activity.ListActivityLogs)
		}
	}
}

type ticketRoutes interface {
	List(*gin.Context)
	Get(*gin.Context)
	New(*gin.Context)
	CheckID(*gin.Context)
	Preview(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
	BulkDelete(*gin.Context)
	ExportPDF(*gin.Context)
	ExportCSV(*gin.Context)
	Print(*gin.Context)
	Mailto(*gin.Context)
	ExportXLSX(*gin.Context)
}

func registerTicketRoutes(g *gin.RouterGroup, h ticketRoutes) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("", h.BulkDelete)
	g.GET("/new", h.New)
	g.GET("/check-id", h.CheckID)
	g.POST("/preview", h.Preview)
	g.GET("/export/xlsx", h.ExportXLSX)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/export/pdf", h.ExportPDF)
	g.GET("/:id/export/csv", h.ExportCSV)
	g.GET("/:id/export/print", h.Print)
	g.GET("/:id/export/mailto", h.Mailto)
}
