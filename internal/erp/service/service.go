package service

import (
	"github.com/bitfantasy/bws/internal/config"
	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/repository"
	"github.com/bitfantasy/bws/internal/shared/clock"
	"github.com/bitfantasy/bws/internal/sse"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Auth           *AuthService
	SalesTicket    *TicketService[entity.SalesTicket]
	PurchaseTicket *TicketService[entity.PurchaseTicket]
	Supplier       *SupplierService
	RawMaterial    *RawMaterialService
	Activity       *ActivityService
	Export         *ExportService
	Settings       ClientSettings
}

// ClientSettings 列表页和终端浏览器使用的界面参数
type ClientSettings struct {
	SearchDebounceMS int64  `json:"search_debounce_ms"`
	CompanyName      string `json:"company_name"`
}

// NewServices 创建服务集合；rdb 为 nil 时不使用列表缓存
func NewServices(repos *repository.Repositories, rdb *redis.Client, hub *sse.Hub, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := clock.Real()

	auth, err := NewAuthService(cfg)
	if err != nil {
		return nil, err
	}
	if auth.UsingDefaultUsers() {
		logger.Warn("auth.users not configured, built-in accounts with default passwords are active")
	}

	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO client init failed, PDF archive disabled", zap.Error(err))
			minioClient = nil
		}
	}

	cache := NewListCache(rdb, cfg.Redis.ListTTL, logger)
	activity := NewActivityService(repos.ActivityLog, logger)

	return &Services{
		Auth:           auth,
		SalesTicket:    NewSalesTicketService(repos.SalesTicket, cache, activity, hub, clk),
		PurchaseTicket: NewPurchaseTicketService(repos.PurchaseTicket, cache, activity, hub, clk),
		Supplier:       NewSupplierService(repos.Supplier, activity, hub),
		RawMaterial:    NewRawMaterialService(repos.RawMaterial, activity, hub, clk),
		Activity:       activity,
		Export:         NewExportService(minioClient, cfg.MinIO.Bucket, cfg.Export.CompanyName, cfg.Export.ArchivePDF, activity, clk, logger),
		Settings: ClientSettings{
			SearchDebounceMS: cfg.Search.Debounce.Milliseconds(),
			CompanyName:      cfg.Export.CompanyName,
		},
	}, nil
}
