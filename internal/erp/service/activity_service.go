package service

import (
	"context"
	"encoding/json"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// 审计实体类型
const (
	EntitySalesTicket    = "sales_ticket"
	EntityPurchaseTicket = "purchase_ticket"
	EntitySupplier       = "supplier"
	EntityRawMaterial    = "raw_material"
)

// Operator 当前操作人
type Operator struct {
	ID   string
	Name string
}

// ActivityService 操作日志服务
type ActivityService struct {
	repo   *repository.ActivityLogRepository
	logger *zap.Logger
}

func NewActivityService(repo *repository.ActivityLogRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger}
}

// Record 记录一条操作日志，失败只写日志不影响业务
func (s *ActivityService) Record(ctx context.Context, op Operator, entityType, entityID, action, content string, snapshot any) {
	if s == nil || s.repo == nil {
		return
	}
	log := &entity.ActivityLog{
		EntityType:   entityType,
		EntityID:     entityID,
		Action:       action,
		Content:      content,
		OperatorID:   op.ID,
		OperatorName: op.Name,
	}
	if snapshot != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			log.Snapshot = datatypes.JSON(data)
		}
	}
	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Warn("failed to write activity log",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

// List 查询操作日志
func (s *ActivityService) List(ctx context.Context, entityType, entityID string, page, pageSize int) ([]entity.ActivityLog, int64, error) {
	return s.repo.FindAll(ctx, entityType, entityID, page, pageSize)
}
