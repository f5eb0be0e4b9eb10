package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/repository"
	"github.com/bitfantasy/bws/internal/erp/ticket"
	"github.com/bitfantasy/bws/internal/shared/clock"
	"github.com/bitfantasy/bws/internal/sse"
)

// TicketEntity 销售或采购磅单
type TicketEntity interface {
	repository.TicketModel
	ticket.Record
}

// ticketKind 两类磅单的差异点
type ticketKind[T TicketEntity] struct {
	kind       entity.TicketKind
	entityType string
	initial    func(today string, op Operator) ticket.Draft
	fromTicket func(T) ticket.Draft
	build      func(ticket.Draft, ticket.Mode, ticket.IDSet) (T, error)
	submit     func(*ticket.Editor) (T, error)
	core       func(*T) *entity.TicketCore
}

// TicketService 磅单服务
type TicketService[T TicketEntity] struct {
	def      ticketKind[T]
	repo     *repository.TicketRepository[T]
	cache    *ListCache
	activity *ActivityService
	hub      *sse.Hub
	clock    clock.Clock
}

// NewSalesTicketService 销售磅单服务
func NewSalesTicketService(repo *repository.TicketRepository[entity.SalesTicket], cache *ListCache, activity *ActivityService, hub *sse.Hub, clk clock.Clock) *TicketService[entity.SalesTicket] {
	return newTicketService(ticketKind[entity.SalesTicket]{
		kind:       entity.TicketKindSales,
		entityType: EntitySalesTicket,
		initial: func(today string, _ Operator) ticket.Draft {
			return ticket.NewSalesDraft(today)
		},
		fromTicket: ticket.DraftFromSales,
		build:      ticket.BuildSalesTicket,
		submit:     (*ticket.Editor).SubmitSales,
		core:       func(t *entity.SalesTicket) *entity.TicketCore { return &t.TicketCore },
	}, repo, cache, activity, hub, clk)
}

// NewPurchaseTicketService 采购磅单服务
func NewPurchaseTicketService(repo *repository.TicketRepository[entity.PurchaseTicket], cache *ListCache, activity *ActivityService, hub *sse.Hub, clk clock.Clock) *TicketService[entity.PurchaseTicket] {
	return newTicketService(ticketKind[entity.PurchaseTicket]{
		kind:       entity.TicketKindPurchase,
		entityType: EntityPurchaseTicket,
		initial: func(today string, op Operator) ticket.Draft {
			return ticket.NewPurchaseDraft(today, op.Name)
		},
		fromTicket: ticket.DraftFromPurchase,
		build:      ticket.BuildPurchaseTicket,
		submit:     (*ticket.Editor).SubmitPurchase,
		core:       func(t *entity.PurchaseTicket) *entity.TicketCore { return &t.TicketCore },
	}, repo, cache, activity, hub, clk)
}

func newTicketService[T TicketEntity](def ticketKind[T], repo *repository.TicketRepository[T], cache *ListCache, activity *ActivityService, hub *sse.Hub, clk clock.Clock) *TicketService[T] {
	if clk == nil {
		clk = clock.Real()
	}
	return &TicketService[T]{def: def, repo: repo, cache: cache, activity: activity, hub: hub, clock: clk}
}

// Kind 磅单类型
func (s *TicketService[T]) Kind() entity.TicketKind { return s.def.kind }

func (s *TicketService[T]) today() string {
	return s.clock.Now().Format(ticket.DateLayout)
}

// all 全量列表，优先读缓存
func (s *TicketService[T]) all(ctx context.Context) ([]T, error) {
	var items []T
	version, hit := s.cache.Get(ctx, string(s.def.kind), &items)
	if hit {
		return items, nil
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, persistence("list tickets", err)
	}
	s.cache.Set(ctx, string(s.def.kind), version, items)
	return items, nil
}

// List 按条件筛选磅单，保持录入顺序
func (s *TicketService[T]) List(ctx context.Context, q ticket.Query) ([]T, error) {
	items, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return ticket.Filter(items, q), nil
}

// Get 获取磅单
func (s *TicketService[T]) Get(ctx context.Context, id string) (*T, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, persistence("get ticket", err)
	}
	return item, nil
}

// CheckID 编号输入时的唯一性检查
func (s *TicketService[T]) CheckID(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &ticket.ValidationError{Field: "id", Reason: ticket.ErrMissingID}
	}
	ids, err := s.repo.IDs(ctx)
	if err != nil {
		return persistence("load ticket ids", err)
	}
	if err := ticket.ValidateNewID(id, ids); err != nil {
		return &ticket.ValidationError{Field: "id", Reason: err}
	}
	return nil
}

// PreviewResult 编辑器状态：合并后的草稿、实时净重与编号检查结果
type PreviewResult struct {
	Draft     ticket.Draft  `json:"draft"`
	NetWeight entity.Weight `json:"net_weight"`
	IDError   string        `json:"id_error,omitempty"`
}

// Preview 不落库地计算编辑器状态；id 非空时为编辑模式
func (s *TicketService[T]) Preview(ctx context.Context, op Operator, id string, patch ticket.Draft) (*PreviewResult, error) {
	editor, err := s.editor(ctx, op, id)
	if err != nil {
		return nil, err
	}
	editor.Apply(patch)
	res := &PreviewResult{Draft: editor.Draft(), NetWeight: editor.NetWeight()}
	if editor.IDError() != nil {
		res.IDError = ticket.Message(editor.IDError())
	}
	return res, nil
}

// Initial 新建表单的默认值
func (s *TicketService[T]) Initial(op Operator) ticket.Draft {
	return s.def.initial(s.today(), op)
}

func (s *TicketService[T]) editor(ctx context.Context, op Operator, id string) (*ticket.Editor, error) {
	ids, err := s.repo.IDs(ctx)
	if err != nil {
		return nil, persistence("load ticket ids", err)
	}
	if id == "" {
		return ticket.NewEditor(ticket.Create, s.Initial(op), ids), nil
	}
	stored, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ticket.NewEditor(ticket.Edit, s.def.fromTicket(*stored), ids), nil
}

// Create 新建磅单：默认值 + patch，校验通过后保存
func (s *TicketService[T]) Create(ctx context.Context, op Operator, patch ticket.Draft) (*T, error) {
	ids, err := s.repo.IDs(ctx)
	if err != nil {
		return nil, persistence("load ticket ids", err)
	}
	draft := s.Initial(op).Merge(patch)
	item, err := s.def.build(draft, ticket.Create, ids)
	if err != nil {
		return nil, err
	}
	s.def.core(&item).CreatedBy = op.ID

	if err := s.repo.Create(ctx, &item); err != nil {
		if errors.Is(err, ticket.ErrDuplicateID) {
			return nil, &ticket.ValidationError{Field: "id", Reason: err}
		}
		return nil, persistence("create ticket", err)
	}

	id := item.TicketID()
	s.changed(ctx, op, id, entity.ActionCreate, fmt.Sprintf("created %s ticket %s", s.def.kind, id), item)
	return &item, nil
}

// Update 编辑磅单：编号不可修改，净重重新计算
func (s *TicketService[T]) Update(ctx context.Context, op Operator, id string, patch ticket.Draft) (*T, error) {
	stored, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	editor := ticket.NewEditor(ticket.Edit, s.def.fromTicket(*stored), nil)
	editor.Apply(patch)

	item, err := s.def.submit(editor)
	if err != nil {
		return nil, err
	}

	prev, next := s.def.core(stored), s.def.core(&item)
	next.CreatedBy = prev.CreatedBy
	next.CreatedAt = prev.CreatedAt

	if err := s.repo.Update(ctx, &item); err != nil {
		return nil, persistence("update ticket", err)
	}

	s.changed(ctx, op, id, entity.ActionUpdate, fmt.Sprintf("updated %s ticket %s", s.def.kind, id), item)
	return &item, nil
}

// Delete 删除磅单
func (s *TicketService[T]) Delete(ctx context.Context, op Operator, id string) error {
	stored, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return persistence("delete ticket", err)
	}
	s.changed(ctx, op, id, entity.ActionDelete, fmt.Sprintf("deleted %s ticket %s", s.def.kind, id), stored)
	return nil
}

// DeleteMany 批量删除
func (s *TicketService[T]) DeleteMany(ctx context.Context, op Operator, ids []string) (int64, error) {
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, persistence("delete tickets", err)
	}
	if n > 0 {
		s.cache.Invalidate(ctx, string(s.def.kind))
		s.activity.Record(ctx, op, s.def.entityType, "bulk", entity.ActionBulkDelete,
			fmt.Sprintf("deleted %d %s tickets", n, s.def.kind), ids)
		s.hub.PublishChange(sse.RecordChange{Entity: s.def.entityType, IDs: ids, Action: entity.ActionBulkDelete, UserID: op.ID})
	}
	return n, nil
}

func (s *TicketService[T]) changed(ctx context.Context, op Operator, id, action, content string, snapshot any) {
	s.cache.Invalidate(ctx, string(s.def.kind))
	s.activity.Record(ctx, op, s.def.entityType, id, action, content, snapshot)
	s.hub.PublishChange(sse.RecordChange{Entity: s.def.entityType, IDs: []string{id}, Action: action, UserID: op.ID})
}
