package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/bitfantasy/bws/internal/erp/repository"
	"github.com/bitfantasy/bws/internal/erp/ticket"
	"github.com/bitfantasy/bws/internal/shared/clock"
	"github.com/bitfantasy/bws/internal/sse"
	"github.com/bitfantasy/bws/internal/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var admin = Operator{ID: "U001", Name: "Admin User"}

type fixture struct {
	db       *gorm.DB
	repos    *repository.Repositories
	hub      *sse.Hub
	events   chan sse.Event
	clock    *clock.FakeClock
	activity *ActivityService
	sales    *TicketService[entity.SalesTicket]
	purchase *TicketService[entity.PurchaseTicket]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	hub := sse.NewHub(nil)
	events := make(chan sse.Event, 16)
	hub.Register(&sse.Client{ID: "test", Events: events})
	clk := clock.Fake(time.Date(2023, 10, 28, 9, 0, 0, 0, time.UTC))
	activity := NewActivityService(repos.ActivityLog, nil)

	return &fixture{
		db:       db,
		repos:    repos,
		hub:      hub,
		events:   events,
		clock:    clk,
		activity: activity,
		sales:    NewSalesTicketService(repos.SalesTicket, nil, activity, hub, clk),
		purchase: NewPurchaseTicketService(repos.PurchaseTicket, nil, activity, hub, clk),
	}
}

func (f *fixture) lastChange(t *testing.T) sse.RecordChange {
	t.Helper()
	select {
	case ev := <-f.events:
		var rc sse.RecordChange
		if err := json.Unmarshal([]byte(ev.Data), &rc); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		return rc
	default:
		t.Fatal("expected a record_change event")
	}
	return sse.RecordChange{}
}

func strp(v string) *string { return &v }

func kg(n int64) *entity.Weight {
	w := entity.KilogramsInt(n)
	return &w
}

func purchasePatch(id string) ticket.Draft {
	return ticket.Draft{
		ID:           strp(id),
		SerialNo:     strp("SN-" + id),
		TruckNo:      strp("T-123"),
		Origin:       strp("Main Quarry"),
		MaterialCode: strp(ticket.PurchaseMaterials[2]),
		GrossWeight:  kg(45000),
		TareWeight:   kg(15000),
	}
}

func TestPurchaseTicket_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pt, err := f.purchase.Create(ctx, admin, purchasePatch("PT-001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !pt.NetWeight.Equal(entity.KilogramsInt(30000)) {
		t.Errorf("net weight = %s, want 30000", pt.NetWeight)
	}
	if pt.Date != "2023-10-28" || pt.OperatorName != "Admin User" || pt.Status != entity.PurchaseStatusPending {
		t.Errorf("defaults not applied: %+v", pt)
	}
	if pt.Transporter != ticket.DefaultTransporter || pt.Destination != ticket.DefaultPurchaseDestination {
		t.Errorf("default transporter/destination missing: %+v", pt)
	}

	stored, err := f.purchase.Get(ctx, "PT-001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.CreatedBy != "U001" || !stored.GrossWeight.Equal(entity.KilogramsInt(45000)) {
		t.Errorf("stored ticket mismatch: %+v", stored)
	}

	rc := f.lastChange(t)
	if rc.Entity != EntityPurchaseTicket || rc.Action != entity.ActionCreate || rc.IDs[0] != "PT-001" {
		t.Errorf("unexpected change event %+v", rc)
	}

	logs, total, err := f.activity.List(ctx, EntityPurchaseTicket, "PT-001", 1, 20)
	if err != nil || total != 1 {
		t.Fatalf("expected one activity log, got %d (%v)", total, err)
	}
	if logs[0].Action != entity.ActionCreate || logs[0].OperatorName != "Admin User" {
		t.Errorf("unexpected log %+v", logs[0])
	}
}

func TestPurchaseTicket_CreateRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedPurchaseTicket(t, f.db, "PT-001", "2023-10-01", "T-1", entity.PurchaseStatusReceived, 20000, 5000)

	_, err := f.purchase.Create(ctx, admin, purchasePatch("PT-001"))
	var verr *ticket.ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, ticket.ErrDuplicateID) {
		t.Fatalf("expected duplicate validation error, got %v", err)
	}
	if ticket.Message(err) != "This Ticket No already exists." {
		t.Errorf("message = %q", ticket.Message(err))
	}

	_, err = f.purchase.Create(ctx, admin, purchasePatch(""))
	if !errors.Is(err, ticket.ErrMissingID) {
		t.Fatalf("expected missing id, got %v", err)
	}

	patch := purchasePatch("PT-002")
	patch.Status = strp("Lost")
	if _, err := f.purchase.Create(ctx, admin, patch); !errors.Is(err, ticket.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}

	items, _ := f.purchase.List(ctx, ticket.Query{Status: ticket.StatusAll})
	if len(items) != 1 {
		t.Errorf("rejected drafts must not be stored, have %d tickets", len(items))
	}
	select {
	case ev := <-f.events:
		t.Errorf("unexpected event %+v", ev)
	default:
	}
}

func TestPurchaseTicket_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := testutil.SeedPurchaseTicket(t, f.db, "PT-001", "2023-10-01", "T-1", entity.PurchaseStatusPending, 45000, 15000)

	updated, err := f.purchase.Update(ctx, admin, "PT-001", ticket.Draft{
		ID:          strp("PT-999"),
		GrossWeight: kg(50000),
		Status:      strp(entity.PurchaseStatusReceived),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != "PT-001" {
		t.Errorf("ticket no must stay fixed, got %s", updated.ID)
	}
	if !updated.NetWeight.Equal(entity.KilogramsInt(35000)) {
		t.Errorf("net weight = %s, want 35000", updated.NetWeight)
	}

	stored, err := f.purchase.Get(ctx, "PT-001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != entity.PurchaseStatusReceived || stored.TruckNo != "T-1" {
		t.Errorf("stored = %+v", stored)
	}
	if !stored.CreatedAt.Equal(seeded.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", seeded.CreatedAt, stored.CreatedAt)
	}
	if _, err := f.purchase.Get(ctx, "PT-999"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("no ticket should exist under the patched id, got %v", err)
	}

	if _, err := f.purchase.Update(ctx, admin, "PT-404", ticket.Draft{}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTicketService_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedPurchaseTicket(t, f.db, "PT-001", "2023-10-01", "T-123", entity.PurchaseStatusPending, 1000, 500)
	testutil.SeedPurchaseTicket(t, f.db, "PT-002", "2023-10-15", "X-9", entity.PurchaseStatusReceived, 1000, 500)
	testutil.SeedPurchaseTicket(t, f.db, "PT-003", "2023-10-31", "t-123", entity.PurchaseStatusReceived, 1000, 500)

	tests := []struct {
		name string
		q    ticket.Query
		want []string
	}{
		{"all", ticket.Query{Status: ticket.StatusAll}, []string{"PT-001", "PT-002", "PT-003"}},
		{"status", ticket.Query{Status: entity.PurchaseStatusReceived}, []string{"PT-002", "PT-003"}},
		{"date range inclusive", ticket.Query{DateFrom: "2023-10-01", DateTo: "2023-10-15"}, []string{"PT-001", "PT-002"}},
		{"search case insensitive", ticket.Query{Search: "T-123"}, []string{"PT-001", "PT-003"}},
		{"combined", ticket.Query{Status: entity.PurchaseStatusReceived, Search: "t-123"}, []string{"PT-003"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.purchase.List(ctx, tt.q)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tickets, want %v", len(got), tt.want)
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("item %d = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestTicketService_CheckIDAndPreview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.SeedPurchaseTicket(t, f.db, "PT-001", "2023-10-01", "T-1", entity.PurchaseStatusPending, 1000, 500)

	if err := f.purchase.CheckID(ctx, "PT-002"); err != nil {
		t.Errorf("PT-002 should be free: %v", err)
	}
	if err := f.purchase.CheckID(ctx, "PT-001"); !errors.Is(err, ticket.ErrDuplicateID) {
		t.Errorf("expected duplicate, got %v", err)
	}
	if err := f.purchase.CheckID(ctx, "  "); !errors.Is(err, ticket.ErrMissingID) {
		t.Errorf("expected missing id, got %v", err)
	}
	// 销售与采购编号空间独立
	if err := f.sales.CheckID(ctx, "PT-001"); err != nil {
		t.Errorf("sales ids are a separate namespace: %v", err)
	}

	res, err := f.purchase.Preview(ctx, admin, "", ticket.Draft{ID: strp("PT-001"), GrossWeight: kg(45000), TareWeight: kg(15000)})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !res.NetWeight.Equal(entity.KilogramsInt(30000)) || res.IDError != "This Ticket No already exists." {
		t.Errorf("preview = %+v", res)
	}

	res, err = f.purchase.Preview(ctx, admin, "PT-001", ticket.Draft{TareWeight: kg(2000)})
	if err != nil {
		t.Fatalf("Preview edit: %v", err)
	}
	if res.IDError != "" || !res.NetWeight.Equal(entity.KilogramsInt(0)) {
		t.Errorf("edit preview = %+v", res)
	}
}

func TestSalesTicket_CreateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sales.Create(ctx, admin, ticket.Draft{ID: strp("ST-1"), TruckNo: strp("S-1"), Destination: strp("Ring Road")})
	var verr *ticket.ValidationError
	if !errors.As(err, &verr) || verr.Field != "customer_name" {
		t.Fatalf("expected customer_name required, got %v", err)
	}

	temp := 150.0
	st, err := f.sales.Create(ctx, admin, ticket.Draft{
		ID:           strp("ST-1"),
		CustomerName: strp("City Roads"),
		TruckNo:      strp("S-1"),
		Destination:  strp("Ring Road"),
		Temperature:  &temp,
		GrossWeight:  kg(30000),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.MaterialCode != ticket.DefaultSalesMaterialCode || st.NetWeight.Known() {
		t.Errorf("unexpected sales ticket %+v", st)
	}
	f.lastChange(t)

	if err := f.sales.Delete(ctx, admin, "ST-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rc := f.lastChange(t); rc.Action != entity.ActionDelete {
		t.Errorf("expected delete event, got %+v", rc)
	}
	if _, err := f.sales.Get(ctx, "ST-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := f.sales.Delete(ctx, admin, "ST-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestTicketService_PersistenceError(t *testing.T) {
	f := newFixture(t)
	sqlDB, _ := f.db.DB()
	sqlDB.Close()

	_, err := f.purchase.List(context.Background(), ticket.Query{})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Error() != perr.Err.Error() {
		t.Errorf("message must be passed through verbatim")
	}
}

func TestSupplierService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSupplierService(f.repos.Supplier, f.activity, f.hub)

	if _, err := svc.Create(ctx, admin, &CreateSupplierRequest{Name: "  "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}

	a, err := svc.Create(ctx, admin, &CreateSupplierRequest{Name: "Central Quarry", ContactPerson: "Jane Smith"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, _ := svc.Create(ctx, admin, &CreateSupplierRequest{Name: "Raj Stones"})
	if a.ID != "SUP-001" || b.ID != "SUP-002" {
		t.Errorf("codes = %s, %s", a.ID, b.ID)
	}

	phone := "555-0100"
	if _, err := svc.Update(ctx, admin, a.ID, &UpdateSupplierRequest{Phone: &phone}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	found, _ := svc.List(ctx, "jane")
	if len(found) != 1 || found[0].Phone != phone {
		t.Errorf("search by contact = %+v", found)
	}

	n, err := svc.DeleteMany(ctx, admin, []string{a.ID, b.ID, "SUP-404"})
	if err != nil || n != 2 {
		t.Fatalf("DeleteMany = %d, %v", n, err)
	}
	all, _ := svc.List(ctx, "")
	if len(all) != 0 {
		t.Errorf("expected no suppliers, got %d", len(all))
	}
}

func TestRawMaterialService_MixDesign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := repository.SeedDefaults(ctx, f.repos); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	svc := NewRawMaterialService(f.repos.RawMaterial, f.activity, f.hub, f.clock)

	design, err := svc.MixDesign(ctx)
	if err != nil {
		t.Fatalf("MixDesign: %v", err)
	}
	if len(design.Components) != 5 || !design.Balanced || !design.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("seeded design = %+v", design)
	}

	_, err = svc.SaveMixDesign(ctx, admin, map[string]decimal.Decimal{"RM-005": decimal.NewFromInt(5)}, false)
	var warn *MixDesignWarning
	if !errors.As(err, &warn) || warn.Total != "101.00" {
		t.Fatalf("expected warning at 101.00, got %v", err)
	}
	stored, _ := svc.Get(ctx, "RM-005")
	if !stored.Stock.Equal(decimal.NewFromInt(4)) {
		t.Errorf("unconfirmed save must not persist, stock = %s", stored.Stock)
	}

	design, err = svc.SaveMixDesign(ctx, admin, map[string]decimal.Decimal{
		"RM-001": decimal.NewFromInt(24),
		"RM-005": decimal.NewFromInt(5),
	}, true)
	if err != nil {
		t.Fatalf("forced save: %v", err)
	}
	if design.Balanced {
		t.Errorf("forced design should still report unbalanced")
	}
	if rc := f.lastChange(t); len(rc.IDs) != 1 || rc.IDs[0] != "RM-005" {
		t.Errorf("only changed rows are saved, event = %+v", rc)
	}

	_, err = svc.SaveMixDesign(ctx, admin, map[string]decimal.Decimal{
		"RM-004": decimal.RequireFromString("23.995"),
		"RM-005": decimal.NewFromInt(4),
	}, false)
	if err != nil {
		t.Errorf("total within tolerance should save: %v", err)
	}

	m, err := svc.Create(ctx, admin, &CreateRawMaterialRequest{Name: "Cement", Unit: entity.UnitBag, Stock: decimal.NewFromInt(40)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID != "RM-006" || m.DateAdded != "2023-10-28" {
		t.Errorf("created = %+v", m)
	}
	if _, err := svc.SaveMixDesign(ctx, admin, map[string]decimal.Decimal{"RM-006": decimal.NewFromInt(1)}, true); !errors.Is(err, ErrNotMixComponent) {
		t.Errorf("expected ErrNotMixComponent, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, &CreateRawMaterialRequest{Name: "Sand", Unit: "Bucket"}); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestRawMaterialService_UpdateReportsMixBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := repository.SeedDefaults(ctx, f.repos); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	svc := NewRawMaterialService(f.repos.RawMaterial, f.activity, f.hub, f.clock)

	six := decimal.NewFromInt(6)
	res, err := svc.Update(ctx, admin, "RM-005", &UpdateRawMaterialRequest{Stock: &six})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.MixDesign == nil || res.MixDesign.Total != "102.00" || res.MixDesign.Balanced {
		t.Fatalf("expected unbalanced total 102.00, got %+v", res.MixDesign)
	}
	if !res.Stock.Equal(six) {
		t.Errorf("stock = %s", res.Stock)
	}

	// 移出配合比后合计回到 96
	ton := entity.UnitTon
	res, err = svc.Update(ctx, admin, "RM-005", &UpdateRawMaterialRequest{Unit: &ton})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.MixDesign == nil || res.MixDesign.Total != "96.00" {
		t.Errorf("expected total 96.00 after leaving the mix, got %+v", res.MixDesign)
	}

	name := "Washed water"
	res, err = svc.Update(ctx, admin, "RM-005", &UpdateRawMaterialRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.MixDesign != nil {
		t.Errorf("non-component update must not carry a balance, got %+v", res.MixDesign)
	}
}
