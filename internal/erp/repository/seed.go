package repository

import (
	"context"
	"fmt"

	"github.com/bitfantasy/bws/internal/erp/entity"
	"github.com/shopspring/decimal"
)

var defaultSuppliers = []entity.Supplier{
	{ID: "SUP-001", Name: "Ak Wissam Stone", ContactPerson: "John Doe", Email: "john@wissam.com", Address: "123 Wissam Ave, Gravelton"},
	{ID: "SUP-002", Name: "Central Quarry", ContactPerson: "Jane Smith", Email: "jane@centralquarry.com", Address: "456 Central Rd, Rockburg"},
	{ID: "SUP-003", Name: "Raj Stones", ContactPerson: "Raj Patel", Email: "raj@rajstones.com", Address: "789 Raj St, Stoneton"},
	{ID: "SUP-004", Name: "Al Jaber Crushers", ContactPerson: "Mohammed Ali", Email: "mohammed@aljaber.com", Address: "101 Jaber Blvd, Crusher City"},
	{ID: "SUP-005", Name: "BCA Crushers", ContactPerson: "Peter Jones", Email: "peter@bcacrushers.com", Address: "212 BCA Lane, Aggregate Town"},
}

func defaultMixDesign() []entity.RawMaterial {
	mk := func(id, name, category string, pct int64, supplier string) entity.RawMaterial {
		return entity.RawMaterial{
			ID:          id,
			Name:        name,
			Category:    category,
			Stock:       decimal.NewFromInt(pct),
			Unit:        entity.UnitPercent,
			SupplierID:  supplier,
			DateAdded:   "2023-01-01",
			Description: "Component for standard mix design.",
		}
	}
	return []entity.RawMaterial{
		mk("RM-001", `0-5 mm (3/16")`, entity.MaterialCategoryAggregates, 24, "SUP-002"),
		mk("RM-002", `5-10 mm (3/8")`, entity.MaterialCategoryAggregates, 24, "SUP-002"),
		mk("RM-003", `10-20 mm (3/4")`, entity.MaterialCategoryAggregates, 24, "SUP-001"),
		mk("RM-004", `20-40 mm (1 1/2")`, entity.MaterialCategoryAggregates, 24, "SUP-001"),
		mk("RM-005", "Water", entity.MaterialCategoryLiquid, 4, "SUP-003"),
	}
}

// SeedDefaults 空库时写入默认供应商和标准配合比
func SeedDefaults(ctx context.Context, repos *Repositories) error {
	n, err := repos.Supplier.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, s := range defaultSuppliers {
			if err := repos.Supplier.Create(ctx, &s); err != nil {
				return fmt.Errorf("seed supplier %s: %w", s.ID, err)
			}
		}
	}

	n, err = repos.RawMaterial.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		for _, m := range defaultMixDesign() {
			if err := repos.RawMaterial.Create(ctx, &m); err != nil {
				return fmt.Errorf("seed raw material %s: %w", m.ID, err)
			}
		}
	}
	return nil
}
