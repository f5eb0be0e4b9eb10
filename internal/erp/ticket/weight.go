package ticket

import "github.com/bitfantasy/bws/internal/erp/entity"

// ComputeNetWeight derives net from gross and tare. The result is unknown when
// either input is unknown and never negative.
func ComputeNetWeight(gross, tare entity.Weight) entity.Weight {
	g, ok := gross.Kg()
	if !ok {
		return entity.UnknownWeight()
	}
	t, ok := tare.Kg()
	if !ok {
		return entity.UnknownWeight()
	}
	if g.GreaterThan(t) {
		return entity.Kilograms(g.Sub(t))
	}
	return entity.KilogramsInt(0)
}
