package ticket

import (
	"strings"

	"github.com/bitfantasy/bws/internal/erp/entity"
)

// Editor is the state behind the ticket form. It keeps the draft, the net
// weight shown beside the weight inputs and the result of the last ticket
// number check.
type Editor struct {
	mode     Mode
	draft    Draft
	existing IDSet
	idErr    error
}

// NewEditor starts an editor. In Edit mode the ticket number of initial is
// fixed and later patches cannot change it.
func NewEditor(mode Mode, initial Draft, existing IDSet) *Editor {
	if existing == nil {
		existing = NewIDSet()
	}
	e := &Editor{mode: mode, draft: initial, existing: existing}
	if mode == Create && strings.TrimSpace(str(initial.ID)) != "" {
		e.checkID()
	}
	return e
}

func (e *Editor) Mode() Mode { return e.mode }

func (e *Editor) Draft() Draft { return e.draft }

// Apply merges a field change into the draft. A ticket number change is
// checked against the loaded collection immediately.
func (e *Editor) Apply(patch Draft) {
	if e.mode == Edit {
		patch.ID = nil
	}
	e.draft = e.draft.Merge(patch)
	if patch.ID != nil {
		e.checkID()
	}
}

func (e *Editor) checkID() {
	e.idErr = ValidateNewID(strings.TrimSpace(str(e.draft.ID)), e.existing)
}

// IDError is the outcome of the last ticket number check.
func (e *Editor) IDError() error { return e.idErr }

// NetWeight is recomputed from the current gross and tare on every call.
func (e *Editor) NetWeight() entity.Weight {
	return ComputeNetWeight(weight(e.draft.GrossWeight), weight(e.draft.TareWeight))
}

// SubmitSales builds the sales ticket from the current draft.
func (e *Editor) SubmitSales() (entity.SalesTicket, error) {
	return BuildSalesTicket(e.draft, e.mode, e.existing)
}

// SubmitPurchase builds the purchase ticket from the current draft.
func (e *Editor) SubmitPurchase() (entity.PurchaseTicket, error) {
	return BuildPurchaseTicket(e.draft, e.mode, e.existing)
}
