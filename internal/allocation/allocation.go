// Package allocation computes how many contracted hours of a work type
// are still available on an order, given everything the settlement
// ledger has already consumed and what an in-progress draft requests.
//
// All computations are pure projections over a ledger snapshot: nothing
// in this package writes state, and a negative availability is returned
// as-is so callers can warn about over-allocation instead of hiding it.
package allocation

import (
	"github.com/google/uuid"
	"github.com/hourbook/backend/internal/models"
	"github.com/shopspring/decimal"
)

// Key identifies one hour budget: a work type on an order.
type Key struct {
	OrderID  uuid.UUID
	WorkType models.WorkType
}

// Index groups consumed hours by (order, work type) for one ledger
// snapshot. Building it once replaces a linear ledger scan per query,
// which matters because availability is recomputed on every keystroke
// in the settlement form.
type Index map[Key]decimal.Decimal

// NewIndex builds the consumption index from a ledger snapshot.
//
// Callers editing an existing settlement must exclude that settlement's
// items from the snapshot (see models.LedgerItems) so a re-submitted
// draft does not count against itself.
func NewIndex(items []models.SettlementItem) Index {
	idx := make(Index, len(items))
	for _, item := range items {
		key := Key{OrderID: item.OrderID, WorkType: item.Type}
		idx[key] = idx[key].Add(item.Hours)
	}

	return idx
}

// Used returns the hours already consumed for a work type on an order.
func (idx Index) Used(orderID uuid.UUID, workType models.WorkType) decimal.Decimal {
	return idx[Key{OrderID: orderID, WorkType: workType}]
}

// Line is one draft row considered in an availability computation.
type Line struct {
	OrderID  uuid.UUID
	WorkType models.WorkType
	Hours    decimal.Decimal
}

// Available computes the hours still available for workType on order:
//
//	contracted − consumed in the ledger − requested by other draft rows
//
// skip is the position of the draft row being evaluated, so that its own
// hours are not counted against it; pass a negative value when no row is
// being evaluated. An order without a budget line for workType has a
// contracted budget of zero. The result is not floored at zero: a
// negative value signals over-allocation and must reach the caller.
func Available(order models.Order, workType models.WorkType, idx Index, draft []Line, skip int) decimal.Decimal {
	contracted := decimal.Zero
	if item, ok := order.ItemFor(workType); ok {
		contracted = item.Hours
	}

	available := contracted.Sub(idx.Used(order.ID, workType))

	for i, line := range draft {
		if i == skip {
			continue
		}

		if line.OrderID == order.ID && line.WorkType == workType {
			available = available.Sub(line.Hours)
		}
	}

	return available
}
