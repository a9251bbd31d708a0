// Package documents manages the document pairs of a settlement: for
// every order referenced by the settlement's line items, an optional
// delivery-confirmation PDF and an optional invoice PDF, merged into a
// single download once both are present.
package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hourbook/backend/internal/models"
	"github.com/hourbook/backend/internal/pdf"
)

var (
	ErrIncompletePair = errors.New("both the invoice and the delivery confirmation are required before merging")
	ErrOrderNotPaired = errors.New("the settlement has no line item for this order")
)

// MergeTimeout bounds a single merge call. Merging is the only external
// capability this package calls, everything else is local storage.
const MergeTimeout = 30 * time.Second

// Pair is the pairing record for one order within a settlement.
type Pair struct {
	OrderID              uuid.UUID
	OrderNumber          string
	ClientName           string
	Invoice              []byte
	DeliveryConfirmation []byte
}

// Complete reports whether both documents of the pair are present.
func (p Pair) Complete() bool {
	return len(p.Invoice) > 0 && len(p.DeliveryConfirmation) > 0
}

// Manager handles the document pairs of one settlement.
type Manager struct {
	settlement models.Settlement
	merger     pdf.Merger
}

// NewManager returns a Manager for the settlement with the given ID.
// The settlement's line items are loaded to derive the paired orders.
func NewManager(id uuid.UUID, merger pdf.Merger) (*Manager, error) {
	var settlement models.Settlement
	err := models.DB.Preload("Items").First(&settlement, id).Error
	if err != nil {
		return nil, err
	}

	return &Manager{settlement: settlement, merger: merger}, nil
}

// orderIDs returns the distinct orders referenced by the settlement's
// items, in order of first appearance.
func (m *Manager) orderIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(m.settlement.Items))
	var ids []uuid.UUID

	for _, item := range m.settlement.Items {
		if seen[item.OrderID] {
			continue
		}

		seen[item.OrderID] = true
		ids = append(ids, item.OrderID)
	}

	return ids
}

// Pairs builds the pairing records for the settlement: one per distinct
// referenced order, enriched with the order number and client name and
// with any documents stored so far.
func (m *Manager) Pairs() ([]Pair, error) {
	stored, err := models.SettlementDocuments(models.DB, m.settlement.ID)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID]models.SettlementDocument, len(stored))
	for _, document := range stored {
		byOrder[document.OrderID] = document
	}

	pairs := make([]Pair, 0)
	for _, orderID := range m.orderIDs() {
		var order models.Order
		err = models.DB.Preload("Client").First(&order, orderID).Error
		if err != nil {
			return nil, err
		}

		pair := Pair{
			OrderID:     orderID,
			OrderNumber: order.OrderNumber,
			ClientName:  order.Client.Name,
		}

		if document, ok := byOrder[orderID]; ok {
			pair.Invoice = document.Invoice
			pair.DeliveryConfirmation = document.DeliveryConfirmation
		}

		pairs = append(pairs, pair)
	}

	return pairs, nil
}

// Attach stores a document in the named slot for an order of the
// settlement, leaving the other slot untouched.
func (m *Manager) Attach(orderID uuid.UUID, slot models.DocumentSlot, payload []byte) (models.SettlementDocument, error) {
	err := m.checkPaired(orderID)
	if err != nil {
		return models.SettlementDocument{}, err
	}

	return models.UpsertSettlementDocument(models.DB, m.settlement.ID, orderID, slot, payload)
}

// Remove clears the named slot for an order of the settlement. The
// record is deleted once both slots are empty.
func (m *Manager) Remove(orderID uuid.UUID, slot models.DocumentSlot) error {
	err := m.checkPaired(orderID)
	if err != nil {
		return err
	}

	_, err = models.UpsertSettlementDocument(models.DB, m.settlement.ID, orderID, slot, nil)
	return err
}

func (m *Manager) checkPaired(orderID uuid.UUID) error {
	for _, id := range m.orderIDs() {
		if id == orderID {
			return nil
		}
	}

	return fmt.Errorf("%w: settlement %s, order %s", ErrOrderNotPaired, m.settlement.ID, orderID)
}

// MergePair merges the pair for an order into one document, invoice
// pages first, delivery-confirmation pages after. The page order is a
// contract with the recipients of these documents, do not change it.
func (m *Manager) MergePair(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	err := m.checkPaired(orderID)
	if err != nil {
		return nil, err
	}

	var document models.SettlementDocument
	err = models.DB.
		Where(&models.SettlementDocument{SettlementID: m.settlement.ID, OrderID: orderID}).
		Limit(1).Find(&document).Error
	if err != nil {
		return nil, err
	}

	if len(document.Invoice) == 0 || len(document.DeliveryConfirmation) == 0 {
		return nil, fmt.Errorf("%w: settlement %s, order %s", ErrIncompletePair, m.settlement.ID, orderID)
	}

	ctx, cancel := context.WithTimeout(ctx, MergeTimeout)
	defer cancel()

	return m.merger.Merge(ctx, [][]byte{document.Invoice, document.DeliveryConfirmation})
}

// Completion returns how many pairs are complete and how many distinct
// orders the settlement references in total.
func (m *Manager) Completion() (complete, total int, err error) {
	pairs, err := m.Pairs()
	if err != nil {
		return 0, 0, err
	}

	for _, pair := range pairs {
		if pair.Complete() {
			complete++
		}
	}

	return complete, len(pairs), nil
}
