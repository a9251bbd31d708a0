// Package draft implements the settlement editing session: one draft is
// opened per settlement being created or edited, mutated field by field,
// and committed as a whole.
package draft

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hourbook/backend/internal/allocation"
	"github.com/hourbook/backend/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNoValidItems    = errors.New("at least one complete line item with an order and hours above zero is required")
	ErrNoEligibleItems = errors.New("no items could be copied because none of them reference an active order")
	ErrLastItem        = errors.New("the last remaining line item cannot be removed")
	ErrNoSuchItem      = errors.New("there is no line item at this position")
)

// Item is one editable draft row.
//
// Work type and rate are soft fields: they auto-populate from the order
// catalog whenever the order or the work type changes, and only an
// explicit SetRate overrides the looked-up rate. Editing hours never
// touches the rate.
type Item struct {
	OrderID  uuid.UUID
	WorkType models.WorkType
	Hours    decimal.Decimal
	Rate     decimal.Decimal
}

// Session is one settlement editing session.
//
// It holds a snapshot of the active orders and of the ledger's consumed
// hours, taken when the session starts. The snapshot excludes the edited
// settlement itself so re-submitting unchanged hours never reads as
// over-allocation.
type Session struct {
	Year  int
	Month int
	Date  time.Time
	Items []Item

	settlementID uuid.UUID
	orders       map[uuid.UUID]models.Order
	index        allocation.Index
}

// StartNew opens a draft for a new settlement in the current calendar
// month with one blank line item.
func StartNew() (*Session, error) {
	now := time.Now().In(time.UTC)

	s := &Session{
		Year:  now.Year(),
		Month: int(now.Month()),
		Date:  now.Truncate(24 * time.Hour),
		Items: []Item{blankItem()},
	}

	err := s.loadSnapshots(uuid.Nil)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// StartEdit opens a draft for an existing settlement.
//
// Year and month are loaded but stay immutable for the session: the
// period identity of a settlement cannot change through an edit.
func StartEdit(settlement models.Settlement) (*Session, error) {
	items := make([]Item, 0, len(settlement.Items))
	for _, item := range settlement.Items {
		items = append(items, Item{
			OrderID:  item.OrderID,
			WorkType: item.Type,
			Hours:    item.Hours,
			Rate:     item.Rate,
		})
	}

	if len(items) == 0 {
		items = []Item{blankItem()}
	}

	s := &Session{
		Year:         settlement.Year,
		Month:        settlement.Month,
		Date:         settlement.Date,
		Items:        items,
		settlementID: settlement.ID,
	}

	err := s.loadSnapshots(settlement.ID)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func blankItem() Item {
	return Item{WorkType: models.WorkTypeConsultations}
}

func (s *Session) loadSnapshots(exclude uuid.UUID) error {
	orders, err := models.ActiveOrders(models.DB)
	if err != nil {
		return err
	}

	s.orders = make(map[uuid.UUID]models.Order, len(orders))
	for _, order := range orders {
		s.orders[order.ID] = order
	}

	ledger, err := models.LedgerItems(models.DB, exclude)
	if err != nil {
		return err
	}

	s.index = allocation.NewIndex(ledger)
	return nil
}

// Editing returns the ID of the settlement being edited. The second
// return value is false for a draft of a new settlement.
func (s *Session) Editing() (uuid.UUID, bool) {
	return s.settlementID, s.settlementID != uuid.Nil
}

// AddItem appends a blank line item.
func (s *Session) AddItem() {
	s.Items = append(s.Items, blankItem())
}

// RemoveItem removes the line item at the given position. A draft always
// keeps at least one row, even an incomplete one, so removing the last
// remaining item fails and leaves the draft unchanged.
func (s *Session) RemoveItem(i int) error {
	if i < 0 || i >= len(s.Items) {
		return ErrNoSuchItem
	}

	if len(s.Items) == 1 {
		return ErrLastItem
	}

	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return nil
}

// SetOrder changes the order of a line item. The work type resets to the
// first work type available on that order and the rate is looked up for
// it, both open for manual override afterwards.
func (s *Session) SetOrder(i int, orderID uuid.UUID) error {
	if i < 0 || i >= len(s.Items) {
		return ErrNoSuchItem
	}

	s.Items[i].OrderID = orderID

	order, ok := s.orders[orderID]
	if !ok || len(order.Items) == 0 {
		s.Items[i].WorkType = models.WorkTypeConsultations
		s.Items[i].Rate = decimal.Zero
		return nil
	}

	s.Items[i].WorkType = order.Items[0].Type
	s.Items[i].Rate = order.Items[0].Rate
	return nil
}

// SetWorkType changes the work type of a line item and re-looks-up the
// rate from the order's matching budget line.
func (s *Session) SetWorkType(i int, workType models.WorkType) error {
	if i < 0 || i >= len(s.Items) {
		return ErrNoSuchItem
	}

	s.Items[i].WorkType = workType
	s.Items[i].Rate = s.lookupRate(s.Items[i].OrderID, workType)
	return nil
}

// SetHours overwrites the hours of a line item. The rate is left alone.
func (s *Session) SetHours(i int, hours decimal.Decimal) error {
	if i < 0 || i >= len(s.Items) {
		return ErrNoSuchItem
	}

	s.Items[i].Hours = hours
	return nil
}

// SetRate manually overrides the rate of a line item.
func (s *Session) SetRate(i int, rate decimal.Decimal) error {
	if i < 0 || i >= len(s.Items) {
		return ErrNoSuchItem
	}

	s.Items[i].Rate = rate
	return nil
}

func (s *Session) lookupRate(orderID uuid.UUID, workType models.WorkType) decimal.Decimal {
	order, ok := s.orders[orderID]
	if !ok {
		return decimal.Zero
	}

	if item, ok := order.ItemFor(workType); ok {
		return item.Rate
	}

	return decimal.Zero
}

// Available returns the hours still available for the line item at the
// given position, counting the ledger snapshot and all other draft rows
// for the same order and work type. Negative values signal
// over-allocation and are returned as-is.
func (s *Session) Available(i int) (decimal.Decimal, error) {
	if i < 0 || i >= len(s.Items) {
		return decimal.Zero, ErrNoSuchItem
	}

	item := s.Items[i]
	order := s.orders[item.OrderID]

	lines := make([]allocation.Line, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, allocation.Line{OrderID: it.OrderID, WorkType: it.WorkType, Hours: it.Hours})
	}

	return allocation.Available(order, item.WorkType, s.index, lines, i), nil
}

// CopyFromTemplate replaces the draft's items with copies of another
// settlement's items. Only items referencing a currently active order
// are eligible; hours reset to zero while the rate is carried over. When
// no item survives the filter the draft is left unchanged and
// ErrNoEligibleItems is returned.
func (s *Session) CopyFromTemplate(templateID uuid.UUID) (int, error) {
	var template models.Settlement
	err := models.DB.Preload("Items").First(&template, templateID).Error
	if err != nil {
		return 0, err
	}

	var copied []Item
	for _, item := range template.Items {
		if _, ok := s.orders[item.OrderID]; !ok {
			continue
		}

		copied = append(copied, Item{
			OrderID:  item.OrderID,
			WorkType: item.Type,
			Hours:    decimal.Zero,
			Rate:     item.Rate,
		})
	}

	if len(copied) == 0 {
		return 0, ErrNoEligibleItems
	}

	s.Items = copied
	return len(copied), nil
}

// Commit validates the draft and writes it to the ledger.
//
// Incomplete rows, without an order or with hours of zero or less, are
// silently dropped. When nothing remains, commit fails with
// ErrNoValidItems and the draft stays open for correction. A draft for a
// new settlement fails with ErrSettlementPeriodNotUnique when its period
// is already settled. An edit replaces the settlement's items atomically
// and recomputes the amount; year and month are written unchanged.
func (s *Session) Commit() (models.Settlement, error) {
	var valid []models.SettlementItem
	for _, item := range s.Items {
		if item.OrderID == uuid.Nil || !item.Hours.IsPositive() {
			continue
		}

		valid = append(valid, models.SettlementItem{
			OrderID: item.OrderID,
			Type:    item.WorkType,
			Hours:   item.Hours,
			Rate:    item.Rate,
		})
	}

	if len(valid) == 0 {
		return models.Settlement{}, ErrNoValidItems
	}

	if s.settlementID == uuid.Nil {
		settlement := models.Settlement{
			Year:   s.Year,
			Month:  s.Month,
			Date:   s.Date,
			Amount: models.ItemsSum(valid),
			Items:  valid,
		}

		err := models.DB.Create(&settlement).Error
		if err != nil {
			return models.Settlement{}, err
		}

		return settlement, nil
	}

	var settlement models.Settlement
	err := models.DB.First(&settlement, s.settlementID).Error
	if err != nil {
		return models.Settlement{}, err
	}

	settlement.Date = s.Date
	err = settlement.ReplaceItems(models.DB, valid)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("committing settlement %s failed: %w", s.settlementID, err)
	}

	return settlement, nil
}
