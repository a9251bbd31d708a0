package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSettlementPeriodNotUnique = errors.New("a settlement for this year and month already exists, edit it instead")
	ErrSettlementMonthInvalid    = errors.New("the settlement month must be between 1 and 12")
)

// Settlement is one monthly billing record aggregating hours worked
// across orders.
//
// Amount is derived from the items and recomputed on every item change,
// it is never written directly by API consumers.
type Settlement struct {
	DefaultModel
	Year   int `gorm:"uniqueIndex:settlement_period"`
	Month  int `gorm:"uniqueIndex:settlement_period"` // 1-12
	Date   time.Time
	Amount decimal.Decimal  `gorm:"type:DECIMAL(20,8)"`
	Items  []SettlementItem `gorm:"constraint:OnDelete:CASCADE"`

	Documents []SettlementDocument `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// SettlementItem is one settled position: hours of one work type worked
// against one order.
//
// The rate is snapshotted when the item is created and stays unchanged
// when the order's rate changes later.
type SettlementItem struct {
	DefaultModel
	SettlementID uuid.UUID
	Settlement   Settlement `json:"-"`
	OrderID      uuid.UUID
	Order        Order `json:"-"`
	Type         WorkType
	Hours        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Rate         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (s *Settlement) BeforeSave(_ *gorm.DB) error {
	if s.Month < 1 || s.Month > 12 {
		return ErrSettlementMonthInvalid
	}

	if s.Date.IsZero() {
		s.Date = time.Now().In(time.UTC)
	} else {
		s.Date = s.Date.In(time.UTC)
	}

	return nil
}

func (i *SettlementItem) BeforeSave(_ *gorm.DB) error {
	if !validWorkType(i.Type) {
		return ErrWorkTypeInvalid
	}

	return nil
}

// ItemsSum returns the amount for a set of settlement items.
func ItemsSum(items []SettlementItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Hours.Mul(item.Rate))
	}

	return sum
}

// ReplaceItems atomically replaces all items of the settlement with the
// submitted set and recomputes the amount.
//
// SQLite cannot express this as a single statement, so it is wrapped in a
// transaction: readers never observe a settlement with a partial item set
// or a stale amount.
func (s *Settlement) ReplaceItems(db *gorm.DB, items []SettlementItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Hard delete: replaced items must not linger as soft-deleted rows
		err := tx.Unscoped().Where(&SettlementItem{SettlementID: s.ID}).Delete(&SettlementItem{}).Error
		if err != nil {
			return fmt.Errorf("deleting items of settlement %s failed: %w", s.ID, err)
		}

		for idx := range items {
			items[idx].ID = uuid.Nil
			items[idx].SettlementID = s.ID
			err = tx.Create(&items[idx]).Error
			if err != nil {
				return fmt.Errorf("creating item for settlement %s failed: %w", s.ID, err)
			}
		}

		s.Amount = ItemsSum(items)
		err = tx.Model(s).Select("Amount", "Date").Updates(s).Error
		if err != nil {
			return fmt.Errorf("updating settlement %s failed: %w", s.ID, err)
		}

		s.Items = items
		return nil
	})
}

// LedgerItems returns all settlement items in the ledger, optionally
// excluding the items of one settlement. The allocation index is built
// from this snapshot.
func LedgerItems(db *gorm.DB, exclude uuid.UUID) ([]SettlementItem, error) {
	var items []SettlementItem

	q := db.Model(&SettlementItem{})
	if exclude != uuid.Nil {
		q = q.Where("settlement_id != ?", exclude)
	}

	err := q.Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("loading settlement items failed: %w", err)
	}

	return items, nil
}
