package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WorkType is the category of billable work on an order item.
//
// swagger:enum WorkType
type WorkType string

const (
	WorkTypeConsultations WorkType = "CONSULTATIONS"
	WorkTypeOpexBase      WorkType = "OPEX_BASE"
	WorkTypeCapexBase     WorkType = "CAPEX_BASE"
)

// WorkTypes lists all valid work types.
func WorkTypes() []WorkType {
	return []WorkType{WorkTypeConsultations, WorkTypeOpexBase, WorkTypeCapexBase}
}

// OrderStatus determines whether an order can be settled against.
//
// swagger:enum OrderStatus
type OrderStatus string

const (
	OrderStatusActive   OrderStatus = "ACTIVE"
	OrderStatusInactive OrderStatus = "INACTIVE"
	OrderStatusArchived OrderStatus = "ARCHIVED"
)

var (
	ErrOrderStatusInvalid   = errors.New("the order status must be one of ACTIVE, INACTIVE, ARCHIVED")
	ErrWorkTypeInvalid      = errors.New("the work type must be one of CONSULTATIONS, OPEX_BASE, CAPEX_BASE")
	ErrOrderItemNegative    = errors.New("contracted hours and rates must not be negative")
	ErrOrderNotActive       = errors.New("the order is not active and cannot be settled against")
	ErrOrderNumberNotUnique = errors.New("an order with this order number already exists")
)

// Order is a client contract with per-work-type hour budgets.
//
// The settlement engine treats orders as read-only: budgets are never
// mutated by settlements.
type Order struct {
	DefaultModel
	ClientID       uuid.UUID
	Client         Client `json:"-"`
	ContactID      *uuid.UUID
	Contact        *Contact `json:"-"`
	OrderNumber    string   `gorm:"uniqueIndex"`
	SupplierNumber string
	ContractNumber string
	Description    string
	DocumentDate   time.Time
	DeliveryDate   *time.Time
	Status         OrderStatus
	Items          []OrderItem       `gorm:"constraint:OnDelete:CASCADE"`
	Attachments    []OrderAttachment `gorm:"constraint:OnDelete:CASCADE"`
}

// OrderItem is one work-type budget on an order.
type OrderItem struct {
	DefaultModel
	OrderID uuid.UUID
	Order   Order `json:"-"`
	Type    WorkType
	Hours   decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Contracted hours for this work type
	Rate    decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Hourly rate, snapshotted into settlement items
}

// OrderAttachment is a PDF file stored with an order.
type OrderAttachment struct {
	DefaultModel
	OrderID  uuid.UUID
	Order    Order `json:"-"`
	FileName string
	Content  []byte
}

func (o *Order) BeforeSave(_ *gorm.DB) error {
	o.OrderNumber = strings.TrimSpace(o.OrderNumber)
	o.SupplierNumber = strings.TrimSpace(o.SupplierNumber)
	o.ContractNumber = strings.TrimSpace(o.ContractNumber)
	o.Description = strings.TrimSpace(o.Description)

	if o.Status == "" {
		o.Status = OrderStatusActive
	}

	switch o.Status {
	case OrderStatusActive, OrderStatusInactive, OrderStatusArchived:
	default:
		return ErrOrderStatusInvalid
	}

	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	_ = o.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Order)
	return o.checkIntegrity(tx, *toSave)
}

func (o *Order) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("ClientID") {
		toSave := tx.Statement.Dest.(Order)
		return o.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (o *Order) checkIntegrity(tx *gorm.DB, toSave Order) error {
	return tx.First(&Client{}, toSave.ClientID).Error
}

func (i *OrderItem) BeforeSave(_ *gorm.DB) error {
	if !validWorkType(i.Type) {
		return ErrWorkTypeInvalid
	}

	if i.Hours.IsNegative() || i.Rate.IsNegative() {
		return ErrOrderItemNegative
	}

	return nil
}

func validWorkType(t WorkType) bool {
	switch t {
	case WorkTypeConsultations, WorkTypeOpexBase, WorkTypeCapexBase:
		return true
	}

	return false
}

// ItemFor returns the budget line for a work type. The second return
// value reports whether the order has such a line at all.
func (o Order) ItemFor(workType WorkType) (OrderItem, bool) {
	for _, item := range o.Items {
		if item.Type == workType {
			return item, true
		}
	}

	return OrderItem{}, false
}

// ReplaceItems atomically replaces all budget lines of the order with the
// submitted set.
func (o *Order) ReplaceItems(db *gorm.DB, items []OrderItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Hard delete: replaced items must not linger as soft-deleted rows
		err := tx.Unscoped().Where(&OrderItem{OrderID: o.ID}).Delete(&OrderItem{}).Error
		if err != nil {
			return fmt.Errorf("deleting items of order %s failed: %w", o.ID, err)
		}

		for idx := range items {
			items[idx].ID = uuid.Nil
			items[idx].OrderID = o.ID
			err = tx.Create(&items[idx]).Error
			if err != nil {
				return fmt.Errorf("creating item for order %s failed: %w", o.ID, err)
			}
		}

		o.Items = items
		return nil
	})
}

// ActiveOrders returns all orders eligible as settlement targets.
func ActiveOrders(db *gorm.DB) ([]Order, error) {
	var orders []Order

	err := db.Preload("Items").
		Where(&Order{Status: OrderStatusActive}).
		Order("document_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("loading active orders failed: %w", err)
	}

	return orders, nil
}
