package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentSlot names one of the two document slots of a pairing record.
//
// swagger:enum DocumentSlot
type DocumentSlot string

const (
	SlotInvoice              DocumentSlot = "INVOICE"
	SlotDeliveryConfirmation DocumentSlot = "DELIVERY_CONFIRMATION"
)

var (
	ErrSettlementDocumentNotUnique = errors.New("a document record for this settlement and order already exists")
	ErrDocumentSlotInvalid         = errors.New("the document slot must be one of INVOICE, DELIVERY_CONFIRMATION")
)

// SettlementDocument stores the optional invoice and delivery-confirmation
// PDFs for one order within one settlement. At most one record exists per
// (settlement, order) pair.
type SettlementDocument struct {
	DefaultModel
	SettlementID         uuid.UUID  `gorm:"uniqueIndex:settlement_document_order"`
	Settlement           Settlement `json:"-"`
	OrderID              uuid.UUID  `gorm:"uniqueIndex:settlement_document_order"`
	Order                Order      `json:"-"`
	Invoice              []byte
	DeliveryConfirmation []byte
}

// Empty reports whether both document slots are unset.
func (d SettlementDocument) Empty() bool {
	return len(d.Invoice) == 0 && len(d.DeliveryConfirmation) == 0
}

// Payload returns the content of the named slot.
func (d SettlementDocument) Payload(slot DocumentSlot) ([]byte, error) {
	switch slot {
	case SlotInvoice:
		return d.Invoice, nil
	case SlotDeliveryConfirmation:
		return d.DeliveryConfirmation, nil
	}

	return nil, ErrDocumentSlotInvalid
}

// setSlot writes the content of the named slot, leaving the other slot
// untouched.
func (d *SettlementDocument) setSlot(slot DocumentSlot, payload []byte) error {
	switch slot {
	case SlotInvoice:
		d.Invoice = payload
	case SlotDeliveryConfirmation:
		d.DeliveryConfirmation = payload
	default:
		return ErrDocumentSlotInvalid
	}

	return nil
}

// UpsertSettlementDocument sets one slot of the document record for
// (settlementID, orderID), creating the record when none exists.
//
// Only the named slot is written so concurrent writers for different
// slots of the same pair cannot lose each other's payload. When clearing
// a slot leaves both slots empty, the record is deleted: pairing records
// exist only while they carry at least one document.
func UpsertSettlementDocument(db *gorm.DB, settlementID, orderID uuid.UUID, slot DocumentSlot, payload []byte) (SettlementDocument, error) {
	var document SettlementDocument

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(&SettlementDocument{SettlementID: settlementID, OrderID: orderID}).
			Limit(1).Find(&document).Error
		if err != nil {
			return err
		}

		if document.ID == uuid.Nil {
			document.SettlementID = settlementID
			document.OrderID = orderID
			err = document.setSlot(slot, payload)
			if err != nil {
				return err
			}

			if document.Empty() {
				// Clearing a slot of a record that does not exist is a no-op
				return nil
			}

			return tx.Create(&document).Error
		}

		err = document.setSlot(slot, payload)
		if err != nil {
			return err
		}

		if document.Empty() {
			err = tx.Unscoped().Delete(&document).Error
			if err != nil {
				return err
			}

			document = SettlementDocument{}
			return nil
		}

		column := "Invoice"
		if slot == SlotDeliveryConfirmation {
			column = "DeliveryConfirmation"
		}

		return tx.Model(&document).Select(column).Updates(&document).Error
	})
	if err != nil {
		return SettlementDocument{}, fmt.Errorf("saving document for settlement %s, order %s failed: %w", settlementID, orderID, err)
	}

	return document, nil
}

// SettlementDocuments returns all document records of a settlement.
func SettlementDocuments(db *gorm.DB, settlementID uuid.UUID) ([]SettlementDocument, error) {
	var documents []SettlementDocument

	err := db.Where(&SettlementDocument{SettlementID: settlementID}).Find(&documents).Error
	if err != nil {
		return nil, fmt.Errorf("loading documents for settlement %s failed: %w", settlementID, err)
	}

	return documents, nil
}
