package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMonthlyDocumentPeriodNotUnique = errors.New("a monthly document for this year and month already exists")

// MonthlyDocument is one optional document pair stored per calendar
// month, independent of any settlement.
type MonthlyDocument struct {
	DefaultModel
	Year                 int `gorm:"uniqueIndex:monthly_document_period"`
	Month                int `gorm:"uniqueIndex:monthly_document_period"` // 1-12
	Invoice              []byte
	DeliveryConfirmation []byte
}

func (d *MonthlyDocument) BeforeSave(_ *gorm.DB) error {
	if d.Month < 1 || d.Month > 12 {
		return ErrSettlementMonthInvalid
	}

	return nil
}

// UpsertMonthlyDocument creates or replaces the document pair for
// (year, month). Unlike settlement documents, both slots are written
// on every call, a slot without payload is cleared.
func UpsertMonthlyDocument(db *gorm.DB, document MonthlyDocument) (MonthlyDocument, error) {
	var existing MonthlyDocument

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(&MonthlyDocument{Year: document.Year, Month: document.Month}).
			Limit(1).Find(&existing).Error
		if err != nil {
			return err
		}

		if existing.ID == uuid.Nil {
			return tx.Create(&document).Error
		}

		document.DefaultModel = existing.DefaultModel
		return tx.Model(&existing).Select("Invoice", "DeliveryConfirmation").Updates(&document).Error
	})
	if err != nil {
		return MonthlyDocument{}, fmt.Errorf("saving monthly document for %d-%02d failed: %w", document.Year, document.Month, err)
	}

	return document, nil
}
