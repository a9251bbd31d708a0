package v1

import (
	"errors"
	"net/http"

	"github.com/hourbook/backend/internal/documents"
	"github.com/hourbook/backend/internal/models"
	"github.com/hourbook/backend/internal/pdf"
	"github.com/hourbook/backend/internal/registry"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) ||
		errors.Is(err, pdf.ErrMerge) ||
		errors.Is(err, pdf.ErrMergeTimeout) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) ||
		errors.Is(err, registry.ErrNotFound) ||
		errors.Is(err, documents.ErrOrderNotPaired) ||
		errors.Is(err, errSlotEmpty) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrSettlementPeriodNotUnique) ||
		errors.Is(err, models.ErrMonthlyDocumentPeriodNotUnique) ||
		errors.Is(err, models.ErrSettlementDocumentNotUnique) ||
		errors.Is(err, models.ErrClientNameNotUnique) ||
		errors.Is(err, models.ErrOrderNumberNotUnique) {
		return http.StatusConflict
	}

	if errors.Is(err, documents.ErrIncompletePair) {
		return http.StatusPreconditionFailed
	}

	if errors.Is(err, registry.ErrUnavailable) {
		return http.StatusBadGateway
	}

	// Draft validation errors and everything else the user can correct
	return http.StatusBadRequest
}

var (
	errWorkTypeParameter = errors.New("the workType query parameter must be set to one of CONSULTATIONS, OPEX_BASE, CAPEX_BASE")
	errBothSlotsUnset    = errors.New("at least one of invoice and deliveryConfirmation must be submitted")
	errNotBase64         = errors.New("the document payload must be base64 encoded")
	errClientHasOrders   = errors.New("the client still has orders and cannot be deleted")
	errOrderSettled      = errors.New("the order is referenced by settlement items and cannot be deleted")
	errSlotEmpty         = errors.New("no document is stored in this slot")
)
