package v1_test

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/hourbook/backend/internal/controllers/v1"
	"github.com/hourbook/backend/internal/documents"
	"github.com/hourbook/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSettlementDocumentsDBClosed verifies that errors are processed
// correctly when the database is closed.
func (suite *TestSuiteStandard) TestSettlementDocumentsDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/settlements/%s/documents", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}

// TestSettlementDocumentsOptions verifies that OPTIONS requests are
// handled correctly.
func (suite *TestSuiteStandard) TestSettlementDocumentsOptions() {
	order, settlement := settledOrder(suite.T(), 2024, 3)

	tests := []struct {
		name   string
		path   string
		status int
		allow  string
	}{
		{"List", settlement.Data.Links.Documents, http.StatusNoContent, "GET"},
		{"Detail", fmt.Sprintf("%s/%s", settlement.Data.Links.Documents, order.Data.ID), http.StatusNoContent, "GET, PUT"},
		{"Detail of unknown settlement", fmt.Sprintf("http://example.com/v1/settlements/%s/documents/%s", uuid.New(), order.Data.ID), http.StatusNotFound, ""},
		{"Detail with invalid settlement ID", fmt.Sprintf("http://example.com/v1/settlements/notaUUID/documents/%s", order.Data.ID), http.StatusBadRequest, ""},
		{"Merged", fmt.Sprintf("%s/%s/merged", settlement.Data.Links.Documents, order.Data.ID), http.StatusNoContent, "GET"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.allow != "" {
				assert.Equal(t, tt.allow, r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestSettlementDocumentsList() {
	order, settlement := settledOrder(suite.T(), 2024, 3)

	r := test.Request(suite.T(), http.MethodGet, settlement.Data.Links.Documents, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.DocumentPairListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)

	pair := response.Data[0]
	assert.Equal(suite.T(), order.Data.ID, pair.OrderID)
	assert.Equal(suite.T(), order.Data.OrderNumber, pair.OrderNumber)
	assert.Equal(suite.T(), order.Data.ClientName, pair.ClientName)
	assert.False(suite.T(), pair.HasInvoice)
	assert.False(suite.T(), pair.HasDeliveryConfirmation)
	assert.False(suite.T(), pair.Complete)
	assert.Contains(suite.T(), pair.Links.Self, fmt.Sprintf("/v1/settlements/%s/documents/%s", settlement.Data.ID, order.Data.ID))
	assert.Contains(suite.T(), pair.Links.Merged, "/merged")

	require.NotNil(suite.T(), response.Completion)
	assert.Equal(suite.T(), 0, response.Completion.Complete)
	assert.Equal(suite.T(), 1, response.Completion.Total)
}

func (suite *TestSuiteStandard) TestSettlementDocumentsListFails() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No settlement with this ID", uuid.New().String(), http.StatusNotFound},
		{"Invalid ID (string)", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/settlements/%s/documents", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestSettlementDocumentsUpdate verifies that slots can be stored and
// cleared one at a time.
func (suite *TestSuiteStandard) TestSettlementDocumentsUpdate() {
	order, settlement := settledOrder(suite.T(), 2024, 3)
	path := fmt.Sprintf("%s/%s", settlement.Data.Links.Documents, order.Data.ID)

	// Store the invoice
	r := test.Request(suite.T(), http.MethodPut, path, map[string]any{
		"invoice": base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Invoice")),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.DocumentPairResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.HasInvoice)
	assert.False(suite.T(), response.Data.HasDeliveryConfirmation)
	assert.False(suite.T(), response.Data.Complete)

	// Store the delivery confirmation, the invoice stays untouched
	r = test.Request(suite.T(), http.MethodPut, path, map[string]any{
		"deliveryConfirmation": base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Delivery")),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.HasInvoice)
	assert.True(suite.T(), response.Data.HasDeliveryConfirmation)
	assert.True(suite.T(), response.Data.Complete)

	// The completion reflects the stored pair
	r = test.Request(suite.T(), http.MethodGet, settlement.Data.Links.Documents, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.DocumentPairListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	assert.Equal(suite.T(), 1, list.Completion.Complete)

	// Submitting null clears a slot
	r = test.Request(suite.T(), http.MethodPut, path, map[string]any{
		"invoice": nil,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	assert.False(suite.T(), response.Data.HasInvoice)
	assert.True(suite.T(), response.Data.HasDeliveryConfirmation)
	assert.False(suite.T(), response.Data.Complete)
}

func (suite *TestSuiteStandard) TestSettlementDocumentsUpdateFails() {
	order, settlement := settledOrder(suite.T(), 2024, 3)
	unpaired := createTestOrder(suite.T(), v1.OrderEditable{})

	payload := base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Invoice"))

	tests := []struct {
		name    string
		orderID string
		body    any
		status  int
	}{
		{"No slot submitted", order.Data.ID.String(), map[string]any{}, http.StatusBadRequest},
		{"No body", order.Data.ID.String(), "", http.StatusBadRequest},
		{"Broken body", order.Data.ID.String(), `{ "invoice": 2" }`, http.StatusBadRequest},
		{"Not base64", order.Data.ID.String(), map[string]any{"invoice": "this is not base64!"}, http.StatusBadRequest},
		{"Order not referenced by the settlement", unpaired.Data.ID.String(), map[string]any{"invoice": payload}, http.StatusNotFound},
		{"Invalid order ID", "notaUUID", map[string]any{"invoice": payload}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", settlement.Data.Links.Documents, tt.orderID)
			r := test.Request(t, http.MethodPut, path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestSettlementDocumentsGetSingle() {
	order, settlement := settledOrder(suite.T(), 2024, 3)
	path := fmt.Sprintf("%s/%s", settlement.Data.Links.Documents, order.Data.ID)

	r := test.Request(suite.T(), http.MethodPut, path, map[string]any{
		"invoice": base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Invoice")),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, path, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.DocumentPairResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), order.Data.ID, response.Data.OrderID)
	assert.True(suite.T(), response.Data.HasInvoice)

	// An order the settlement does not reference is not paired
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s/%s", settlement.Data.Links.Documents, uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), documents.ErrOrderNotPaired.Error(), *response.Error)
}

// TestSettlementDocumentsGetSlot verifies that the stored PDF for a
// slot is returned as is.
func (suite *TestSuiteStandard) TestSettlementDocumentsGetSlot() {
	order, settlement := settledOrder(suite.T(), 2024, 3)
	path := fmt.Sprintf("%s/%s", settlement.Data.Links.Documents, order.Data.ID)

	payload := test.PDF(suite.T(), "Invoice")
	r := test.Request(suite.T(), http.MethodPut, path, map[string]any{
		"invoice": base64.StdEncoding.EncodeToString(payload),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?slot=INVOICE", path), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	assert.Equal(suite.T(), "application/pdf", r.Header().Get("Content-Type"))
	assert.Contains(suite.T(), r.Header().Get("Content-Disposition"), fmt.Sprintf("%s-INVOICE.pdf", order.Data.OrderNumber))
	assert.Equal(suite.T(), payload, r.Body.Bytes())

	tests := []struct {
		name   string
		slot   string
		status int
	}{
		{"Empty slot", "DELIVERY_CONFIRMATION", http.StatusNotFound},
		{"Unknown slot", "RECEIPT", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("%s?slot=%s", path, tt.slot), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestSettlementDocumentsMerged verifies that merging requires both
// documents and concatenates them into one PDF.
func (suite *TestSuiteStandard) TestSettlementDocumentsMerged() {
	order, settlement := settledOrder(suite.T(), 2024, 3)
	path := fmt.Sprintf("%s/%s", settlement.Data.Links.Documents, order.Data.ID)

	// Nothing stored yet
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s/merged", path), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusPreconditionFailed)

	var httpError struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), &r, &httpError)
	assert.Equal(suite.T(), documents.ErrIncompletePair.Error(), httpError.Error)

	// Only the invoice stored
	r = test.Request(suite.T(), http.MethodPut, path, map[string]any{
		"invoice": base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Invoice")),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s/merged", path), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusPreconditionFailed)

	// Both stored
	r = test.Request(suite.T(), http.MethodPut, path, map[string]any{
		"deliveryConfirmation": base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Delivery")),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s/merged", path), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	assert.Equal(suite.T(), "application/pdf", r.Header().Get("Content-Type"))
	assert.Contains(suite.T(), r.Header().Get("Content-Disposition"), fmt.Sprintf("documents-%s.pdf", order.Data.ID))
	assert.True(suite.T(), len(r.Body.Bytes()) > 0 && string(r.Body.Bytes()[:5]) == "%PDF-")

	// An order the settlement does not reference cannot be merged
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s/%s/merged", settlement.Data.Links.Documents, uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
