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

// createTestMonthlyDocument stores a document pair for the period and
// returns the response. An invoice is always stored so that the record
// is never empty.
func createTestMonthlyDocument(t *testing.T, year, month int) v1.MonthlyDocumentResponse {
	r := test.Request(t, http.MethodPut, "http://example.com/v1/monthly-documents", map[string]any{
		"year":    year,
		"month":   month,
		"invoice": base64.StdEncoding.EncodeToString(test.PDF(t, fmt.Sprintf("Invoice %d-%02d", year, month))),
	})
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.MonthlyDocumentResponse
	test.DecodeResponse(t, &r, &response)
	return response
}

// TestMonthlyDocumentsDBClosed verifies that errors are processed
// correctly when the database is closed.
func (suite *TestSuiteStandard) TestMonthlyDocumentsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Storing fails",
			func(t *testing.T) {
				r := test.Request(t, http.MethodPut, "http://example.com/v1/monthly-documents", map[string]any{
					"year":    2024,
					"month":   3,
					"invoice": base64.StdEncoding.EncodeToString(test.PDF(t, "Invoice")),
				})
				test.AssertHTTPStatus(t, &r, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				r := test.Request(t, http.MethodGet, "http://example.com/v1/monthly-documents", "")
				test.AssertHTTPStatus(t, &r, http.StatusInternalServerError)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestMonthlyDocumentsOptions verifies that OPTIONS requests are
// handled correctly.
func (suite *TestSuiteStandard) TestMonthlyDocumentsOptions() {
	document := createTestMonthlyDocument(suite.T(), 2024, 3)

	tests := []struct {
		name   string
		path   string
		status int
		allow  string
	}{
		{"List", "http://example.com/v1/monthly-documents", http.StatusNoContent, "GET, PUT"},
		{"Detail", document.Data.Links.Self, http.StatusNoContent, "GET, DELETE"},
		{"No document with this ID", fmt.Sprintf("http://example.com/v1/monthly-documents/%s", uuid.New()), http.StatusNotFound, ""},
		{"Not a valid UUID", "http://example.com/v1/monthly-documents/notaUUID", http.StatusBadRequest, ""},
		{"Merged", document.Data.Links.Merged, http.StatusNoContent, "GET"},
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

// TestMonthlyDocumentsUpdate verifies that storing a pair is an upsert
// keyed by year and month.
func (suite *TestSuiteStandard) TestMonthlyDocumentsUpdate() {
	first := createTestMonthlyDocument(suite.T(), 2024, 3)
	assert.Equal(suite.T(), 2024, first.Data.Year)
	assert.Equal(suite.T(), 3, first.Data.Month)
	assert.True(suite.T(), first.Data.HasInvoice)
	assert.False(suite.T(), first.Data.HasDeliveryConfirmation)
	assert.Contains(suite.T(), first.Data.Links.Self, fmt.Sprintf("/v1/monthly-documents/%s", first.Data.ID))

	// Storing the same period again replaces both slots
	r := test.Request(suite.T(), http.MethodPut, "http://example.com/v1/monthly-documents", map[string]any{
		"year":                 2024,
		"month":                3,
		"deliveryConfirmation": base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Delivery")),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.MonthlyDocumentResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), first.Data.ID, response.Data.ID)
	assert.False(suite.T(), response.Data.HasInvoice)
	assert.True(suite.T(), response.Data.HasDeliveryConfirmation)

	// There is still only one record for the period
	var list v1.MonthlyDocumentListResponse
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/monthly-documents", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &list)
	assert.Len(suite.T(), list.Data, 1)
}

func (suite *TestSuiteStandard) TestMonthlyDocumentsUpdateFails() {
	payload := base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Invoice"))

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"No slot submitted", map[string]any{"year": 2024, "month": 3}, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{"Broken body", `{ "year": 2024" }`, http.StatusBadRequest},
		{"Not base64", map[string]any{"year": 2024, "month": 3, "invoice": "this is not base64!"}, http.StatusBadRequest},
		{"Invalid month", map[string]any{"year": 2024, "month": 13, "invoice": payload}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPut, "http://example.com/v1/monthly-documents", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestMonthlyDocumentsGetFilter verifies the list filters and that the
// newest period comes first.
func (suite *TestSuiteStandard) TestMonthlyDocumentsGetFilter() {
	_ = createTestMonthlyDocument(suite.T(), 2023, 12)
	_ = createTestMonthlyDocument(suite.T(), 2024, 2)
	_ = createTestMonthlyDocument(suite.T(), 2024, 1)

	var response v1.MonthlyDocumentListResponse
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/monthly-documents", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 3)
	assert.Equal(suite.T(), 2, response.Data[0].Month)
	assert.Equal(suite.T(), 1, response.Data[1].Month)
	assert.Equal(suite.T(), 12, response.Data[2].Month)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Year 2024", "year=2024", 2},
		{"Year and month", "year=2023&month=12", 1},
		{"Month without match", "month=7", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.MonthlyDocumentListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/monthly-documents?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestMonthlyDocumentsGetSingle() {
	document := createTestMonthlyDocument(suite.T(), 2024, 3)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Existing document", document.Data.Links.Self, http.StatusOK},
		{"No document with this ID", fmt.Sprintf("http://example.com/v1/monthly-documents/%s", uuid.New()), http.StatusNotFound},
		{"Invalid ID (string)", "http://example.com/v1/monthly-documents/notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, tt.path, "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestMonthlyDocumentsGetSlot verifies that the stored PDF for a slot
// is returned as is.
func (suite *TestSuiteStandard) TestMonthlyDocumentsGetSlot() {
	payload := test.PDF(suite.T(), "Invoice")
	r := test.Request(suite.T(), http.MethodPut, "http://example.com/v1/monthly-documents", map[string]any{
		"year":    2024,
		"month":   3,
		"invoice": base64.StdEncoding.EncodeToString(payload),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var document v1.MonthlyDocumentResponse
	test.DecodeResponse(suite.T(), &r, &document)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?slot=INVOICE", document.Data.Links.Self), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	assert.Equal(suite.T(), "application/pdf", r.Header().Get("Content-Type"))
	assert.Contains(suite.T(), r.Header().Get("Content-Disposition"), "2024-03-INVOICE.pdf")
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
			r := test.Request(t, http.MethodGet, fmt.Sprintf("%s?slot=%s", document.Data.Links.Self, tt.slot), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestMonthlyDocumentsDelete() {
	document := createTestMonthlyDocument(suite.T(), 2024, 3)

	r := test.Request(suite.T(), http.MethodDelete, document.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, document.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// The period can be used again right away
	_ = createTestMonthlyDocument(suite.T(), 2024, 3)
}

func (suite *TestSuiteStandard) TestMonthlyDocumentsDeleteFails() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No document with this ID", uuid.New().String(), http.StatusNotFound},
		{"Invalid ID (string)", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/monthly-documents/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestMonthlyDocumentsMerged verifies that merging requires both
// documents and concatenates them into one PDF.
func (suite *TestSuiteStandard) TestMonthlyDocumentsMerged() {
	document := createTestMonthlyDocument(suite.T(), 2024, 3)

	// Only the invoice is stored
	r := test.Request(suite.T(), http.MethodGet, document.Data.Links.Merged, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusPreconditionFailed)

	var httpError struct {
		Error string `json:"error"`
	}
	test.DecodeResponse(suite.T(), &r, &httpError)
	assert.Equal(suite.T(), documents.ErrIncompletePair.Error(), httpError.Error)

	// Store both documents
	r = test.Request(suite.T(), http.MethodPut, "http://example.com/v1/monthly-documents", map[string]any{
		"year":                 2024,
		"month":                3,
		"invoice":              base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Invoice")),
		"deliveryConfirmation": base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Delivery")),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, document.Data.Links.Merged, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	assert.Equal(suite.T(), "application/pdf", r.Header().Get("Content-Type"))
	assert.Contains(suite.T(), r.Header().Get("Content-Disposition"), "documents-2024-03.pdf")
	assert.True(suite.T(), len(r.Body.Bytes()) > 0 && string(r.Body.Bytes()[:5]) == "%PDF-")

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/monthly-documents/%s/merged", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
