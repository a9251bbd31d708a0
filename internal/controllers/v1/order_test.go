package v1_test

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/hourbook/backend/internal/controllers/v1"
	"github.com/hourbook/backend/internal/models"
	"github.com/hourbook/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOrdersDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestOrdersDBClosed() {
	client := createTestClient(suite.T(), v1.ClientEditable{})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestOrder(t, v1.OrderEditable{ClientID: client.Data.ID}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/orders", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.OrderListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
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

// TestOrdersOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestOrdersOptions() {
	tests := []struct {
		name   string
		id     string // path at the orders endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No order with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Order exists", createTestOrder(suite.T(), v1.OrderEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/orders", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestOrdersCreate() {
	client := createTestClient(suite.T(), v1.ClientEditable{Name: "Acme Corp"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/orders", []v1.OrderEditable{
		{
			ClientID:     client.Data.ID,
			OrderNumber:  "ZAM/2024/0042",
			DocumentDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Items: []v1.OrderItemEditable{
				{Type: models.WorkTypeOpexBase, Hours: decimal.NewFromFloat(10), Rate: decimal.NewFromFloat(150)},
			},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.OrderCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	require.Nil(suite.T(), response.Data[0].Error)

	order := response.Data[0].Data
	assert.Equal(suite.T(), "ZAM/2024/0042", order.OrderNumber)
	assert.Equal(suite.T(), models.OrderStatusActive, order.Status, "status does not default to active")
	assert.Equal(suite.T(), "Acme Corp", order.ClientName)
	require.Len(suite.T(), order.Items, 1)
	assert.Contains(suite.T(), order.Links.Client, fmt.Sprintf("/v1/clients/%s", client.Data.ID))
}

func (suite *TestSuiteStandard) TestOrdersCreateFails() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `{ "orderNumber": 2" }`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{"Non-existing client", []v1.OrderEditable{{ClientID: uuid.New(), OrderNumber: "ZAM/1"}}, http.StatusNotFound},
		{"Invalid status", []v1.OrderEditable{{Status: "PENDING", OrderNumber: "ZAM/2"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			body := tt.body
			if editables, ok := body.([]v1.OrderEditable); ok && tt.name == "Invalid status" {
				editables[0].ClientID = createTestClient(t, v1.ClientEditable{}).Data.ID
				body = editables
			}

			r := test.Request(t, http.MethodPost, "http://example.com/v1/orders", body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestOrdersCreateDuplicateNumber verifies the order number uniqueness.
func (suite *TestSuiteStandard) TestOrdersCreateDuplicateNumber() {
	_ = createTestOrder(suite.T(), v1.OrderEditable{OrderNumber: "ZAM/2024/0042"})

	createTestOrder(suite.T(), v1.OrderEditable{OrderNumber: "ZAM/2024/0042"}, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestOrdersGetFilter() {
	client := createTestClient(suite.T(), v1.ClientEditable{})

	_ = createTestOrder(suite.T(), v1.OrderEditable{
		ClientID:    client.Data.ID,
		OrderNumber: "ZAM/2024/0001",
		Description: "Infrastructure maintenance",
	})
	_ = createTestOrder(suite.T(), v1.OrderEditable{
		OrderNumber: "ZAM/2024/0002",
		Description: "Network consulting",
		Status:      models.OrderStatusInactive,
	})
	_ = createTestOrder(suite.T(), v1.OrderEditable{
		OrderNumber: "UM/2023/0017",
		Description: "Workshop",
		Status:      models.OrderStatusArchived,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Client", fmt.Sprintf("client=%s", client.Data.ID), 1},
		{"Client not existing", fmt.Sprintf("client=%s", uuid.New()), 0},
		{"Status active", "status=ACTIVE", 1},
		{"Status inactive", "status=INACTIVE", 1},
		{"Fuzzy number", "number=2024", 2},
		{"Search in number", "search=um/2023", 1},
		{"Search in description", "search=consulting", 1},
		{"Offset 2", "offset=2", 1},
		{"Limit 1", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.OrderListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/orders?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestOrdersGetFilterFails() {
	tests := []struct {
		name  string
		query string
	}{
		{"Invalid status", "status=PENDING"},
		{"Invalid client ID", "client=notaUUID"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/orders?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestOrdersUpdate() {
	order := createTestOrder(suite.T(), v1.OrderEditable{
		OrderNumber: "ZAM/2024/0042",
		Items: []v1.OrderItemEditable{
			{Type: models.WorkTypeOpexBase, Hours: decimal.NewFromFloat(10), Rate: decimal.NewFromFloat(150)},
		},
	})

	r := test.Request(suite.T(), http.MethodPatch, order.Data.Links.Self, map[string]any{
		"description": "Extended maintenance",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.OrderResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "Extended maintenance", response.Data.Description)
	assert.Equal(suite.T(), "ZAM/2024/0042", response.Data.OrderNumber)
	assert.Len(suite.T(), response.Data.Items, 1, "items must stay untouched when not submitted")
}

// TestOrdersUpdateItems verifies that submitting the items field replaces
// all budget lines.
func (suite *TestSuiteStandard) TestOrdersUpdateItems() {
	order := createTestOrder(suite.T(), v1.OrderEditable{
		Items: []v1.OrderItemEditable{
			{Type: models.WorkTypeOpexBase, Hours: decimal.NewFromFloat(10), Rate: decimal.NewFromFloat(150)},
		},
	})

	r := test.Request(suite.T(), http.MethodPatch, order.Data.Links.Self, map[string]any{
		"items": []map[string]any{
			{"type": "CONSULTATIONS", "hours": 5, "rate": 175},
			{"type": "CAPEX_BASE", "hours": 8, "rate": 130},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.OrderResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data.Items, 2)
	assert.Equal(suite.T(), models.WorkTypeConsultations, response.Data.Items[0].Type)
}

func (suite *TestSuiteStandard) TestOrdersDelete() {
	order := createTestOrder(suite.T(), v1.OrderEditable{OrderNumber: "ZAM/2024/0042"})

	r := test.Request(suite.T(), http.MethodDelete, order.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The order number can be reused right away
	_ = createTestOrder(suite.T(), v1.OrderEditable{OrderNumber: "ZAM/2024/0042"})
}

// TestOrdersDeleteSettled verifies that orders referenced by settlement
// items cannot be deleted.
func (suite *TestSuiteStandard) TestOrdersDeleteSettled() {
	order, _ := settledOrder(suite.T(), 2024, 3)

	r := test.Request(suite.T(), http.MethodDelete, order.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodGet, order.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestOrdersAvailableHours() {
	order, settlement := settledOrder(suite.T(), 2024, 3)

	tests := []struct {
		name      string
		query     string
		status    int
		available float64
	}{
		{"Settled hours are counted", "workType=OPEX_BASE", http.StatusOK, 6},
		{"Work type without budget line", "workType=CAPEX_BASE", http.StatusOK, 0},
		{"Excluded settlement", fmt.Sprintf("workType=OPEX_BASE&excludeSettlement=%s", settlement.Data.ID), http.StatusOK, 10},
		{"Missing work type", "", http.StatusBadRequest, 0},
		{"Invalid work type", "workType=GARDENING", http.StatusBadRequest, 0},
		{"Invalid exclude ID", "workType=OPEX_BASE&excludeSettlement=notaUUID", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("%s/available-hours?%s", order.Data.Links.Self, tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusOK {
				return
			}

			var response v1.AvailableHoursResponse
			test.DecodeResponse(t, &r, &response)
			assert.True(t, response.Data.Available.Equal(decimal.NewFromFloat(tt.available)),
				"available is %s, expected %v", response.Data.Available, tt.available)
		})
	}
}

func (suite *TestSuiteStandard) TestOrderAttachments() {
	order := createTestOrder(suite.T(), v1.OrderEditable{})
	payload := test.PDF(suite.T(), "Order scan")

	r := test.Request(suite.T(), http.MethodPost, order.Data.Links.Attachments, []v1.OrderAttachmentEditable{
		{
			FileName: "order-scan.pdf",
			Content:  base64.StdEncoding.EncodeToString(payload),
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.OrderAttachmentCreateResponse
	test.DecodeResponse(suite.T(), &r, &created)
	require.Len(suite.T(), created.Data, 1)
	require.Nil(suite.T(), created.Data[0].Error)

	// The list contains the metadata
	r = test.Request(suite.T(), http.MethodGet, order.Data.Links.Attachments, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.OrderAttachmentListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	require.Len(suite.T(), list.Data, 1)
	assert.Equal(suite.T(), "order-scan.pdf", list.Data[0].FileName)

	// The attachment endpoint serves the file
	r = test.Request(suite.T(), http.MethodGet, list.Data[0].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	assert.Equal(suite.T(), "application/pdf", r.Header().Get("Content-Type"))
	assert.Equal(suite.T(), payload, r.Body.Bytes())

	// Deleting removes it from the list
	r = test.Request(suite.T(), http.MethodDelete, list.Data[0].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, order.Data.Links.Attachments, "")
	test.DecodeResponse(suite.T(), &r, &list)
	assert.Len(suite.T(), list.Data, 0)
}

func (suite *TestSuiteStandard) TestOrderAttachmentsFails() {
	order := createTestOrder(suite.T(), v1.OrderEditable{})
	foreign := createTestOrder(suite.T(), v1.OrderEditable{})

	// Content that is not base64
	r := test.Request(suite.T(), http.MethodPost, order.Data.Links.Attachments, []v1.OrderAttachmentEditable{
		{FileName: "broken.pdf", Content: "not base64!"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// Attachments for a non-existing order
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/orders/%s/attachments", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// An attachment cannot be addressed through a foreign order
	r = test.Request(suite.T(), http.MethodPost, order.Data.Links.Attachments, []v1.OrderAttachmentEditable{
		{FileName: "scan.pdf", Content: base64.StdEncoding.EncodeToString(test.PDF(suite.T(), "Scan"))},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.OrderAttachmentCreateResponse
	test.DecodeResponse(suite.T(), &r, &created)
	require.Len(suite.T(), created.Data, 1)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s/%s", foreign.Data.Links.Attachments, created.Data[0].Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
