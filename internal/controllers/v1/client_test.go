package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/hourbook/backend/internal/controllers/v1"
	"github.com/hourbook/backend/internal/models"
	"github.com/hourbook/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClientsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestClientsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestClient(t, v1.ClientEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/clients", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.ClientListResponse
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

// TestClientsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestClientsOptions() {
	tests := []struct {
		name   string
		id     string // path at the clients endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No client with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Client exists", createTestClient(suite.T(), v1.ClientEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/clients", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestClientsCreate() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/clients", []v1.ClientEditable{
		{
			Name:  "Acme Corp",
			Email: "billing@acme.example",
			TaxID: "5261040828",
			Contacts: []v1.ContactEditable{
				{Name: "Jamie Doe", Email: "jamie@acme.example"},
			},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.ClientCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	require.Nil(suite.T(), response.Data[0].Error)

	client := response.Data[0].Data
	assert.Equal(suite.T(), "Acme Corp", client.Name)
	require.Len(suite.T(), client.Contacts, 1)
	assert.NotEqual(suite.T(), uuid.Nil, client.Contacts[0].ID)
	assert.Contains(suite.T(), client.Links.Self, fmt.Sprintf("/v1/clients/%s", client.ID))
}

func (suite *TestSuiteStandard) TestClientsCreateFails() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `{ "name": 2" }`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{"Not an array", `{ "name": "Acme Corp" }`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/clients", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestClientsCreateDuplicateName verifies the client name uniqueness.
func (suite *TestSuiteStandard) TestClientsCreateDuplicateName() {
	_ = createTestClient(suite.T(), v1.ClientEditable{Name: "Acme Corp"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/clients", []v1.ClientEditable{{Name: "Acme Corp"}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	var response v1.ClientCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), models.ErrClientNameNotUnique.Error(), *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestClientsGetFilter() {
	_ = createTestClient(suite.T(), v1.ClientEditable{Name: "Acme Corp", Email: "billing@acme.example", TaxID: "5261040828"})
	_ = createTestClient(suite.T(), v1.ClientEditable{Name: "Umbrella Holdings", Email: "invoices@umbrella.example"})
	_ = createTestClient(suite.T(), v1.ClientEditable{Name: "Globex", Email: "office@globex.example"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Fuzzy name", "name=corp", 1},
		{"Tax ID", "taxId=5261040828", 1},
		{"Tax ID not found", "taxId=0000000000", 0},
		{"Search in name", "search=umbrella", 1},
		{"Search in email", "search=office", 1},
		{"Offset 2", "offset=2", 1},
		{"Offset 0, limit 2", "offset=0&limit=2", 2},
		{"Limit 4", "limit=4", 3},
		{"Limit 0", "limit=0", 0},
		{"Limit -1", "limit=-1", 3},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.ClientListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/clients?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestClientsGetSingle() {
	client := createTestClient(suite.T(), v1.ClientEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing client", client.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No client with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/clients/%s", tt.id), "")

			var response v1.ClientResponse
			test.DecodeResponse(t, &r, &response)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestClientsUpdate() {
	client := createTestClient(suite.T(), v1.ClientEditable{Name: "Acme Corp", Phone: "+48 22 123 45 67"})

	r := test.Request(suite.T(), http.MethodPatch, client.Data.Links.Self, map[string]any{
		"email": "accounting@acme.example",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ClientResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "accounting@acme.example", response.Data.Email)

	// Fields not in the body stay untouched
	assert.Equal(suite.T(), "Acme Corp", response.Data.Name)
	assert.Equal(suite.T(), "+48 22 123 45 67", response.Data.Phone)
}

// TestClientsUpdateContacts verifies that submitting the contacts field
// reconciles the stored contacts.
func (suite *TestSuiteStandard) TestClientsUpdateContacts() {
	client := createTestClient(suite.T(), v1.ClientEditable{
		Contacts: []v1.ContactEditable{
			{Name: "Jamie Doe"},
			{Name: "Sam Smith"},
		},
	})
	require.Len(suite.T(), client.Data.Contacts, 2)

	keep := client.Data.Contacts[0]

	r := test.Request(suite.T(), http.MethodPatch, client.Data.Links.Self, map[string]any{
		"contacts": []map[string]any{
			{"id": keep.ID.String(), "name": keep.Name, "email": "jamie@acme.example"},
			{"name": "Alex New"},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ClientResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data.Contacts, 2)

	names := []string{response.Data.Contacts[0].Name, response.Data.Contacts[1].Name}
	assert.Contains(suite.T(), names, "Jamie Doe")
	assert.Contains(suite.T(), names, "Alex New")
	assert.NotContains(suite.T(), names, "Sam Smith")
}

func (suite *TestSuiteStandard) TestClientsUpdateFails() {
	client := createTestClient(suite.T(), v1.ClientEditable{})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Invalid type", `{"name": 2}`, http.StatusBadRequest},
		{"Broken JSON", `{ "name": 2" }`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, client.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestClientsDelete() {
	client := createTestClient(suite.T(), v1.ClientEditable{Name: "Acme Corp"})

	r := test.Request(suite.T(), http.MethodDelete, client.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The name can be reused right away
	_ = createTestClient(suite.T(), v1.ClientEditable{Name: "Acme Corp"})
}

// TestClientsDeleteWithOrders verifies that clients that still have
// orders cannot be deleted.
func (suite *TestSuiteStandard) TestClientsDeleteWithOrders() {
	client := createTestClient(suite.T(), v1.ClientEditable{})
	_ = createTestOrder(suite.T(), v1.OrderEditable{ClientID: client.Data.ID})

	r := test.Request(suite.T(), http.MethodDelete, client.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// The client is still there
	r = test.Request(suite.T(), http.MethodGet, client.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}
