package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hourbook/backend/internal/models"
	"gorm.io/gorm"
)

// ContactEditable represents all user configurable parameters of a contact
type ContactEditable struct {
	ID    uuid.UUID `json:"id" example:"9dbb5a9f-0f29-4e48-9ba9-a0d9b4a6e6a3"` // ID of an existing contact. Unset for new contacts
	Name  string    `json:"name" example:"Jane Doe" default:""`                // Full name of the contact
	Email string    `json:"email" example:"jane.doe@example.com" default:""`   // Email address of the contact
}

func (editable ContactEditable) model() models.Contact {
	return models.Contact{
		DefaultModel: models.DefaultModel{ID: editable.ID},
		Name:         editable.Name,
		Email:        editable.Email,
	}
}

// ClientEditable represents all user configurable parameters
type ClientEditable struct {
	Name     string            `json:"name" example:"ACME Corporation" default:""`      // Name of the client, must be unique
	Email    string            `json:"email" example:"billing@acme.example" default:""` // Billing email address
	TaxID    string            `json:"taxId" example:"5261040828" default:""`           // National tax identifier
	Phone    string            `json:"phone" example:"+48 22 123 45 67" default:""`     // Phone number
	Contacts []ContactEditable `json:"contacts"`                                        // Contact persons working for the client
}

func (editable ClientEditable) model() models.Client {
	contacts := make([]models.Contact, 0, len(editable.Contacts))
	for _, contact := range editable.Contacts {
		contacts = append(contacts, contact.model())
	}

	return models.Client{
		Name:     editable.Name,
		Email:    editable.Email,
		TaxID:    editable.TaxID,
		Phone:    editable.Phone,
		Contacts: contacts,
	}
}

type ClientLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/clients/d7c4d4a7-9868-4249-b7dc-be51ee5eba5c"`         // The client itself
	Orders string `json:"orders" example:"https://example.com/api/v1/orders?client=d7c4d4a7-9868-4249-b7dc-be51ee5eba5c"` // Orders placed by this client
}

type Client struct {
	models.DefaultModel
	ClientEditable
	Links ClientLinks `json:"links"`
}

func newClient(c *gin.Context, db *gorm.DB, model models.Client) (Client, error) {
	url := c.GetString(string(models.DBContextURL))

	var contacts []models.Contact
	err := db.Where(&models.Contact{ClientID: model.ID}).Order("name ASC").Find(&contacts).Error
	if err != nil {
		return Client{}, err
	}

	editableContacts := make([]ContactEditable, 0, len(contacts))
	for _, contact := range contacts {
		editableContacts = append(editableContacts, ContactEditable{
			ID:    contact.ID,
			Name:  contact.Name,
			Email: contact.Email,
		})
	}

	return Client{
		DefaultModel: model.DefaultModel,
		ClientEditable: ClientEditable{
			Name:     model.Name,
			Email:    model.Email,
			TaxID:    model.TaxID,
			Phone:    model.Phone,
			Contacts: editableContacts,
		},
		Links: ClientLinks{
			Self:   fmt.Sprintf("%s/v1/clients/%s", url, model.ID),
			Orders: fmt.Sprintf("%s/v1/orders?client=%s", url, model.ID),
		},
	}, nil
}

type ClientListResponse struct {
	Data       []Client    `json:"data"`                                                          // List of clients
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ClientCreateResponse struct {
	Data  []ClientResponse `json:"data"`                                                          // List of the created clients or their respective error
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (c *ClientCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	c.Data = append(c.Data, ClientResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ClientResponse struct {
	Data  *Client `json:"data"`                                                          // Data for the client
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ClientQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // By name
	TaxID  string `form:"taxId"`                      // By tax ID
	Search string `form:"search" filterField:"false"` // By string in name or email
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first client returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of clients to return. Defaults to 50.
}

func (f ClientQueryFilter) model() (models.Client, error) {
	return models.Client{
		TaxID: f.TaxID,
	}, nil
}
