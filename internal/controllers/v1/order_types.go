package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hourbook/backend/internal/models"
	ez_uuid "github.com/hourbook/backend/internal/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// OrderItemEditable represents all user configurable parameters of an
// order's budget line
type OrderItemEditable struct {
	Type  models.WorkType `json:"type" example:"CONSULTATIONS"`                          // Work type the budget applies to
	Hours decimal.Decimal `json:"hours" example:"160" swaggertype:"number"`              // Contracted hours for this work type
	Rate  decimal.Decimal `json:"rate" example:"150.5" swaggertype:"number" default:"0"` // Hourly rate
}

func (editable OrderItemEditable) model() models.OrderItem {
	return models.OrderItem{
		Type:  editable.Type,
		Hours: editable.Hours,
		Rate:  editable.Rate,
	}
}

// OrderEditable represents all user configurable parameters
type OrderEditable struct {
	ClientID       uuid.UUID           `json:"clientId" example:"d7c4d4a7-9868-4249-b7dc-be51ee5eba5c"`     // ID of the client the order belongs to
	ContactID      *uuid.UUID          `json:"contactId" example:"9dbb5a9f-0f29-4e48-9ba9-a0d9b4a6e6a3"`    // Optional contact person for the order
	OrderNumber    string              `json:"orderNumber" example:"ZAM/2024/0042" default:""`              // Order number, must be unique
	SupplierNumber string              `json:"supplierNumber" example:"D-1337" default:""`                  // Our supplier number at the client
	ContractNumber string              `json:"contractNumber" example:"UM/2024/11" default:""`              // Number of the underlying contract
	Description    string              `json:"description" example:"Infrastructure maintenance" default:""` // Description of the order
	DocumentDate   time.Time           `json:"documentDate" example:"2024-01-15T00:00:00Z"`                 // Date of the order document
	DeliveryDate   *time.Time          `json:"deliveryDate" example:"2024-12-31T00:00:00Z"`                 // Agreed delivery date
	Status         models.OrderStatus  `json:"status" example:"ACTIVE" default:"ACTIVE"`                    // Status of the order
	Items          []OrderItemEditable `json:"items"`                                                       // Budget lines of the order
}

func (editable OrderEditable) model() models.Order {
	items := make([]models.OrderItem, 0, len(editable.Items))
	for _, item := range editable.Items {
		items = append(items, item.model())
	}

	return models.Order{
		ClientID:       editable.ClientID,
		ContactID:      editable.ContactID,
		OrderNumber:    editable.OrderNumber,
		SupplierNumber: editable.SupplierNumber,
		ContractNumber: editable.ContractNumber,
		Description:    editable.Description,
		DocumentDate:   editable.DocumentDate,
		DeliveryDate:   editable.DeliveryDate,
		Status:         editable.Status,
		Items:          items,
	}
}

type OrderLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/orders/a1e25b34-95f1-4d5a-8b7c-6f33bff52e5d"`                    // The order itself
	Client      string `json:"client" example:"https://example.com/api/v1/clients/d7c4d4a7-9868-4249-b7dc-be51ee5eba5c"`                 // The client the order belongs to
	Attachments string `json:"attachments" example:"https://example.com/api/v1/orders/a1e25b34-95f1-4d5a-8b7c-6f33bff52e5d/attachments"` // Attachments stored for the order
}

type OrderItem struct {
	models.DefaultModel
	OrderItemEditable
}

type Order struct {
	models.DefaultModel
	OrderEditable
	Links OrderLinks `json:"links"`

	// These fields are computed
	ClientName string      `json:"clientName" example:"ACME Corporation"` // Name of the client
	Items      []OrderItem `json:"items"`                                 // Budget lines of the order
}

func newOrder(c *gin.Context, db *gorm.DB, model models.Order) (Order, error) {
	url := c.GetString(string(models.DBContextURL))

	var client models.Client
	err := db.First(&client, model.ClientID).Error
	if err != nil {
		return Order{}, err
	}

	var items []models.OrderItem
	err = db.Where(&models.OrderItem{OrderID: model.ID}).Find(&items).Error
	if err != nil {
		return Order{}, err
	}

	apiItems := make([]OrderItem, 0, len(items))
	for _, item := range items {
		apiItems = append(apiItems, OrderItem{
			DefaultModel: item.DefaultModel,
			OrderItemEditable: OrderItemEditable{
				Type:  item.Type,
				Hours: item.Hours,
				Rate:  item.Rate,
			},
		})
	}

	return Order{
		DefaultModel: model.DefaultModel,
		OrderEditable: OrderEditable{
			ClientID:       model.ClientID,
			ContactID:      model.ContactID,
			OrderNumber:    model.OrderNumber,
			SupplierNumber: model.SupplierNumber,
			ContractNumber: model.ContractNumber,
			Description:    model.Description,
			DocumentDate:   model.DocumentDate,
			DeliveryDate:   model.DeliveryDate,
			Status:         model.Status,
		},
		Links: OrderLinks{
			Self:        fmt.Sprintf("%s/v1/orders/%s", url, model.ID),
			Client:      fmt.Sprintf("%s/v1/clients/%s", url, model.ClientID),
			Attachments: fmt.Sprintf("%s/v1/orders/%s/attachments", url, model.ID),
		},
		ClientName: client.Name,
		Items:      apiItems,
	}, nil
}

type OrderListResponse struct {
	Data       []Order     `json:"data"`                                                          // List of orders
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type OrderCreateResponse struct {
	Data  []OrderResponse `json:"data"`                                                          // List of the created orders or their respective error
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (o *OrderCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	o.Data = append(o.Data, OrderResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type OrderResponse struct {
	Data  *Order  `json:"data"`                                                          // Data for the order
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type OrderQueryFilter struct {
	ClientID ez_uuid.UUID `form:"client"`                     // By ID of the client
	Status   string       `form:"status"`                     // By status
	Number   string       `form:"number" filterField:"false"` // By order number
	Search   string       `form:"search" filterField:"false"` // By string in order number and description
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first order returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of orders to return. Defaults to 50.
}

func (f OrderQueryFilter) model() (models.Order, error) {
	status := models.OrderStatus(f.Status)
	if f.Status != "" && !slices.Contains([]models.OrderStatus{models.OrderStatusActive, models.OrderStatusInactive, models.OrderStatusArchived}, status) {
		return models.Order{}, models.ErrOrderStatusInvalid
	}

	return models.Order{
		ClientID: f.ClientID.UUID,
		Status:   status,
	}, nil
}

// OrderAttachmentEditable represents all user configurable parameters of an attachment
type OrderAttachmentEditable struct {
	FileName string `json:"fileName" example:"order-scan.pdf" default:""` // File name of the attachment
	Content  string `json:"content" swaggertype:"string" format:"base64"` // Base64 encoded file content
}

type OrderAttachmentLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/orders/a1e25b34-95f1-4d5a-8b7c-6f33bff52e5d/attachments/7c9878d9-5d43-44cd-a1f6-0f5d04c6b1e9"` // The attachment itself
}

// OrderAttachment is the API representation of an attachment. The file
// content is only available on the attachment's own endpoint.
type OrderAttachment struct {
	models.DefaultModel
	FileName string               `json:"fileName" example:"order-scan.pdf"` // File name of the attachment
	Links    OrderAttachmentLinks `json:"links"`
}

func newOrderAttachment(c *gin.Context, model models.OrderAttachment) OrderAttachment {
	url := c.GetString(string(models.DBContextURL))

	return OrderAttachment{
		DefaultModel: model.DefaultModel,
		FileName:     model.FileName,
		Links: OrderAttachmentLinks{
			Self: fmt.Sprintf("%s/v1/orders/%s/attachments/%s", url, model.OrderID, model.ID),
		},
	}
}

type OrderAttachmentListResponse struct {
	Data  []OrderAttachment `json:"data"`                                                          // List of attachments
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type OrderAttachmentCreateResponse struct {
	Data  []OrderAttachmentResponse `json:"data"`                                                          // List of the created attachments or their respective error
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (o *OrderAttachmentCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	o.Data = append(o.Data, OrderAttachmentResponse{Error: &s})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type OrderAttachmentResponse struct {
	Data  *OrderAttachment `json:"data"`                                                          // Data for the attachment
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// AvailableHours is the allocation state of one order and work type.
type AvailableHours struct {
	WorkType   models.WorkType `json:"workType" example:"CONSULTATIONS"`              // The work type the numbers apply to
	Contracted decimal.Decimal `json:"contracted" example:"160" swaggertype:"number"` // Hours contracted on the order
	Used       decimal.Decimal `json:"used" example:"40" swaggertype:"number"`        // Hours already settled
	Available  decimal.Decimal `json:"available" example:"120" swaggertype:"number"`  // Hours still available. Negative when over-allocated
}

type AvailableHoursResponse struct {
	Data  *AvailableHours `json:"data"`                                                          // The allocation state
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
