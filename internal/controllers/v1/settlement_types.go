package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hourbook/backend/internal/draft"
	"github.com/hourbook/backend/internal/models"
	ez_uuid "github.com/hourbook/backend/internal/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementItemEditable represents all user configurable parameters of a
// settlement line item
type SettlementItemEditable struct {
	OrderID  uuid.UUID        `json:"orderId" example:"a1e25b34-95f1-4d5a-8b7c-6f33bff52e5d"` // ID of the order the hours were worked against
	WorkType models.WorkType  `json:"workType" example:"CONSULTATIONS"`                       // Work type of the hours
	Hours    decimal.Decimal  `json:"hours" example:"12.5" swaggertype:"number"`              // Hours worked
	Rate     *decimal.Decimal `json:"rate" example:"150.5" swaggertype:"number"`              // Hourly rate. Unset to use the rate from the order's budget line
}

// SettlementEditable represents all user configurable parameters
type SettlementEditable struct {
	Year       int                      `json:"year" example:"2024"`                                       // Year of the settlement period. Defaults to the current year, immutable after creation
	Month      int                      `json:"month" example:"3" minimum:"1" maximum:"12"`                // Month of the settlement period. Defaults to the current month, immutable after creation
	Date       time.Time                `json:"date" example:"2024-03-31T00:00:00Z"`                       // Date printed on the settlement
	TemplateID ez_uuid.UUID             `json:"templateId" example:"99fd76f7-5a12-45d8-b8d5-bbc8eaa6bbc3"` // ID of a settlement to copy line items from. Hours reset to zero, items for inactive orders are skipped
	Items      []SettlementItemEditable `json:"items"`                                                     // Line items of the settlement
}

// apply mutates a draft session with the editable's fields. Items are
// applied row by row so that the draft's rate lookup runs for rows that
// do not override the rate.
func (editable SettlementEditable) apply(s *draft.Session) error {
	if editable.TemplateID.UUID != uuid.Nil {
		_, err := s.CopyFromTemplate(editable.TemplateID.UUID)
		if err != nil {
			return err
		}
	}

	if !editable.Date.IsZero() {
		s.Date = editable.Date
	}

	if len(editable.Items) == 0 {
		return nil
	}

	for len(s.Items) < len(editable.Items) {
		s.AddItem()
	}
	for len(s.Items) > len(editable.Items) {
		err := s.RemoveItem(len(s.Items) - 1)
		if err != nil {
			return err
		}
	}

	for i, item := range editable.Items {
		err := s.SetOrder(i, item.OrderID)
		if err != nil {
			return err
		}

		if item.WorkType != "" {
			err = s.SetWorkType(i, item.WorkType)
			if err != nil {
				return err
			}
		}

		err = s.SetHours(i, item.Hours)
		if err != nil {
			return err
		}

		if item.Rate != nil {
			err = s.SetRate(i, *item.Rate)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

type SettlementLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/settlements/99fd76f7-5a12-45d8-b8d5-bbc8eaa6bbc3"`                // The settlement itself
	Documents string `json:"documents" example:"https://example.com/api/v1/settlements/99fd76f7-5a12-45d8-b8d5-bbc8eaa6bbc3/documents"` // Document pairs of the settlement
	Statement string `json:"statement" example:"https://example.com/api/v1/settlements/99fd76f7-5a12-45d8-b8d5-bbc8eaa6bbc3/statement"` // Statement PDF for the settlement
}

// SettlementItem is the API representation of a settlement line item.
type SettlementItem struct {
	models.DefaultModel
	OrderID     uuid.UUID       `json:"orderId" example:"a1e25b34-95f1-4d5a-8b7c-6f33bff52e5d"` // ID of the order the hours were worked against
	OrderNumber string          `json:"orderNumber" example:"ZAM/2024/0042"`                    // Number of the order, for display
	WorkType    models.WorkType `json:"workType" example:"CONSULTATIONS"`                       // Work type of the hours
	Hours       decimal.Decimal `json:"hours" example:"12.5" swaggertype:"number"`              // Hours worked
	Rate        decimal.Decimal `json:"rate" example:"150.5" swaggertype:"number"`              // Hourly rate snapshotted at settlement time
	Value       decimal.Decimal `json:"value" example:"1881.25" swaggertype:"number"`           // Hours multiplied with the rate
}

type Settlement struct {
	models.DefaultModel
	Year   int              `json:"year" example:"2024"`                           // Year of the settlement period
	Month  int              `json:"month" example:"3"`                             // Month of the settlement period
	Date   time.Time        `json:"date" example:"2024-03-31T00:00:00Z"`           // Date printed on the settlement
	Amount decimal.Decimal  `json:"amount" example:"1881.25" swaggertype:"number"` // Sum over all line items, derived
	Items  []SettlementItem `json:"items"`                                         // Line items of the settlement
	Links  SettlementLinks  `json:"links"`
}

func newSettlement(c *gin.Context, db *gorm.DB, model models.Settlement) (Settlement, error) {
	url := c.GetString(string(models.DBContextURL))

	var items []models.SettlementItem
	err := db.Where(&models.SettlementItem{SettlementID: model.ID}).Find(&items).Error
	if err != nil {
		return Settlement{}, err
	}

	apiItems := make([]SettlementItem, 0, len(items))
	for _, item := range items {
		var order models.Order
		err = db.First(&order, item.OrderID).Error
		if err != nil {
			return Settlement{}, err
		}

		apiItems = append(apiItems, SettlementItem{
			DefaultModel: item.DefaultModel,
			OrderID:      item.OrderID,
			OrderNumber:  order.OrderNumber,
			WorkType:     item.Type,
			Hours:        item.Hours,
			Rate:         item.Rate,
			Value:        item.Hours.Mul(item.Rate),
		})
	}

	return Settlement{
		DefaultModel: model.DefaultModel,
		Year:         model.Year,
		Month:        model.Month,
		Date:         model.Date,
		Amount:       model.Amount,
		Items:        apiItems,
		Links: SettlementLinks{
			Self:      fmt.Sprintf("%s/v1/settlements/%s", url, model.ID),
			Documents: fmt.Sprintf("%s/v1/settlements/%s/documents", url, model.ID),
			Statement: fmt.Sprintf("%s/v1/settlements/%s/statement", url, model.ID),
		},
	}, nil
}

type SettlementListResponse struct {
	Data       []Settlement `json:"data"`                                                          // List of settlements
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type SettlementCreateResponse struct {
	Data  []SettlementResponse `json:"data"`                                                          // List of the created settlements or their respective error
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (s *SettlementCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, SettlementResponse{Error: &e})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type SettlementResponse struct {
	Data  *Settlement `json:"data"`                                                          // Data for the settlement
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type SettlementQueryFilter struct {
	Year   int  `form:"year"`                       // By year of the settlement period
	Month  int  `form:"month"`                      // By month of the settlement period
	Offset uint `form:"offset" filterField:"false"` // The offset of the first settlement returned. Defaults to 0.
	Limit  int  `form:"limit" filterField:"false"`  // Maximum number of settlements to return. Defaults to 50.
}

func (f SettlementQueryFilter) model() (models.Settlement, error) {
	return models.Settlement{
		Year:  f.Year,
		Month: f.Month,
	}, nil
}
