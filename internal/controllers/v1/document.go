package v1

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hourbook/backend/internal/documents"
	"github.com/hourbook/backend/internal/httputil"
	"github.com/hourbook/backend/internal/models"
	"github.com/hourbook/backend/internal/pdf"
	"golang.org/x/exp/slices"
)

// merger is shared by all handlers, it carries no per-request state.
var merger = pdf.NewMerger()

// registerSettlementDocumentRoutes registers the routes for the document
// pairs of a settlement. They live below /settlements, so this is called
// from RegisterSettlementRoutes.
func registerSettlementDocumentRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id/documents", OptionsSettlementDocumentList)
	r.GET("/:id/documents", GetSettlementDocuments)

	r.OPTIONS("/:id/documents/:orderId", OptionsSettlementDocumentDetail)
	r.GET("/:id/documents/:orderId", GetSettlementDocument)
	r.PUT("/:id/documents/:orderId", UpdateSettlementDocument)

	r.OPTIONS("/:id/documents/:orderId/merged", OptionsSettlementDocumentMerged)
	r.GET("/:id/documents/:orderId/merged", GetMergedSettlementDocument)
}

// DocumentPair is the pairing state for one order of a settlement.
type DocumentPair struct {
	OrderID                 uuid.UUID         `json:"orderId" example:"a1e25b34-95f1-4d5a-8b7c-6f33bff52e5d"` // ID of the order the documents belong to
	OrderNumber             string            `json:"orderNumber" example:"ZAM/2024/0042"`                    // Number of the order, for display
	ClientName              string            `json:"clientName" example:"ACME Corporation"`                  // Name of the client, for display
	HasInvoice              bool              `json:"hasInvoice" example:"true"`                              // Is an invoice stored?
	HasDeliveryConfirmation bool              `json:"hasDeliveryConfirmation" example:"false"`                // Is a delivery confirmation stored?
	Complete                bool              `json:"complete" example:"false"`                               // Are both documents stored?
	Links                   DocumentPairLinks `json:"links"`
}

type DocumentPairLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/settlements/99fd76f7-5a12-45d8-b8d5-bbc8eaa6bbc3/documents/a1e25b34-95f1-4d5a-8b7c-6f33bff52e5d"`          // The document pair itself
	Merged string `json:"merged" example:"https://example.com/api/v1/settlements/99fd76f7-5a12-45d8-b8d5-bbc8eaa6bbc3/documents/a1e25b34-95f1-4d5a-8b7c-6f33bff52e5d/merged"` // The merged document
}

func newDocumentPair(c *gin.Context, settlementID uuid.UUID, pair documents.Pair) DocumentPair {
	url := c.GetString(string(models.DBContextURL))

	return DocumentPair{
		OrderID:                 pair.OrderID,
		OrderNumber:             pair.OrderNumber,
		ClientName:              pair.ClientName,
		HasInvoice:              len(pair.Invoice) > 0,
		HasDeliveryConfirmation: len(pair.DeliveryConfirmation) > 0,
		Complete:                pair.Complete(),
		Links: DocumentPairLinks{
			Self:   fmt.Sprintf("%s/v1/settlements/%s/documents/%s", url, settlementID, pair.OrderID),
			Merged: fmt.Sprintf("%s/v1/settlements/%s/documents/%s/merged", url, settlementID, pair.OrderID),
		},
	}
}

// DocumentCompletion summarizes the pairing progress of a settlement.
type DocumentCompletion struct {
	Complete int `json:"complete" example:"1"` // Number of orders with both documents stored
	Total    int `json:"total" example:"3"`    // Number of orders referenced by the settlement
}

type DocumentPairListResponse struct {
	Data       []DocumentPair      `json:"data"`                                                          // List of document pairs
	Completion *DocumentCompletion `json:"completion"`                                                    // Pairing progress over all orders of the settlement
	Error      *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type DocumentPairResponse struct {
	Data  *DocumentPair `json:"data"`                                                          // Data for the document pair
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// SettlementDocumentEditable represents the writable document slots. A
// slot that is not submitted stays untouched, submitting null clears it.
type SettlementDocumentEditable struct {
	Invoice              *string `json:"invoice" swaggertype:"string" format:"base64"`              // Base64 encoded invoice PDF
	DeliveryConfirmation *string `json:"deliveryConfirmation" swaggertype:"string" format:"base64"` // Base64 encoded delivery confirmation PDF
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SettlementDocuments
// @Success		204
// @Router			/v1/settlements/{id}/documents [options]
func OptionsSettlementDocumentList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SettlementDocuments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/settlements/{id}/documents/{orderId} [options]
func OptionsSettlementDocumentDetail(c *gin.Context) {
	_, _, err := settlementDocumentManager(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPut(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SettlementDocuments
// @Success		204
// @Router			/v1/settlements/{id}/documents/{orderId}/merged [options]
func OptionsSettlementDocumentMerged(c *gin.Context) {
	httputil.OptionsGet(c)
}

// settlementDocumentManager binds the URI and opens a document manager
// for the settlement.
func settlementDocumentManager(c *gin.Context) (*documents.Manager, URISettlementOrder, error) {
	var uri URISettlementOrder
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return nil, uri, err
	}

	manager, err := documents.NewManager(uri.ID.UUID, merger)
	if err != nil {
		return nil, uri, err
	}

	return manager, uri, nil
}

// @Summary		Get document pairs
// @Description	Returns the document pairing state for every order referenced by the settlement
// @Tags			SettlementDocuments
// @Produce		json
// @Success		200	{object}	DocumentPairListResponse
// @Failure		400	{object}	DocumentPairListResponse
// @Failure		404	{object}	DocumentPairListResponse
// @Failure		500	{object}	DocumentPairListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/settlements/{id}/documents [get]
func GetSettlementDocuments(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairListResponse{
			Error: &s,
		})
		return
	}

	manager, err := documents.NewManager(uri.ID.UUID, merger)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairListResponse{
			Error: &s,
		})
		return
	}

	pairs, err := manager.Pairs()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairListResponse{
			Error: &s,
		})
		return
	}

	data := make([]DocumentPair, 0, len(pairs))
	complete := 0
	for _, pair := range pairs {
		if pair.Complete() {
			complete++
		}
		data = append(data, newDocumentPair(c, uri.ID.UUID, pair))
	}

	c.JSON(http.StatusOK, DocumentPairListResponse{
		Data: data,
		Completion: &DocumentCompletion{
			Complete: complete,
			Total:    len(data),
		},
	})
}

// @Summary		Get document
// @Description	Returns the pairing state for one order or, when the slot query parameter is set, the stored PDF for that slot
// @Tags			SettlementDocuments
// @Produce		json
// @Produce		application/pdf
// @Success		200		{object}	DocumentPairResponse
// @Failure		400		{object}	DocumentPairResponse
// @Failure		404		{object}	DocumentPairResponse
// @Failure		500		{object}	DocumentPairResponse
// @Param			slot	query		string	false	"Return the raw PDF stored in this slot, INVOICE or DELIVERY_CONFIRMATION"
// @Router			/v1/settlements/{id}/documents/{orderId} [get]
func GetSettlementDocument(c *gin.Context) {
	manager, uri, err := settlementDocumentManager(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairResponse{
			Error: &s,
		})
		return
	}

	pairs, err := manager.Pairs()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairResponse{
			Error: &s,
		})
		return
	}

	idx := slices.IndexFunc(pairs, func(p documents.Pair) bool { return p.OrderID == uri.OrderID.UUID })
	if idx < 0 {
		s := documents.ErrOrderNotPaired.Error()
		c.JSON(status(documents.ErrOrderNotPaired), DocumentPairResponse{
			Error: &s,
		})
		return
	}
	pair := pairs[idx]

	if slot := c.Query("slot"); slot != "" {
		payload, err := models.SettlementDocument{
			Invoice:              pair.Invoice,
			DeliveryConfirmation: pair.DeliveryConfirmation,
		}.Payload(models.DocumentSlot(slot))
		if err != nil {
			s := err.Error()
			c.JSON(status(err), DocumentPairResponse{
				Error: &s,
			})
			return
		}

		if len(payload) == 0 {
			s := errSlotEmpty.Error()
			c.JSON(status(errSlotEmpty), DocumentPairResponse{
				Error: &s,
			})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-%s.pdf", pair.OrderNumber, slot)))
		c.Data(http.StatusOK, "application/pdf", payload)
		return
	}

	data := newDocumentPair(c, uri.ID.UUID, pair)
	c.JSON(http.StatusOK, DocumentPairResponse{Data: &data})
}

// @Summary		Store documents
// @Description	Stores documents for an order of the settlement. Only submitted slots are written, submitting null clears a slot. When both slots end up empty, the pairing record is removed.
// @Tags			SettlementDocuments
// @Accept			json
// @Produce		json
// @Success		200			{object}	DocumentPairResponse
// @Failure		400			{object}	DocumentPairResponse
// @Failure		404			{object}	DocumentPairResponse
// @Failure		500			{object}	DocumentPairResponse
// @Param			documents	body		SettlementDocumentEditable	true	"Documents"
// @Router			/v1/settlements/{id}/documents/{orderId} [put]
func UpdateSettlementDocument(c *gin.Context) {
	manager, uri, err := settlementDocumentManager(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairResponse{
			Error: &s,
		})
		return
	}

	bodyFields, err := httputil.GetBodyFields(c, SettlementDocumentEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairResponse{
			Error: &s,
		})
		return
	}

	var data SettlementDocumentEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairResponse{
			Error: &s,
		})
		return
	}

	if len(bodyFields) == 0 {
		s := errBothSlotsUnset.Error()
		c.JSON(status(errBothSlotsUnset), DocumentPairResponse{
			Error: &s,
		})
		return
	}

	slots := []struct {
		field   string
		slot    models.DocumentSlot
		payload *string
	}{
		{"Invoice", models.SlotInvoice, data.Invoice},
		{"DeliveryConfirmation", models.SlotDeliveryConfirmation, data.DeliveryConfirmation},
	}

	for _, s := range slots {
		if !slices.Contains(bodyFields, any(s.field)) {
			continue
		}

		if s.payload == nil {
			err = manager.Remove(uri.OrderID.UUID, s.slot)
			if err != nil {
				e := err.Error()
				c.JSON(status(err), DocumentPairResponse{
					Error: &e,
				})
				return
			}
			continue
		}

		payload, err := base64.StdEncoding.DecodeString(*s.payload)
		if err != nil {
			e := errNotBase64.Error()
			c.JSON(status(errNotBase64), DocumentPairResponse{
				Error: &e,
			})
			return
		}

		_, err = manager.Attach(uri.OrderID.UUID, s.slot, payload)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), DocumentPairResponse{
				Error: &e,
			})
			return
		}
	}

	pairs, err := manager.Pairs()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DocumentPairResponse{
			Error: &s,
		})
		return
	}

	idx := slices.IndexFunc(pairs, func(p documents.Pair) bool { return p.OrderID == uri.OrderID.UUID })
	if idx < 0 {
		s := documents.ErrOrderNotPaired.Error()
		c.JSON(status(documents.ErrOrderNotPaired), DocumentPairResponse{
			Error: &s,
		})
		return
	}

	pair := newDocumentPair(c, uri.ID.UUID, pairs[idx])
	c.JSON(http.StatusOK, DocumentPairResponse{Data: &pair})
}

// @Summary		Get merged document
// @Description	Merges the invoice and delivery confirmation for an order into a single PDF, invoice pages first. Both documents must be stored.
// @Tags			SettlementDocuments
// @Produce		application/pdf
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		412	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/settlements/{id}/documents/{orderId}/merged [get]
func GetMergedSettlementDocument(c *gin.Context) {
	manager, uri, err := settlementDocumentManager(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	payload, err := manager.MergePair(c.Request.Context(), uri.OrderID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("documents-%s.pdf", uri.OrderID.UUID)))
	c.Data(http.StatusOK, "application/pdf", payload)
}
