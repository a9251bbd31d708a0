package v1

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hourbook/backend/internal/documents"
	"github.com/hourbook/backend/internal/httputil"
	"github.com/hourbook/backend/internal/models"
)

// RegisterMonthlyDocumentRoutes registers the routes for monthly
// documents with the RouterGroup that is passed.
func RegisterMonthlyDocumentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsMonthlyDocumentList)
		r.GET("", GetMonthlyDocuments)
		r.PUT("", UpdateMonthlyDocument)
	}

	// Monthly document with ID
	{
		r.OPTIONS("/:id", OptionsMonthlyDocumentDetail)
		r.GET("/:id", GetMonthlyDocument)
		r.DELETE("/:id", DeleteMonthlyDocument)
	}

	{
		r.OPTIONS("/:id/merged", OptionsMonthlyDocumentMerged)
		r.GET("/:id/merged", GetMergedMonthlyDocument)
	}
}

// MonthlyDocumentEditable represents all user configurable parameters.
// Both slots are written on every update, the upsert is keyed by year
// and month.
type MonthlyDocumentEditable struct {
	Year                 int     `json:"year" example:"2024"`                                       // Year the documents belong to
	Month                int     `json:"month" example:"3" minimum:"1" maximum:"12"`                // Month the documents belong to
	Invoice              *string `json:"invoice" swaggertype:"string" format:"base64"`              // Base64 encoded invoice PDF
	DeliveryConfirmation *string `json:"deliveryConfirmation" swaggertype:"string" format:"base64"` // Base64 encoded delivery confirmation PDF
}

type MonthlyDocumentLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/monthly-documents/3c5f5b8e-54a7-4b42-9d1e-b97f5d8b2f19"`          // The monthly document itself
	Merged string `json:"merged" example:"https://example.com/api/v1/monthly-documents/3c5f5b8e-54a7-4b42-9d1e-b97f5d8b2f19/merged"` // The merged document
}

type MonthlyDocument struct {
	models.DefaultModel
	Year                    int                  `json:"year" example:"2024"`                    // Year the documents belong to
	Month                   int                  `json:"month" example:"3"`                      // Month the documents belong to
	HasInvoice              bool                 `json:"hasInvoice" example:"true"`              // Is an invoice stored?
	HasDeliveryConfirmation bool                 `json:"hasDeliveryConfirmation" example:"true"` // Is a delivery confirmation stored?
	Links                   MonthlyDocumentLinks `json:"links"`
}

func newMonthlyDocument(c *gin.Context, model models.MonthlyDocument) MonthlyDocument {
	url := c.GetString(string(models.DBContextURL))

	return MonthlyDocument{
		DefaultModel:            model.DefaultModel,
		Year:                    model.Year,
		Month:                   model.Month,
		HasInvoice:              len(model.Invoice) > 0,
		HasDeliveryConfirmation: len(model.DeliveryConfirmation) > 0,
		Links: MonthlyDocumentLinks{
			Self:   fmt.Sprintf("%s/v1/monthly-documents/%s", url, model.ID),
			Merged: fmt.Sprintf("%s/v1/monthly-documents/%s/merged", url, model.ID),
		},
	}
}

type MonthlyDocumentListResponse struct {
	Data  []MonthlyDocument `json:"data"`                                                          // List of monthly documents
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MonthlyDocumentResponse struct {
	Data  *MonthlyDocument `json:"data"`                                                          // Data for the monthly document
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MonthlyDocumentQueryFilter struct {
	Year  int `form:"year"`  // By year
	Month int `form:"month"` // By month
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MonthlyDocuments
// @Success		204
// @Router			/v1/monthly-documents [options]
func OptionsMonthlyDocumentList(c *gin.Context) {
	httputil.OptionsGetPut(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MonthlyDocuments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/monthly-documents/{id} [options]
func OptionsMonthlyDocumentDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.MonthlyDocument{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MonthlyDocuments
// @Success		204
// @Router			/v1/monthly-documents/{id}/merged [options]
func OptionsMonthlyDocumentMerged(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get monthly documents
// @Description	Returns a list of monthly documents, newest period first
// @Tags			MonthlyDocuments
// @Produce		json
// @Success		200	{object}	MonthlyDocumentListResponse
// @Failure		400	{object}	MonthlyDocumentListResponse
// @Failure		500	{object}	MonthlyDocumentListResponse
// @Router			/v1/monthly-documents [get]
// @Param			year	query	int	false	"Filter by year"
// @Param			month	query	int	false	"Filter by month"
func GetMonthlyDocuments(c *gin.Context) {
	var filter MonthlyDocumentQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	var list []models.MonthlyDocument
	err := models.DB.
		Order("year DESC, month DESC").
		Where(&models.MonthlyDocument{Year: filter.Year, Month: filter.Month}, queryFields...).
		Find(&list).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyDocumentListResponse{
			Error: &s,
		})
		return
	}

	data := make([]MonthlyDocument, 0, len(list))
	for _, document := range list {
		data = append(data, newMonthlyDocument(c, document))
	}

	c.JSON(http.StatusOK, MonthlyDocumentListResponse{Data: data})
}

// @Summary		Store monthly documents
// @Description	Creates or replaces the document pair for a year and month
// @Tags			MonthlyDocuments
// @Accept			json
// @Produce		json
// @Success		200			{object}	MonthlyDocumentResponse
// @Failure		400			{object}	MonthlyDocumentResponse
// @Failure		500			{object}	MonthlyDocumentResponse
// @Param			documents	body		MonthlyDocumentEditable	true	"Documents"
// @Router			/v1/monthly-documents [put]
func UpdateMonthlyDocument(c *gin.Context) {
	var data MonthlyDocumentEditable
	err := httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyDocumentResponse{
			Error: &s,
		})
		return
	}

	if data.Invoice == nil && data.DeliveryConfirmation == nil {
		s := errBothSlotsUnset.Error()
		c.JSON(status(errBothSlotsUnset), MonthlyDocumentResponse{
			Error: &s,
		})
		return
	}

	document := models.MonthlyDocument{
		Year:  data.Year,
		Month: data.Month,
	}

	if data.Invoice != nil {
		document.Invoice, err = base64.StdEncoding.DecodeString(*data.Invoice)
		if err != nil {
			s := errNotBase64.Error()
			c.JSON(status(errNotBase64), MonthlyDocumentResponse{
				Error: &s,
			})
			return
		}
	}

	if data.DeliveryConfirmation != nil {
		document.DeliveryConfirmation, err = base64.StdEncoding.DecodeString(*data.DeliveryConfirmation)
		if err != nil {
			s := errNotBase64.Error()
			c.JSON(status(errNotBase64), MonthlyDocumentResponse{
				Error: &s,
			})
			return
		}
	}

	document, err = models.UpsertMonthlyDocument(models.DB, document)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyDocumentResponse{
			Error: &s,
		})
		return
	}

	r := newMonthlyDocument(c, document)
	c.JSON(http.StatusOK, MonthlyDocumentResponse{Data: &r})
}

// @Summary		Get monthly document
// @Description	Returns a specific monthly document or, when the slot query parameter is set, the stored PDF for that slot
// @Tags			MonthlyDocuments
// @Produce		json
// @Produce		application/pdf
// @Success		200		{object}	MonthlyDocumentResponse
// @Failure		400		{object}	MonthlyDocumentResponse
// @Failure		404		{object}	MonthlyDocumentResponse
// @Failure		500		{object}	MonthlyDocumentResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			slot	query		string	false	"Return the raw PDF stored in this slot, INVOICE or DELIVERY_CONFIRMATION"
// @Router			/v1/monthly-documents/{id} [get]
func GetMonthlyDocument(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyDocumentResponse{
			Error: &s,
		})
		return
	}

	var document models.MonthlyDocument
	err = models.DB.First(&document, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyDocumentResponse{
			Error: &s,
		})
		return
	}

	if slot := c.Query("slot"); slot != "" {
		payload, err := models.SettlementDocument{
			Invoice:              document.Invoice,
			DeliveryConfirmation: document.DeliveryConfirmation,
		}.Payload(models.DocumentSlot(slot))
		if err != nil {
			s := err.Error()
			c.JSON(status(err), MonthlyDocumentResponse{
				Error: &s,
			})
			return
		}

		if len(payload) == 0 {
			s := errSlotEmpty.Error()
			c.JSON(status(errSlotEmpty), MonthlyDocumentResponse{
				Error: &s,
			})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%d-%02d-%s.pdf", document.Year, document.Month, slot)))
		c.Data(http.StatusOK, "application/pdf", payload)
		return
	}

	data := newMonthlyDocument(c, document)
	c.JSON(http.StatusOK, MonthlyDocumentResponse{Data: &data})
}

// @Summary		Delete monthly document
// @Description	Deletes a monthly document pair
// @Tags			MonthlyDocuments
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/monthly-documents/{id} [delete]
func DeleteMonthlyDocument(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var document models.MonthlyDocument
	err = models.DB.First(&document, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Hard delete so that the period can be used again
	err = models.DB.Unscoped().Delete(&document).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get merged monthly document
// @Description	Merges the invoice and delivery confirmation of the monthly document into a single PDF, invoice pages first. Both documents must be stored.
// @Tags			MonthlyDocuments
// @Produce		application/pdf
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		412	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/monthly-documents/{id}/merged [get]
func GetMergedMonthlyDocument(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var document models.MonthlyDocument
	err = models.DB.First(&document, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if len(document.Invoice) == 0 || len(document.DeliveryConfirmation) == 0 {
		c.JSON(status(documents.ErrIncompletePair), httpError{
			Error: documents.ErrIncompletePair.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), documents.MergeTimeout)
	defer cancel()

	// Invoice pages first, matching the merged settlement documents
	payload, err := merger.Merge(ctx, [][]byte{document.Invoice, document.DeliveryConfirmation})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("documents-%d-%02d.pdf", document.Year, document.Month)))
	c.Data(http.StatusOK, "application/pdf", payload)
}
