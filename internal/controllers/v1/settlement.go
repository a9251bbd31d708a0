package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hourbook/backend/internal/draft"
	"github.com/hourbook/backend/internal/httputil"
	"github.com/hourbook/backend/internal/models"
	"github.com/hourbook/backend/internal/pdf"
	"golang.org/x/exp/slices"
)

// RegisterSettlementRoutes registers the routes for settlements with
// the RouterGroup that is passed.
func RegisterSettlementRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsSettlementList)
		r.GET("", GetSettlements)
		r.POST("", CreateSettlements)
	}

	// Settlement with ID
	{
		r.OPTIONS("/:id", OptionsSettlementDetail)
		r.GET("/:id", GetSettlement)
		r.PATCH("/:id", UpdateSettlement)
		r.DELETE("/:id", DeleteSettlement)
	}

	// Statement PDF
	{
		r.OPTIONS("/:id/statement", OptionsSettlementStatement)
		r.GET("/:id/statement", GetSettlementStatement)
	}

	registerSettlementDocumentRoutes(r)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Settlements
// @Success		204
// @Router			/v1/settlements [options]
func OptionsSettlementList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Settlements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/settlements/{id} [options]
func OptionsSettlementDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Settlement{})
}

// @Summary		Create settlements
// @Description	Creates new settlements. Line items without an order or with zero hours are dropped. Only one settlement can exist per year and month.
// @Tags			Settlements
// @Produce		json
// @Success		201			{object}	SettlementCreateResponse
// @Failure		400			{object}	SettlementCreateResponse
// @Failure		404			{object}	SettlementCreateResponse
// @Failure		409			{object}	SettlementCreateResponse
// @Failure		500			{object}	SettlementCreateResponse
// @Param			settlements	body		[]SettlementEditable	true	"Settlements"
// @Router			/v1/settlements [post]
func CreateSettlements(c *gin.Context) {
	var editables []SettlementEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettlementCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := SettlementCreateResponse{}

	for _, editable := range editables {
		settlement, err := createSettlement(editable)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newSettlement(c, models.DB, settlement)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, SettlementResponse{Data: &data})
	}

	c.JSON(status, r)
}

// createSettlement runs one editable through a fresh draft session.
func createSettlement(editable SettlementEditable) (models.Settlement, error) {
	session, err := draft.StartNew()
	if err != nil {
		return models.Settlement{}, err
	}

	if editable.Year != 0 {
		session.Year = editable.Year
	}
	if editable.Month != 0 {
		session.Month = editable.Month
	}

	err = editable.apply(session)
	if err != nil {
		return models.Settlement{}, err
	}

	return session.Commit()
}

// @Summary		Get settlements
// @Description	Returns a list of settlements
// @Tags			Settlements
// @Produce		json
// @Success		200	{object}	SettlementListResponse
// @Failure		400	{object}	SettlementListResponse
// @Failure		500	{object}	SettlementListResponse
// @Router			/v1/settlements [get]
// @Param			year	query	int		false	"Filter by year"
// @Param			month	query	int		false	"Filter by month"
// @Param			offset	query	uint	false	"The offset of the first settlement returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of settlements to return. Defaults to 50."
func GetSettlements(c *gin.Context) {
	var filter SettlementQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("year DESC, month DESC").
		Where(&filterModel, queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 settlements and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var settlements []models.Settlement
	err = q.Find(&settlements).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettlementListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Settlement, 0)
	for _, settlement := range settlements {
		apiResource, err := newSettlement(c, models.DB, settlement)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), SettlementListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, SettlementListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get settlement
// @Description	Returns a specific settlement
// @Tags			Settlements
// @Produce		json
// @Success		200	{object}	SettlementResponse
// @Failure		400	{object}	SettlementResponse
// @Failure		404	{object}	SettlementResponse
// @Failure		500	{object}	SettlementResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/settlements/{id} [get]
func GetSettlement(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	var settlement models.Settlement
	err = models.DB.First(&settlement, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	data, err := newSettlement(c, models.DB, settlement)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, SettlementResponse{Data: &data})
}

// @Summary		Update settlement
// @Description	Update an existing settlement. The year and month of a settlement cannot change, they are ignored when submitted. When the items field is set, all line items are replaced with the submitted ones and the amount is recomputed.
// @Tags			Settlements
// @Accept			json
// @Produce		json
// @Success		200			{object}	SettlementResponse
// @Failure		400			{object}	SettlementResponse
// @Failure		404			{object}	SettlementResponse
// @Failure		500			{object}	SettlementResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			settlement	body		SettlementEditable	true	"Settlement"
// @Router			/v1/settlements/{id} [patch]
func UpdateSettlement(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	var settlement models.Settlement
	err = models.DB.Preload("Items").First(&settlement, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	var data SettlementEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	session, err := draft.StartEdit(settlement)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	err = data.apply(session)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	settlement, err = session.Commit()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	r, err := newSettlement(c, models.DB, settlement)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SettlementResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, SettlementResponse{Data: &r})
}

// @Summary		Delete settlement
// @Description	Deletes a settlement with its line items and documents. The period becomes available for a new settlement.
// @Tags			Settlements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/settlements/{id} [delete]
func DeleteSettlement(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var settlement models.Settlement
	err = models.DB.First(&settlement, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Hard delete so that the period can be settled again
	err = models.DB.Unscoped().Delete(&settlement).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Settlements
// @Success		204
// @Router			/v1/settlements/{id}/statement [options]
func OptionsSettlementStatement(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get statement
// @Description	Renders the settlement as a statement PDF
// @Tags			Settlements
// @Produce		application/pdf
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/settlements/{id}/statement [get]
func GetSettlementStatement(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var settlement models.Settlement
	err = models.DB.Preload("Items").First(&settlement, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	lines := make([]pdf.StatementLine, 0, len(settlement.Items))
	for _, item := range settlement.Items {
		var order models.Order
		err = models.DB.Preload("Client").First(&order, item.OrderID).Error
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}

		lines = append(lines, pdf.StatementLine{
			ClientName:  order.Client.Name,
			OrderNumber: order.OrderNumber,
			WorkType:    string(item.Type),
			Hours:       item.Hours,
			Rate:        item.Rate,
		})
	}

	payload, err := pdf.BuildStatement(pdf.Statement{
		Year:   settlement.Year,
		Month:  settlement.Month,
		Date:   settlement.Date.Format("2006-01-02"),
		Amount: settlement.Amount,
		Lines:  lines,
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("statement-%d-%02d.pdf", settlement.Year, settlement.Month)))
	c.Data(http.StatusOK, "application/pdf", payload)
}
