package v1

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hourbook/backend/internal/allocation"
	"github.com/hourbook/backend/internal/httputil"
	"github.com/hourbook/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterOrderRoutes registers the routes for orders with
// the RouterGroup that is passed.
func RegisterOrderRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsOrderList)
		r.GET("", GetOrders)
		r.POST("", CreateOrders)
	}

	// Order with ID
	{
		r.OPTIONS("/:id", OptionsOrderDetail)
		r.GET("/:id", GetOrder)
		r.PATCH("/:id", UpdateOrder)
		r.DELETE("/:id", DeleteOrder)
	}

	// Allocation state
	{
		r.OPTIONS("/:id/available-hours", OptionsOrderAvailableHours)
		r.GET("/:id/available-hours", GetOrderAvailableHours)
	}

	// Attachments
	{
		r.OPTIONS("/:id/attachments", OptionsOrderAttachmentList)
		r.GET("/:id/attachments", GetOrderAttachments)
		r.POST("/:id/attachments", CreateOrderAttachments)
		r.OPTIONS("/:id/attachments/:attachmentId", OptionsOrderAttachmentDetail)
		r.GET("/:id/attachments/:attachmentId", GetOrderAttachment)
		r.DELETE("/:id/attachments/:attachmentId", DeleteOrderAttachment)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Orders
// @Success		204
// @Router			/v1/orders [options]
func OptionsOrderList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Orders
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/orders/{id} [options]
func OptionsOrderDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Order{})
}

// @Summary		Create orders
// @Description	Creates new orders
// @Tags			Orders
// @Produce		json
// @Success		201		{object}	OrderCreateResponse
// @Failure		400		{object}	OrderCreateResponse
// @Failure		404		{object}	OrderCreateResponse
// @Failure		500		{object}	OrderCreateResponse
// @Param			orders	body		[]OrderEditable	true	"Orders"
// @Router			/v1/orders [post]
func CreateOrders(c *gin.Context) {
	var editables []OrderEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), OrderCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := OrderCreateResponse{}

	for _, editable := range editables {
		order := editable.model()

		err = models.DB.Create(&order).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newOrder(c, models.DB, order)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, OrderResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get orders
// @Description	Returns a list of orders
// @Tags			Orders
// @Produce		json
// @Success		200	{object}	OrderListResponse
// @Failure		400	{object}	OrderListResponse
// @Failure		500	{object}	OrderListResponse
// @Router			/v1/orders [get]
// @Param			client	query	string	false	"Filter by client ID"
// @Param			status	query	string	false	"Filter by status"
// @Param			number	query	string	false	"Filter by order number"
// @Param			search	query	string	false	"Search for this text in order number and description"
// @Param			offset	query	uint	false	"The offset of the first order returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of orders to return. Defaults to 50."
func GetOrders(c *gin.Context) {
	var filter OrderQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("document_date DESC").
		Where(&filterModel, queryFields...)

	if filter.Number != "" {
		q = q.Where("order_number LIKE ?", fmt.Sprintf("%%%s%%", filter.Number))
	} else if slices.Contains(setFields, "Number") {
		q = q.Where("order_number = ''")
	}

	if filter.Search != "" {
		q = q.Where(
			models.DB.Where("order_number LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)).Or(
				models.DB.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)),
			),
		)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 orders and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var orders []models.Order
	err = q.Find(&orders).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), OrderListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Order, 0)
	for _, order := range orders {
		apiResource, err := newOrder(c, models.DB, order)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), OrderListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, OrderListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get order
// @Description	Returns a specific order
// @Tags			Orders
// @Produce		json
// @Success		200	{object}	OrderResponse
// @Failure		400	{object}	OrderResponse
// @Failure		404	{object}	OrderResponse
// @Failure		500	{object}	OrderResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/orders/{id} [get]
func GetOrder(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderResponse{
			Error: &s,
		})
		return
	}

	var order models.Order
	err = models.DB.First(&order, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderResponse{
			Error: &s,
		})
		return
	}

	data, err := newOrder(c, models.DB, order)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, OrderResponse{Data: &data})
}

// @Summary		Update order
// @Description	Update an existing order. Only values to be updated need to be specified. When the items field is set, all budget lines are replaced with the submitted ones.
// @Tags			Orders
// @Accept			json
// @Produce		json
// @Success		200		{object}	OrderResponse
// @Failure		400		{object}	OrderResponse
// @Failure		404		{object}	OrderResponse
// @Failure		500		{object}	OrderResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			order	body		OrderEditable	true	"Order"
// @Router			/v1/orders/{id} [patch]
func UpdateOrder(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderResponse{
			Error: &s,
		})
		return
	}

	var order models.Order
	err = models.DB.First(&order, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, OrderEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderResponse{
			Error: &s,
		})
		return
	}

	var data OrderEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderResponse{
			Error: &s,
		})
		return
	}

	// Budget lines are replaced as a set, they cannot be written
	// with a column update
	fields := make([]any, 0, len(updateFields))
	replaceItems := false
	for _, field := range updateFields {
		if field == "Items" {
			replaceItems = true
			continue
		}
		fields = append(fields, field)
	}

	if len(fields) > 0 {
		err = models.DB.Model(&order).Select("", fields...).Updates(data.model()).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), OrderResponse{
				Error: &s,
			})
			return
		}
	}

	if replaceItems {
		items := make([]models.OrderItem, 0, len(data.Items))
		for _, item := range data.Items {
			items = append(items, item.model())
		}

		err = order.ReplaceItems(models.DB, items)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), OrderResponse{
				Error: &s,
			})
			return
		}
	}

	r, err := newOrder(c, models.DB, order)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, OrderResponse{Data: &r})
}

// @Summary		Delete order
// @Description	Deletes an order. Orders that are referenced by settlement items cannot be deleted.
// @Tags			Orders
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/orders/{id} [delete]
func DeleteOrder(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var order models.Order
	err = models.DB.First(&order, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var settled int64
	err = models.DB.Model(&models.SettlementItem{}).Where(&models.SettlementItem{OrderID: order.ID}).Count(&settled).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if settled > 0 {
		c.JSON(status(errOrderSettled), httpError{
			Error: errOrderSettled.Error(),
		})
		return
	}

	// Hard delete so that the order number can be reused
	err = models.DB.Unscoped().Delete(&order).Error
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
// @Tags			Orders
// @Success		204
// @Router			/v1/orders/{id}/available-hours [options]
func OptionsOrderAvailableHours(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get available hours
// @Description	Returns the allocation state of an order for one work type: contracted, settled and still available hours. A settlement can be excluded from the settled hours, which is used while editing it.
// @Tags			Orders
// @Produce		json
// @Success		200	{object}	AvailableHoursResponse
// @Failure		400	{object}	AvailableHoursResponse
// @Failure		404	{object}	AvailableHoursResponse
// @Failure		500	{object}	AvailableHoursResponse
// @Param			id					path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			workType			query	string	true	"The work type to return the allocation state for"
// @Param			excludeSettlement	query	string	false	"ID of a settlement whose items are not counted as settled"
// @Router			/v1/orders/{id}/available-hours [get]
func GetOrderAvailableHours(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AvailableHoursResponse{
			Error: &s,
		})
		return
	}

	var order models.Order
	err = models.DB.Preload("Items").First(&order, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AvailableHoursResponse{
			Error: &s,
		})
		return
	}

	workType := models.WorkType(c.Query("workType"))
	if !slices.Contains(models.WorkTypes(), workType) {
		s := errWorkTypeParameter.Error()
		c.JSON(status(errWorkTypeParameter), AvailableHoursResponse{
			Error: &s,
		})
		return
	}

	exclude, err := httputil.UUIDFromString(c.Query("excludeSettlement"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AvailableHoursResponse{
			Error: &s,
		})
		return
	}

	ledger, err := models.LedgerItems(models.DB, exclude)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AvailableHoursResponse{
			Error: &s,
		})
		return
	}

	index := allocation.NewIndex(ledger)

	item, _ := order.ItemFor(workType)

	c.JSON(http.StatusOK, AvailableHoursResponse{
		Data: &AvailableHours{
			WorkType:   workType,
			Contracted: item.Hours,
			Used:       index.Used(order.ID, workType),
			Available:  allocation.Available(order, workType, index, nil, -1),
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Orders
// @Success		204
// @Router			/v1/orders/{id}/attachments [options]
func OptionsOrderAttachmentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Orders
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/orders/{id}/attachments/{attachmentId} [options]
func OptionsOrderAttachmentDetail(c *gin.Context) {
	var uri URIOrderAttachment
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = findOrderAttachment(uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// findOrderAttachment loads an attachment, scoped to its order so that
// attachments cannot be addressed through a foreign order.
func findOrderAttachment(uri URIOrderAttachment) (models.OrderAttachment, error) {
	var attachment models.OrderAttachment
	err := models.DB.
		Where(&models.OrderAttachment{OrderID: uri.ID.UUID}).
		First(&attachment, uri.AttachmentID).Error

	return attachment, err
}

// @Summary		Get attachments
// @Description	Returns the attachments of an order. The file contents are available on the attachments' own endpoints.
// @Tags			Orders
// @Produce		json
// @Success		200	{object}	OrderAttachmentListResponse
// @Failure		400	{object}	OrderAttachmentListResponse
// @Failure		404	{object}	OrderAttachmentListResponse
// @Failure		500	{object}	OrderAttachmentListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/orders/{id}/attachments [get]
func GetOrderAttachments(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderAttachmentListResponse{
			Error: &s,
		})
		return
	}

	var order models.Order
	err = models.DB.First(&order, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderAttachmentListResponse{
			Error: &s,
		})
		return
	}

	var attachments []models.OrderAttachment
	err = models.DB.
		Select("id", "created_at", "updated_at", "deleted_at", "order_id", "file_name").
		Where(&models.OrderAttachment{OrderID: order.ID}).
		Order("created_at ASC").
		Find(&attachments).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), OrderAttachmentListResponse{
			Error: &s,
		})
		return
	}

	data := make([]OrderAttachment, 0, len(attachments))
	for _, attachment := range attachments {
		data = append(data, newOrderAttachment(c, attachment))
	}

	c.JSON(http.StatusOK, OrderAttachmentListResponse{Data: data})
}

// @Summary		Create attachments
// @Description	Stores new attachments for an order. The file content must be base64 encoded.
// @Tags			Orders
// @Produce		json
// @Success		201			{object}	OrderAttachmentCreateResponse
// @Failure		400			{object}	OrderAttachmentCreateResponse
// @Failure		404			{object}	OrderAttachmentCreateResponse
// @Failure		500			{object}	OrderAttachmentCreateResponse
// @Param			id			path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			attachments	body		[]OrderAttachmentEditable	true	"Attachments"
// @Router			/v1/orders/{id}/attachments [post]
func CreateOrderAttachments(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), OrderAttachmentCreateResponse{
			Error: &e,
		})
		return
	}

	var order models.Order
	err = models.DB.First(&order, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), OrderAttachmentCreateResponse{
			Error: &e,
		})
		return
	}

	var editables []OrderAttachmentEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), OrderAttachmentCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := OrderAttachmentCreateResponse{}

	for _, editable := range editables {
		content, err := base64.StdEncoding.DecodeString(editable.Content)
		if err != nil {
			status = r.appendError(errNotBase64, status)
			continue
		}

		attachment := models.OrderAttachment{
			OrderID:  order.ID,
			FileName: editable.FileName,
			Content:  content,
		}

		err = models.DB.Create(&attachment).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newOrderAttachment(c, attachment)
		r.Data = append(r.Data, OrderAttachmentResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get attachment
// @Description	Returns the file stored in an attachment
// @Tags			Orders
// @Produce		application/pdf
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/orders/{id}/attachments/{attachmentId} [get]
func GetOrderAttachment(c *gin.Context) {
	var uri URIOrderAttachment
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	attachment, err := findOrderAttachment(uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	c.Data(http.StatusOK, "application/pdf", attachment.Content)
}

// @Summary		Delete attachment
// @Description	Deletes an attachment
// @Tags			Orders
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/orders/{id}/attachments/{attachmentId} [delete]
func DeleteOrderAttachment(c *gin.Context) {
	var uri URIOrderAttachment
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	attachment, err := findOrderAttachment(uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Unscoped().Delete(&attachment).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
