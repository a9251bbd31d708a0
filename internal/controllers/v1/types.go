package v1

import (
	ez_uuid "github.com/hourbook/backend/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// URISettlementOrder addresses one order's document pair within a settlement.
type URISettlementOrder struct {
	ID      ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"`      // ID of the settlement
	OrderID ez_uuid.UUID `uri:"orderId" binding:"required" format:"UUID"` // ID of the order
}

// URIOrderAttachment addresses one attachment of an order.
type URIOrderAttachment struct {
	ID           ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"`           // ID of the order
	AttachmentID ez_uuid.UUID `uri:"attachmentId" binding:"required" format:"UUID"` // ID of the attachment
}

// Pagination contains information about the pagination for collection endpoint responses.
type Pagination struct {
	Count  int   `json:"count"`  // The amount of records returned in this response
	Offset uint  `json:"offset"` // The offset for the first record returned
	Limit  int   `json:"limit"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total"`  // The total number of resources matching the query
}
