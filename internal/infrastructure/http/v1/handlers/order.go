package handlers

import (
	"github.com/gin-gonic/gin"

	"tabkeeper/internal/core/apperror"
	"tabkeeper/internal/domain/order"
	"tabkeeper/internal/infrastructure/http/v1/dto"
)

// OrderHandler serves order creation and read-back.
type OrderHandler struct {
	base    *BaseHandler
	service *order.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *order.Service) *OrderHandler {
	return &OrderHandler{base: base, service: service}
}

// Create commits an order draft and returns its bill number.
// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	receipt, err := h.service.Create(c.Request.Context(), req.ToDraft())
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.Created(c, dto.CreateOrderResponse{
		OK:      true,
		BillNo:  receipt.BillNo,
		OrderID: receipt.OrderID,
	})
}

// Get reads back a committed order by its bill number.
// GET /api/orders/:billNo
func (h *OrderHandler) Get(c *gin.Context) {
	billNo := c.Param("billNo")
	if billNo == "" {
		h.base.Error(c, apperror.NewValidation("bill number is required"))
		return
	}

	o, err := h.service.GetByBillNo(c.Request.Context(), billNo)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromOrder(o))
}
