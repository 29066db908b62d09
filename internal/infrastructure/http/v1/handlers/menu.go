package handlers

import (
	"github.com/gin-gonic/gin"

	"tabkeeper/internal/domain/menu"
	"tabkeeper/internal/infrastructure/http/v1/dto"
)

// MenuHandler serves the menu catalog.
type MenuHandler struct {
	base    *BaseHandler
	service *menu.Service
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(base *BaseHandler, service *menu.Service) *MenuHandler {
	return &MenuHandler{base: base, service: service}
}

// List returns all menu items ordered by name.
// GET /api/menu-items
func (h *MenuHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromProducts(products))
}
