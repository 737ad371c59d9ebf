package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/http/mapper"
)

// Get /api/order-items
func (api *API) ListOrderItems(c *gin.Context) {
	items, err := api.inventory.List(c.Request.Context())
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderItems(items))
}

// Get /api/order-items/:id
func (api *API) GetOrderItem(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	item, err := api.inventory.Get(c.Request.Context(), id)
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderItem(item))
}

// Post /api/order-items
// Reserves stock from the referenced product.
func (api *API) CreateOrderItem(c *gin.Context) {
	var payload mapper.OrderItemRequest
	if !api.bindJSON(c, &payload) {
		return
	}
	item, err := api.inventory.Create(c.Request.Context(), mapper.ToOrderItemInput(payload))
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromOrderItem(item))
}

// Put /api/order-items/:id
func (api *API) UpdateOrderItem(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	var payload mapper.OrderItemRequest
	if !api.bindJSON(c, &payload) {
		return
	}
	item, err := api.inventory.Update(c.Request.Context(), id, mapper.ToOrderItemInput(payload))
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderItem(item))
}

// Delete /api/order-items/:id
func (api *API) DeleteOrderItem(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	if err := api.inventory.Delete(c.Request.Context(), id); err != nil {
		api.respondServiceError(c, err)
		return
	}
	noContent(c)
}
