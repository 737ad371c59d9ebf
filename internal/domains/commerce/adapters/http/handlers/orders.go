package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/http/mapper"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

// Get /api/orders
func (api *API) ListOrders(c *gin.Context) {
	orders, err := api.orders.List(c.Request.Context())
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrders(orders))
}

// Get /api/orders/:id
func (api *API) GetOrder(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	order, err := api.orders.Get(c.Request.Context(), id)
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// Post /api/orders
// Binds the listed order items to a new order.
func (api *API) CreateOrder(c *gin.Context) {
	var payload mapper.OrderRequest
	if !api.bindJSON(c, &payload) {
		return
	}
	input := mapper.ToOrderInput(payload, strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)))
	order, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromOrder(order))
}

func (api *API) placeOrder(ctx context.Context, input types.OrderInput) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.orders.Create(ctx, input)
}

// Put /api/orders/:id
func (api *API) UpdateOrder(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	var payload mapper.OrderRequest
	if !api.bindJSON(c, &payload) {
		return
	}
	order, err := api.orders.Update(c.Request.Context(), id, mapper.ToOrderInput(payload, ""))
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// Delete /api/orders/:id
// Items of the deleted order return to the unbound pool.
func (api *API) DeleteOrder(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	if err := api.orders.Delete(c.Request.Context(), id); err != nil {
		api.respondServiceError(c, err)
		return
	}
	noContent(c)
}
