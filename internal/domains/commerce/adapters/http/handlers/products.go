package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/http/mapper"
)

// Get /api/products
func (api *API) ListProducts(c *gin.Context) {
	products, err := api.products.List(c.Request.Context())
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProducts(products))
}

// Get /api/products/:id
func (api *API) GetProduct(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	product, err := api.products.Get(c.Request.Context(), id)
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProduct(product))
}

// Post /api/products
func (api *API) CreateProduct(c *gin.Context) {
	var payload mapper.ProductRequest
	if !api.bindJSON(c, &payload) {
		return
	}
	product, err := api.products.Create(c.Request.Context(), mapper.ToProductInput(payload))
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromProduct(product))
}

// Put /api/products/:id
func (api *API) UpdateProduct(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	var payload mapper.ProductRequest
	if !api.bindJSON(c, &payload) {
		return
	}
	product, err := api.products.Update(c.Request.Context(), id, mapper.ToProductInput(payload))
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProduct(product))
}

// Delete /api/products/:id
func (api *API) DeleteProduct(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	if err := api.products.Delete(c.Request.Context(), id); err != nil {
		api.respondServiceError(c, err)
		return
	}
	noContent(c)
}
