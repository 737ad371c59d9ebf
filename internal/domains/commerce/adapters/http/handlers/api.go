package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
	apierrors "github.com/Apurer/go-gin-commerce-api/internal/shared/errors"
)

// IdempotencyKeyHeader carries the optional client key for order placement.
const IdempotencyKeyHeader = "Idempotency-Key"

// API wires HTTP transport with the commerce services and the order placement workflows.
type API struct {
	products  ports.ProductService
	inventory ports.InventoryService
	orders    ports.OrderService
	workflows ports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

type Option func(*API)

// WithProblemBaseURI prefixes relative problem type URIs.
func WithProblemBaseURI(uri string) Option {
	return func(a *API) {
		a.responder = apierrors.NewChainedResponder(strings.TrimRight(uri, "/"), MapDomainError)
	}
}

// WithWorkflows routes order creation through the orchestrator.
func WithWorkflows(w ports.WorkflowOrchestrator) Option {
	return func(a *API) {
		a.workflows = w
	}
}

// NewAPI creates the commerce API backed by the provided services.
func NewAPI(products ports.ProductService, inventory ports.InventoryService, orders ports.OrderService, opts ...Option) *API {
	api := &API{
		products:  products,
		inventory: inventory,
		orders:    orders,
		responder: apierrors.NewChainedResponder("", MapDomainError),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register mounts the commerce routes under /api.
func (api *API) Register(r gin.IRouter) {
	g := r.Group("/api")

	g.GET("/products", api.ListProducts)
	g.GET("/products/:id", api.GetProduct)
	g.POST("/products", api.CreateProduct)
	g.PUT("/products/:id", api.UpdateProduct)
	g.DELETE("/products/:id", api.DeleteProduct)

	g.GET("/order-items", api.ListOrderItems)
	g.GET("/order-items/:id", api.GetOrderItem)
	g.POST("/order-items", api.CreateOrderItem)
	g.PUT("/order-items/:id", api.UpdateOrderItem)
	g.DELETE("/order-items/:id", api.DeleteOrderItem)

	g.GET("/orders", api.ListOrders)
	g.GET("/orders/:id", api.GetOrder)
	g.POST("/orders", api.CreateOrder)
	g.PUT("/orders/:id", api.UpdateOrder)
	g.DELETE("/orders/:id", api.DeleteOrder)
}

func (api *API) parseIDParam(c *gin.Context) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		api.responder.BadRequest(c, err.Error())
		return 0, false
	}
	return id, true
}

func (api *API) bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		api.responder.BadRequest(c, err.Error())
		return false
	}
	return true
}

func (api *API) respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	api.responder.RespondError(c, err)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
