package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

// PlaceOrderActivityName creates an order and binds its items in one unit of work.
const PlaceOrderActivityName = "commerce.activities.PlaceOrder"

// Activities groups activities that operate on the commerce order aggregate.
type Activities struct {
	orders ports.OrderService
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(orders ports.OrderService) *Activities {
	return &Activities{orders: orders}
}

// PlaceOrder runs the order aggregator. Failures with a known error kind are
// final and surface to the caller typed by kind name; anything else is retried.
func (a *Activities) PlaceOrder(ctx context.Context, input types.OrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		logger.Error("place order activity not initialized", "customer", input.CustomerName)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customer", input.CustomerName, "items", len(input.OrderItemIDs))
	order, err := a.orders.Create(ctx, input)
	if err != nil {
		kind := domain.KindOf(err)
		logger.Error("PlaceOrder activity failed", "customer", input.CustomerName, "kind", kind.String(), "error", err)
		if kind != domain.KindUnknown {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), kind.String(), err)
		}
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}
