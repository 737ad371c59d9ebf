package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	orderactivities "github.com/Apurer/go-gin-commerce-api/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the activities needed to place an order.
func RunOrderPlacementSequence(ctx workflow.Context, input types.OrderInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "customer", input.CustomerName)
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "customer", input.CustomerName, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence persisted", "orderId", order.ID)
	return &order, nil
}
