package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/platform/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "commerce.workflows.OrderPlacement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Command types.OrderInput
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activities needed to place an order.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "customer", input.Command.CustomerName)...)
	order, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "customer", input.Command.CustomerName, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
