package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
	orderworkflows "github.com/Apurer/go-gin-commerce-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order placement workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the workflow that places an order and waits for its result.
// Requests sharing an idempotency key share one workflow execution.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, input types.OrderInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOrderPlacementWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflowName,
		orderworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			return awaitOrder(ctx, o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId))
		}
		return nil, err
	}
	return awaitOrder(ctx, run)
}

func awaitOrder(ctx context.Context, run client.WorkflowRun) (*domain.Order, error) {
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &order, nil
}

// translateWorkflowError restores the domain error kind carried by a
// non-retryable activity failure so transport maps it like an inline failure.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	kind := domain.ParseKind(appErr.Type())
	if kind == domain.KindUnknown {
		return err
	}
	message := strings.TrimPrefix(appErr.Message(), kind.Sentinel().Error()+": ")
	return fmt.Errorf("%w: %s", kind.Sentinel(), message)
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.OrderService
}

// NewInlineOrderWorkflows wraps the order service for synchronous execution.
func NewInlineOrderWorkflows(service ports.OrderService) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PlaceOrder delegates to the order service without durable orchestration.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, input types.OrderInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.Create(ctx, input)
}

func buildOrderPlacementWorkflowID(input types.OrderInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(key))
	}
	// Requests sharing a traceparent must not collide on the workflow id.
	return fmt.Sprintf("order-placement-%s-%s", traceComponent, uuid.NewString())
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
