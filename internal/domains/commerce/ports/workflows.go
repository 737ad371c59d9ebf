package ports

import (
	"context"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
)

// WorkflowOrchestrator places orders through a durable workflow engine or inline.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input types.OrderInput) (*domain.Order, error)
}
