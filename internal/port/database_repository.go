package port

import (
	"context"

	"github.com/rl1809/menu-order/internal/core/domain"
)

type DatabaseRepository interface {
	// CreateOrder persists an order and its lines in one transaction
	CreateOrder(ctx context.Context, order domain.Order) error

	// GetOrder retrieves an order with its lines, nil if absent
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}
