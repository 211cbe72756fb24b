package port

import (
	"context"

	"github.com/rl1809/menu-order/internal/core/domain"
)

type OrderSubmitter interface {
	// Submit sends the order to the backend and waits for its acknowledgement
	Submit(ctx context.Context, order domain.Order) (domain.Acknowledgement, error)
}
