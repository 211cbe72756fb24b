package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/port"
)

var (
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrTotalMismatch    = errors.New("total price mismatch")
	ErrInvalidOrder     = errors.New("invalid order")
)

const idempotencyKeyPrefix = "order:"

// OrderService is the backend side of order submission. Accepted orders are
// queued and persisted by workers.
type OrderService struct {
	cache      port.CacheRepository
	catalog    *domain.Catalog
	pricing    *PriceEngine
	phone      port.PhoneFormatter
	orderQueue chan domain.Order
	log        *zap.Logger
}

func NewOrderService(
	cache port.CacheRepository,
	catalog *domain.Catalog,
	pricing *PriceEngine,
	phone port.PhoneFormatter,
	queueSize int,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		cache:      cache,
		catalog:    catalog,
		pricing:    pricing,
		phone:      phone,
		orderQueue: make(chan domain.Order, queueSize),
		log:        log,
	}
}

// PlaceOrder validates a submitted order against the catalog and the claimed
// total, deduplicates it by request id and queues it for persistence.
func (s *OrderService) PlaceOrder(ctx context.Context, requestID string, order domain.Order, claimedTotal int64) error {
	if err := s.validate(order); err != nil {
		return err
	}

	totals, err := s.pricing.TotalsForLines(s.catalog, order.Lines)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if totals.GrandTotal != claimedTotal {
		return fmt.Errorf("%w: expected %s, got %s", ErrTotalMismatch,
			domain.FormatPrice(totals.GrandTotal), domain.FormatPrice(claimedTotal))
	}

	if requestID == "" {
		requestID = uuid.NewString()
	}

	ok, err := s.cache.SetIdempotency(ctx, idempotencyKeyPrefix+requestID)
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		s.log.Warn("duplicate order request", zap.String("request_id", requestID))
		return ErrDuplicateRequest
	}

	s.sortLines(order.Lines)

	now := time.Now()
	order.ID = requestID
	order.GrandTotal = totals.GrandTotal
	order.Status = domain.OrderStatusPending
	order.CreatedAt = now
	order.UpdatedAt = now

	select {
	case s.orderQueue <- order:
	case <-ctx.Done():
		if relErr := s.cache.ReleaseIdempotency(context.Background(), idempotencyKeyPrefix+requestID); relErr != nil {
			s.log.Error("release idempotency key", zap.String("request_id", requestID), zap.Error(relErr))
		}
		return ctx.Err()
	}

	s.log.Info("order accepted",
		zap.String("order_id", order.ID),
		zap.Int("items", order.ItemCount()),
		zap.String("total", domain.FormatPrice(order.GrandTotal)),
	)
	return nil
}

func (s *OrderService) validate(order domain.Order) error {
	if len(order.Lines) == 0 {
		return domain.ErrEmptyOrder
	}

	seen := make(map[string]bool, len(order.Lines))
	for _, line := range order.Lines {
		if !s.catalog.Contains(line.ItemID) {
			return fmt.Errorf("%w: unknown item %q", ErrInvalidOrder, line.ItemID)
		}
		if line.Quantity <= 0 || line.Quantity > domain.MaxQuantity {
			return fmt.Errorf("%w: quantity %d for item %q", ErrInvalidOrder, line.Quantity, line.ItemID)
		}
		if seen[line.ItemID] {
			return fmt.Errorf("%w: item %q listed twice", ErrInvalidOrder, line.ItemID)
		}
		seen[line.ItemID] = true
	}

	if _, err := s.phone.Denormalize(order.PhoneNumber); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPhoneNumber, err)
	}
	return nil
}

// sortLines puts lines in catalog display order.
func (s *OrderService) sortLines(lines []domain.OrderLine) {
	pos := make(map[string]int, s.catalog.Len())
	for i, id := range s.catalog.IDs() {
		pos[id] = i
	}
	slices.SortFunc(lines, func(a, b domain.OrderLine) int {
		return pos[a.ItemID] - pos[b.ItemID]
	})
}

func (s *OrderService) GetOrderQueue() <-chan domain.Order {
	return s.orderQueue
}

func (s *OrderService) Close() {
	close(s.orderQueue)
}

// Work persists queued orders until the queue is closed. When saving fails the
// idempotency key is released so the client can retry.
func (s *OrderService) Work(id int, db port.DatabaseRepository) {
	for order := range s.orderQueue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		order.Status = domain.OrderStatusConfirmed
		order.UpdatedAt = time.Now()

		if err := db.CreateOrder(ctx, order); err != nil {
			s.log.Error("failed to save order", zap.Int("worker", id), zap.String("order_id", order.ID), zap.Error(err))

			if rollbackErr := s.cache.ReleaseIdempotency(ctx, idempotencyKeyPrefix+order.ID); rollbackErr != nil {
				s.log.Error("CRITICAL rollback failed", zap.Int("worker", id), zap.String("order_id", order.ID), zap.Error(rollbackErr))
			} else {
				s.log.Info("released idempotency key", zap.Int("worker", id), zap.String("order_id", order.ID))
			}
		} else {
			s.log.Info("saved order", zap.Int("worker", id), zap.String("order_id", order.ID))
		}

		cancel()
	}
}
