package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/port"
)

// QuantityStore tracks how many of each catalog item the user wants.
// Missing entries read as zero and values never go negative.
type QuantityStore struct {
	repo    port.QuantityRepository
	catalog *domain.Catalog
	log     *zap.Logger
}

func NewQuantityStore(repo port.QuantityRepository, catalog *domain.Catalog, log *zap.Logger) *QuantityStore {
	return &QuantityStore{repo: repo, catalog: catalog, log: log}
}

// QuantityKey is the persistence key of an item's quantity.
func QuantityKey(itemID string) string {
	return "item-" + itemID + "-quantity"
}

func (s *QuantityStore) Get(ctx context.Context, itemID string) (int, error) {
	if !s.catalog.Contains(itemID) {
		return 0, &domain.UnknownItemError{ID: itemID}
	}
	return s.read(ctx, itemID)
}

func (s *QuantityStore) read(ctx context.Context, itemID string) (int, error) {
	key := QuantityKey(itemID)

	raw, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > domain.MaxQuantity {
		s.log.Warn("ignoring corrupt stored quantity", zap.String("key", key), zap.String("value", raw))
		return 0, nil
	}
	return n, nil
}

// Adjust adds delta to the item's quantity and persists the result.
// A change that would go below zero or above domain.MaxQuantity is ignored
// and the current value returned.
func (s *QuantityStore) Adjust(ctx context.Context, itemID string, delta int) (int, error) {
	current, err := s.Get(ctx, itemID)
	if err != nil {
		return 0, err
	}

	if delta == 0 || delta < -current || delta > domain.MaxQuantity-current {
		return current, nil
	}
	next := current + delta

	if err := s.write(ctx, itemID, next); err != nil {
		return current, err
	}

	s.log.Debug("quantity adjusted",
		zap.String("item_id", itemID),
		zap.Int("delta", delta),
		zap.Int("quantity", next),
	)
	return next, nil
}

func (s *QuantityStore) write(ctx context.Context, itemID string, n int) error {
	key := QuantityKey(itemID)
	if err := s.repo.Set(ctx, key, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Snapshot lists items with a positive quantity in catalog order.
func (s *QuantityStore) Snapshot(ctx context.Context) ([]domain.OrderLine, error) {
	var lines []domain.OrderLine
	for _, id := range s.catalog.IDs() {
		n, err := s.read(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			lines = append(lines, domain.OrderLine{ItemID: id, Quantity: n})
		}
	}
	return lines, nil
}

func (s *QuantityStore) TotalItemCount(ctx context.Context) (int, error) {
	lines, err := s.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total, nil
}

// Reset sets the given items back to zero.
func (s *QuantityStore) Reset(ctx context.Context, itemIDs ...string) error {
	for _, id := range itemIDs {
		if !s.catalog.Contains(id) {
			return &domain.UnknownItemError{ID: id}
		}
		if err := s.write(ctx, id, 0); err != nil {
			return err
		}
	}
	return nil
}
