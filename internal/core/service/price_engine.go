package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rl1809/menu-order/internal/core/domain"
)

const DefaultDeliveryCharge int64 = 500

// QuantitySnapshotter is the read side of the quantity store.
type QuantitySnapshotter interface {
	Snapshot(ctx context.Context) ([]domain.OrderLine, error)
	TotalItemCount(ctx context.Context) (int, error)
}

// PriceEngine derives totals in pence. It holds no state besides the delivery charge.
type PriceEngine struct {
	deliveryCharge int64
}

func NewPriceEngine(deliveryCharge int64) *PriceEngine {
	if deliveryCharge < 0 {
		deliveryCharge = 0
	}
	return &PriceEngine{deliveryCharge: deliveryCharge}
}

func (p *PriceEngine) DeliveryCharge() int64 {
	return p.deliveryCharge
}

func (p *PriceEngine) ComputeTotals(ctx context.Context, catalog *domain.Catalog, store QuantitySnapshotter) (domain.Totals, error) {
	lines, err := store.Snapshot(ctx)
	if err != nil {
		return domain.Totals{}, err
	}
	return p.TotalsForLines(catalog, lines)
}

// TotalsForLines prices an explicit set of lines, e.g. a submitted order.
// Totals that do not fit in int64 pence are rejected with domain.ErrAmountOutOfRange.
func (p *PriceEngine) TotalsForLines(catalog *domain.Catalog, lines []domain.OrderLine) (domain.Totals, error) {
	var subtotal int64
	for _, l := range lines {
		item, err := catalog.Lookup(l.ItemID)
		if err != nil {
			return domain.Totals{}, err
		}
		qty := int64(l.Quantity)
		if qty < 0 || (item.Price != 0 && qty > (math.MaxInt64-subtotal)/item.Price) {
			return domain.Totals{}, fmt.Errorf("%w: %d x item %q", domain.ErrAmountOutOfRange, l.Quantity, l.ItemID)
		}
		subtotal += item.Price * qty
	}
	if subtotal > math.MaxInt64-p.deliveryCharge {
		return domain.Totals{}, fmt.Errorf("%w: subtotal %d", domain.ErrAmountOutOfRange, subtotal)
	}

	return domain.Totals{
		Subtotal:       subtotal,
		DeliveryCharge: p.deliveryCharge,
		GrandTotal:     subtotal + p.deliveryCharge,
	}, nil
}

func (p *PriceEngine) IsOrderEmpty(ctx context.Context, store QuantitySnapshotter) (bool, error) {
	n, err := store.TotalItemCount(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
