package handler

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rl1809/menu-order/internal/adapter/handler/pb"
	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/core/service"
)

// toDomainOrder converts a wire request into an order and the claimed total in pence.
// Zero quantities are dropped.
func toDomainOrder(req *pb.SubmitOrderRequest) (domain.Order, int64, error) {
	keys := make([]string, 0, len(req.Order))
	for k := range req.Order {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []domain.OrderLine
	for _, k := range keys {
		id, ok := pb.ParseLineKey(k)
		if !ok {
			return domain.Order{}, 0, fmt.Errorf("%w: bad line key %q", service.ErrInvalidOrder, k)
		}
		qty := req.Order[k]
		if qty < 0 || qty > domain.MaxQuantity {
			return domain.Order{}, 0, fmt.Errorf("%w: quantity %d for %q", service.ErrInvalidOrder, qty, k)
		}
		if qty == 0 {
			continue
		}
		lines = append(lines, domain.OrderLine{ItemID: id, Quantity: qty})
	}

	pounds, err := decimal.NewFromString(req.TotalPrice.String())
	if err != nil {
		return domain.Order{}, 0, fmt.Errorf("%w: bad totalPrice %q", service.ErrInvalidOrder, req.TotalPrice)
	}
	total, err := domain.PenceFromPounds(pounds)
	if err != nil {
		return domain.Order{}, 0, fmt.Errorf("%w: %v", service.ErrInvalidOrder, err)
	}
	if total < 0 {
		return domain.Order{}, 0, fmt.Errorf("%w: negative totalPrice %q", service.ErrInvalidOrder, req.TotalPrice)
	}

	return domain.Order{Lines: lines, PhoneNumber: req.UserPhone}, total, nil
}
