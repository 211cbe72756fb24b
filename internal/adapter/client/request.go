// Package client sends orders to the backend over HTTP or gRPC.
package client

import (
	"encoding/json"

	"github.com/rl1809/menu-order/internal/adapter/handler/pb"
	"github.com/rl1809/menu-order/internal/core/domain"
)

func newSubmitOrderRequest(order domain.Order) *pb.SubmitOrderRequest {
	lines := make(map[string]int, len(order.Lines))
	for _, l := range order.Lines {
		lines[pb.LineKey(l.ItemID)] = l.Quantity
	}
	return &pb.SubmitOrderRequest{
		Order:      lines,
		UserPhone:  order.PhoneNumber,
		TotalPrice: json.Number(domain.Pounds(order.GrandTotal)),
	}
}
