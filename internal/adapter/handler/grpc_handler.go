package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/menu-order/internal/adapter/handler/pb"
	"github.com/rl1809/menu-order/internal/core/service"
)

type GRPCHandler struct {
	pb.UnimplementedOrderServiceServer
	orderService *service.OrderService
	log          *zap.Logger
}

func NewGRPCHandler(orderService *service.OrderService, log *zap.Logger) *GRPCHandler {
	return &GRPCHandler{orderService: orderService, log: log}
}

func (h *GRPCHandler) SubmitOrder(ctx context.Context, req *pb.SubmitOrderRequest) (*pb.SubmitOrderResponse, error) {
	order, total, err := toDomainOrder(req)
	if err == nil {
		err = h.orderService.PlaceOrder(ctx, req.GetRequestId(), order, total)
	}

	status, resp := submitResult(err)
	if status == http.StatusInternalServerError {
		h.log.Error("submit order failed", zap.Error(err))
	}
	return &resp, nil
}
