package client

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/menu-order/internal/adapter/handler/pb"
	"github.com/rl1809/menu-order/internal/core/domain"
)

type GRPCSubmitter struct {
	client pb.OrderServiceClient
	log    *zap.Logger
}

func NewGRPCSubmitter(conn grpc.ClientConnInterface, log *zap.Logger) *GRPCSubmitter {
	return &GRPCSubmitter{client: pb.NewOrderServiceClient(conn), log: log}
}

func (s *GRPCSubmitter) Submit(ctx context.Context, order domain.Order) (domain.Acknowledgement, error) {
	req := newSubmitOrderRequest(order)
	req.RequestID = order.ID

	resp, err := s.client.SubmitOrder(ctx, req)
	if err != nil {
		return domain.Acknowledgement{}, err
	}
	if resp == nil {
		return domain.Acknowledgement{}, domain.ErrInvalidResponse
	}

	s.log.Debug("submission answered", zap.String("order_id", order.ID), zap.Bool("success", resp.Success))
	return domain.Acknowledgement{Success: resp.Success, Message: resp.Message}, nil
}
