package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/menu-order/internal/adapter/handler/pb"
	"github.com/rl1809/menu-order/internal/core/domain"
)

const (
	submitOrderPath = "/submitOrder"
	maxResponseSize = 1 << 20
)

// HTTPSubmitter posts orders as JSON to <baseURL>/submitOrder.
type HTTPSubmitter struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPSubmitter(baseURL string, client *http.Client, log *zap.Logger) *HTTPSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSubmitter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		log:     log,
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, order domain.Order) (domain.Acknowledgement, error) {
	body, err := json.Marshal(newSubmitOrderRequest(order))
	if err != nil {
		return domain.Acknowledgement{}, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+submitOrderPath, bytes.NewReader(body))
	if err != nil {
		return domain.Acknowledgement{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(pb.IdempotencyHeader, order.ID)

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Acknowledgement{}, err
	}
	defer resp.Body.Close()

	var out struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil || out.Success == nil {
		return domain.Acknowledgement{}, fmt.Errorf("%w: status %d", domain.ErrInvalidResponse, resp.StatusCode)
	}

	s.log.Debug("submission answered",
		zap.String("order_id", order.ID),
		zap.Int("status", resp.StatusCode),
		zap.Bool("success", *out.Success),
	)
	return domain.Acknowledgement{Success: *out.Success, Message: out.Message}, nil
}
