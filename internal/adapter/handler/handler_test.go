package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"github.com/rl1809/menu-order/internal/adapter/handler/pb"
	"github.com/rl1809/menu-order/internal/adapter/phone"
	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/core/service"
)

type mockCacheRepo struct {
	keys map[string]bool
	mu   sync.Mutex
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *mockCacheRepo) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

func newTestService(t *testing.T) *service.OrderService {
	t.Helper()
	catalog, err := domain.BuildCatalog(domain.MenuData{Groups: []domain.MenuGroup{
		{Name: "Mains", Items: []domain.MenuEntry{
			{Name: "Alpha", ID: []byte(`"A"`), Price: decimal.NewNullDecimal(decimal.RequireFromString("3.50"))},
		}},
	}})
	if err != nil {
		t.Fatalf("BuildCatalog failed: %v", err)
	}

	svc := service.NewOrderService(&mockCacheRepo{keys: make(map[string]bool)}, catalog,
		service.NewPriceEngine(500), phone.NewUKFormatter(), 100, zaptest.NewLogger(t))
	go func() {
		for range svc.GetOrderQueue() {
		}
	}()
	t.Cleanup(svc.Close)
	return svc
}

func postOrder(t *testing.T, h *HTTPHandler, body, requestID string) (*httptest.ResponseRecorder, pb.SubmitOrderResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/submitOrder", strings.NewReader(body))
	if requestID != "" {
		req.Header.Set(pb.IdempotencyHeader, requestID)
	}
	rec := httptest.NewRecorder()

	h.SubmitOrder(rec, req)

	var resp pb.SubmitOrderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

const validBody = `{"order":{"item-A":2},"userPhone":"+447700900123","totalPrice":12.00}`

func TestSubmitOrder_Success(t *testing.T) {
	h := NewHTTPHandler(newTestService(t), zaptest.NewLogger(t))

	rec, resp := postOrder(t, h, validBody, "req-1")

	if rec.Code != http.StatusOK || !resp.Success {
		t.Errorf("expected 200 success, got %d %+v", rec.Code, resp)
	}
}

func TestSubmitOrder_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"empty", `{"order":{"item-A":0},"userPhone":"+447700900123","totalPrice":5}`, http.StatusBadRequest},
		{"bad key", `{"order":{"A":1},"userPhone":"+447700900123","totalPrice":8.5}`, http.StatusBadRequest},
		{"negative", `{"order":{"item-A":-1},"userPhone":"+447700900123","totalPrice":1.5}`, http.StatusBadRequest},
		{"unknown item", `{"order":{"item-Z":1},"userPhone":"+447700900123","totalPrice":8.5}`, http.StatusBadRequest},
		{"bad phone", `{"order":{"item-A":1},"userPhone":"12345","totalPrice":8.5}`, http.StatusBadRequest},
		{"mismatch", `{"order":{"item-A":1},"userPhone":"+447700900123","totalPrice":1}`, http.StatusUnprocessableEntity},
		{"sub-penny", `{"order":{"item-A":1},"userPhone":"+447700900123","totalPrice":8.505}`, http.StatusBadRequest},
		{"over quantity cap", `{"order":{"item-A":1000},"userPhone":"+447700900123","totalPrice":3505}`, http.StatusBadRequest},
		{"wrapping quantity", `{"order":{"item-A":4611686018427387904},"userPhone":"+447700900123","totalPrice":-92233720368547753.08}`, http.StatusBadRequest},
		{"negative total", `{"order":{"item-A":1},"userPhone":"+447700900123","totalPrice":-8.5}`, http.StatusBadRequest},
		{"huge total", `{"order":{"item-A":1},"userPhone":"+447700900123","totalPrice":1e30}`, http.StatusBadRequest},
	}

	h := NewHTTPHandler(newTestService(t), zaptest.NewLogger(t))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := postOrder(t, h, tc.body, "")
			if rec.Code != tc.status {
				t.Errorf("expected status %d, got %d (%s)", tc.status, rec.Code, resp.Message)
			}
			if resp.Success {
				t.Error("expected success=false")
			}
		})
	}
}

func TestSubmitOrder_ReplayIsAcknowledged(t *testing.T) {
	svc := newTestService(t)
	h := NewHTTPHandler(svc, zaptest.NewLogger(t))

	postOrder(t, h, validBody, "req-1")
	rec, resp := postOrder(t, h, validBody, "req-1")

	if rec.Code != http.StatusOK || !resp.Success || resp.Message != "order already placed" {
		t.Errorf("expected replay acknowledged, got %d %+v", rec.Code, resp)
	}
}

func TestSubmitOrder_RequestIDFromBody(t *testing.T) {
	h := NewHTTPHandler(newTestService(t), zaptest.NewLogger(t))
	body := `{"request_id":"body-1","order":{"item-A":2},"userPhone":"+447700900123","totalPrice":"12.00"}`

	postOrder(t, h, body, "")
	_, resp := postOrder(t, h, body, "")

	if resp.Message != "order already placed" {
		t.Errorf("expected body request id to deduplicate, got %+v", resp)
	}
}

func TestSubmitOrder_BodyTooLarge(t *testing.T) {
	h := NewHTTPHandler(newTestService(t), zaptest.NewLogger(t))
	body := `{"order":{"item-A":1},"userPhone":"` + strings.Repeat("0", maxRequestSize) + `","totalPrice":8.5}`

	rec, resp := postOrder(t, h, body, "")

	if rec.Code != http.StatusBadRequest || resp.Success {
		t.Errorf("expected 400 for oversized body, got %d %+v", rec.Code, resp)
	}
}

func TestSubmitOrder_MethodNotAllowed(t *testing.T) {
	h := NewHTTPHandler(newTestService(t), zaptest.NewLogger(t))
	rec := httptest.NewRecorder()

	h.SubmitOrder(rec, httptest.NewRequest(http.MethodGet, "/submitOrder", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestGRPCHandler_SubmitOrder(t *testing.T) {
	h := NewGRPCHandler(newTestService(t), zaptest.NewLogger(t))
	req := &pb.SubmitOrderRequest{
		RequestID:  "grpc-1",
		Order:      map[string]int{"item-A": 1},
		UserPhone:  "+447700900123",
		TotalPrice: "8.50",
	}

	resp, err := h.SubmitOrder(context.Background(), req)
	if err != nil || !resp.Success {
		t.Fatalf("expected success, got %+v %v", resp, err)
	}

	resp, err = h.SubmitOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if !resp.Success || resp.Message != "order already placed" {
		t.Errorf("expected replay acknowledged, got %+v", resp)
	}
}

func TestToDomainOrder_Limits(t *testing.T) {
	cases := map[string]*pb.SubmitOrderRequest{
		"quantity above cap": {Order: map[string]int{"item-a": domain.MaxQuantity + 1}, TotalPrice: "1"},
		"negative total":     {Order: map[string]int{"item-a": 1}, TotalPrice: "-0.01"},
		"total beyond int64": {Order: map[string]int{"item-a": 1}, TotalPrice: "92233720368547758.08"},
	}
	for name, req := range cases {
		if _, _, err := toDomainOrder(req); !errors.Is(err, service.ErrInvalidOrder) {
			t.Errorf("%s: expected ErrInvalidOrder, got %v", name, err)
		}
	}

	if _, _, err := toDomainOrder(&pb.SubmitOrderRequest{Order: map[string]int{"item-a": domain.MaxQuantity}, TotalPrice: "1"}); err != nil {
		t.Errorf("quantity at cap: unexpected error %v", err)
	}
}

func TestToDomainOrder_SkipsZeroAndSorts(t *testing.T) {
	order, total, err := toDomainOrder(&pb.SubmitOrderRequest{
		Order:      map[string]int{"item-b": 1, "item-a": 2, "item-c": 0},
		UserPhone:  "+447700900123",
		TotalPrice: "7.25",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 725 {
		t.Errorf("expected 725, got %d", total)
	}
	if len(order.Lines) != 2 || order.Lines[0].ItemID != "a" || order.Lines[1].ItemID != "b" {
		t.Errorf("unexpected lines %+v", order.Lines)
	}
}

func TestSubmitResult_WrappedErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		success bool
	}{
		{fmt.Errorf("place order: %w", service.ErrDuplicateRequest), http.StatusOK, true},
		{fmt.Errorf("place order: %w", service.ErrTotalMismatch), http.StatusUnprocessableEntity, false},
		{errors.New("redis down"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		status, resp := submitResult(tc.err)
		if status != tc.status || resp.Success != tc.success {
			t.Errorf("%v: expected %d success=%v, got %d %+v", tc.err, tc.status, tc.success, status, resp)
		}
	}
}
