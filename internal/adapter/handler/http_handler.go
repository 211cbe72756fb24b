package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/menu-order/internal/adapter/handler/pb"
	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/core/service"
)

const maxRequestSize = 1 << 20

type HTTPHandler struct {
	orderService *service.OrderService
	log          *zap.Logger
}

func NewHTTPHandler(orderService *service.OrderService, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{orderService: orderService, log: log}
}

func (h *HTTPHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req pb.SubmitOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, pb.SubmitOrderResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	order, total, err := toDomainOrder(&req)
	if err == nil {
		requestID := r.Header.Get(pb.IdempotencyHeader)
		if requestID == "" {
			requestID = req.RequestID
		}
		err = h.orderService.PlaceOrder(r.Context(), requestID, order, total)
	}

	status, resp := submitResult(err)
	if status == http.StatusInternalServerError {
		h.log.Error("submit order failed", zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// submitResult builds the reply to a submission. A replayed request id means
// the order was already accepted, so it is acknowledged again.
func submitResult(err error) (int, pb.SubmitOrderResponse) {
	switch {
	case err == nil:
		return http.StatusOK, pb.SubmitOrderResponse{Success: true, Message: "order placed successfully"}
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusOK, pb.SubmitOrderResponse{Success: true, Message: "order already placed"}
	}
	status, message := errorStatus(err)
	return status, pb.SubmitOrderResponse{Success: false, Message: message}
}

// errorStatus maps service errors to an HTTP status and a user-facing message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		return http.StatusBadRequest, "order is empty"
	case errors.Is(err, domain.ErrInvalidPhoneNumber):
		return http.StatusBadRequest, "invalid phone number"
	case errors.Is(err, service.ErrTotalMismatch):
		return http.StatusUnprocessableEntity, "total price does not match menu prices"
	case errors.Is(err, service.ErrInvalidOrder):
		return http.StatusBadRequest, "invalid order"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
