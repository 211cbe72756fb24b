// Package pb holds the submission wire messages shared by the HTTP and gRPC
// transports. gRPC payloads are encoded as JSON through the codec registered here.
package pb

import (
	"encoding/json"
	"strings"
)

// SubmitOrderRequest is the body of POST /submitOrder and the gRPC request.
// Order maps line keys ("item-<id>") to quantities; TotalPrice is in pounds.
type SubmitOrderRequest struct {
	RequestID  string         `json:"request_id,omitempty"`
	Order      map[string]int `json:"order"`
	UserPhone  string         `json:"userPhone"`
	TotalPrice json.Number    `json:"totalPrice"`
}

func (r *SubmitOrderRequest) GetRequestId() string {
	if r == nil {
		return ""
	}
	return r.RequestID
}

type SubmitOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// IdempotencyHeader carries the client's order id on POST /submitOrder.
const IdempotencyHeader = "Idempotency-Key"

const lineKeyPrefix = "item-"

func LineKey(itemID string) string {
	return lineKeyPrefix + itemID
}

// ParseLineKey extracts the item id from a line key.
func ParseLineKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, lineKeyPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
