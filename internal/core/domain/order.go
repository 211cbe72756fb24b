package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type LifecycleState string

const (
	StateBrowsing   LifecycleState = "browsing"
	StateSubmitting LifecycleState = "submitting"
	StateConfirmed  LifecycleState = "confirmed"
	StateFailed     LifecycleState = "failed"
)

// MaxQuantity is the most of one item a single order can hold.
const MaxQuantity = 999

type OrderLine struct {
	ItemID   string
	Quantity int
}

// Order is the snapshot sent on submission. Lines only carry positive quantities.
type Order struct {
	ID          string
	Lines       []OrderLine
	PhoneNumber string
	GrandTotal  int64
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemCount is the sum of all line quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// Totals are amounts in pence derived from the quantity store and the catalog.
type Totals struct {
	Subtotal       int64
	DeliveryCharge int64
	GrandTotal     int64
}

type ConfirmationLine struct {
	Name     string
	Quantity int
}

// Confirmation is the read-only view produced by a successful submission.
type Confirmation struct {
	OrderID            string
	PhoneNumberDisplay string
	Lines              []ConfirmationLine
	GrandTotal         int64
}

// Acknowledgement is the backend's answer to a submission.
type Acknowledgement struct {
	Success bool
	Message string
}
