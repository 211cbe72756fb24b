package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/port"
)

type LifecycleOption func(*OrderLifecycle)

// WithSubmitTimeout bounds the outstanding submission call.
func WithSubmitTimeout(d time.Duration) LifecycleOption {
	return func(l *OrderLifecycle) {
		l.timeout = d
	}
}

// WithClearOnConfirm resets confirmed quantities to zero in the store.
func WithClearOnConfirm(clear bool) LifecycleOption {
	return func(l *OrderLifecycle) {
		l.clearOnConfirm = clear
	}
}

// OrderLifecycle moves an order from browsing through submission to confirmation.
//
//	Browsing -> Submitting -> Confirmed
//	                       -> Failed -> Browsing
type OrderLifecycle struct {
	store     *QuantityStore
	catalog   *domain.Catalog
	pricing   *PriceEngine
	phone     port.PhoneFormatter
	submitter port.OrderSubmitter
	log       *zap.Logger

	timeout        time.Duration
	clearOnConfirm bool

	mu           sync.Mutex
	state        domain.LifecycleState
	lastErr      error
	confirmation *domain.Confirmation

	// pendingID is reused while an unconfirmed order is resubmitted unchanged,
	// so the backend can recognise the retry.
	pendingID  string
	pendingKey string
}

func NewOrderLifecycle(
	store *QuantityStore,
	catalog *domain.Catalog,
	pricing *PriceEngine,
	phone port.PhoneFormatter,
	submitter port.OrderSubmitter,
	log *zap.Logger,
	opts ...LifecycleOption,
) *OrderLifecycle {
	l := &OrderLifecycle{
		store:     store,
		catalog:   catalog,
		pricing:   pricing,
		phone:     phone,
		submitter: submitter,
		log:       log,
		state:     domain.StateBrowsing,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *OrderLifecycle) State() domain.LifecycleState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// LastError is the submission error that moved the lifecycle to Failed.
func (l *OrderLifecycle) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *OrderLifecycle) Confirmation() *domain.Confirmation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.confirmation
}

// Acknowledge returns a failed lifecycle to Browsing. Quantities are untouched.
func (l *OrderLifecycle) Acknowledge() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != domain.StateFailed {
		return false
	}
	l.transition(domain.StateBrowsing)
	l.lastErr = nil
	return true
}

// CanSubmit reports whether the submit control should be enabled.
func (l *OrderLifecycle) CanSubmit(ctx context.Context) (bool, error) {
	switch l.State() {
	case domain.StateBrowsing, domain.StateFailed:
	default:
		return false, nil
	}
	empty, err := l.pricing.IsOrderEmpty(ctx, l.store)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Submit snapshots the current quantities into an order and sends it.
// Validation failures leave the lifecycle in Browsing; transport failures
// and rejections move it to Failed with a *domain.SubmissionError.
// Resubmitting an unchanged order reuses its id.
func (l *OrderLifecycle) Submit(ctx context.Context, phoneInput string) (*domain.Confirmation, error) {
	l.mu.Lock()
	switch l.state {
	case domain.StateSubmitting:
		l.mu.Unlock()
		return nil, domain.ErrAlreadySubmitting
	case domain.StateConfirmed:
		l.mu.Unlock()
		return nil, domain.ErrOrderConfirmed
	case domain.StateFailed:
		l.transition(domain.StateBrowsing)
		l.lastErr = nil
	}

	order, names, err := l.prepare(ctx, phoneInput)
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}
	l.transition(domain.StateSubmitting)
	l.mu.Unlock()

	err = l.send(ctx, order)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.lastErr = err
		l.transition(domain.StateFailed)
		l.log.Warn("order submission failed", zap.String("order_id", order.ID), zap.Error(err))
		return nil, err
	}

	l.confirmation = l.confirm(order, names)
	l.pendingID, l.pendingKey = "", ""
	l.transition(domain.StateConfirmed)

	if l.clearOnConfirm {
		ids := make([]string, len(order.Lines))
		for i, line := range order.Lines {
			ids[i] = line.ItemID
		}
		if err := l.store.Reset(ctx, ids...); err != nil {
			l.log.Error("failed to clear confirmed quantities", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	return l.confirmation, nil
}

func (l *OrderLifecycle) prepare(ctx context.Context, phoneInput string) (domain.Order, []string, error) {
	empty, err := l.pricing.IsOrderEmpty(ctx, l.store)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if empty {
		return domain.Order{}, nil, domain.ErrEmptyOrder
	}

	phone, err := l.phone.Normalize(phoneInput)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidPhoneNumber) {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidPhoneNumber, err)
		}
		return domain.Order{}, nil, err
	}

	lines, err := l.store.Snapshot(ctx)
	if err != nil {
		return domain.Order{}, nil, err
	}
	totals, err := l.pricing.TotalsForLines(l.catalog, lines)
	if err != nil {
		return domain.Order{}, nil, err
	}

	names := make([]string, len(lines))
	for i, line := range lines {
		item, err := l.catalog.Lookup(line.ItemID)
		if err != nil {
			return domain.Order{}, nil, err
		}
		names[i] = item.Name
	}

	if key := orderKey(phone, lines); key != l.pendingKey || l.pendingID == "" {
		l.pendingID, l.pendingKey = uuid.NewString(), key
	}

	now := time.Now()
	return domain.Order{
		ID:          l.pendingID,
		Lines:       lines,
		PhoneNumber: phone,
		GrandTotal:  totals.GrandTotal,
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, names, nil
}

// send is the only suspension point. It returns once the submitter answers
// or the deadline passes, whichever comes first.
func (l *OrderLifecycle) send(ctx context.Context, order domain.Order) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	type result struct {
		ack domain.Acknowledgement
		err error
	}
	done := make(chan result, 1)
	go func() {
		ack, err := l.submitter.Submit(ctx, order)
		done <- result{ack: ack, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			var subErr *domain.SubmissionError
			if errors.As(r.err, &subErr) {
				return subErr
			}
			return &domain.SubmissionError{Cause: r.err}
		}
		if !r.ack.Success {
			return &domain.SubmissionError{Cause: domain.ErrOrderRejected, Message: r.ack.Message}
		}
		return nil
	case <-ctx.Done():
		return &domain.SubmissionError{Cause: ctx.Err()}
	}
}

func (l *OrderLifecycle) confirm(order domain.Order, names []string) *domain.Confirmation {
	display, err := l.phone.Denormalize(order.PhoneNumber)
	if err != nil {
		l.log.Warn("cannot format phone number for display", zap.String("phone", order.PhoneNumber), zap.Error(err))
		display = order.PhoneNumber
	}

	lines := make([]domain.ConfirmationLine, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = domain.ConfirmationLine{Name: names[i], Quantity: line.Quantity}
	}

	return &domain.Confirmation{
		OrderID:            order.ID,
		PhoneNumberDisplay: display,
		Lines:              lines,
		GrandTotal:         order.GrandTotal,
	}
}

// orderKey identifies the contents of an order for retry detection.
func orderKey(phone string, lines []domain.OrderLine) string {
	var b strings.Builder
	b.WriteString(phone)
	for _, line := range lines {
		fmt.Fprintf(&b, "|%s=%d", line.ItemID, line.Quantity)
	}
	return b.String()
}

// transition must be called with mu held.
func (l *OrderLifecycle) transition(to domain.LifecycleState) {
	l.log.Info("order lifecycle transition", zap.String("from", string(l.state)), zap.String("to", string(to)))
	l.state = to
}
