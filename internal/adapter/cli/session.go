// Package cli runs an interactive menu session in a terminal. Each command
// becomes a render intent; the screen is redrawn after every change so the
// totals shown always match the stored quantities.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/menu-order/internal/adapter/render"
	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/core/service"
)

const helpText = `commands:
  + <id> [n]      add n of item <id> (default 1)
  - <id> [n]      remove n of item <id>
  phone <number>  set your phone number
  order [number]  place the order
  ok              dismiss a submission error
  help            show this help
  quit            leave
`

type Session struct {
	catalog   *domain.Catalog
	store     *service.QuantityStore
	pricing   *service.PriceEngine
	lifecycle *service.OrderLifecycle
	out       io.Writer
	log       *zap.Logger

	phoneInput   string
	phoneNotice  string
	submitNotice string
}

func NewSession(
	catalog *domain.Catalog,
	store *service.QuantityStore,
	pricing *service.PriceEngine,
	lifecycle *service.OrderLifecycle,
	out io.Writer,
	log *zap.Logger,
) *Session {
	return &Session{
		catalog:   catalog,
		store:     store,
		pricing:   pricing,
		lifecycle: lifecycle,
		out:       out,
		log:       log,
	}
}

// Run reads commands until quit, end of input or a confirmed order.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	if err := s.Render(ctx); err != nil {
		return err
	}
	fmt.Fprint(s.out, helpText)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := s.HandleCommand(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if quit || s.lifecycle.State() == domain.StateConfirmed {
			return nil
		}
	}
}

// HandleCommand parses one line of input. The returned error is only set for
// failures the session cannot recover from.
func (s *Session) HandleCommand(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "+", "-":
		return false, s.adjustCommand(ctx, fields[0], args)
	case "phone":
		s.phoneInput = strings.Join(args, " ")
		s.phoneNotice = ""
		return false, s.Render(ctx)
	case "order":
		if len(args) > 0 {
			s.phoneInput = strings.Join(args, " ")
		}
		return false, s.Dispatch(ctx, render.Intent{Kind: render.IntentSubmit})
	case "ok":
		return false, s.Dispatch(ctx, render.Intent{Kind: render.IntentAcknowledge})
	case "help":
		fmt.Fprint(s.out, helpText)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		fmt.Fprintf(s.out, "unknown command %q, type help\n", fields[0])
		return false, nil
	}
}

func (s *Session) adjustCommand(ctx context.Context, sign string, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "which item? e.g. + 3")
		return nil
	}

	id := strings.TrimPrefix(args[0], "#")
	if !s.catalog.Contains(id) {
		fmt.Fprintf(s.out, "there is no item #%s\n", id)
		return nil
	}

	times := 1
	if len(args) > 1 {
		if _, err := fmt.Sscan(args[1], &times); err != nil || times < 1 {
			fmt.Fprintf(s.out, "bad count %q\n", args[1])
			return nil
		}
	}

	kind := render.IntentIncrement
	if sign == "-" {
		kind = render.IntentDecrement
	}
	for i := 0; i < times; i++ {
		if err := s.apply(ctx, render.Intent{Kind: kind, ItemID: id}); err != nil {
			return err
		}
	}
	return s.Render(ctx)
}

// Dispatch applies an intent from the display tree and redraws.
func (s *Session) Dispatch(ctx context.Context, intent render.Intent) error {
	if err := s.apply(ctx, intent); err != nil {
		return err
	}
	return s.Render(ctx)
}

func (s *Session) apply(ctx context.Context, intent render.Intent) error {
	switch intent.Kind {
	case render.IntentIncrement, render.IntentDecrement:
		delta := 1
		if intent.Kind == render.IntentDecrement {
			delta = -1
		}
		if _, err := s.store.Adjust(ctx, intent.ItemID, delta); err != nil {
			return err
		}
		s.submitNotice = ""
	case render.IntentSubmit:
		return s.submit(ctx)
	case render.IntentAcknowledge:
		s.lifecycle.Acknowledge()
	}
	return nil
}

// submit turns user-correctable errors into inline notices. Submission errors
// are kept by the lifecycle and drawn as a failure block.
func (s *Session) submit(ctx context.Context) error {
	s.phoneNotice, s.submitNotice = "", ""

	_, err := s.lifecycle.Submit(ctx, s.phoneInput)
	var subErr *domain.SubmissionError
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyOrder):
		s.submitNotice = "Add something to your order first."
	case errors.Is(err, domain.ErrInvalidPhoneNumber):
		s.phoneNotice = "Please enter a valid UK phone number."
	case errors.Is(err, domain.ErrAlreadySubmitting), errors.Is(err, domain.ErrOrderConfirmed):
		s.log.Debug("submit ignored", zap.Error(err))
	case errors.As(err, &subErr):
	default:
		return err
	}
	return nil
}

// Render draws the current screen.
func (s *Session) Render(ctx context.Context) error {
	if c := s.lifecycle.Confirmation(); c != nil {
		return render.WriteText(s.out, render.RenderConfirmation(*c))
	}

	view, err := s.menuView(ctx)
	if err != nil {
		return err
	}
	return render.WriteText(s.out, render.RenderMenu(view))
}

func (s *Session) menuView(ctx context.Context) (render.MenuView, error) {
	quantities := make(map[string]int, s.catalog.Len())
	for _, id := range s.catalog.IDs() {
		n, err := s.store.Get(ctx, id)
		if err != nil {
			return render.MenuView{}, err
		}
		quantities[id] = n
	}

	totals, err := s.pricing.ComputeTotals(ctx, s.catalog, s.store)
	if err != nil {
		return render.MenuView{}, err
	}
	canSubmit, err := s.lifecycle.CanSubmit(ctx)
	if err != nil {
		return render.MenuView{}, err
	}

	var failure error
	if s.lifecycle.State() == domain.StateFailed {
		failure = s.lifecycle.LastError()
		var subErr *domain.SubmissionError
		if errors.As(failure, &subErr) {
			failure = subErr.Cause
			if subErr.Message != "" {
				failure = fmt.Errorf("%v: %s", subErr.Cause, subErr.Message)
			}
		}
	}

	return render.MenuView{
		Catalog:      s.catalog,
		Quantities:   quantities,
		Totals:       totals,
		CanSubmit:    canSubmit,
		PhoneInput:   s.phoneInput,
		PhoneNotice:  s.phoneNotice,
		SubmitNotice: s.submitNotice,
		Failure:      failure,
	}, nil
}
