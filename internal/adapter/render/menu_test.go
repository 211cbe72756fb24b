package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rl1809/menu-order/internal/core/domain"
)

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	price := func(s string) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.RequireFromString(s))
	}
	catalog, err := domain.BuildCatalog(domain.MenuData{Groups: []domain.MenuGroup{
		{Name: "Starters", Items: []domain.MenuEntry{
			{Name: "Samosa", ID: []byte(`"1"`), Price: price("3.50"), Description: "Crisp pastry"},
		}},
		{Name: "Main Courses", Items: []domain.MenuEntry{
			{Name: "Curry", ID: []byte(`"2"`), Price: price("9.95"), Size: "large"},
		}},
	}})
	if err != nil {
		t.Fatalf("BuildCatalog failed: %v", err)
	}
	return catalog
}

func TestRenderMenu_Structure(t *testing.T) {
	tree := RenderMenu(MenuView{
		Catalog:    testCatalog(t),
		Quantities: map[string]int{"1": 2},
		Totals:     domain.Totals{Subtotal: 700, DeliveryCharge: 500, GrandTotal: 1200},
		CanSubmit:  true,
	})

	if tree.Find("group-main-courses") == nil {
		t.Error("expected slugged group id")
	}
	if got := tree.Find("item-1-quantity").Text; got != "2" {
		t.Errorf("expected quantity 2, got %q", got)
	}
	if got := tree.Find("item-2-quantity").Text; got != "0" {
		t.Errorf("expected quantity 0, got %q", got)
	}
	if got := tree.Find("item-1-price").Text; got != "£3.50" {
		t.Errorf("expected £3.50, got %q", got)
	}
	if got := tree.Find("item-1").Attrs["data-price"]; got != "3.50" {
		t.Errorf("expected data-price 3.50, got %q", got)
	}
	if got := tree.Find("subtotal-value").Text; got != "£7.00" {
		t.Errorf("expected subtotal £7.00, got %q", got)
	}
	if got := tree.Find("total-price-value").Text; got != "£12.00" {
		t.Errorf("expected total £12.00, got %q", got)
	}

	up := tree.Find("item-2-quantity-up")
	if up.OnClick == nil || up.OnClick.Kind != IntentIncrement || up.OnClick.ItemID != "2" {
		t.Errorf("unexpected increment intent: %+v", up.OnClick)
	}
	down := tree.Find("item-1-quantity-down")
	if down.OnClick == nil || down.OnClick.Kind != IntentDecrement {
		t.Errorf("unexpected decrement intent: %+v", down.OnClick)
	}

	if sizes := tree.FindClass("item-size"); len(sizes) != 1 || sizes[0].Text != " (large)" {
		t.Errorf("expected one size span, got %+v", sizes)
	}
	if descs := tree.FindClass("item-description"); len(descs) != 1 {
		t.Errorf("expected one description, got %d", len(descs))
	}

	submit := tree.Find("submit-order")
	if submit.Disabled() || submit.OnClick == nil || submit.OnClick.Kind != IntentSubmit {
		t.Error("expected enabled submit button")
	}
}

func TestRenderMenu_DisabledSubmit(t *testing.T) {
	tree := RenderMenu(MenuView{
		Catalog: testCatalog(t),
		Totals:  domain.Totals{DeliveryCharge: 500, GrandTotal: 500},
	})

	submit := tree.Find("submit-order")
	if !submit.Disabled() {
		t.Error("expected disabled submit button")
	}
	if submit.OnClick != nil {
		t.Error("disabled submit button should not carry an intent")
	}
}

func TestRenderMenu_NoticesAndFailure(t *testing.T) {
	tree := RenderMenu(MenuView{
		Catalog:      testCatalog(t),
		PhoneInput:   "123",
		PhoneNotice:  "invalid phone number",
		SubmitNotice: "order is empty",
		Failure:      errors.New("connection refused"),
	})

	if tree.Find("phone-number-input").Attrs["value"] != "123" {
		t.Error("expected phone input to keep its value")
	}
	if tree.Find("phone-number-notice") == nil || tree.Find("submit-order-notice") == nil {
		t.Error("expected inline notices")
	}

	failure := tree.Find("submit-error")
	if failure == nil {
		t.Fatal("expected failure block")
	}
	if failure.Text != "Couldn't submit order: connection refused." {
		t.Errorf("unexpected failure text %q", failure.Text)
	}
	if ok := tree.Find("submit-error-ok"); ok.OnClick == nil || ok.OnClick.Kind != IntentAcknowledge {
		t.Error("expected acknowledge intent")
	}
}

func TestRenderConfirmation(t *testing.T) {
	tree := RenderConfirmation(domain.Confirmation{
		PhoneNumberDisplay: "07700 900123",
		Lines:              []domain.ConfirmationLine{{Name: "Samosa", Quantity: 2}},
		GrandTotal:         1200,
	})

	var out bytes.Buffer
	if err := WriteText(&out, tree); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	text := out.String()

	for _, want := range []string{
		"Order received",
		"confirmation text to you at 07700 900123",
		"* 2 × Samosa",
		"Your order total was £12.00.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestWriteText_Menu(t *testing.T) {
	tree := RenderMenu(MenuView{
		Catalog:    testCatalog(t),
		Quantities: map[string]int{"1": 1},
		Totals:     domain.Totals{Subtotal: 350, DeliveryCharge: 500, GrandTotal: 850},
	})

	var out bytes.Buffer
	WriteText(&out, tree)
	text := out.String()

	for _, want := range []string{
		"-- Starters --",
		"#1 [-]  1 [+] £3.50 Samosa - Crisp pastry",
		"#2 [-]  0 [+] £9.95 Curry (large)",
		"£8.50 Order total",
		"[Place order (disabled)]",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
}
