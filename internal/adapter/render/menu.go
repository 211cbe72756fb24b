package render

import (
	"fmt"
	"strconv"

	"github.com/rl1809/menu-order/internal/core/domain"
)

// MenuView is everything needed to draw the browsing screen.
type MenuView struct {
	Catalog    *domain.Catalog
	Quantities map[string]int
	Totals     domain.Totals
	CanSubmit  bool
	PhoneInput string

	// PhoneNotice and SubmitNotice are inline messages next to their controls.
	PhoneNotice  string
	SubmitNotice string

	// Failure is set while the last submission is unacknowledged.
	Failure error
}

func RenderMenu(v MenuView) *Node {
	menu := el("div", "menu", "", "")

	for _, g := range v.Catalog.Groups() {
		group := el("div", "group-"+domain.Slug(g.Name), "menu-group", "").
			Append(el("h2", "", "", g.Name))
		for _, id := range g.ItemIDs {
			item, err := v.Catalog.Lookup(id)
			if err != nil {
				continue
			}
			group.Append(menuItem(item, v.Quantities[id]))
		}
		menu.Append(group)
	}

	menu.Append(
		totalRow("subtotal", "Subtotal", v.Totals.Subtotal),
		totalRow("delivery-charge", "Delivery charge", v.Totals.DeliveryCharge),
		totalRow("total-price", "Order total", v.Totals.GrandTotal),
		phoneForm(v.PhoneInput, v.PhoneNotice),
	)

	submit := el("button", "submit-order", "", "Place order")
	if v.CanSubmit {
		submit.onClick(Intent{Kind: IntentSubmit})
	} else {
		submit.attr("disabled", "disabled")
	}
	menu.Append(submit)

	if v.SubmitNotice != "" {
		menu.Append(el("div", "submit-order-notice", "notice", v.SubmitNotice))
	}
	if v.Failure != nil {
		menu.Append(failure(v.Failure))
	}

	return menu
}

func menuItem(item domain.CatalogItem, qty int) *Node {
	base := "item-" + item.ID
	quantityID := base + "-quantity"

	div := el("div", base, "item-group", "").
		attr("data-price", domain.Pounds(item.Price)).
		attr("data-id", item.ID)

	picker := el("div", "", "quantity-picker", "").Append(
		el("div", quantityID+"-down", "quantity-change", "-").
			onClick(Intent{Kind: IntentDecrement, ItemID: item.ID}),
		el("div", quantityID, "item-quantity", strconv.Itoa(qty)),
		el("div", quantityID+"-up", "quantity-change", "+").
			onClick(Intent{Kind: IntentIncrement, ItemID: item.ID}),
	)

	title := el("div", "", "item-title", item.Name)
	if item.Size != "" {
		title.Append(el("span", "", "item-size", fmt.Sprintf(" (%s)", item.Size)))
	}

	div.Append(picker, el("div", base+"-price", "item-price", domain.FormatPrice(item.Price)), title)
	if item.Description != "" {
		div.Append(el("div", "", "item-description", item.Description))
	}
	return div
}

func totalRow(id, label string, pence int64) *Node {
	return el("div", id, "total-row", "").Append(
		el("div", id+"-value", "", domain.FormatPrice(pence)),
		el("div", id+"-label", "", label),
	)
}

func phoneForm(value, notice string) *Node {
	form := el("form", "phone-number-form", "", "").Append(
		el("label", "phone-number-label", "", "Please enter your phone number:").
			attr("for", "phone-number-input"),
		el("input", "phone-number-input", "", "").
			attr("type", "text").
			attr("value", value),
	)
	if notice != "" {
		form.Append(el("div", "phone-number-notice", "notice", notice))
	}
	return form
}

func failure(err error) *Node {
	return el("div", "submit-error", "error", fmt.Sprintf("Couldn't submit order: %v.", err)).Append(
		el("button", "submit-error-ok", "", "OK").onClick(Intent{Kind: IntentAcknowledge}),
	)
}

// RenderConfirmation draws the terminal "order received" screen.
func RenderConfirmation(c domain.Confirmation) *Node {
	list := el("ul", "order-list", "", "")
	for _, l := range c.Lines {
		list.Append(el("li", "", "", fmt.Sprintf("%d × %s", l.Quantity, l.Name)))
	}

	return el("div", "menu", "", "").Append(
		el("h1", "", "", "Order received"),
		el("div", "", "confirmation-message", fmt.Sprintf(
			"Thanks for your order! We've sent a confirmation text to you at %s. You're getting:",
			c.PhoneNumberDisplay)),
		list,
		el("div", "", "confirmation-message", fmt.Sprintf(
			"Your order total was %s.", domain.FormatPrice(c.GrandTotal))),
	)
}
