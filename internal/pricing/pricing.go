// Package pricing computes line, cart, and customization totals.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// LineTotal is unit price times quantity.
func LineTotal(line models.CartLine) models.Money {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// CartTotal sums LineTotal over lines. An empty cart totals zero.
func CartTotal(lines []models.CartLine) models.Money {
	total := models.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

// CustomizationTotal sums one price addition per selected group.
func CustomizationTotal(selections models.Selections) models.Money {
	total := models.Zero
	for _, sel := range selections {
		total = total.Add(sel.Price)
	}
	return total
}

// ItemTotal is the persisted-line counterpart of LineTotal.
func ItemTotal(item models.OrderLineItem) models.Money {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// ItemsTotal recomputes a total from scratch over persisted lines.
func ItemsTotal(items []models.OrderLineItem) models.Money {
	total := models.Zero
	for _, item := range items {
		total = total.Add(ItemTotal(item))
	}
	return total
}

// UnitPrice is a menu item's base price plus its selected additions.
func UnitPrice(item models.MenuItem, selections models.Selections) models.Money {
	return item.Price.Add(CustomizationTotal(selections))
}

// Display formats an amount with two decimals.
func Display(m models.Money) string {
	return m.StringFixed(2)
}
