package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/pricing"
)

const (
	MaxLinesPerRequest = 50
	MaxQuantity        = 50
	MaxNotesLength     = 200

	// MaxPriceScale matches the NUMERIC(10,2) price columns.
	MaxPriceScale = 2
)

type ValidationError = models.ValidationError

// ValidateCreateOrderRequest checks the request shape. Catalog checks happen in ValidateAgainstCatalog.
func ValidateCreateOrderRequest(req *models.CreateOrderRequest) error {
	if req.TableID == uuid.Nil {
		return ValidationError{Field: "table", Message: "table is required"}
	}
	if len(req.Items) == 0 {
		return ValidationError{Field: "items", Message: "items cannot be empty"}
	}
	return ValidateItems(req.Items)
}

// ValidateItems checks each line's shape. An empty list is valid.
func ValidateItems(items []models.OrderLineItem) error {
	if len(items) > MaxLinesPerRequest {
		return ValidationError{
			Field:   "items",
			Message: fmt.Sprintf("a maximum of %d lines is allowed per request", MaxLinesPerRequest),
		}
	}

	for i, item := range items {
		if err := validateItem(item, i); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(item models.OrderLineItem, index int) error {
	field := func(name string) string { return fmt.Sprintf("items[%d].%s", index, name) }

	if item.Item == uuid.Nil {
		return ValidationError{Field: field("item"), Message: "menu item is required"}
	}

	if item.Quantity < 1 {
		return ValidationError{Field: field("quantity"), Message: "item quantity must be at least 1"}
	}

	if item.Quantity > MaxQuantity {
		return ValidationError{
			Field:   field("quantity"),
			Message: fmt.Sprintf("item quantity must be less than or equal to %d", MaxQuantity),
		}
	}

	if item.Price.IsNegative() {
		return ValidationError{Field: field("price"), Message: "item price cannot be negative"}
	}

	if exceedsScale(item.Price) {
		return ValidationError{Field: field("price"), Message: scaleMessage}
	}

	if len(item.Notes) > MaxNotesLength {
		return ValidationError{
			Field:   field("notes"),
			Message: fmt.Sprintf("notes must be at most %d characters", MaxNotesLength),
		}
	}

	seen := make(map[string]bool, len(item.Customizations))
	for j, c := range item.Customizations {
		if c.OptionName == "" || c.Selection == "" {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].customizations[%d]", index, j),
				Message: "option name and selection are required",
			}
		}
		if c.PriceAddition.IsNegative() || exceedsScale(c.PriceAddition) {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].customizations[%d].price_addition", index, j),
				Message: "price addition must be a non-negative amount with at most 2 decimal places",
			}
		}
		if seen[c.OptionName] {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].customizations[%d]", index, j),
				Message: fmt.Sprintf("option %q selected more than once", c.OptionName),
			}
		}
		seen[c.OptionName] = true
	}

	return nil
}

// ValidateAgainstCatalog checks that every line names an available menu item, that each
// selection exists with the advertised price addition, and that the unit price equals the
// base price plus the additions.
func ValidateAgainstCatalog(items []models.OrderLineItem, catalog map[uuid.UUID]models.MenuItem) error {
	for i, line := range items {
		menuItem, ok := catalog[line.Item]
		if !ok {
			return ValidationError{Field: fmt.Sprintf("items[%d].item", i), Message: "menu item does not exist"}
		}
		if !menuItem.IsAvailable {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].item", i),
				Message: fmt.Sprintf("%s is currently unavailable", menuItem.Name),
			}
		}

		if exceedsScale(menuItem.Price) {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].item", i),
				Message: fmt.Sprintf("%s has a menu price with more than %d decimal places", menuItem.Name, MaxPriceScale),
			}
		}

		selections := models.Selections{}
		for j, c := range line.Customizations {
			field := fmt.Sprintf("items[%d].customizations[%d]", i, j)

			group, ok := menuItem.Group(c.OptionName)
			if !ok {
				return ValidationError{Field: field, Message: fmt.Sprintf("%s has no option %q", menuItem.Name, c.OptionName)}
			}
			opt, ok := group.Option(c.Selection)
			if !ok {
				return ValidationError{Field: field, Message: fmt.Sprintf("unknown selection %q for %s", c.Selection, c.OptionName)}
			}
			if exceedsScale(opt.PriceAddition) {
				return ValidationError{
					Field:   field + ".price_addition",
					Message: fmt.Sprintf("menu price addition for %q has more than %d decimal places", opt.Name, MaxPriceScale),
				}
			}
			if !opt.PriceAddition.Equal(c.PriceAddition) {
				return ValidationError{Field: field + ".price_addition", Message: "price addition does not match the menu"}
			}
			selections[c.OptionName] = models.Selection{Name: opt.Name, Price: opt.PriceAddition}
		}

		if want := pricing.UnitPrice(menuItem, selections); !want.Equal(line.Price) {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: fmt.Sprintf("unit price must be %s", pricing.Display(want)),
			}
		}
	}

	return nil
}

const scaleMessage = "price must have at most 2 decimal places"

// exceedsScale reports whether m would be rounded when stored.
func exceedsScale(m models.Money) bool {
	return !m.Equal(m.Round(MaxPriceScale))
}
