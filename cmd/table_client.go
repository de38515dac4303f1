package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/cart"
	"github.com/Aayushshr101/digital-menu-backend/internal/client"
	"github.com/Aayushshr101/digital-menu-backend/internal/config"
	"github.com/Aayushshr101/digital-menu-backend/internal/display"
	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/services/order"
	"github.com/Aayushshr101/digital-menu-backend/internal/statussync"
)

// addFlags collects repeated --add values.
type addFlags []string

func (a *addFlags) String() string {
	return strings.Join(*a, " ")
}

func (a *addFlags) Set(v string) error {
	*a = append(*a, v)
	return nil
}

// addSpec is one parsed --add value.
type addSpec struct {
	itemID  uuid.UUID
	choices [][2]string
}

// parseAddSpec parses "itemID" or "itemID:Group=Option,Group=Option".
func parseAddSpec(s string) (addSpec, error) {
	idPart, optsPart, hasOpts := strings.Cut(s, ":")
	id, err := uuid.Parse(strings.TrimSpace(idPart))
	if err != nil {
		return addSpec{}, models.ValidationError{Field: "add", Message: fmt.Sprintf("invalid item id %q", idPart)}
	}

	spec := addSpec{itemID: id}
	if !hasOpts {
		return spec, nil
	}
	for _, pair := range strings.Split(optsPart, ",") {
		group, option, ok := strings.Cut(pair, "=")
		group, option = strings.TrimSpace(group), strings.TrimSpace(option)
		if !ok || group == "" || option == "" {
			return addSpec{}, models.ValidationError{Field: "add", Message: fmt.Sprintf("expected Group=Option, got %q", pair)}
		}
		spec.choices = append(spec.choices, [2]string{group, option})
	}
	return spec, nil
}

// buildCart stages every spec against the menu.
func buildCart(menuItems []models.MenuItem, specs []addSpec) (*cart.Builder, error) {
	byID := make(map[uuid.UUID]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.ID] = item
	}

	b := cart.New()
	for _, spec := range specs {
		item, ok := byID[spec.itemID]
		if !ok {
			return nil, &models.NotFoundError{Resource: "menu item", ID: spec.itemID.String()}
		}
		if !item.IsAvailable {
			return nil, models.ValidationError{Field: "add", Message: fmt.Sprintf("%s is not available", item.Name)}
		}
		sel := cart.NewSelector(item)
		for _, c := range spec.choices {
			if err := sel.SelectOption(c[0], c[1]); err != nil {
				return nil, err
			}
		}
		b.AddCustomized(item, sel)
	}
	return b, nil
}

// runTableClient follows one order from a table: it optionally appends items, then
// prints every status change until the order closes or ctx is done.
func runTableClient(ctx context.Context, cfg *config.Config, log *logger.Logger, apiURL, rawOrderID string, additions []string) error {
	orderID, err := uuid.Parse(rawOrderID)
	if err != nil {
		return fmt.Errorf("--order must be a valid order id: %w", err)
	}

	specs := make([]addSpec, 0, len(additions))
	for _, a := range additions {
		spec, err := parseAddSpec(a)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	api := client.New(apiURL)

	current, err := api.FetchOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	fmt.Fprintln(os.Stdout, display.Order(current))

	if len(specs) > 0 {
		menuItems, err := api.FetchMenuItems(ctx)
		if err != nil {
			return fmt.Errorf("failed to load menu: %w", err)
		}
		b, err := buildCart(menuItems, specs)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, display.Cart(b.Lines()))

		next, err := order.NewAggregator(api, log, nil).Submit(ctx, current, b)
		if err != nil {
			return fmt.Errorf("failed to add items: %w", err)
		}
		current = next
		fmt.Fprintln(os.Stdout, display.Order(current))
	}

	loop := statussync.New(api,
		statussync.WithInterval(cfg.Sync.PollInterval),
		statussync.WithLogger(log),
		statussync.WithOnChange(func(c statussync.Change) {
			fmt.Fprintf(os.Stdout, "%s -> %s  %s\n", display.Status(c.OldStatus), display.Status(c.NewStatus), c.Order.OrderNumber)
		}),
	)

	final, err := loop.Run(ctx, current)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, display.Order(final))
	return nil
}
