// Package order places orders and appends to them while they are open.
package order

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/cart"
	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/metrics"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/pricing"
)

// AppendStore persists new lines on an order and adds delta to its stored total.
// It returns ErrInvalidState if the order became terminal and ErrNotFound if it is gone.
// A nil order with a nil error means the caller should assume the write applied as sent.
type AppendStore interface {
	AppendItems(ctx context.Context, orderID uuid.UUID, items []models.OrderLineItem, delta models.Money) (*models.Order, error)
}

// Aggregator appends lines to an existing order. Existing lines are never merged or
// repriced, and the total grows by exactly the sum of the new lines.
type Aggregator struct {
	store   AppendStore
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewAggregator(store AppendStore, log *logger.Logger, m *metrics.Metrics) *Aggregator {
	return &Aggregator{store: store, logger: log, metrics: m}
}

// Submit sends the cart's lines and clears the cart once the store confirms the write.
// On error the cart is left as it was so the customer can retry.
func (a *Aggregator) Submit(ctx context.Context, order *models.Order, c *cart.Builder) (*models.Order, error) {
	next, err := a.SubmitAddition(ctx, order, c.Lines())
	if err != nil {
		return nil, err
	}
	c.Clear()
	return next, nil
}

// SubmitAddition appends cart lines to order.
func (a *Aggregator) SubmitAddition(ctx context.Context, order *models.Order, lines []models.CartLine) (*models.Order, error) {
	items := make([]models.OrderLineItem, len(lines))
	for i, line := range lines {
		items[i] = line.ToOrderLineItem()
	}
	return a.Append(ctx, order, items)
}

// Append adds already-priced lines to order. order itself is never modified; the returned
// order is the persisted result. An empty items list is a no-op that returns order.
func (a *Aggregator) Append(ctx context.Context, order *models.Order, items []models.OrderLineItem) (*models.Order, error) {
	if order.Status.IsTerminal() {
		a.metrics.AppendFailed("terminal")
		return nil, &models.InvalidStateError{OrderID: order.ID.String(), Status: order.Status, Op: "add items to"}
	}

	if len(items) == 0 {
		return order, nil
	}

	delta := pricing.ItemsTotal(items)

	persisted, err := a.store.AppendItems(ctx, order.ID, items, delta)
	if err != nil {
		if errors.Is(err, models.ErrInvalidState) || errors.Is(err, models.ErrNotFound) {
			a.metrics.AppendFailed("rejected")
			return nil, err
		}
		a.metrics.AppendFailed("persistence")
		a.logger.Error("order_append_failed", "Failed to persist order addition", "", err, map[string]interface{}{
			"order_id": order.ID.String(),
			"lines":    len(items),
		})
		return nil, &models.PersistenceError{Op: "append order items", Err: err}
	}

	if persisted == nil {
		persisted = Next(order, items, delta)
	}

	a.metrics.LinesAppended(len(items))
	a.logger.Info("order_items_appended", "Appended items to order", "", map[string]interface{}{
		"order_id":     order.ID.String(),
		"lines":        len(items),
		"delta":        delta.String(),
		"total_amount": persisted.TotalAmount.String(),
	})

	return persisted, nil
}

// Next returns order with items appended after the existing lines and delta added to the total.
func Next(order *models.Order, items []models.OrderLineItem, delta models.Money) *models.Order {
	next := order.Clone()

	position := 0
	for _, existing := range order.Items {
		if existing.Position > position {
			position = existing.Position
		}
	}

	for _, item := range items {
		position++
		item.Position = position
		next.Items = append(next.Items, item)
	}

	next.TotalAmount = order.TotalAmount.Add(delta)
	next.Version = order.Version + 1
	return next
}
