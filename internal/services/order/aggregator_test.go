package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aayushshr101/digital-menu-backend/internal/cart"
	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/metrics"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/pricing"
)

// memoryAppendStore applies appends the way the database does: increment, never overwrite.
type memoryAppendStore struct {
	orders map[uuid.UUID]*models.Order
	err    error
	calls  int
	deltas []models.Money
}

func newMemoryAppendStore(orders ...*models.Order) *memoryAppendStore {
	s := &memoryAppendStore{orders: map[uuid.UUID]*models.Order{}}
	for _, o := range orders {
		s.orders[o.ID] = o.Clone()
	}
	return s
}

func (s *memoryAppendStore) AppendItems(_ context.Context, id uuid.UUID, items []models.OrderLineItem, delta models.Money) (*models.Order, error) {
	s.calls++
	s.deltas = append(s.deltas, delta)
	if s.err != nil {
		return nil, s.err
	}
	stored, ok := s.orders[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "order", ID: id.String()}
	}
	if stored.Status.IsTerminal() {
		return nil, &models.InvalidStateError{OrderID: id.String(), Status: stored.Status, Op: "add items to"}
	}
	next := Next(stored, items, delta)
	s.orders[id] = next
	return next.Clone(), nil
}

func money(s string) models.Money { return models.MustMoney(s) }

func existingOrder(status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD_20240101_001",
		TableID:     uuid.New(),
		Status:      status,
		TotalAmount: money("100"),
		Items: []models.OrderLineItem{
			{Position: 1, Item: uuid.New(), Quantity: 4, Price: money("25")},
		},
		Version: 1,
	}
}

func newAggregator(store AppendStore) *Aggregator {
	return NewAggregator(store, logger.Discard(), metrics.New())
}

func TestSubmitAdditionIncrementsTotal(t *testing.T) {
	order := existingOrder(models.StatusPending)
	store := newMemoryAppendStore(order)
	agg := newAggregator(store)

	lines := []models.CartLine{{ID: "a", ItemID: uuid.New(), UnitPrice: money("25"), Quantity: 2}}

	next, err := agg.SubmitAddition(context.Background(), order, lines)
	require.NoError(t, err)

	assert.True(t, money("150").Equal(next.TotalAmount), next.TotalAmount.String())
	require.Len(t, next.Items, 2)
	assert.Equal(t, order.Items[0], next.Items[0])
	assert.Equal(t, 2, next.Items[1].Position)
	assert.True(t, money("50").Equal(store.deltas[0]))

	assert.True(t, money("100").Equal(order.TotalAmount), "input order must not be mutated")
	assert.Len(t, order.Items, 1)
}

func TestSubmitAdditionDoesNotMergeWithExistingLines(t *testing.T) {
	order := existingOrder(models.StatusPreparing)
	store := newMemoryAppendStore(order)
	agg := newAggregator(store)

	same := order.Items[0]
	lines := []models.CartLine{{ID: same.Item.String(), ItemID: same.Item, UnitPrice: same.Price, Quantity: 1}}

	next, err := agg.SubmitAddition(context.Background(), order, lines)
	require.NoError(t, err)
	require.Len(t, next.Items, 2)
	assert.Equal(t, 4, next.Items[0].Quantity)
	assert.Equal(t, 1, next.Items[1].Quantity)
}

func TestSubmitAdditionTotalMatchesRecompute(t *testing.T) {
	order := existingOrder(models.StatusServed)
	store := newMemoryAppendStore(order)
	agg := newAggregator(store)

	current := order
	batches := [][]models.CartLine{
		{{ItemID: uuid.New(), UnitPrice: money("0.10"), Quantity: 3}},
		{{ItemID: uuid.New(), UnitPrice: money("12.35"), Quantity: 1}, {ItemID: uuid.New(), UnitPrice: money("0.2"), Quantity: 7}},
	}
	for _, batch := range batches {
		next, err := agg.SubmitAddition(context.Background(), current, batch)
		require.NoError(t, err)
		current = next
	}

	assert.True(t, pricing.ItemsTotal(current.Items).Equal(current.TotalAmount))
	assert.Len(t, current.Items, 4)
}

func TestSubmitAdditionCarriesCustomizations(t *testing.T) {
	order := existingOrder(models.StatusPending)
	store := newMemoryAppendStore(order)
	agg := newAggregator(store)

	lines := []models.CartLine{{
		ItemID:    uuid.New(),
		UnitPrice: money("11.5"),
		Quantity:  1,
		Options:   models.Selections{"Size": {Name: "Large", Price: money("1.5")}},
	}}

	next, err := agg.SubmitAddition(context.Background(), order, lines)
	require.NoError(t, err)
	added := next.Items[1]
	require.Len(t, added.Customizations, 1)
	assert.Equal(t, models.Customization{OptionName: "Size", Selection: "Large", PriceAddition: money("1.5")}, added.Customizations[0])
	assert.True(t, money("11.5").Equal(added.Price))
}

func TestSubmitAdditionRejectsTerminalOrders(t *testing.T) {
	for _, status := range models.TerminalStatuses() {
		t.Run(string(status), func(t *testing.T) {
			order := existingOrder(status)
			store := newMemoryAppendStore(order)
			agg := newAggregator(store)

			_, err := agg.SubmitAddition(context.Background(), order, []models.CartLine{{ItemID: uuid.New(), UnitPrice: money("1"), Quantity: 1}})
			assert.ErrorIs(t, err, models.ErrInvalidState)
			assert.Zero(t, store.calls)
		})
	}
}

func TestSubmitAdditionEmptyIsNoop(t *testing.T) {
	order := existingOrder(models.StatusPending)
	store := newMemoryAppendStore(order)
	agg := newAggregator(store)

	next, err := agg.SubmitAddition(context.Background(), order, nil)
	require.NoError(t, err)
	assert.Same(t, order, next)
	assert.Zero(t, store.calls)
}

func TestSubmitAdditionPersistenceFailure(t *testing.T) {
	order := existingOrder(models.StatusPending)
	store := newMemoryAppendStore(order)
	store.err = errors.New("connection reset by peer")
	agg := newAggregator(store)

	next, err := agg.SubmitAddition(context.Background(), order, []models.CartLine{{ItemID: uuid.New(), UnitPrice: money("5"), Quantity: 1}})
	assert.Nil(t, next)
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.True(t, money("100").Equal(order.TotalAmount))
	assert.Len(t, order.Items, 1)
}

func TestSubmitAdditionStoreSeesConcurrentTerminal(t *testing.T) {
	order := existingOrder(models.StatusServed)
	store := newMemoryAppendStore(order)
	store.orders[order.ID].Status = models.StatusComplete
	agg := newAggregator(store)

	_, err := agg.SubmitAddition(context.Background(), order, []models.CartLine{{ItemID: uuid.New(), UnitPrice: money("5"), Quantity: 1}})
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.NotErrorIs(t, err, models.ErrPersistence)
}

func TestSubmitClearsCartOnlyOnSuccess(t *testing.T) {
	item := models.MenuItem{ID: uuid.New(), Name: "Tea", Price: money("2"), IsAvailable: true}

	t.Run("success", func(t *testing.T) {
		order := existingOrder(models.StatusPending)
		agg := newAggregator(newMemoryAppendStore(order))
		c := cart.New()
		c.AddLine(item, nil, models.Zero)

		next, err := agg.Submit(context.Background(), order, c)
		require.NoError(t, err)
		assert.Zero(t, c.Len())
		assert.True(t, money("102").Equal(next.TotalAmount))
	})

	t.Run("failure keeps cart", func(t *testing.T) {
		order := existingOrder(models.StatusPending)
		store := newMemoryAppendStore(order)
		store.err = errors.New("timeout")
		agg := newAggregator(store)
		c := cart.New()
		c.AddLine(item, nil, models.Zero)

		_, err := agg.Submit(context.Background(), order, c)
		assert.Error(t, err)
		assert.Equal(t, 1, c.Len())
	})
}

func TestAppendWithNilStoreResult(t *testing.T) {
	order := existingOrder(models.StatusPending)
	agg := newAggregator(appendFunc(func(context.Context, uuid.UUID, []models.OrderLineItem, models.Money) (*models.Order, error) {
		return nil, nil
	}))

	next, err := agg.Append(context.Background(), order, []models.OrderLineItem{{Item: uuid.New(), Quantity: 2, Price: money("25")}})
	require.NoError(t, err)
	assert.True(t, money("150").Equal(next.TotalAmount))
	assert.Equal(t, 2, next.Version)
}

type appendFunc func(context.Context, uuid.UUID, []models.OrderLineItem, models.Money) (*models.Order, error)

func (f appendFunc) AppendItems(ctx context.Context, id uuid.UUID, items []models.OrderLineItem, delta models.Money) (*models.Order, error) {
	return f(ctx, id, items, delta)
}
