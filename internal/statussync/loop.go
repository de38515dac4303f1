// Package statussync keeps a local view of an order's status current by polling.
//
// A Loop fetches the order on a fixed interval, reports a Change whenever the
// status differs from the last one observed, and stops once the order reaches
// a terminal status or its context is cancelled. A fetch that completes after
// cancellation is discarded.
package statussync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/metrics"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

const DefaultInterval = 3 * time.Second

// Fetcher loads the authoritative copy of an order.
type Fetcher interface {
	FetchOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id uuid.UUID) (*models.Order, error)

func (f FetcherFunc) FetchOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return f(ctx, id)
}

// Change describes an observed status transition.
type Change struct {
	OrderID   uuid.UUID
	OldStatus models.OrderStatus
	NewStatus models.OrderStatus
	Order     *models.Order
}

type Option func(*Loop)

// WithInterval overrides the poll interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithOnChange registers the status change callback. It runs on the loop goroutine.
func WithOnChange(fn func(Change)) Option {
	return func(l *Loop) { l.onChange = fn }
}

func WithLogger(log *logger.Logger) Option {
	return func(l *Loop) { l.logger = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loop) { l.metrics = m }
}

// Loop polls one order. It may be Run once.
type Loop struct {
	fetcher  Fetcher
	interval time.Duration
	onChange func(Change)
	logger   *logger.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	observed *models.Order
}

func New(fetcher Fetcher, opts ...Option) *Loop {
	l := &Loop{
		fetcher:  fetcher,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the configured poll period.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Snapshot returns a copy of the last observed order.
func (l *Loop) Snapshot() *models.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.observed.Clone()
}

// Run polls until the observed status is terminal (returning a nil error) or ctx
// is done (returning ctx.Err()). It returns the last observed order either way.
// No fetch is in flight once Run has returned.
func (l *Loop) Run(ctx context.Context, initial *models.Order) (*models.Order, error) {
	l.mu.Lock()
	l.observed = initial.Clone()
	l.mu.Unlock()

	if initial.Status.IsTerminal() {
		return l.Snapshot(), nil
	}

	requestID := logger.GenerateRequestID()
	l.logger.Debug("status_sync_started", "Status sync started", requestID, map[string]interface{}{
		"order_id":    initial.ID.String(),
		"status":      string(initial.Status),
		"interval_ms": l.interval.Milliseconds(),
	})

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return l.Snapshot(), ctx.Err()
		case <-ticker.C:
		}

		done, err := l.poll(ctx, initial.ID, requestID)
		if err != nil {
			return l.Snapshot(), err
		}
		if done {
			l.logger.Debug("status_sync_stopped", "Order reached a terminal status", requestID, map[string]interface{}{
				"order_id": initial.ID.String(),
			})
			return l.Snapshot(), nil
		}
	}
}

// poll performs one fetch. It reports done when the observed status is terminal and
// returns ctx.Err() if the loop was cancelled while the fetch was in flight.
func (l *Loop) poll(ctx context.Context, id uuid.UUID, requestID string) (bool, error) {
	fetched, err := l.fetcher.FetchOrder(ctx, id)
	if ctx.Err() != nil {
		l.metrics.SyncPoll("discarded")
		return false, ctx.Err()
	}

	if err != nil || fetched == nil {
		if err == nil {
			err = &models.NotFoundError{Resource: "order", ID: id.String()}
		}
		l.metrics.SyncPoll("error")
		l.logger.Warn("status_sync_fetch_failed", "Failed to fetch order status, will retry", requestID, map[string]interface{}{
			"order_id": id.String(),
			"error":    (&models.TransientFetchError{OrderID: id.String(), Err: err}).Error(),
		})
		return false, nil
	}
	l.metrics.SyncPoll("ok")

	l.mu.Lock()
	previous := l.observed.Status
	changed := fetched.Status != previous
	if changed {
		l.observed = fetched.Clone()
	}
	l.mu.Unlock()

	if changed {
		l.metrics.SyncChange()
		l.logger.Info("order_status_changed", "Order status changed", requestID, map[string]interface{}{
			"order_id":   id.String(),
			"old_status": string(previous),
			"new_status": string(fetched.Status),
		})
		if l.onChange != nil {
			l.onChange(Change{
				OrderID:   id,
				OldStatus: previous,
				NewStatus: fetched.Status,
				Order:     fetched.Clone(),
			})
		}
	}

	return fetched.Status.IsTerminal(), nil
}
