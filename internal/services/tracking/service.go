package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/metrics"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
	"github.com/Aayushshr101/digital-menu-backend/internal/statussync"
)

// DefaultHeartbeatInterval is how often kitchen workers report in.
const DefaultHeartbeatInterval = 30 * time.Second

// WorkerStatusResponse is a worker as reported by GET /workers/status.
type WorkerStatusResponse struct {
	WorkerName      string              `json:"worker_name"`
	Status          models.WorkerStatus `json:"status"`
	TicketsAccepted int                 `json:"tickets_accepted"`
	LastSeen        time.Time           `json:"last_seen"`
}

// Service provides tracking functionality
type Service struct {
	store     Store
	orders    statussync.Fetcher
	logger    *logger.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	heartbeat time.Duration
	now       func() time.Time
}

// NewService creates a tracking service. orders is the source the status stream polls.
func NewService(store Store, orders statussync.Fetcher, log *logger.Logger, m *metrics.Metrics, pollInterval time.Duration) *Service {
	return &Service{
		store:     store,
		orders:    orders,
		logger:    log,
		metrics:   m,
		interval:  pollInterval,
		heartbeat: DefaultHeartbeatInterval,
		now:       time.Now,
	}
}

// GetOrderHistory returns every status the order has held, oldest first.
func (s *Service) GetOrderHistory(ctx context.Context, id uuid.UUID, requestID string) ([]models.StatusLogEntry, error) {
	exists, err := s.store.OrderExists(ctx, id)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to check order existence", requestID, err, map[string]interface{}{
			"order_id": id.String(),
		})
		return nil, &models.PersistenceError{Op: "load order history", Err: err}
	}
	if !exists {
		return nil, &models.NotFoundError{Resource: "order", ID: id.String()}
	}

	history, err := s.store.History(ctx, id)
	if err != nil {
		return nil, &models.PersistenceError{Op: "load order history", Err: err}
	}
	if history == nil {
		history = []models.StatusLogEntry{}
	}
	return history, nil
}

// GetWorkerStatus lists kitchen workers, reporting stale heartbeats as offline.
func (s *Service) GetWorkerStatus(ctx context.Context, requestID string) ([]WorkerStatusResponse, error) {
	workers, err := s.store.Workers(ctx)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to query worker status", requestID, err, nil)
		return nil, &models.PersistenceError{Op: "list workers", Err: err}
	}

	now := s.now()
	out := make([]WorkerStatusResponse, 0, len(workers))
	for _, w := range workers {
		out = append(out, WorkerStatusResponse{
			WorkerName:      w.Name,
			Status:          w.EffectiveStatus(s.heartbeat, now),
			TicketsAccepted: w.TicketsAccepted,
			LastSeen:        w.LastSeen,
		})
	}
	return out, nil
}

// HealthCheck checks the health of dependencies
func (s *Service) HealthCheck(ctx context.Context) bool {
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Database ping failed", "", err, nil)
		return false
	}
	return true
}

// FetchOrder loads the current order.
func (s *Service) FetchOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.orders.FetchOrder(ctx, id)
}

// NewLoop builds a status sync loop over the service's order source.
func (s *Service) NewLoop(onChange func(statussync.Change)) *statussync.Loop {
	return statussync.New(s.orders,
		statussync.WithInterval(s.interval),
		statussync.WithOnChange(onChange),
		statussync.WithLogger(s.logger),
		statussync.WithMetrics(s.metrics),
	)
}
