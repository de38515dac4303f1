package kitchen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/display"
	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/messaging"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

const shutdownTimeout = 5 * time.Second

// TicketSource delivers kitchen tickets.
type TicketSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// StatusChanger applies guarded order status transitions.
type StatusChanger interface {
	TransitionStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus, changedBy, notes, requestID string) (*models.Order, error)
}

// Worker represents a kitchen station. It prints incoming tickets and starts
// preparing new orders.
type Worker struct {
	name              string
	heartbeatInterval time.Duration

	store    WorkerStore
	consumer TicketSource
	orders   StatusChanger
	out      io.Writer
	logger   *logger.Logger
}

// NewWorker creates a new kitchen worker
func NewWorker(name string, heartbeatInterval time.Duration, store WorkerStore, consumer TicketSource,
	orders StatusChanger, out io.Writer, log *logger.Logger) *Worker {
	return &Worker{
		name:              name,
		heartbeatInterval: heartbeatInterval,
		store:             store,
		consumer:          consumer,
		orders:            orders,
		out:               out,
		logger:            log,
	}
}

// Start registers the worker and consumes tickets until ctx is done.
func (w *Worker) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	if err := w.register(ctx, requestID); err != nil {
		return err
	}

	go w.heartbeatLoop(ctx)

	w.logger.Info("worker_started", fmt.Sprintf("Kitchen worker %s started", w.name), requestID, map[string]interface{}{
		"worker_name":        w.name,
		"heartbeat_interval": w.heartbeatInterval.Seconds(),
	})

	err := w.consumer.StartConsuming(ctx, w.handleTicket)
	w.gracefulShutdown(requestID)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *Worker) register(ctx context.Context, requestID string) error {
	online, err := w.store.IsOnline(ctx, w.name, 2*w.heartbeatInterval)
	if err != nil {
		return err
	}
	if online {
		w.logger.Error("worker_registration_failed", "Worker with same name is already online", requestID, nil, map[string]interface{}{
			"worker_name": w.name,
		})
		return fmt.Errorf("worker %s is already online", w.name)
	}

	if err := w.store.Register(ctx, w.name); err != nil {
		return err
	}

	w.logger.Info("worker_registered", fmt.Sprintf("Worker %s registered successfully", w.name), requestID, map[string]interface{}{
		"worker_name": w.name,
	})
	return nil
}

// handleTicket prints the ticket and moves a new pending order to preparing.
func (w *Worker) handleTicket(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var ticket models.KitchenTicket
	if err := messaging.Decode(body, &ticket); err != nil {
		w.logger.Error("message_parsing_failed", "Failed to parse kitchen ticket", requestID, err, nil)
		return err
	}

	w.logger.Debug("ticket_received", fmt.Sprintf("Ticket for order %s", ticket.OrderNumber), requestID, map[string]interface{}{
		"order_number": ticket.OrderNumber,
		"addition":     ticket.Addition,
		"lines":        len(ticket.Items),
	})

	fmt.Fprintln(w.out, display.Ticket(&ticket))

	if err := w.store.TicketAccepted(ctx, w.name); err != nil {
		w.logger.Error("worker_update_failed", "Failed to record accepted ticket", requestID, err, nil)
	}

	if ticket.Addition {
		return nil
	}

	_, err := w.orders.TransitionStatus(ctx, ticket.OrderID, models.StatusPreparing, w.name,
		fmt.Sprintf("accepted by %s", w.name), requestID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrInvalidState):
		// Staff moved or cancelled the order first.
		w.logger.Debug("ticket_status_skipped", "Order already left pending", requestID, map[string]interface{}{
			"order_number": ticket.OrderNumber,
		})
		return nil
	case errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("%w: order %s not found", messaging.ErrPoison, ticket.OrderID)
	default:
		return fmt.Errorf("failed to start preparing order %s: %w", ticket.OrderNumber, err)
	}
}

// heartbeatLoop sends periodic heartbeats to update last_seen
func (w *Worker) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(w.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.store.SetStatus(ctx, w.name, models.WorkerOnline); err != nil {
				w.logger.Error("heartbeat_failed", "Failed to send heartbeat", "", err, nil)
			} else {
				w.logger.Debug("heartbeat_sent", "Heartbeat sent successfully", "", nil)
			}
		}
	}
}

// gracefulShutdown marks the worker offline. It runs after ctx is done, so it uses its own deadline.
func (w *Worker) gracefulShutdown(requestID string) {
	w.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := w.store.SetStatus(ctx, w.name, models.WorkerOffline); err != nil {
		w.logger.Error("shutdown_failed", "Failed to update worker status to offline", requestID, err, nil)
	}

	if err := w.consumer.Close(); err != nil {
		w.logger.Error("shutdown_failed", "Failed to close consumer", requestID, err, nil)
	}

	w.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
}
