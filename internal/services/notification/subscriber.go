package notification

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Aayushshr101/digital-menu-backend/internal/display"
	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/messaging"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// Source delivers status update messages.
type Source interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Subscriber handles notification messages
type Subscriber struct {
	consumer Source
	out      io.Writer
	logger   *logger.Logger
}

// NewSubscriber creates a new notification subscriber
func NewSubscriber(consumer Source, out io.Writer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		out:      out,
		logger:   log,
	}
}

// Start consumes notifications until ctx is done.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.consumer.StartConsuming(ctx, s.handleNotification)

	s.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)
	if closeErr := s.consumer.Close(); closeErr != nil {
		s.logger.Error("shutdown_failed", "Failed to close consumer", requestID, closeErr, nil)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handleNotification processes incoming status update notifications
func (s *Subscriber) handleNotification(_ context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.StatusUpdateMessage
	if err := messaging.Decode(body, &msg); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return err
	}

	s.logger.Debug("notification_received", "Received status update notification", requestID, map[string]interface{}{
		"order_number": msg.OrderNumber,
		"new_status":   string(msg.NewStatus),
		"changed_by":   msg.ChangedBy,
	})

	fmt.Fprintln(s.out, display.Status(msg.NewStatus)+" "+formatNotification(&msg))

	s.logger.Info("notification_displayed", "Notification displayed to user", requestID, map[string]interface{}{
		"order_number": msg.OrderNumber,
		"old_status":   string(msg.OldStatus),
		"new_status":   string(msg.NewStatus),
		"changed_by":   msg.ChangedBy,
		"timestamp":    msg.Timestamp.Format("2006-01-02 15:04:05"),
	})
	return nil
}

// formatNotification creates a human-readable notification message
func formatNotification(msg *models.StatusUpdateMessage) string {
	timestamp := msg.Timestamp.Format("2006-01-02 15:04:05")

	switch msg.NewStatus {
	case models.StatusPreparing:
		return fmt.Sprintf("🍳 [%s] Order %s is now being prepared by %s.", timestamp, msg.OrderNumber, msg.ChangedBy)
	case models.StatusServed:
		return fmt.Sprintf("🍽️ [%s] Order %s has been served. Enjoy your meal!", timestamp, msg.OrderNumber)
	case models.StatusComplete:
		return fmt.Sprintf("🎉 [%s] Order %s is complete. Thank you for dining with us!", timestamp, msg.OrderNumber)
	case models.StatusCancelled:
		return fmt.Sprintf("❌ [%s] Order %s has been cancelled.", timestamp, msg.OrderNumber)
	default:
		return fmt.Sprintf("📋 [%s] Order %s status changed from '%s' to '%s' by %s.",
			timestamp, msg.OrderNumber, msg.OldStatus, msg.NewStatus, msg.ChangedBy)
	}
}
