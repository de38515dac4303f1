package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
)

const handleTimeout = 30 * time.Second

// MessageHandler processes one delivery body. A nil return acks the message.
type MessageHandler func(ctx context.Context, body []byte) error

// ErrPoison marks a message that can never be processed; it is dropped instead of requeued.
var ErrPoison = errors.New("unprocessable message")

// Consumer reads one queue with manual acknowledgements.
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int
}

func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming blocks, dispatching deliveries to handler until ctx is done.
// A closed delivery channel triggers a reconnect.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	for {
		err := c.consume(ctx, handler)
		if ctx.Err() != nil {
			c.logger.Info("consumer_stopped", "Consumer stopped by context", "", nil)
			return ctx.Err()
		}
		if err != nil {
			return err
		}

		c.logger.Error("consumer_channel_closed", "Message channel closed, attempting to reconnect", "", nil, nil)
		if err := c.conn.Reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect after channel closed: %w", err)
		}
	}
}

// consume returns nil when the delivery channel closes.
func (c *Consumer) consume(ctx context.Context, handler MessageHandler) error {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	ch := c.conn.Channel()
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(c.queueName, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("consumer_started",
		fmt.Sprintf("Started consuming from queue %s", c.queueName),
		"", map[string]interface{}{
			"queue":    c.queueName,
			"consumer": c.consumerTag,
			"prefetch": c.prefetch,
		})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

// acker is the subset of amqp091.Delivery used to settle a message.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) processMessage(ctx context.Context, d amqp091.Delivery, handler MessageHandler) {
	c.settle(ctx, &d, d.Body, d.RoutingKey, handler)
}

func (c *Consumer) settle(ctx context.Context, d acker, body []byte, routingKey string, handler MessageHandler) {
	start := time.Now()

	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	err := handler(handleCtx, body)
	fields := map[string]interface{}{
		"queue":       c.queueName,
		"routing_key": routingKey,
		"duration_ms": time.Since(start).Milliseconds(),
	}

	if err == nil {
		c.logger.Debug("message_processed", "Successfully processed message", "", fields)
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Error("message_ack_failed", "Failed to ack message", "", ackErr, nil)
		}
		return
	}

	requeue := !errors.Is(err, ErrPoison)
	fields["requeue"] = requeue
	c.logger.Error("message_processing_failed", "Failed to process message", "", err, fields)

	if nackErr := d.Nack(false, requeue); nackErr != nil {
		c.logger.Error("message_nack_failed", "Failed to nack message", "", nackErr, nil)
	}
}

// Close cancels the consumer and closes the connection.
func (c *Consumer) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	if err := c.conn.Channel().Cancel(c.consumerTag, false); err != nil {
		c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", "", err, nil)
	}
	return c.conn.Close()
}

// Decode unmarshals a JSON body, marking malformed input as poison.
func Decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrPoison, err)
	}
	return nil
}
