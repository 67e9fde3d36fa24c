package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
)

// Client wraps a RabbitMQ connection with one direct exchange and the
// two durable queues this app publishes to. Publishes go through a
// circuit breaker so a dead broker fails fast instead of blocking
// every request.
type Client struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	url           string
	exchangeName  string
	progressQueue string
	reportQueue   string

	failureCount int64
	state        int32
	lastFailure  int64 // UnixNano, atomic like the other breaker fields
}

func NewClient(url, exchangeName, progressQueue, reportQueue string) (*Client, error) {
	client := &Client{
		url:           url,
		exchangeName:  exchangeName,
		progressQueue: progressQueue,
		reportQueue:   reportQueue,
	}

	if err := client.connect(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.conn = conn
	c.channel = channel

	if err := c.setup(); err != nil {
		c.closeLocked()
		return fmt.Errorf("setup exchange and queues: %w", err)
	}

	return nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.progressQueue, c.reportQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// routing key is the queue name on a direct exchange
		err = c.channel.QueueBind(queue, queue, c.exchangeName, false, nil)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

// PublishGoalProgress publishes a goal progress message for a stored
// check-in.
func (c *Client) PublishGoalProgress(ctx context.Context, goalID, checkInID, addedCents int64) error {
	msg := NewGoalProgressMessage(goalID, checkInID, addedCents)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, c.progressQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published goal progress message",
		"goal_id", goalID,
		"check_in_id", checkInID,
		"added_cents", addedCents,
		"queue", c.progressQueue)
	return nil
}

// PublishReportExport publishes a report export request for a month.
func (c *Client) PublishReportExport(ctx context.Context, year, month int) error {
	msg := NewReportExportMessage(year, month)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, c.reportQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published report export message",
		"year", year,
		"month", month,
		"queue", c.reportQueue)
	return nil
}

func (c *Client) publish(ctx context.Context, queue string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("circuit breaker is open, refusing to publish to %s", queue)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		c.recordFailure()
		return fmt.Errorf("publish to %s: connection closed", queue)
	}

	err := channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		queue,          // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		if isConnectionError(err) {
			c.recordFailure()
		}
		return fmt.Errorf("publish message: %w", err)
	}

	c.recordSuccess()
	return nil
}

// ConsumeGoalProgress consumes goal progress messages until the
// context is cancelled, reconnecting with backoff on broker failures.
func (c *Client) ConsumeGoalProgress(ctx context.Context, handler func(*GoalProgressMessage) error) error {
	return c.consume(ctx, c.progressQueue, func(body []byte) error {
		msg, err := GoalProgressMessageFromJSON(body)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
		return handler(msg)
	})
}

// ConsumeReportExport consumes report export messages until the
// context is cancelled.
func (c *Client) ConsumeReportExport(ctx context.Context, handler func(*ReportExportMessage) error) error {
	return c.consume(ctx, c.reportQueue, func(body []byte) error {
		msg, err := ReportExportMessageFromJSON(body)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
		return handler(msg)
	})
}

var errBadMessage = fmt.Errorf("malformed message")

func (c *Client) consume(ctx context.Context, queue string, handle func([]byte) error) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.consumeOnce(ctx, queue, handle)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}

		wait := exponentialBackoff(attempt)
		attempt++
		slog.WarnContext(ctx, "Consume loop failed, reconnecting",
			"queue", queue,
			"error", err,
			"wait", wait,
			"attempt", attempt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		c.mu.Lock()
		c.closeLocked()
		err = c.connect()
		c.mu.Unlock()
		if err != nil {
			slog.ErrorContext(ctx, "Reconnect failed", "queue", queue, "error", err)
			continue
		}
		attempt = 0
	}
}

func (c *Client) consumeOnce(ctx context.Context, queue string, handle func([]byte) error) error {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		return fmt.Errorf("connection closed")
	}

	msgs, err := channel.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack, we ack manually
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming", "queue", queue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "queue", queue, "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			if err := handle(delivery.Body); err != nil {
				if errors.Is(err, errBadMessage) {
					slog.ErrorContext(ctx, "Dropping malformed message", "queue", queue, "error", err)
					delivery.Nack(false, false)
					continue
				}
				slog.ErrorContext(ctx, "Failed to handle message, requeueing", "queue", queue, "error", err)
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// --- circuit breaker ---

func (c *Client) isCircuitOpen() bool {
	state := atomic.LoadInt32(&c.state)
	if state != StateOpen {
		return false
	}
	last := time.Unix(0, atomic.LoadInt64(&c.lastFailure))
	if time.Since(last) > openTimeout {
		atomic.StoreInt32(&c.state, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	count := atomic.AddInt64(&c.failureCount, 1)
	atomic.StoreInt64(&c.lastFailure, time.Now().UnixNano())
	if count >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func exponentialBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		return 30 * time.Second
	}
	return backoff
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection closed",
		"EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
