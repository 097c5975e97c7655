// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// RoutingJobCreated is the routing key for newly created jobs
const RoutingJobCreated = "job.created"

// Config holds broker settings
type Config struct {
	URL      string
	Exchange string
}

// JobCreated is the body of a job.created message
type JobCreated struct {
	Event      string        `json:"event"`
	OccurredAt time.Time     `json:"occurred_at"`
	Job        domain.Record `json:"job"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publishes job events to a topic exchange
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *logging.Logger
	clock    func() time.Time
}

// NewPublisher dials the broker and declares the exchange
func NewPublisher(cfg Config, logger *logging.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("event publisher connected", "exchange", cfg.Exchange)

	p := newPublisher(ch, cfg.Exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger *logging.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, logger: logger, clock: time.Now}
}

// PublishJobCreated publishes a persistent job.created message
func (p *Publisher) PublishJobCreated(ctx context.Context, job domain.Record) error {
	body, err := json.Marshal(JobCreated{
		Event:      RoutingJobCreated,
		OccurredAt: p.clock().UTC(),
		Job:        job,
	})
	if err != nil {
		return fmt.Errorf("encode job event: %w", err)
	}

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,        // exchange
		RoutingJobCreated, // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.clock(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("job event published", "job_id", job["id"], "body_size", len(body))
	return nil
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.logger.Warn("failed to close channel", "err", err)
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Noop discards events when no broker is configured
type Noop struct{}

func (Noop) PublishJobCreated(context.Context, domain.Record) error { return nil }

func (Noop) Close() error { return nil }
