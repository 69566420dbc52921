package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// Publisher serializes outcomes to JSON and routes them to the next queue.
// Every message is published persistent so it survives a broker restart.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher opens a dedicated channel for publishing
func NewPublisher(conn *Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch}, nil
}

// Publish marshals the message and publishes it to the given routing key
func (p *Publisher) Publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message for %s: %w", routingKey, err)
	}
	return p.PublishBody(ctx, routingKey, body, nil)
}

// PublishBody publishes a pre-serialized body, optionally with headers.
// Used by the consumer stage to forward original bodies unchanged.
func (p *Publisher) PublishBody(ctx context.Context, routingKey string, body []byte, headers amqp.Table) error {
	err := p.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s/%s: %w", Exchange, routingKey, err)
	}

	logger.Debug().Str("routingKey", routingKey).Int("bytes", len(body)).Msg("Message published")
	return nil
}

// PublishRaw routes an ingested record to the raw queue
func (p *Publisher) PublishRaw(ctx context.Context, message any) error {
	return p.Publish(ctx, QueueRaw, message)
}

// PublishValidated routes a passing outcome to the validated queue
func (p *Publisher) PublishValidated(ctx context.Context, message any) error {
	return p.Publish(ctx, QueueValidated, message)
}

// PublishTransformed routes a loaded entity to the transformed tracking queue
func (p *Publisher) PublishTransformed(ctx context.Context, message any) error {
	return p.Publish(ctx, QueueTransformed, message)
}

// PublishError routes a failing outcome to the error queue
func (p *Publisher) PublishError(ctx context.Context, message any) error {
	return p.Publish(ctx, QueueError, message)
}

// Close closes the publisher channel
func (p *Publisher) Close() error {
	if p.ch == nil {
		return nil
	}
	return p.ch.Close()
}
