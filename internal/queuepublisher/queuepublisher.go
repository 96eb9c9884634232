// Package queuepublisher publishes ticket lifecycle audit events to
// RabbitMQ. Errors are logged and returned so callers can choose to
// ignore a publish failure without interrupting the gatekeeper or
// lifecycle-engine request flow that triggered it.
package queuepublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/fahyen/ticket-exchange/internal/queue"
)

const eventQueue = "ticket.lifecycle"

// PublishTicketLifecycle publishes a TicketLifecycleEvent to the
// "ticket.lifecycle" queue. Publishing is best-effort: the caller's
// transition has already committed by the time this runs, so a
// publish failure is logged but never rolled back or retried inline.
func PublishTicketLifecycle(ctx context.Context, amqpURL string, event q.TicketLifecycleEvent) error {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		eventQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		log.Error().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", eventQueue, false, false, pub); err != nil {
		log.Error().Err(err).Msg("rabbitmq: publish failed")
		return err
	}

	return nil
}
