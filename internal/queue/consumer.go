// Package queue contains the background consumer that listens to the
// ticket.lifecycle queue and writes structured audit logs.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const lifecycleQueueName = "ticket.lifecycle"

// StartLifecycleConsumer connects to RabbitMQ, declares the
// ticket.lifecycle queue (durable), and starts consuming audit
// messages. It runs a reconnect loop with exponential backoff and
// never returns under normal operation; processing errors are logged
// and the offending message is rejected without requeue so a single
// bad payload can't wedge the consumer.
func StartLifecycleConsumer(amqpURL string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(amqpURL)
		if err != nil {
			log.Error().Err(err).Dur("retry_in", backoff).Msg("lifecycle-consumer: dial failed")
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Error().Err(err).Msg("lifecycle-consumer: consume loop ended, reconnecting")
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("lifecycle-consumer: set QoS failed")
	}

	if _, err := ch.QueueDeclare(lifecycleQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(lifecycleQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Error().Err(err).Msg("lifecycle-consumer: handle message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev TicketLifecycleEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	log.Info().
		Str("ticket_id", ev.TicketID).
		Str("from", ev.FromStatus).
		Str("to", ev.ToStatus).
		Str("actor", ev.Actor).
		Time("occurred_at", ev.OccurredAt).
		Msg("ticket lifecycle transition")
	return nil
}
