package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"safenest/internal/model"
)

// ClinicMessagePublisher enqueues clinic-chat messages for asynchronous
// persistence, so the chat request never waits on MySQL.
type ClinicMessagePublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewClinicMessagePublisher(conn *amqp.Connection, queueName string) *ClinicMessagePublisher {
	return &ClinicMessagePublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ClinicMessagePublisher) Publish(ctx context.Context, msg model.ClinicMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal clinic message payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish clinic message failed: %w", err)
	}
	return nil
}
