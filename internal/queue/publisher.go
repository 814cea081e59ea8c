package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers activity events.  Publishing is best effort:
// callers log the returned error and carry on, since the write that
// produced the event has already committed.
type Publisher interface {
	Publish(ctx context.Context, ev ActivityEvent) error
}

// NewPublisher returns an AMQP publisher for url, or a no-op publisher
// when url is empty.
func NewPublisher(url string) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return &AMQPPublisher{URL: url, Queue: ActivityQueueName}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ActivityEvent) error { return nil }

// AMQPPublisher dials the broker for each publish.  Activity volume is a
// handful of events per booking, so a connection per message keeps the
// publisher stateless.
type AMQPPublisher struct {
	URL   string
	Queue string
}

// Publish sends ev as a persistent JSON message to the activity queue.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ActivityEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	msg, err := newPublishing(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, msg); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

func newPublishing(ev ActivityEvent) (amqp.Publishing, error) {
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         ev.Kind,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}, nil
}
