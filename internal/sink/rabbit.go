package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/metdatasystem/chprotolist/internal/config"
	"github.com/metdatasystem/chprotolist/internal/payload"
	amqp "github.com/rabbitmq/amqp091-go"
)

const appID = "chprotolist"

// Rabbit publishes payloads to a durable queue, for a ClickHouse RabbitMQ
// engine table.
type Rabbit struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewRabbit(cfg config.Rabbit) (*Rabbit, error) {
	if cfg.URL == "" {
		return nil, errors.New("RABBIT_URL is not set")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbit: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialise rabbit channel: %w", err)
	}

	q, err := declareQueue(ch, cfg.Queue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", cfg.Queue, err)
	}

	return &Rabbit{conn: conn, channel: ch, queue: q.Name}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func publishing(p payload.Payload, now time.Time) amqp.Publishing {
	return amqp.Publishing{
		ContentType: p.Format.ContentType(),
		Timestamp:   now,
		AppId:       appID,
		Headers:     amqp.Table{"rows": int32(p.Rows)},
		Body:        p.Data,
	}
}

func (r *Rabbit) Write(ctx context.Context, p payload.Payload) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(ctx,
		"",      // exchange
		r.queue, // routing key
		false,   // mandatory
		false,   // immediate
		publishing(p, time.Now()))
}

func (r *Rabbit) Close() error {
	return errors.Join(r.channel.Close(), r.conn.Close())
}
