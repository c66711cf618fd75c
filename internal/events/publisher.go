package events

import (
	"context"
	"fmt"
	"sync"

	"lot-bidding/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

//go:generate mockgen -source=publisher.go -destination=mock_publisher.go -package=events

// Publisher delivers events. Delivery is best effort; callers log failures
// and never roll back the state change an event describes.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// LogPublisher writes events to the structured log.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	utils.Info("event published", e.Fields())
	return nil
}

// amqpChannel is the subset of *amqp.Channel the publisher uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to a durable topic exchange keyed by event type.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	codec    Codec
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string, codec Codec) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	p, err := newAMQPPublisher(ch, exchange, codec)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, exchange string, codec Codec) (*AMQPPublisher, error) {
	err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{channel: ch, exchange: exchange, codec: codec}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := p.codec.Encode(e)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", e.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		string(e.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  p.codec.ContentType(),
			DeliveryMode: amqp.Persistent,
			MessageId:    e.EventID,
			Timestamp:    e.OccurredAt,
			Type:         string(e.Type),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish %s for lot %s: %w", e.Type, e.LotID, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
