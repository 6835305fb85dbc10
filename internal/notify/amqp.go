package notify

import (
	"context"
	"fmt"

	"github.com/streadway/amqp"
)

// publisher is the subset of *amqp.Channel the notifier needs.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPNotifier publishes events to a durable topic exchange.
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  publisher
	exchange string
}

// DialAMQP connects to the broker at url and declares exchange.
func DialAMQP(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %q: %w", exchange, err)
	}
	return &AMQPNotifier{conn: conn, channel: ch, exchange: exchange}, nil
}

func newAMQPNotifier(ch publisher, exchange string) *AMQPNotifier {
	return &AMQPNotifier{channel: ch, exchange: exchange}
}

func (n *AMQPNotifier) Notify(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", e.Kind, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         e.Kind,
		Body:         body,
	}
	if err := n.channel.Publish(n.exchange, e.RoutingKey(), false, false, msg); err != nil {
		return fmt.Errorf("publishing %s event: %w", e.Kind, err)
	}
	return nil
}

func (n *AMQPNotifier) Close() error {
	err := n.channel.Close()
	if n.conn != nil {
		if cerr := n.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
