package rabbitmq_consumer

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mdbo/porto-houses-web-scraper/pkg/rabbitmq/rabbitmq_common"
)

// MessageHandler processes one delivery. The returns drive acknowledgement:
// ack=true confirms the message; ack=false rejects it, requeueing only when
// requeueOnError is set (transient failures) and dropping it otherwise
// (malformed payloads).
type MessageHandler func(d amqp.Delivery) (ack bool, requeueOnError bool, err error)

// ConsumerConfig configures a queue consumer and its optional declarations.
type ConsumerConfig struct {
	rabbitmq_common.Config

	QueueName    string
	DurableQueue bool
	DeclareQueue bool

	// Binding of the queue to an existing exchange; both empty skips binding.
	ExchangeNameForBind string
	RoutingKeyForBind   string

	PrefetchCount int
	ConsumerTag   string
}

// Consumer wraps one AMQP connection and channel consuming a single queue.
type Consumer struct {
	config     ConsumerConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	handler    MessageHandler
}

// NewConsumer connects, declares/binds the queue per the config and prepares
// the channel. Consumption starts with StartConsuming.
func NewConsumer(cfg ConsumerConfig, handler MessageHandler) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid base config: %w", err)
	}
	if cfg.QueueName == "" {
		return nil, fmt.Errorf("consumer: queue name is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}

	c := &Consumer{config: cfg, handler: handler}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to dial RabbitMQ: %w", err)
	}
	c.connection = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("consumer: failed to open a channel: %w", err)
	}
	c.channel = ch

	if cfg.DeclareQueue {
		_, err = ch.QueueDeclare(
			cfg.QueueName,
			cfg.DurableQueue,
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			c.closeQuietly()
			return nil, fmt.Errorf("consumer: failed to declare queue '%s': %w", cfg.QueueName, err)
		}
	}

	if cfg.ExchangeNameForBind != "" && cfg.RoutingKeyForBind != "" {
		err = ch.QueueBind(
			cfg.QueueName,
			cfg.RoutingKeyForBind,
			cfg.ExchangeNameForBind,
			false, // no-wait
			nil,
		)
		if err != nil {
			c.closeQuietly()
			return nil, fmt.Errorf("consumer: failed to bind queue '%s' to exchange '%s': %w",
				cfg.QueueName, cfg.ExchangeNameForBind, err)
		}
	}

	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			c.closeQuietly()
			return nil, fmt.Errorf("consumer: failed to set QoS: %w", err)
		}
	}

	return c, nil
}

// StartConsuming blocks, dispatching deliveries to the handler until the
// context is cancelled (returns nil) or the delivery channel closes
// unexpectedly (returns an error).
func (c *Consumer) StartConsuming(ctx context.Context) error {
	deliveries, err := c.channel.Consume(
		c.config.QueueName,
		c.config.ConsumerTag,
		false, // auto-ack: we ack/nack explicitly
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to start consuming queue '%s': %w", c.config.QueueName, err)
	}

	log.Printf("Consumer: consuming queue '%s' (tag: %s)\n", c.config.QueueName, c.config.ConsumerTag)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Consumer: context cancelled, stopping consumption of '%s'\n", c.config.QueueName)
			return nil
		case d, open := <-deliveries:
			if !open {
				return fmt.Errorf("consumer: delivery channel for queue '%s' closed", c.config.QueueName)
			}
			c.dispatch(d)
		}
	}
}

func (c *Consumer) dispatch(d amqp.Delivery) {
	ack, requeue, err := c.handler(d)
	if err != nil {
		log.Printf("Consumer: handler error for delivery %d: %v (requeue: %v)\n", d.DeliveryTag, err, requeue)
	}

	if ack {
		if ackErr := d.Ack(false); ackErr != nil {
			log.Printf("Consumer: failed to ack delivery %d: %v\n", d.DeliveryTag, ackErr)
		}
		return
	}
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		log.Printf("Consumer: failed to nack delivery %d: %v\n", d.DeliveryTag, nackErr)
	}
}

// Close shuts down the channel and connection.
func (c *Consumer) Close() error {
	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			firstErr = fmt.Errorf("consumer: failed to close channel: %w", err)
		}
	}
	if c.connection != nil {
		if err := c.connection.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("consumer: failed to close connection: %w", err)
		}
	}
	return firstErr
}

func (c *Consumer) closeQuietly() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.connection != nil {
		_ = c.connection.Close()
	}
}
