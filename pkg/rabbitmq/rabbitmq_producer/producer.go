package rabbitmq_producer

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mdbo/porto-houses-web-scraper/pkg/rabbitmq/rabbitmq_common"
)

// PublisherConfig configures a publisher and, optionally, the exchange it
// declares on startup.
type PublisherConfig struct {
	rabbitmq_common.Config

	ExchangeName       string
	ExchangeType       string // direct, fanout, topic, headers
	DurableExchange    bool
	AutoDeleteExchange bool

	// DeclareExchangeIfMissing declares the exchange on connect; when false
	// the publisher relies on the exchange already existing.
	DeclareExchangeIfMissing bool
}

// Publisher wraps one AMQP connection and channel used for publishing.
type Publisher struct {
	config     PublisherConfig
	connection *amqp.Connection
	channel    *amqp.Channel
}

// NewPublisher connects to the broker and prepares the publishing channel.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid base config: %w", err)
	}
	if cfg.DeclareExchangeIfMissing && (cfg.ExchangeName == "" || cfg.ExchangeType == "") {
		return nil, fmt.Errorf("producer: exchange name and type are required when DeclareExchangeIfMissing is set")
	}

	p := &Publisher{config: cfg}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("producer: failed to dial RabbitMQ: %w", err)
	}
	p.connection = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("producer: failed to open a channel: %w", err)
	}
	p.channel = ch

	if cfg.DeclareExchangeIfMissing {
		log.Printf("Producer: declaring exchange '%s' (type: %s, durable: %v)\n",
			cfg.ExchangeName, cfg.ExchangeType, cfg.DurableExchange)
		err = ch.ExchangeDeclare(
			cfg.ExchangeName,
			cfg.ExchangeType,
			cfg.DurableExchange,
			cfg.AutoDeleteExchange,
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("producer: failed to declare exchange '%s': %w", cfg.ExchangeName, err)
		}
	}

	return p, nil
}

// Publish sends one persistent message with the given routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, contentType string, body []byte) error {
	err := p.channel.PublishWithContext(ctx,
		p.config.ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  contentType,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("producer: failed to publish to exchange '%s' (key: %s): %w",
			p.config.ExchangeName, routingKey, err)
	}
	return nil
}

// Close shuts down the channel and connection.
func (p *Publisher) Close() error {
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = fmt.Errorf("producer: failed to close channel: %w", err)
		}
	}
	if p.connection != nil {
		if err := p.connection.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("producer: failed to close connection: %w", err)
		}
	}
	return firstErr
}
