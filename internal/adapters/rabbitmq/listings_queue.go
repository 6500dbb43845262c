package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
	"github.com/mdbo/porto-houses-web-scraper/pkg/rabbitmq/rabbitmq_producer"
)

// ListingsQueueAdapter implements ListingQueuePort on top of a shared
// RabbitMQ publisher.
type ListingsQueueAdapter struct {
	publisher  *rabbitmq_producer.Publisher
	routingKey string
}

// NewListingsQueueAdapter creates the adapter. The publisher is shared and
// stays owned by the caller; this adapter never closes it.
func NewListingsQueueAdapter(publisher *rabbitmq_producer.Publisher, routingKey string) (*ListingsQueueAdapter, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routing key cannot be empty")
	}
	return &ListingsQueueAdapter{
		publisher:  publisher,
		routingKey: routingKey,
	}, nil
}

// Enqueue publishes one record as a JSON message.
func (a *ListingsQueueAdapter) Enqueue(ctx context.Context, record domain.ListingRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal listing record %s: %w", record.URI, err)
	}
	if err := a.publisher.Publish(ctx, a.routingKey, "application/json", body); err != nil {
		return fmt.Errorf("failed to publish listing record %s: %w", record.URI, err)
	}
	return nil
}
