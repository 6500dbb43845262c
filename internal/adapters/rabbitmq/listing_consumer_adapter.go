package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/usecase"
	"github.com/mdbo/porto-houses-web-scraper/pkg/rabbitmq/rabbitmq_consumer"
)

// ListingConsumerAdapter is the incoming adapter of the sink: it consumes
// scraped listing records from the queue and feeds them to the save use
// case.
type ListingConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	saveUC   *usecase.SaveListingUseCase
}

// NewListingConsumerAdapter wires a consumer to the save use case.
func NewListingConsumerAdapter(cfg rabbitmq_consumer.ConsumerConfig, saveUC *usecase.SaveListingUseCase) (*ListingConsumerAdapter, error) {
	if saveUC == nil {
		return nil, fmt.Errorf("save use case cannot be nil")
	}

	adapter := &ListingConsumerAdapter{saveUC: saveUC}

	consumer, err := rabbitmq_consumer.NewConsumer(cfg, adapter.handleDelivery)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing consumer: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// handleDelivery decodes one record and saves it. A malformed payload is
// dropped (nack, no requeue); a storage failure requeues the message for a
// later attempt.
func (a *ListingConsumerAdapter) handleDelivery(d amqp.Delivery) (ack bool, requeueOnError bool, err error) {
	var record domain.ListingRecord
	if err := json.Unmarshal(d.Body, &record); err != nil {
		log.Printf("ListingConsumer: error unmarshalling record (tag: %d): %v. Dropping message.\n", d.DeliveryTag, err)
		return false, false, fmt.Errorf("unmarshal error: %w", err)
	}

	if err := a.saveUC.Execute(context.Background(), record); err != nil {
		log.Printf("ListingConsumer: save failed (tag: %d): %v. Requeueing.\n", d.DeliveryTag, err)
		return false, true, err
	}

	return true, false, nil
}

// Start blocks consuming the queue until ctx is cancelled.
func (a *ListingConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close shuts down the underlying consumer.
func (a *ListingConsumerAdapter) Close() error {
	return a.consumer.Close()
}
