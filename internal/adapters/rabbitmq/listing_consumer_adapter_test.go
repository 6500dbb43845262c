package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/usecase"
)

type fakeListingStorage struct {
	saved []domain.ListingRecord
	err   error
}

func (s *fakeListingStorage) Save(_ context.Context, record domain.ListingRecord) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, record)
	return nil
}

func deliveryFor(t *testing.T, record domain.ListingRecord) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	return amqp.Delivery{Body: body, DeliveryTag: 1}
}

func TestHandleDeliveryAcksSavedRecord(t *testing.T) {
	storage := &fakeListingStorage{}
	adapter := &ListingConsumerAdapter{saveUC: usecase.NewSaveListingUseCase(storage)}

	record := domain.ListingRecord{Title: "Apartamento T2", URI: "https://casa.sapo.pt/imovel/abc123"}
	ack, requeue, err := adapter.handleDelivery(deliveryFor(t, record))

	if err != nil {
		t.Fatalf("handleDelivery: %v", err)
	}
	if !ack || requeue {
		t.Errorf("ack=%t requeue=%t, want ack without requeue", ack, requeue)
	}
	if len(storage.saved) != 1 || storage.saved[0].URI != record.URI {
		t.Errorf("saved = %v, want the delivered record", storage.saved)
	}
}

func TestHandleDeliveryDropsMalformedPayload(t *testing.T) {
	storage := &fakeListingStorage{}
	adapter := &ListingConsumerAdapter{saveUC: usecase.NewSaveListingUseCase(storage)}

	ack, requeue, err := adapter.handleDelivery(amqp.Delivery{Body: []byte("{not json"), DeliveryTag: 2})

	if err == nil {
		t.Fatal("want unmarshal error")
	}
	if ack || requeue {
		t.Errorf("ack=%t requeue=%t, want drop without requeue", ack, requeue)
	}
	if len(storage.saved) != 0 {
		t.Errorf("saved = %v, want nothing", storage.saved)
	}
}

func TestHandleDeliveryRequeuesOnStorageFailure(t *testing.T) {
	storage := &fakeListingStorage{err: errors.New("connection reset")}
	adapter := &ListingConsumerAdapter{saveUC: usecase.NewSaveListingUseCase(storage)}

	ack, requeue, err := adapter.handleDelivery(deliveryFor(t, domain.ListingRecord{URI: "https://casa.sapo.pt/imovel/abc123"}))

	if err == nil {
		t.Fatal("want storage error")
	}
	if ack || !requeue {
		t.Errorf("ack=%t requeue=%t, want nack with requeue", ack, requeue)
	}
}
