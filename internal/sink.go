package internal

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	postgres_adapter "github.com/mdbo/porto-houses-web-scraper/internal/adapters/postgres"
	rabbitmq_adapter "github.com/mdbo/porto-houses-web-scraper/internal/adapters/rabbitmq"
	"github.com/mdbo/porto-houses-web-scraper/internal/configs"
	"github.com/mdbo/porto-houses-web-scraper/internal/constants"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/port"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/usecase"
	"github.com/mdbo/porto-houses-web-scraper/pkg/postgres"
	"github.com/mdbo/porto-houses-web-scraper/pkg/rabbitmq/rabbitmq_common"
	"github.com/mdbo/porto-houses-web-scraper/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SinkApp is the companion worker: it drains scraped listing records from
// RabbitMQ into PostgreSQL and runs until a termination signal.
type SinkApp struct {
	config *configs.AppConfig
	dbPool *pgxpool.Pool

	listingListener port.EventListenerPort
}

// NewSinkApp is the sink's composition root.
func NewSinkApp() (*SinkApp, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}
	if appConfig.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for the sink")
	}

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Println("Successfully connected to PostgreSQL pool!")

	storageAdapter, err := postgres_adapter.NewListingStorageAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listing storage adapter: %w", err)
	}
	saveUseCase := usecase.NewSaveListingUseCase(storageAdapter)
	log.Println("Save Listing Use Case initialized.")

	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:           constants.QueueScrapedListings,
		RoutingKeyForBind:   constants.RoutingKeyScrapedListings,
		ExchangeNameForBind: constants.ExchangeName,
		PrefetchCount:       5,
		DurableQueue:        true,
		DeclareQueue:        true,
		ConsumerTag:         "listing-saver-adapter",
	}
	listener, err := rabbitmq_adapter.NewListingConsumerAdapter(consumerCfg, saveUseCase)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	log.Println("Listing Events Listener initialized.")

	return &SinkApp{
		config:          appConfig,
		dbPool:          dbPool,
		listingListener: listener,
	}, nil
}

// Run starts the listener and blocks until a signal or a listener failure,
// then shuts everything down gracefully.
func (a *SinkApp) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		log.Println("SinkApp: shutdown sequence initiated...")
		wg.Wait()

		if a.listingListener != nil {
			if err := a.listingListener.Close(); err != nil {
				log.Printf("SinkApp: error closing listing listener: %v\n", err)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			log.Println("SinkApp: PostgreSQL pool closed.")
		}
		log.Println("Sink shut down gracefully.")
	}()

	listenerErrors := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("SinkApp: starting Listing Events Listener...")
		if err := a.listingListener.Start(appCtx); err != nil {
			log.Printf("SinkApp: listener stopped with an unexpected error: %v\n", err)
			listenerErrors <- fmt.Errorf("listing listener error: %w", err)
		} else {
			log.Println("SinkApp: listener stopped gracefully due to context cancellation.")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Sink running. Waiting for signals or listener error...")
	select {
	case receivedSignal := <-quit:
		log.Printf("SinkApp: received signal: %s. Shutting down...\n", receivedSignal)
	case err := <-listenerErrors:
		log.Printf("SinkApp: a critical component failed: %v. Shutting down...\n", err)
	}

	cancelApp()
	return nil
}
