package internal

import (
	"context"
	"fmt"
	"log"

	"github.com/mdbo/porto-houses-web-scraper/internal/adapters/csvstorage"
	rabbitmq_adapter "github.com/mdbo/porto-houses-web-scraper/internal/adapters/rabbitmq"
	"github.com/mdbo/porto-houses-web-scraper/internal/adapters/sapofetcher"
	"github.com/mdbo/porto-houses-web-scraper/internal/configs"
	"github.com/mdbo/porto-houses-web-scraper/internal/constants"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/port"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/usecase"
	"github.com/mdbo/porto-houses-web-scraper/pkg/rabbitmq/rabbitmq_common"
	"github.com/mdbo/porto-houses-web-scraper/pkg/rabbitmq/rabbitmq_producer"
)

// App is the scraper application: one crawl run ending in a CSV dataset,
// optionally publishing every record to RabbitMQ along the way.
type App struct {
	config        *configs.AppConfig
	fetcher       *sapofetcher.SapoFetcherAdapter
	eventProducer *rabbitmq_producer.Publisher // nil when publishing is disabled

	crawlUseCase  *usecase.CrawlListingsUseCase
	exportUseCase *usecase.ExportDatasetUseCase
}

// NewApp is the composition root: all dependencies are created and wired
// here.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	fetcher, err := sapofetcher.NewSapoFetcherAdapter(appConfig.Sapo.BaseURI, appConfig.Sapo.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create sapo fetcher adapter: %w", err)
	}
	log.Println("Sapo Fetcher Adapter initialized.")

	// Publishing is opt-in: without a broker URL the crawl only produces the
	// CSV dataset.
	var eventProducer *rabbitmq_producer.Publisher
	var listingQueue port.ListingQueuePort
	if appConfig.RabbitMQ.URL != "" {
		producerCfg := rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ExchangeName,
			ExchangeType:             constants.ExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
		}
		eventProducer, err = rabbitmq_producer.NewPublisher(producerCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		log.Println("RabbitMQ Event Producer initialized.")

		listingQueue, err = rabbitmq_adapter.NewListingsQueueAdapter(eventProducer, constants.RoutingKeyScrapedListings)
		if err != nil {
			eventProducer.Close()
			return nil, fmt.Errorf("failed to create listings queue adapter: %w", err)
		}
		log.Println("Listings Queue Adapter initialized.")
	}

	datasetStorage, err := csvstorage.NewDatasetStorageAdapter(appConfig.Output.Dir)
	if err != nil {
		if eventProducer != nil {
			eventProducer.Close()
		}
		return nil, fmt.Errorf("failed to create dataset storage adapter: %w", err)
	}
	log.Println("Dataset Storage Adapter initialized.")

	crawlUseCase := usecase.NewCrawlListingsUseCase(fetcher, listingQueue, usecase.CrawlConfig{
		Pages:             appConfig.Sapo.Pages,
		InclusiveLastPage: appConfig.Sapo.InclusiveLastPage,
		PageDelay:         appConfig.Sapo.PageDelay,
	})
	exportUseCase := usecase.NewExportDatasetUseCase(datasetStorage)
	log.Println("All use cases initialized.")

	return &App{
		config:        appConfig,
		fetcher:       fetcher,
		eventProducer: eventProducer,
		crawlUseCase:  crawlUseCase,
		exportUseCase: exportUseCase,
	}, nil
}

// Run crawls every selected search and writes one combined dataset.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				log.Printf("App: error closing event producer: %v\n", err)
			}
		}
	}()

	var result domain.CrawlResult
	for _, search := range a.searches() {
		searchURI := a.fetcher.SearchURI(search.Filters)
		log.Printf("App: starting crawl %q at %s (%d pages)\n", search.Name, searchURI, a.config.Sapo.Pages)

		searchResult := a.crawlUseCase.Execute(ctx, searchURI)
		result.Records = append(result.Records, searchResult.Records...)
		result.PagesVisited += searchResult.PagesVisited
	}

	path, err := a.exportUseCase.Execute(ctx, result)
	if err != nil {
		return fmt.Errorf("app: failed to export dataset: %w", err)
	}

	log.Printf("App: crawl finished. %d records written to %s\n", len(result.Records), path)
	return nil
}

// searches resolves which filter sets this run covers: the configured one,
// or every predefined search when the filter suffix is explicitly empty.
func (a *App) searches() []domain.Search {
	if filters := a.config.Sapo.Filters; filters != "" {
		return []domain.Search{{Name: "configured_search", Filters: filters}}
	}
	return constants.GetPredefinedSearches()
}
