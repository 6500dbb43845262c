package usecase

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/mdbo/porto-houses-web-scraper/internal/constants"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/port"
)

// CrawlConfig are the loop tunables, fixed for the lifetime of one use case.
type CrawlConfig struct {
	// Pages is the number of result pages to visit, starting at page 0.
	Pages int

	// InclusiveLastPage additionally visits page number Pages itself,
	// matching the off-by-one variant of the original loop bound.
	InclusiveLastPage bool

	// PageDelay is the fixed pause after each processed page, applied even
	// after the last one. Client-side politeness, not error backoff.
	PageDelay time.Duration
}

// CrawlListingsUseCase drives the page-by-page crawl: it composes page URIs,
// asks the fetcher port for each page's records, optionally publishes every
// record to a queue, and accumulates everything into one CrawlResult.
type CrawlListingsUseCase struct {
	fetcher port.ListingFetcherPort
	queue   port.ListingQueuePort // nil disables publishing
	config  CrawlConfig
}

// NewCrawlListingsUseCase creates the use case. queue may be nil when record
// publishing is not wanted.
func NewCrawlListingsUseCase(fetcher port.ListingFetcherPort, queue port.ListingQueuePort, config CrawlConfig) *CrawlListingsUseCase {
	return &CrawlListingsUseCase{
		fetcher: fetcher,
		queue:   queue,
		config:  config,
	}
}

// Execute crawls pages of the given search URI in increasing page order,
// strictly sequentially. The loop stops early on the first page whose fetch
// fails or that yields no listings (the usual end-of-results signal); records
// collected up to that point are kept. Execute never returns an error: the
// result plus the log trail is the whole contract.
func (uc *CrawlListingsUseCase) Execute(ctx context.Context, searchURI string) domain.CrawlResult {
	result := domain.CrawlResult{}

	lastPage := uc.config.Pages
	if !uc.config.InclusiveLastPage {
		lastPage--
	}

	for page := 0; page <= lastPage; page++ {
		log.Printf("CrawlUseCase: scraping page number %d\n", page)
		pageURI := searchURI + constants.PageParam + strconv.Itoa(page)

		records, err := uc.fetcher.FetchListings(ctx, pageURI)
		if err != nil {
			log.Printf("CrawlUseCase: page %d unavailable: %v. Stopping the crawl.\n", page, err)
			break
		}
		result.PagesVisited++

		if len(records) == 0 {
			log.Printf("CrawlUseCase: page %d has no listings. Stopping the crawl.\n", page)
			break
		}

		for _, record := range records {
			result.Records = append(result.Records, record)
			if uc.queue == nil {
				continue
			}
			if err := uc.queue.Enqueue(ctx, record); err != nil {
				log.Printf("CrawlUseCase: error enqueuing record %s: %v. Skipping its publication.\n", record.URI, err)
			}
		}

		time.Sleep(uc.config.PageDelay)
	}

	log.Printf("CrawlUseCase: scraped %d pages containing %d properties.\n", result.PagesVisited, len(result.Records))
	return result
}
