package port

import (
	"context"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// DatasetStoragePort writes a finished crawl result to durable tabular
// storage (CSV in the default adapter).
type DatasetStoragePort interface {
	Save(ctx context.Context, result domain.CrawlResult) (path string, err error)
}
