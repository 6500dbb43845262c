package port

import (
	"context"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// ListingQueuePort publishes one extracted record for downstream consumers.
type ListingQueuePort interface {
	Enqueue(ctx context.Context, record domain.ListingRecord) error
}
