package port

import (
	"context"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// ListingStoragePort persists one listing record in permanent storage.
type ListingStoragePort interface {
	Save(ctx context.Context, record domain.ListingRecord) error
}
