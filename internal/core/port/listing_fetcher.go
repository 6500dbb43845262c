package port

import (
	"context"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// ListingFetcherPort covers all interactions with the listings site. A call
// fetches exactly one search-results page and extracts every listing card on
// it. A transport or protocol failure is reported as an error; a page that
// fetched fine but contains no listing cards yields an empty slice and a nil
// error.
type ListingFetcherPort interface {
	FetchListings(ctx context.Context, pageURI string) ([]domain.ListingRecord, error)
}
