package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// ListingStorageAdapter implements ListingStoragePort for PostgreSQL.
type ListingStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewListingStorageAdapter creates a new instance of the adapter.
func NewListingStorageAdapter(pool *pgxpool.Pool) (*ListingStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingStorageAdapter{pool: pool}, nil
}

// Save upserts one listing record keyed by its detail-page URI, so replaying
// a crawl run refreshes existing rows instead of duplicating them.
func (a *ListingStorageAdapter) Save(ctx context.Context, record domain.ListingRecord) error {
	columns := []string{
		"title", "price", "size_m2", "zone", "condition",
		"posted_at", "description", "uri",
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	values := []interface{}{
		record.Title, record.Price, record.Size, record.Zone, record.Condition,
		record.PostedAt, record.Description, record.URI,
	}

	sql := fmt.Sprintf(
		`INSERT INTO listings (%s) VALUES (%s)
		 ON CONFLICT (uri) DO UPDATE SET
		   title = EXCLUDED.title,
		   price = EXCLUDED.price,
		   size_m2 = EXCLUDED.size_m2,
		   zone = EXCLUDED.zone,
		   condition = EXCLUDED.condition,
		   posted_at = EXCLUDED.posted_at,
		   description = EXCLUDED.description,
		   scraped_at = NOW()`,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := a.pool.Exec(ctx, sql, values...); err != nil {
		return fmt.Errorf("failed to insert listing record into db (uri: %s): %w", record.URI, err)
	}
	return nil
}
