package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/port"
)

// SaveListingUseCase persists one listing record through the storage port.
// The sink worker invokes it for every record consumed from the queue.
type SaveListingUseCase struct {
	storage port.ListingStoragePort
}

// NewSaveListingUseCase creates a new instance of the use case.
func NewSaveListingUseCase(storage port.ListingStoragePort) *SaveListingUseCase {
	return &SaveListingUseCase{storage: storage}
}

// Execute saves the record using the storage port.
func (uc *SaveListingUseCase) Execute(ctx context.Context, record domain.ListingRecord) error {
	if err := uc.storage.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save listing record %s: %w", record.URI, err)
	}

	log.Printf("SaveListingUseCase: successfully saved record %s\n", record.URI)
	return nil
}
