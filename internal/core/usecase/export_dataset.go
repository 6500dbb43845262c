package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
	"github.com/mdbo/porto-houses-web-scraper/internal/core/port"
)

// ExportDatasetUseCase hands a finished crawl result to the dataset storage.
type ExportDatasetUseCase struct {
	storage port.DatasetStoragePort
}

// NewExportDatasetUseCase creates a new instance of the use case.
func NewExportDatasetUseCase(storage port.DatasetStoragePort) *ExportDatasetUseCase {
	return &ExportDatasetUseCase{storage: storage}
}

// Execute saves the crawl result and returns the written dataset's path.
func (uc *ExportDatasetUseCase) Execute(ctx context.Context, result domain.CrawlResult) (string, error) {
	log.Printf("ExportDatasetUseCase: organising %d records into the output dataset\n", len(result.Records))

	path, err := uc.storage.Save(ctx, result)
	if err != nil {
		return "", fmt.Errorf("failed to save crawl dataset: %w", err)
	}

	log.Printf("ExportDatasetUseCase: saved results to %s\n", path)
	return path, nil
}
