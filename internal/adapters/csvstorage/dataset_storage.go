package csvstorage

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// Fixed column order of the output dataset. Downstream consumers address
// columns by name and position, so both must stay exactly as they are. The
// leading unnamed column is the row index.
var columnNames = []string{"", "title", "price", "size", "zone", "status", "date", "description", "uri"}

const dateColumnLayout = "2006-01-02"

// DatasetStorageAdapter writes a crawl result as a UTF-8 CSV file under a
// run-date-stamped name inside the configured output directory.
type DatasetStorageAdapter struct {
	dir string
	now func() time.Time
}

// NewDatasetStorageAdapter creates a new adapter writing into dir.
func NewDatasetStorageAdapter(dir string) (*DatasetStorageAdapter, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	return &DatasetStorageAdapter{
		dir: dir,
		now: time.Now,
	}, nil
}

// Save transposes the records into the fixed column order and writes them as
// one CSV file, creating the output directory when missing. It returns the
// path of the written file.
func (a *DatasetStorageAdapter) Save(_ context.Context, result domain.CrawlResult) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", a.dir, err)
	}

	runDate := a.now()
	path := filepath.Join(a.dir, fmt.Sprintf("sapo_porto_properties_%s.csv", runDate.Format("20060102")))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(columnNames); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, record := range result.Records {
		if err := writer.Write(recordRow(i, record)); err != nil {
			return "", fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV output: %w", err)
	}

	log.Printf("DatasetStorage: saved %d records to %s\n", len(result.Records), path)
	return path, nil
}

// recordRow renders one record in column order; absent numeric and date
// fields become empty cells, never dropped positions.
func recordRow(index int, record domain.ListingRecord) []string {
	row := make([]string, 0, len(columnNames))
	row = append(row, strconv.Itoa(index))
	row = append(row, record.Title)

	if record.Price != nil {
		row = append(row, strconv.Itoa(*record.Price))
	} else {
		row = append(row, "")
	}

	if record.Size != nil {
		row = append(row, strconv.FormatFloat(*record.Size, 'f', -1, 64))
	} else {
		row = append(row, "")
	}

	row = append(row, record.Zone, record.Condition)

	if record.PostedAt != nil {
		row = append(row, record.PostedAt.Format(dateColumnLayout))
	} else {
		row = append(row, "")
	}

	row = append(row, record.Description, record.URI)
	return row
}
