package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// fakeFetcher serves canned pages keyed by the page-number suffix of the URI
// and records every URI it was asked for.
type fakeFetcher struct {
	pages     map[int][]domain.ListingRecord
	failPages map[int]error
	requested []string
}

func (f *fakeFetcher) FetchListings(_ context.Context, pageURI string) ([]domain.ListingRecord, error) {
	f.requested = append(f.requested, pageURI)

	idx := strings.LastIndex(pageURI, "=")
	var page int
	fmt.Sscanf(pageURI[idx+1:], "%d", &page)

	if err, ok := f.failPages[page]; ok {
		return nil, err
	}
	return f.pages[page], nil
}

type fakeQueue struct {
	enqueued []domain.ListingRecord
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, record domain.ListingRecord) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, record)
	return nil
}

func listings(titles ...string) []domain.ListingRecord {
	records := make([]domain.ListingRecord, 0, len(titles))
	for _, title := range titles {
		records = append(records, domain.ListingRecord{Title: title})
	}
	return records
}

func TestExecuteVisitsExclusiveBound(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]domain.ListingRecord{
		0: listings("a", "b"),
		1: listings("c"),
		2: listings("d"),
	}}
	uc := NewCrawlListingsUseCase(fetcher, nil, CrawlConfig{Pages: 2})

	result := uc.Execute(context.Background(), "https://example.test/search?sa=13")

	if len(fetcher.requested) != 2 {
		t.Fatalf("requested %d pages, want 2: %v", len(fetcher.requested), fetcher.requested)
	}
	if result.PagesVisited != 2 {
		t.Errorf("PagesVisited = %d, want 2", result.PagesVisited)
	}
	if len(result.Records) != 3 {
		t.Errorf("got %d records, want 3", len(result.Records))
	}
}

func TestExecuteInclusiveBoundVisitsOneMorePage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]domain.ListingRecord{
		0: listings("a"),
		1: listings("b"),
		2: listings("c"),
	}}
	uc := NewCrawlListingsUseCase(fetcher, nil, CrawlConfig{Pages: 2, InclusiveLastPage: true})

	result := uc.Execute(context.Background(), "https://example.test/search?sa=13")

	if result.PagesVisited != 3 {
		t.Errorf("PagesVisited = %d, want 3", result.PagesVisited)
	}
	if len(result.Records) != 3 {
		t.Errorf("got %d records, want 3", len(result.Records))
	}
}

func TestExecuteComposesPageURIs(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]domain.ListingRecord{0: listings("a"), 1: listings("b")}}
	uc := NewCrawlListingsUseCase(fetcher, nil, CrawlConfig{Pages: 2})

	uc.Execute(context.Background(), "https://example.test/search?sa=13")

	want := []string{
		"https://example.test/search?sa=13&pn=0",
		"https://example.test/search?sa=13&pn=1",
	}
	for i, uri := range want {
		if fetcher.requested[i] != uri {
			t.Errorf("request %d = %q, want %q", i, fetcher.requested[i], uri)
		}
	}
}

func TestExecuteStopsOnFetchFailureKeepingEarlierRecords(t *testing.T) {
	fetcher := &fakeFetcher{
		pages:     map[int][]domain.ListingRecord{0: listings("a", "b", "c")},
		failPages: map[int]error{1: errors.New("HTTP error: 500")},
	}
	uc := NewCrawlListingsUseCase(fetcher, nil, CrawlConfig{Pages: 5})

	result := uc.Execute(context.Background(), "https://example.test/search")

	if len(result.Records) != 3 {
		t.Errorf("got %d records, want the 3 from before the failure", len(result.Records))
	}
	if result.PagesVisited != 1 {
		t.Errorf("PagesVisited = %d, want 1", result.PagesVisited)
	}
	if len(fetcher.requested) != 2 {
		t.Errorf("requested %d pages, want 2 (no pages after the failing one)", len(fetcher.requested))
	}
}

func TestExecuteStopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]domain.ListingRecord{
		0: listings("a"),
		1: {},
		2: listings("never fetched"),
	}}
	uc := NewCrawlListingsUseCase(fetcher, nil, CrawlConfig{Pages: 5})

	result := uc.Execute(context.Background(), "https://example.test/search")

	if len(result.Records) != 1 {
		t.Errorf("got %d records, want 1", len(result.Records))
	}
	// the empty page was fetched and processed, so it counts as visited
	if result.PagesVisited != 2 {
		t.Errorf("PagesVisited = %d, want 2", result.PagesVisited)
	}
	if len(fetcher.requested) != 2 {
		t.Errorf("requested %d pages, want 2", len(fetcher.requested))
	}
}

func TestExecutePublishesEveryRecord(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]domain.ListingRecord{0: listings("a", "b")}}
	queue := &fakeQueue{}
	uc := NewCrawlListingsUseCase(fetcher, queue, CrawlConfig{Pages: 1})

	result := uc.Execute(context.Background(), "https://example.test/search")

	if len(queue.enqueued) != len(result.Records) {
		t.Errorf("enqueued %d records, want %d", len(queue.enqueued), len(result.Records))
	}
}

func TestExecuteKeepsRecordsWhenPublishingFails(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]domain.ListingRecord{0: listings("a", "b")}}
	queue := &fakeQueue{err: errors.New("broker unavailable")}
	uc := NewCrawlListingsUseCase(fetcher, queue, CrawlConfig{Pages: 1})

	result := uc.Execute(context.Background(), "https://example.test/search")

	if len(result.Records) != 2 {
		t.Errorf("got %d records, want 2 despite publish failures", len(result.Records))
	}
}
