package sapofetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// FetchListings fetches exactly one search-results page and extracts every
// listing card on it. A transport or protocol failure is returned as an
// error after being logged with its classified reason; a page that fetched
// fine but holds no listing cards yields an empty slice and a nil error.
func (a *SapoFetcherAdapter) FetchListings(ctx context.Context, pageURI string) ([]domain.ListingRecord, error) {
	doc, err := a.fetchPage(ctx, pageURI)
	if err != nil {
		log.Printf("SapoFetcher: failed to get property listing for %s\n", pageURI)
		return nil, err
	}

	fragments := listingFragments(doc)

	var records []domain.ListingRecord
	for i, fragment := range fragments {
		log.Printf("SapoFetcher: property %d\n", i)
		record, ok := a.extractListing(fragment)
		if !ok {
			// assembly fault already logged; skip this listing only
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// fetchPage performs exactly one request on a collector clone and parses the
// body into a goquery document. Failures are classified (HTTP status,
// connection, timeout, other transport), logged at info level and collapsed
// into a single returned error; there are no retries.
func (a *SapoFetcherAdapter) fetchPage(ctx context.Context, pageURI string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := a.collector.Clone()

	var doc *goquery.Document
	var parseErr error
	collector.OnResponse(func(r *colly.Response) {
		d, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			parseErr = fmt.Errorf("parse response body: %w", err)
			return
		}
		doc = d
	})

	var fetchErr error
	var status int
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
		if r != nil {
			status = r.StatusCode
		}
	})

	visitErr := collector.Visit(pageURI)
	collector.Wait()

	if fetchErr == nil {
		fetchErr = visitErr
	}
	if fetchErr != nil {
		reason := classifyFailure(status, fetchErr)
		log.Printf("SapoFetcher: %s\n", reason)
		return nil, fmt.Errorf("fetch %s: %s: %w", pageURI, failureKind(status, fetchErr), fetchErr)
	}
	if parseErr != nil {
		log.Printf("SapoFetcher: %v\n", parseErr)
		return nil, parseErr
	}
	if doc == nil {
		err := errors.New("no response received")
		log.Printf("SapoFetcher: %v for %s\n", err, pageURI)
		return nil, err
	}
	return doc, nil
}

// failureKind maps a fetch failure onto one of the four reason classes.
func failureKind(status int, err error) string {
	switch {
	case status >= 400:
		return "HTTP error"
	case isTimeout(err):
		return "timeout error"
	case isConnectionError(err):
		return "connection error"
	default:
		return "request error"
	}
}

// classifyFailure renders the logged reason line for a fetch failure.
func classifyFailure(status int, err error) string {
	switch kind := failureKind(status, err); kind {
	case "HTTP error":
		return fmt.Sprintf("HTTP error: %d %s", status, http.StatusText(status))
	default:
		return fmt.Sprintf("%s: %v", kind, err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
