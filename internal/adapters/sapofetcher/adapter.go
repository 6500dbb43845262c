package sapofetcher

import (
	"fmt"
	"log"
	"net/url"

	"github.com/gocolly/colly/v2"
)

// SapoFetcherAdapter owns every interaction with casa.sapo.pt. It wraps one
// parent colly.Collector; each page fetch runs on a clone so per-request
// handlers never leak between calls.
type SapoFetcherAdapter struct {
	collector *colly.Collector
	baseURI   *url.URL
}

// NewSapoFetcherAdapter builds the adapter. The user agent is sent verbatim
// on every request; the site serves the fixed card markup the extractors
// depend on to plain desktop browsers, so the agent string is part of the
// parsing contract, not an anti-bot measure.
func NewSapoFetcherAdapter(baseURI string, userAgent string) (*SapoFetcherAdapter, error) {
	base, err := url.Parse(baseURI)
	if err != nil {
		return nil, fmt.Errorf("sapo adapter: invalid base URI %q: %w", baseURI, err)
	}
	if base.Hostname() == "" {
		return nil, fmt.Errorf("sapo adapter: base URI %q has no host", baseURI)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(base.Hostname()),
		colly.UserAgent(userAgent),
	)

	c.OnRequest(func(r *colly.Request) {
		log.Printf("SapoFetcher: requesting %s\n", r.URL.String())
	})

	return &SapoFetcherAdapter{
		collector: c,
		baseURI:   base,
	}, nil
}

// SearchURI joins the base URI with a filter suffix, once per crawl.
func (a *SapoFetcherAdapter) SearchURI(filters string) string {
	if filters == "" {
		return a.baseURI.String()
	}
	ref, err := url.Parse(filters)
	if err != nil {
		log.Printf("SapoFetcher: invalid filter suffix %q: %v. Using base URI only.\n", filters, err)
		return a.baseURI.String()
	}
	return a.baseURI.ResolveReference(ref).String()
}
