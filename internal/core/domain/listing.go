package domain

import "time"

// ListingRecord holds the fields extracted from one property listing card on
// a casa.sapo.pt search-results page. Price, Size and PostedAt are pointers
// because the source can legitimately omit them ("Contacte Anunciante"
// placeholders, "-" area markers); string fields default to "" when the
// markup does not match.
type ListingRecord struct {
	Title       string     `json:"title"`
	Price       *int       `json:"price,omitempty"`
	Size        *float64   `json:"size,omitempty"`
	Zone        string     `json:"zone"`
	Condition   string     `json:"condition"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	Description string     `json:"description"`
	URI         string     `json:"uri"`
}

// CrawlResult is the outcome of one crawl invocation: every record collected
// before the loop finished or stopped early, plus the number of pages that
// were actually requested and processed.
type CrawlResult struct {
	Records      []ListingRecord
	PagesVisited int
}

// Search is a named filter suffix appended to the site's base URI, e.g.
// "/Venda/Apartamentos/Porto/?sa=13&or=10".
type Search struct {
	Name    string `json:"name"`
	Filters string `json:"filters"`
}
