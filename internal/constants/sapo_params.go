package constants

import "github.com/mdbo/porto-houses-web-scraper/internal/core/domain"

// Site defaults. The user agent is deliberately an old desktop Chrome build:
// the site serves the fixed markup layout the extractors are written against
// to plain desktop browsers.
const (
	DefaultBaseURI   = "https://casa.sapo.pt"
	DefaultFilters   = "/Venda/Apartamentos/Porto/?sa=13&or=10"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 6.1) AppleWebKit/537.36 (KHTML, " +
		"like Gecko) Chrome/41.0.2228.0 Safari/537.36"
)

// Pagination query parameter appended to the search URI per page.
const PageParam = "&pn="

// GetPredefinedSearches returns the filter sets the scraper knows about.
// Each Filters value is a ready-made path+query suffix for the base URI.
func GetPredefinedSearches() []domain.Search {
	return []domain.Search{
		{
			Name:    "apartments_porto_sale",
			Filters: DefaultFilters,
		},
		{
			Name:    "houses_porto_sale",
			Filters: "/Venda/Moradias/Porto/?sa=13&or=10",
		},
	}
}
