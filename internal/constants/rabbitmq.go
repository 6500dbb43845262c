package constants

// Exchange, queue and routing-key names shared by the scraper's publisher
// and the sink's consumer.
const (
	ExchangeName = "sapo_scraper_exchange"
	ExchangeType = "direct"

	QueueScrapedListings      = "scraped_listings"
	RoutingKeyScrapedListings = "sapo.listings.scraped"
)
