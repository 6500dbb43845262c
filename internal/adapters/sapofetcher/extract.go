package sapofetcher

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/mdbo/porto-houses-web-scraper/internal/core/domain"
)

// Structural selectors for one listing card on a search-results page.
const (
	listingSelector     = "div.searchResultProperty"
	locationSelector    = "p.searchPropertyLocation"
	dateSelector        = "div.searchPropertyDate"
	descriptionSelector = "p.searchPropertyDescription"
)

// Fixed slot indexes and text offsets, tied to the exact card markup and
// label text the site renders. They are brittle on purpose: the extraction
// contract is byte parity with the fixed-format pages, not robustness to
// markup drift.
const (
	// priceSlot is the third inline <span> of the card; priceFallbackSlot is
	// used when that span carries the contact-advertiser placeholder instead
	// of an amount.
	priceSlot         = 2
	priceFallbackSlot = 3

	contactAdvertiserText = "Contacte Anunciante"

	// zonePrefixLen skips the fixed "Zona: " label before the zone name.
	zonePrefixLen = 7

	// conditionSlot is the sixth <p> of the card in document order.
	conditionSlot = 5

	// sizeSlot is the tenth <p>; sizeFallbackSlot the eighth, tried when the
	// tenth holds the unknown-area placeholder.
	sizeSlot         = 9
	sizeFallbackSlot = 7
	sizePlaceholder  = "-"

	// dateOffset skips the fixed "Atualizado em: " style label; the date
	// itself is exactly dateLen characters.
	dateOffset = 21
	dateLen    = 10
	dateLayout = "2006-01-02"

	// descriptionPrefixLen and descriptionSuffixLen strip the constant
	// decorative characters wrapped around the synopsis text.
	descriptionPrefixLen = 7
	descriptionSuffixLen = 6

	// linkPrefixTrim drops the duplicated leading path separator of the
	// href; linkSuffixTrim drops its constant trailing path segment.
	linkPrefixTrim = 1
	linkSuffixTrim = 6
)

// listingFragments locates the listing cards on a parsed page, in document
// order. An empty result means "no content on this page", not an error.
func listingFragments(doc *goquery.Document) []*goquery.Selection {
	var fragments []*goquery.Selection
	doc.Find(listingSelector).Each(func(_ int, s *goquery.Selection) {
		fragments = append(fragments, s)
	})
	return fragments
}

// extractListing assembles one ListingRecord from a listing fragment. Every
// field extractor is fault-isolated: a failure is logged with the field name
// and reason and the field keeps its default/absent value. Only a fault in
// the assembly itself (recovered here) drops the listing.
func (a *SapoFetcherAdapter) extractListing(fragment *goquery.Selection) (record domain.ListingRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("SapoFetcher: failed to extract data for property: %v. Skipping listing.\n", r)
			ok = false
		}
	}()

	if title, err := extractTitle(fragment); err != nil {
		logFieldFailure("title", err)
	} else {
		record.Title = title
	}

	if price, err := extractPrice(fragment); err != nil {
		logFieldFailure("price", err)
	} else {
		record.Price = &price
	}

	if size, err := extractSize(fragment); err != nil {
		logFieldFailure("area/size", err)
	} else {
		record.Size = &size
	}

	if zone, err := extractZone(fragment); err != nil {
		logFieldFailure("zone", err)
	} else {
		record.Zone = zone
	}

	if condition, err := extractCondition(fragment); err != nil {
		logFieldFailure("condition", err)
	} else {
		record.Condition = condition
	}

	if postedAt, err := extractPostedAt(fragment); err != nil {
		logFieldFailure("date", err)
	} else {
		record.PostedAt = &postedAt
	}

	if description, err := extractDescription(fragment); err != nil {
		logFieldFailure("description", err)
	} else {
		record.Description = description
	}

	if link, err := extractLink(fragment, a.baseURI); err != nil {
		logFieldFailure("link", err)
	} else {
		record.URI = link
	}

	return record, true
}

func logFieldFailure(field string, err error) {
	log.Printf("SapoFetcher: failed to extract the property %s. Error: %v\n", field, err)
}

// extractTitle returns the text of the first inline <span> of the card.
func extractTitle(fragment *goquery.Selection) (string, error) {
	spans := fragment.Find("span")
	if spans.Length() == 0 {
		return "", errors.New("no span elements in fragment")
	}
	return spans.Eq(0).Text(), nil
}

// extractPrice reads the price span, falling back to the next span when the
// card shows the contact-advertiser placeholder. A periodic suffix such as
// "/mês" is cut off one character before the separator, then the surviving
// digit characters are concatenated in order and parsed as an integer.
// Multiple numeric groups are conflated by this; that is the inherited
// behavior, kept as-is.
func extractPrice(fragment *goquery.Selection) (int, error) {
	spans := fragment.Find("span")
	if spans.Length() <= priceSlot {
		return 0, fmt.Errorf("fragment has %d span elements, need at least %d", spans.Length(), priceSlot+1)
	}
	text := spans.Eq(priceSlot).Text()
	if text == contactAdvertiserText {
		if spans.Length() <= priceFallbackSlot {
			return 0, fmt.Errorf("fragment has %d span elements, need at least %d for price fallback", spans.Length(), priceFallbackSlot+1)
		}
		text = spans.Eq(priceFallbackSlot).Text()
	}

	if idx := strings.Index(text, "/"); idx != -1 {
		cut := idx - 1
		if cut < 0 {
			cut = 0
		}
		text = text[:cut]
	}

	var digits strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("no digits in price text %q", text)
	}

	price, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, fmt.Errorf("parse price digits %q: %w", digits.String(), err)
	}
	return price, nil
}

// extractZone takes the location element's text between the fixed label
// prefix and the first comma. No comma means no extractable zone.
func extractZone(fragment *goquery.Selection) (string, error) {
	location := fragment.Find(locationSelector).First()
	if location.Length() == 0 {
		return "", errors.New("no location element in fragment")
	}
	runes := []rune(location.Text())

	comma := -1
	for i, r := range runes {
		if r == ',' {
			comma = i
			break
		}
	}
	if comma == -1 {
		return "", errors.New("location text has no comma separator")
	}
	if comma < zonePrefixLen {
		return "", fmt.Errorf("location text %q shorter than the label prefix", string(runes))
	}
	return string(runes[zonePrefixLen:comma]), nil
}

// extractCondition returns the text of the sixth <p> of the card.
func extractCondition(fragment *goquery.Selection) (string, error) {
	paragraphs := fragment.Find("p")
	if paragraphs.Length() <= conditionSlot {
		return "", fmt.Errorf("fragment has %d p elements, need at least %d", paragraphs.Length(), conditionSlot+1)
	}
	return paragraphs.Eq(conditionSlot).Text(), nil
}

// extractSize reads the area from the tenth <p>, falling back to the eighth
// when the tenth holds the "-" placeholder. When the placeholder persists
// through the fallback the area is genuinely unknown.
func extractSize(fragment *goquery.Selection) (float64, error) {
	paragraphs := fragment.Find("p")
	if paragraphs.Length() <= sizeSlot {
		return 0, fmt.Errorf("fragment has %d p elements, need at least %d", paragraphs.Length(), sizeSlot+1)
	}
	text := paragraphs.Eq(sizeSlot).Text()
	if text == sizePlaceholder {
		text = paragraphs.Eq(sizeFallbackSlot).Text()
		if text == sizePlaceholder {
			return 0, errors.New("area marked unknown in both slots")
		}
	}
	return parseSquareMeters(text)
}

// parseSquareMeters strips non-breaking spaces and parses the leading run of
// decimal digits; the "m²" units suffix after the run is discarded.
func parseSquareMeters(text string) (float64, error) {
	cleaned := strings.ReplaceAll(text, "\u00a0", "")

	var digits strings.Builder
	for _, r := range cleaned {
		if !unicode.IsDigit(r) {
			break
		}
		digits.WriteRune(r)
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("no leading digits in area text %q", text)
	}

	size, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("parse area digits %q: %w", digits.String(), err)
	}
	return size, nil
}

// extractPostedAt parses the fixed-width date substring of the date element,
// after the constant label prefix.
func extractPostedAt(fragment *goquery.Selection) (time.Time, error) {
	el := fragment.Find(dateSelector).First()
	if el.Length() == 0 {
		return time.Time{}, errors.New("no date element in fragment")
	}
	runes := []rune(el.Text())
	if len(runes) < dateOffset+dateLen {
		return time.Time{}, fmt.Errorf("date text %q shorter than label prefix plus date", string(runes))
	}
	raw := string(runes[dateOffset : dateOffset+dateLen])

	postedAt, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return postedAt, nil
}

// extractDescription strips the constant decorative prefix and suffix from
// the description element's text.
func extractDescription(fragment *goquery.Selection) (string, error) {
	el := fragment.Find(descriptionSelector).First()
	if el.Length() == 0 {
		return "", errors.New("no description element in fragment")
	}
	runes := []rune(el.Text())
	if len(runes) < descriptionPrefixLen+descriptionSuffixLen {
		return "", fmt.Errorf("description text %q shorter than its boilerplate", string(runes))
	}
	return string(runes[descriptionPrefixLen : len(runes)-descriptionSuffixLen]), nil
}

// extractLink reads the first hyperlink's target, trims the duplicated
// leading separator and the constant trailing segment, and resolves the rest
// against the site's base URI.
func extractLink(fragment *goquery.Selection, base *url.URL) (string, error) {
	href, exists := fragment.Find("a").First().Attr("href")
	if !exists {
		return "", errors.New("no hyperlink element in fragment")
	}
	runes := []rune(href)
	if len(runes) <= linkPrefixTrim+linkSuffixTrim {
		return "", fmt.Errorf("href %q shorter than its fixed trims", href)
	}
	trimmed := string(runes[linkPrefixTrim : len(runes)-linkSuffixTrim])

	ref, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse trimmed href %q: %w", trimmed, err)
	}
	return base.ResolveReference(ref).String(), nil
}
