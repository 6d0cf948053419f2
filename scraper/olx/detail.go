package olx

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"olx-scraper/models"
)

const (
	descriptionSelector = `span[data-testid="ad-description"]`
	locationLabel       = "Localização"

	// Paragraphs shorter than this are navigation labels and boilerplate,
	// not ad descriptions.
	minDescriptionLen = 60
	maxParagraphScan  = 12
	locationWindow    = 120
)

var priceToken = regexp.MustCompile(`R\$\s*[0-9][0-9.,]*`)

// ParseListingDetail extracts the detail fields from a rendered ad
// page. Every field falls back through strategies and ends empty when
// none applies, so a malformed page still yields a usable record.
func ParseListingDetail(html, link string) models.ListingDetail {
	detail := models.ListingDetail{Link: link}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return detail
	}

	bodyText := collapseSpace(doc.Find("body").Text())

	detail.Title = collapseSpace(doc.Find("h1").First().Text())
	detail.RawPrice = priceToken.FindString(bodyText)
	detail.Price = ParsePrice(detail.RawPrice)
	detail.Description = findDescription(doc)
	detail.Location = findLocation(bodyText)
	return detail
}

// ParsePrice turns a raw "R$ 1.234,56" display token into whole
// currency units. Returns nil when the token is absent or malformed.
func ParsePrice(raw string) *int {
	cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if cleaned == "" {
		return nil
	}
	// Decimal comma starts the centavos; the integer part is enough.
	if i := strings.IndexByte(cleaned, ','); i >= 0 {
		cleaned = cleaned[:i]
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	value, err := strconv.Atoi(strings.TrimSpace(cleaned))
	if err != nil {
		return nil
	}
	return &value
}

func findDescription(doc *goquery.Document) string {
	if text := collapseSpace(doc.Find(descriptionSelector).First().Text()); text != "" {
		return text
	}

	// No dedicated element; take the first early paragraph long enough
	// to be a real description.
	var found string
	doc.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		if i >= maxParagraphScan {
			return false
		}
		text := collapseSpace(p.Text())
		if len([]rune(text)) >= minDescriptionLen {
			found = text
			return false
		}
		return true
	})
	return found
}

func findLocation(bodyText string) string {
	idx := strings.Index(bodyText, locationLabel)
	if idx < 0 {
		return ""
	}
	window := []rune(strings.TrimSpace(bodyText[idx+len(locationLabel):]))
	if len(window) > locationWindow {
		window = window[:locationWindow]
	}
	return strings.TrimSpace(string(window))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
