package olx

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	listingCardSelector = `section[data-testid="listing-item-wrapper"]`
	listingLinkSelector = `a[data-testid="item-direct-link"]`
)

// OLX detail URLs end in the ad's numeric id (10-12 digits in the
// wild); 8+ keeps the fallback tolerant of shorter historical ids.
var adIDSuffix = regexp.MustCompile(`[0-9]{8,}$`)

// ExtractListingLinks returns the ordered, deduplicated absolute
// detail-page URLs found on a rendered result page. Structured result
// cards are preferred; when a category renders without them, every
// anchor whose URL ends in a long numeric ad id is taken instead.
// An empty slice means the page genuinely has no results.
func ExtractListingLinks(html, origin string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	add := func(href string) {
		abs := absoluteURL(href, origin)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	}

	doc.Find(listingCardSelector).Each(func(_ int, card *goquery.Selection) {
		if href, ok := card.Find(listingLinkSelector).First().Attr("href"); ok {
			add(href)
		}
	})
	if len(links) > 0 {
		return links
	}

	// Markup-agnostic fallback for category layouts without cards.
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		if looksLikeDetailURL(absoluteURL(href, origin)) {
			add(href)
		}
	})
	return links
}

// ContainsChallenge reports whether the rendered page matches any of
// the known anti-bot verification markers. The marker list is a
// heuristic that tracks OLX's challenge pages and is expected to be
// updated over time.
func ContainsChallenge(html string, markers []string) bool {
	lowered := strings.ToLower(html)
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

func looksLikeDetailURL(abs string) bool {
	if abs == "" {
		return false
	}
	parsed, err := url.Parse(abs)
	if err != nil {
		return false
	}
	return adIDSuffix.MatchString(strings.TrimSuffix(parsed.Path, "/"))
}

func absoluteURL(href, origin string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:"):
		return ""
	case strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return origin + href
	default:
		return ""
	}
}
