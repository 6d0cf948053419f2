package olx

import (
	"context"

	"olx-scraper/config"
	"olx-scraper/models"
	"olx-scraper/utils"
)

// searchFetcher is the slice of Session the crawler needs; tests
// substitute canned pages for it.
type searchFetcher interface {
	FetchSearchPage(pageURL string) (string, error)
}

// Crawler walks result pages sequentially, page 1 upward, and
// accumulates unique listing links in discovery order.
type Crawler struct {
	cfg     *config.Config
	fetcher searchFetcher
	metrics *Metrics
}

func NewCrawler(cfg *config.Config, fetcher searchFetcher, metrics *Metrics) *Crawler {
	return &Crawler{cfg: cfg, fetcher: fetcher, metrics: metrics}
}

// CollectLinks pages through the search until one of the termination
// rules fires:
//   - a page yields no links not already seen (end of results),
//   - the safety cap is reached (truncated=true),
//   - a verification challenge is served (*BlockedError),
//   - a page load times out without a challenge (soft stop; a slow
//     empty page after many good ones means end of inventory).
//
// Pagination is strictly sequential — page n's outcome decides whether
// page n+1 is requested at all — with a jittered delay between pages.
func (c *Crawler) CollectLinks(ctx context.Context, spec models.SearchSpec) ([]string, bool, error) {
	seen := make(map[string]bool)
	var links []string
	truncated := false

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return links, truncated, err
		}

		pageURL := BuildSearchURL(c.cfg.Origin, models.PageRequest{Spec: spec, Page: page})
		utils.Info("Fetching results page %d", page)

		html, err := c.fetcher.FetchSearchPage(pageURL)
		if err != nil {
			if IsTimeout(err) && !ContainsChallenge(html, c.cfg.ChallengeMarkers) {
				utils.Warn("Page %d timed out with no challenge; treating as end of results", page)
				break
			}
			return links, truncated, err
		}

		if ContainsChallenge(html, c.cfg.ChallengeMarkers) {
			c.metrics.IncChallenge()
			utils.Error("Verification challenge detected on page %d", page)
			return nil, false, &BlockedError{URL: pageURL}
		}

		fresh := 0
		for _, link := range ExtractListingLinks(html, c.cfg.Origin) {
			if seen[link] {
				continue
			}
			seen[link] = true
			links = append(links, link)
			fresh++
			if len(links) >= c.cfg.MaxAds {
				truncated = true
				break
			}
		}

		c.metrics.IncPage()
		c.metrics.AddLinks(fresh)

		if fresh == 0 {
			utils.Info("No new listings on page %d; stopping at %d links", page, len(links))
			break
		}
		if truncated {
			utils.Warn("Safety cap of %d listings reached on page %d", c.cfg.MaxAds, page)
			break
		}

		utils.RandomDelay(c.cfg.MinDelay, c.cfg.MaxDelay)
	}

	return links, truncated, nil
}
