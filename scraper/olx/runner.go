package olx

import (
	"context"
	"errors"

	"olx-scraper/config"
	"olx-scraper/models"
	"olx-scraper/utils"
)

// Run executes the full pipeline: encode, paginate, fan out detail
// fetches, assemble. The caller always gets a CrawlResult or a
// synchronous validation/launch error; a blocked crawl is reported in
// the result, not as an error.
func Run(ctx context.Context, cfg *config.Config, spec models.SearchSpec, metrics *Metrics) (models.CrawlResult, error) {
	if err := spec.Validate(); err != nil {
		return models.CrawlResult{}, err
	}
	if err := cfg.Validate(); err != nil {
		return models.CrawlResult{}, err
	}

	session, err := NewSession(cfg)
	if err != nil {
		return models.CrawlResult{}, err
	}
	defer session.Close()

	utils.Section("CRAWL PHASE")
	crawler := NewCrawler(cfg, session, metrics)
	links, truncated, err := crawler.CollectLinks(ctx, spec)

	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return models.CrawlResult{
			Listings: []models.ListingDetail{blockedSentinel(blocked.URL)},
			Blocked:  true,
		}, nil
	}
	if err != nil {
		return models.CrawlResult{}, err
	}

	utils.Section("DETAIL PHASE")
	coordinator := NewCoordinator(cfg, session, metrics)
	listings := coordinator.FetchDetails(ctx, links)

	return models.CrawlResult{
		Listings:   listings,
		TotalFound: len(listings),
		Truncated:  truncated,
	}, nil
}

func blockedSentinel(searchURL string) models.ListingDetail {
	return models.ListingDetail{
		Link:        searchURL,
		Title:       "OLX VERIFICATION CHALLENGE",
		Description: "OLX served a verification page instead of results. Reduce filters or volume and try again later.",
	}
}
