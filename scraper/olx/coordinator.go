package olx

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"olx-scraper/config"
	"olx-scraper/models"
	"olx-scraper/utils"
)

// detailFetcher is the slice of Session the coordinator needs; tests
// substitute canned pages for it.
type detailFetcher interface {
	FetchDetailPage(link string) (string, error)
}

// Coordinator fans the collected links out to detail fetches with at
// most MaxWorkers in flight, one browser tab per in-flight fetch.
type Coordinator struct {
	cfg     *config.Config
	fetcher detailFetcher
	metrics *Metrics
}

func NewCoordinator(cfg *config.Config, fetcher detailFetcher, metrics *Metrics) *Coordinator {
	return &Coordinator{cfg: cfg, fetcher: fetcher, metrics: metrics}
}

// FetchDetails returns exactly one ListingDetail per unique input
// link. A permit must be held to open a tab and is released whatever
// the outcome, so the concurrency bound holds through failures; the
// call returns only once every dispatched fetch has finished. A fetch
// that keeps failing degrades to a link-only record rather than
// aborting the batch.
func (fc *Coordinator) FetchDetails(ctx context.Context, links []string) []models.ListingDetail {
	unique := dedupeLinks(links)
	if len(unique) > fc.cfg.MaxAds {
		unique = unique[:fc.cfg.MaxAds]
	}
	if len(unique) == 0 {
		return nil
	}

	utils.Info("Fetching %d ad pages with %d workers", len(unique), fc.cfg.MaxWorkers)

	sem := semaphore.NewWeighted(int64(fc.cfg.MaxWorkers))
	results := make([]models.ListingDetail, len(unique))
	var wg sync.WaitGroup

	for i, link := range unique {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context gone; the remaining links still get their
			// rectangular link-only rows.
			for j := i; j < len(unique); j++ {
				results[j] = models.ListingDetail{Link: unique[j]}
			}
			break
		}

		wg.Add(1)
		go func(i int, link string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = fc.fetchOne(link)
		}(i, link)
	}

	wg.Wait()
	return results
}

func (fc *Coordinator) fetchOne(link string) models.ListingDetail {
	utils.RandomDelay(fc.cfg.MinDelay, fc.cfg.MaxDelay)

	var html string
	start := time.Now()
	err := utils.Retry(fc.cfg.MaxRetries, func() error {
		var err error
		html, err = fc.fetcher.FetchDetailPage(link)
		return err
	})
	fc.metrics.ObserveFetch(time.Since(start))

	if err != nil {
		fc.metrics.IncDetailError(errorLabel(err))
		utils.Warn("Ad degraded to link only: %s (%v)", link, err)
		return models.ListingDetail{Link: link}
	}

	fc.metrics.IncDetail()
	return ParseListingDetail(html, link)
}

func dedupeLinks(links []string) []string {
	seen := make(map[string]bool, len(links))
	unique := make([]string, 0, len(links))
	for _, link := range links {
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		unique = append(unique, link)
	}
	return unique
}
