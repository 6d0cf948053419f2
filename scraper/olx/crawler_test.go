package olx

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"olx-scraper/config"
	"olx-scraper/models"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.MinDelay = 0
	cfg.MaxDelay = time.Millisecond
	cfg.MaxRetries = 1
	return cfg
}

// fakeSearchFetcher serves canned HTML per page index and records how
// many pages were requested.
type fakeSearchFetcher struct {
	pages   map[int]string
	errs    map[int]error
	fetched []int
}

func (f *fakeSearchFetcher) FetchSearchPage(pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	page := 0
	fmt.Sscanf(parsed.Query().Get("o"), "%d", &page)
	f.fetched = append(f.fetched, page)

	if err := f.errs[page]; err != nil {
		return "", err
	}
	return f.pages[page], nil
}

func resultPage(ids ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<section data-testid="listing-item-wrapper"><a data-testid="item-direct-link" href="/ad-%s">ad</a></section>`, id)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestCollectLinksStopsAfterEmptyPage(t *testing.T) {
	fetcher := &fakeSearchFetcher{pages: map[int]string{
		1: resultPage("100000001", "100000002"),
		2: resultPage("100000003"),
		3: resultPage("100000004", "100000005"),
		4: resultPage(),
	}}

	crawler := NewCrawler(testConfig(), fetcher, nil)
	links, truncated, err := crawler.CollectLinks(context.Background(), models.SearchSpec{CategoryPath: "/celulares"})
	if err != nil {
		t.Fatalf("CollectLinks() error = %v", err)
	}
	if truncated {
		t.Error("CollectLinks() truncated = true, want false")
	}
	if len(links) != 5 {
		t.Errorf("CollectLinks() = %d links, want 5: %v", len(links), links)
	}
	if len(fetcher.fetched) != 4 || fetcher.fetched[3] != 4 {
		t.Errorf("fetched pages = %v, want [1 2 3 4]", fetcher.fetched)
	}
}

func TestCollectLinksStopsWhenNothingNew(t *testing.T) {
	// Page 2 repeats page 1's links exactly; the crawl must stop there.
	fetcher := &fakeSearchFetcher{pages: map[int]string{
		1: resultPage("100000001", "100000002"),
		2: resultPage("100000001", "100000002"),
	}}

	crawler := NewCrawler(testConfig(), fetcher, nil)
	links, _, err := crawler.CollectLinks(context.Background(), models.SearchSpec{CategoryPath: "/celulares"})
	if err != nil {
		t.Fatalf("CollectLinks() error = %v", err)
	}
	if len(links) != 2 {
		t.Errorf("CollectLinks() = %d links, want 2", len(links))
	}
	if len(fetcher.fetched) != 2 {
		t.Errorf("fetched %d pages, want 2", len(fetcher.fetched))
	}
}

func TestCollectLinksHonorsSafetyCap(t *testing.T) {
	fetcher := &fakeSearchFetcher{pages: map[int]string{
		1: resultPage("100000001", "100000002", "100000003"),
		2: resultPage("100000004", "100000005", "100000006"),
		3: resultPage("100000007", "100000008", "100000009"),
	}}

	cfg := testConfig()
	cfg.MaxAds = 4

	crawler := NewCrawler(cfg, fetcher, nil)
	links, truncated, err := crawler.CollectLinks(context.Background(), models.SearchSpec{CategoryPath: "/celulares"})
	if err != nil {
		t.Fatalf("CollectLinks() error = %v", err)
	}
	if !truncated {
		t.Error("CollectLinks() truncated = false, want true")
	}
	if len(links) != 4 {
		t.Errorf("CollectLinks() = %d links, want exactly the cap of 4", len(links))
	}
	if len(fetcher.fetched) != 2 {
		t.Errorf("fetched %d pages, want 2 (no fetch past the cap)", len(fetcher.fetched))
	}
}

func TestCollectLinksDetectsChallenge(t *testing.T) {
	fetcher := &fakeSearchFetcher{pages: map[int]string{
		1: resultPage("100000001"),
		2: "<html><body>Confirme que você não é um robô: resolva o captcha.</body></html>",
	}}

	crawler := NewCrawler(testConfig(), fetcher, nil)
	links, _, err := crawler.CollectLinks(context.Background(), models.SearchSpec{CategoryPath: "/celulares"})

	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("CollectLinks() error = %v, want *BlockedError", err)
	}
	if !strings.Contains(blocked.URL, "o=2") {
		t.Errorf("BlockedError.URL = %q, want the page 2 search URL", blocked.URL)
	}
	if len(links) != 0 {
		t.Errorf("CollectLinks() returned %d links with a challenge, want none", len(links))
	}
}

func TestCollectLinksTimeoutIsSoftStop(t *testing.T) {
	fetcher := &fakeSearchFetcher{
		pages: map[int]string{
			1: resultPage("100000001", "100000002"),
		},
		errs: map[int]error{
			2: ErrTimeout{Err: context.DeadlineExceeded},
		},
	}

	crawler := NewCrawler(testConfig(), fetcher, nil)
	links, truncated, err := crawler.CollectLinks(context.Background(), models.SearchSpec{CategoryPath: "/celulares"})
	if err != nil {
		t.Fatalf("CollectLinks() error = %v, want soft stop", err)
	}
	if truncated {
		t.Error("CollectLinks() truncated = true, want false")
	}
	if len(links) != 2 {
		t.Errorf("CollectLinks() = %d links, want the 2 from page 1", len(links))
	}
}

func TestCollectLinksPropagatesNavigationFailure(t *testing.T) {
	fetcher := &fakeSearchFetcher{
		errs: map[int]error{
			1: ErrNavigation{Err: errors.New("tab crashed")},
		},
	}

	crawler := NewCrawler(testConfig(), fetcher, nil)
	if _, _, err := crawler.CollectLinks(context.Background(), models.SearchSpec{CategoryPath: "/celulares"}); err == nil {
		t.Fatal("CollectLinks() error = nil, want navigation error")
	}
}
