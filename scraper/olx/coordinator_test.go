package olx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeDetailFetcher tracks the number of simultaneous fetches so the
// permit bound itself can be asserted.
type fakeDetailFetcher struct {
	mu       sync.Mutex
	inFlight int32
	maxSeen  int32
	failFor  map[string]bool
	calls    map[string]int
}

func (f *fakeDetailFetcher) FetchDetailPage(link string) (string, error) {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, current) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[link]++
	fail := f.failFor[link]
	f.mu.Unlock()

	if fail {
		return "", ErrNavigation{Err: errors.New("tab crashed")}
	}
	return fmt.Sprintf(`<html><body><h1>Ad %s</h1><div>R$ 100</div></body></html>`, link), nil
}

func testLinks(n int) []string {
	links := make([]string, n)
	for i := range links {
		links[i] = fmt.Sprintf("https://www.olx.com.br/ad-%09d", i+1)
	}
	return links
}

func TestFetchDetailsEveryLinkOnce(t *testing.T) {
	for _, workers := range []int{1, 6, 20} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			links := testLinks(20)
			fetcher := &fakeDetailFetcher{}

			cfg := testConfig()
			cfg.MaxWorkers = workers

			coordinator := NewCoordinator(cfg, fetcher, nil)
			results := coordinator.FetchDetails(context.Background(), links)

			if len(results) != len(links) {
				t.Fatalf("FetchDetails() = %d records, want %d", len(results), len(links))
			}
			seen := make(map[string]bool)
			for _, r := range results {
				if r.Link == "" {
					t.Error("record with empty link")
				}
				if seen[r.Link] {
					t.Errorf("duplicate link in output: %s", r.Link)
				}
				seen[r.Link] = true
			}
			if got := atomic.LoadInt32(&fetcher.maxSeen); got > int32(workers) {
				t.Errorf("max in-flight fetches = %d, want at most %d", got, workers)
			}
		})
	}
}

func TestFetchDetailsDeduplicatesInput(t *testing.T) {
	links := testLinks(3)
	doubled := append(append([]string{}, links...), links...)

	fetcher := &fakeDetailFetcher{}
	coordinator := NewCoordinator(testConfig(), fetcher, nil)

	results := coordinator.FetchDetails(context.Background(), doubled)
	if len(results) != 3 {
		t.Fatalf("FetchDetails() = %d records, want 3", len(results))
	}
	for link, n := range fetcher.calls {
		if n != 1 {
			t.Errorf("link %s fetched %d times, want once", link, n)
		}
	}
}

func TestFetchDetailsDegradesFailures(t *testing.T) {
	links := testLinks(4)
	fetcher := &fakeDetailFetcher{failFor: map[string]bool{links[1]: true}}

	coordinator := NewCoordinator(testConfig(), fetcher, nil)
	results := coordinator.FetchDetails(context.Background(), links)

	if len(results) != 4 {
		t.Fatalf("FetchDetails() = %d records, want 4 (failures degrade, not drop)", len(results))
	}

	var degraded int
	for _, r := range results {
		if r.Link == links[1] {
			if r.Title != "" || r.RawPrice != "" || r.Description != "" || r.Location != "" || r.Price != nil {
				t.Errorf("degraded record should carry only the link, got %+v", r)
			}
			degraded++
		} else if r.Title == "" {
			t.Errorf("successful fetch for %s produced empty title", r.Link)
		}
	}
	if degraded != 1 {
		t.Errorf("degraded records = %d, want 1", degraded)
	}
}

func TestFetchDetailsRespectsCap(t *testing.T) {
	cfg := testConfig()
	cfg.MaxAds = 5

	fetcher := &fakeDetailFetcher{}
	coordinator := NewCoordinator(cfg, fetcher, nil)

	results := coordinator.FetchDetails(context.Background(), testLinks(9))
	if len(results) != 5 {
		t.Errorf("FetchDetails() = %d records, want cap of 5", len(results))
	}
}

func TestFetchDetailsEmptyInput(t *testing.T) {
	coordinator := NewCoordinator(testConfig(), &fakeDetailFetcher{}, nil)
	if results := coordinator.FetchDetails(context.Background(), nil); len(results) != 0 {
		t.Errorf("FetchDetails(nil) = %d records, want 0", len(results))
	}
}
