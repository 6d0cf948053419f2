package olx

import "testing"

func TestBlockedSentinel(t *testing.T) {
	searchURL := testOrigin + "/celulares?o=3"
	sentinel := blockedSentinel(searchURL)

	if sentinel.Link != searchURL {
		t.Errorf("Link = %q, want the search URL that was blocked", sentinel.Link)
	}
	if sentinel.Title == "" || sentinel.Description == "" {
		t.Error("sentinel must explain the block in title and description")
	}
	if sentinel.Price != nil || sentinel.RawPrice != "" {
		t.Error("sentinel must not carry price data")
	}
}
