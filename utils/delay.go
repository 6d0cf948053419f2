package utils

import (
	"math/rand"
	"time"
)

// RandomDelay sleeps for a random duration between min and max.
// A fixed inter-request delay is a detectable pattern; jitter makes
// the crawl look closer to a human paging through results.
func RandomDelay(min, max time.Duration) {
	if max <= min {
		time.Sleep(min)
		return
	}
	time.Sleep(min + time.Duration(rand.Int63n(int64(max-min))))
}
