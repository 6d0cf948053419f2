package utils

import (
	"fmt"
	"time"
)

// Retry runs fn up to maxAttempts times, backing off exponentially
// (2s, 4s, 8s...) between failed attempts. Returns nil on the first
// success, or the last error once all attempts are exhausted.
//
// Usage:
//
//	err := utils.Retry(3, func() error {
//	    return session.FetchDetailPage(url)
//	})
func Retry(maxAttempts int, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < maxAttempts {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			Warn("Attempt %d/%d failed: %v — retrying in %v", attempt, maxAttempts, lastErr, wait)
			time.Sleep(wait)
		}
	}

	return fmt.Errorf("all %d attempts failed — last error: %w", maxAttempts, lastErr)
}
