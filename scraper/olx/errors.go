package olx

import (
	"context"
	"errors"
	"fmt"
)

// ErrTimeout indicates a navigation that ran out its deadline.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrNavigation indicates any other browser-side failure while
// loading or reading a page.
type ErrNavigation struct {
	Err error
}

func (e ErrNavigation) Error() string {
	return fmt.Errorf("navigation: %w", e.Err).Error()
}

func (e ErrNavigation) Unwrap() error {
	return e.Err
}

// BlockedError signals that the marketplace served a verification
// challenge instead of results; the whole crawl stops on it.
type BlockedError struct {
	URL string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("verification challenge served at %s", e.URL)
}

func classifyNav(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	return ErrNavigation{Err: err}
}

// IsTimeout reports whether err is (or wraps) a navigation timeout.
func IsTimeout(err error) bool {
	var timeout ErrTimeout
	return errors.As(err, &timeout)
}

func errorLabel(err error) string {
	if err == nil {
		return "none"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var nav ErrNavigation
	if errors.As(err, &nav) {
		return "navigation"
	}
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return "blocked"
	}
	return "other"
}
