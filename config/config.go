package config

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	Origin           string
	RequestTimeout   time.Duration
	CardWait         time.Duration
	RenderSettle     time.Duration
	MinDelay         time.Duration
	MaxDelay         time.Duration
	MaxRetries       int
	MaxAds           int
	MaxWorkers       int
	Headless         bool
	ChallengeMarkers []string
	CSVPath          string
	MetricsAddr      string
	SaveDB           bool
	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
}

func DefaultConfig() *Config {
	return &Config{
		Origin:         "https://www.olx.com.br",
		RequestTimeout: 60 * time.Second,
		CardWait:       8 * time.Second,
		RenderSettle:   2 * time.Second,
		MinDelay:       500 * time.Millisecond,
		MaxDelay:       2 * time.Second,
		MaxRetries:     2,
		MaxAds:         3000,
		MaxWorkers:     6,
		Headless:       true,
		// Substrings OLX challenge pages carry; update as the site evolves.
		ChallengeMarkers: []string{"robô", "verificação", "captcha"},
		CSVPath:          "output/ads.csv",
		MetricsAddr:      "",
		SaveDB:           false,
		DBHost:           "localhost",
		DBPort:           5432,
		DBUser:           "postgres",
		DBPassword:       "postgres",
		DBName:           "olx_scraper",
		DBSSLMode:        "disable",
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Origin == "" {
		return fmt.Errorf("origin cannot be empty")
	}
	parsed, err := url.Parse(c.Origin)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("origin must include a host")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.CardWait <= 0 {
		return fmt.Errorf("card wait must be positive")
	}
	if c.RenderSettle < 0 {
		return fmt.Errorf("render settle cannot be negative")
	}
	if c.MinDelay < 0 || c.MaxDelay < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	if c.MinDelay > c.MaxDelay {
		return fmt.Errorf("min delay (%s) cannot exceed max delay (%s)", c.MinDelay, c.MaxDelay)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	if c.MaxAds <= 0 {
		return fmt.Errorf("max ads must be positive")
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("max workers must be positive")
	}
	if c.CSVPath == "" {
		return fmt.Errorf("csv path cannot be empty")
	}
	return nil
}
