package olx

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"olx-scraper/config"
	"olx-scraper/utils"
)

// Session owns one headless browser shared by the whole crawl: the
// pagination loop drives a single dedicated tab, while each detail
// fetch opens its own short-lived tab inside the same browser so
// cookies and locale carry over without navigation state clashing.
type Session struct {
	cfg           *config.Config
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	crawlCtx      context.Context
	crawlCancel   context.CancelFunc
}

func NewSession(cfg *config.Config) (*Session, error) {
	utils.Info("Launching Chrome browser...")

	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		utils.StealthOpts(cfg.Headless)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	crawlCtx, crawlCancel := chromedp.NewContext(browserCtx)

	utils.Success("Browser ready")
	return &Session{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		crawlCtx:      crawlCtx,
		crawlCancel:   crawlCancel,
	}, nil
}

func (s *Session) Close() {
	utils.Info("Closing browser...")
	s.crawlCancel()
	s.browserCancel()
	s.allocCancel()
}

// FetchSearchPage loads a result page in the dedicated crawl tab and
// returns its rendered HTML. Result cards get a bounded head start
// beyond document load, since OLX fills them in after the fact; the
// page HTML is captured either way so the caller can tell a challenge
// page from an empty one.
func (s *Session) FetchSearchPage(pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(s.crawlCtx, s.cfg.RequestTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		utils.HideWebDriver(),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return "", classifyNav(err)
	}

	waitCtx, waitCancel := context.WithTimeout(ctx, s.cfg.CardWait)
	_ = chromedp.Run(waitCtx, chromedp.WaitVisible(listingCardSelector, chromedp.ByQuery))
	waitCancel()

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", classifyNav(err)
	}
	return html, nil
}

// FetchDetailPage loads one ad page in a fresh tab and returns its
// rendered HTML. The tab is torn down before returning so concurrent
// fetches never share navigation state.
func (s *Session) FetchDetailPage(link string) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	defer tabCancel()

	ctx, cancel := context.WithTimeout(tabCtx, s.cfg.RequestTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(link),
		utils.HideWebDriver(),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.RenderSettle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", classifyNav(err)
	}
	return html, nil
}
