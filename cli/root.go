package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "olx-scraper",
	Short: "Crawl OLX search results and extract ad details",
	Long: `olx-scraper paginates an OLX search, collects every listing link it
finds, then opens each ad in a bounded number of browser tabs to
extract title, price, location and description into a flat table.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}
