package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"olx-scraper/models"
)

type Report struct {
	TotalListings      int
	PricedListings     int
	AveragePrice       float64
	MinPrice           int
	MaxPrice           int
	MostExpensive      models.ListingDetail
	ListingsByLocation map[string]int
}

// GenerateReport cleans the dataset and computes the market summary.
func GenerateReport(listings []models.ListingDetail) Report {
	cleaned := CleanListings(listings)

	report := Report{
		TotalListings:      len(cleaned),
		ListingsByLocation: make(map[string]int),
	}

	if len(cleaned) == 0 {
		return report
	}

	var (
		priceSum int
		maxPrice = -1
		minPrice = math.MaxInt
	)

	for _, l := range cleaned {
		report.ListingsByLocation[normalizeLocation(l.Location)]++

		if l.Price == nil || *l.Price <= 0 {
			continue
		}
		report.PricedListings++
		priceSum += *l.Price

		if *l.Price > maxPrice {
			maxPrice = *l.Price
			report.MostExpensive = l
		}
		if *l.Price < minPrice {
			minPrice = *l.Price
		}
	}

	if report.PricedListings > 0 {
		report.AveragePrice = float64(priceSum) / float64(report.PricedListings)
		report.MinPrice = minPrice
		report.MaxPrice = maxPrice
	}

	return report
}

func PrintReport(report Report) {
	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────────────────────┐")
	fmt.Println("│                   Classifieds Market Summary                 │")
	fmt.Println("├───────────────────────────────┬──────────────────────────────┤")
	fmt.Printf("│ %-29s │ %-28d │\n", "Total Listings", report.TotalListings)
	fmt.Printf("│ %-29s │ %-28d │\n", "Listings With Price", report.PricedListings)
	fmt.Printf("│ %-29s │ R$ %-25.2f │\n", "Average Price", report.AveragePrice)
	fmt.Printf("│ %-29s │ R$ %-25d │\n", "Minimum Price", report.MinPrice)
	fmt.Printf("│ %-29s │ R$ %-25d │\n", "Maximum Price", report.MaxPrice)
	fmt.Println("└───────────────────────────────┴──────────────────────────────┘")

	if report.MostExpensive.Link != "" {
		fmt.Println()
		fmt.Println("Most expensive ad:")
		fmt.Printf("  %s\n", truncateText(report.MostExpensive.Title, 60))
		fmt.Printf("  %s | %s\n", report.MostExpensive.RawPrice, normalizeLocation(report.MostExpensive.Location))
		fmt.Printf("  %s\n", report.MostExpensive.Link)
	}

	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────┬───────────────┐")
	fmt.Println("│ Listings per Location                        │ Count         │")
	fmt.Println("├──────────────────────────────────────────────┼───────────────┤")
	for _, loc := range sortedLocations(report.ListingsByLocation) {
		fmt.Printf("│ %-44s │ %-13d │\n", truncateText(loc, 44), report.ListingsByLocation[loc])
	}
	fmt.Println("└──────────────────────────────────────────────┴───────────────┘")
}

// CleanListings trims fields and drops duplicate or link-less rows.
// The coordinator already guarantees uniqueness; this is the last
// checkpoint before the data leaves the process.
func CleanListings(listings []models.ListingDetail) []models.ListingDetail {
	seen := make(map[string]bool)
	cleaned := make([]models.ListingDetail, 0, len(listings))

	for _, l := range listings {
		l.Link = strings.TrimSpace(l.Link)
		l.Title = strings.TrimSpace(l.Title)
		l.Location = strings.TrimSpace(l.Location)
		l.Description = strings.TrimSpace(l.Description)

		if l.Link == "" || seen[l.Link] {
			continue
		}

		seen[l.Link] = true
		cleaned = append(cleaned, l)
	}

	return cleaned
}

func normalizeLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return "Unknown"
	}
	return location
}

func sortedLocations(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
