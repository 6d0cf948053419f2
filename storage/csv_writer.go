package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"olx-scraper/models"
	"olx-scraper/utils"
)

// CSVWriter saves the crawl table to a CSV file.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write saves all listings, creating the output directory if needed.
//
// CSV columns: link, title, price, raw_price, location, description
func (w *CSVWriter) Write(listings []models.ListingDetail) error {
	if len(listings) == 0 {
		utils.Warn("No listings to write")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"link", "title", "price", "raw_price", "location", "description"})

	for _, l := range listings {
		price := ""
		if l.Price != nil {
			price = strconv.Itoa(*l.Price)
		}
		writer.Write([]string{
			l.Link,
			l.Title,
			price,
			l.RawPrice,
			l.Location,
			l.Description,
		})
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	utils.Success("Saved %d listings → %s", len(listings), w.path)
	return nil
}
