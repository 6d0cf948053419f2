package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"olx-scraper/models"
)

func TestCSVWriterWrite(t *testing.T) {
	price := 4200
	listings := []models.ListingDetail{
		{
			Link:        "https://www.olx.com.br/ad-111111111",
			Title:       "iPhone 15 Pro Max",
			RawPrice:    "R$ 4.200",
			Price:       &price,
			Location:    "São Paulo, SP",
			Description: "Aparelho impecável, com nota fiscal.",
		},
		{
			Link: "https://www.olx.com.br/ad-222222222",
		},
	}

	path := filepath.Join(t.TempDir(), "out", "ads.csv")
	if err := NewCSVWriter(path).Write(listings); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "link" || rows[0][2] != "price" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "4200" {
		t.Errorf("price cell = %q, want %q", rows[1][2], "4200")
	}
	// Rows stay rectangular: missing fields are empty cells, not gaps.
	if rows[2][2] != "" || rows[2][1] != "" {
		t.Errorf("degraded row = %v, want empty non-link cells", rows[2])
	}
}

func TestCSVWriterNoListings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ads.csv")
	if err := NewCSVWriter(path).Write(nil); err != nil {
		t.Fatalf("Write(nil) error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for an empty dataset")
	}
}
