package main

import (
	"os"

	"olx-scraper/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
