// Package scrape provides chained listing-page scraping: a cheap reader
// first, Firecrawl as fallback.
package scrape

import "context"

// Page holds the scraped content of a single listing page.
type Page struct {
	URL      string
	Title    string
	Markdown string
}

// Result pairs a scraped page with the scraper that produced it.
type Result struct {
	Page   Page
	Source string // e.g. "jina", "firecrawl"
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
}
