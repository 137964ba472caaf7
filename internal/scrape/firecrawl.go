package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/hartanah/propcompare/pkg/firecrawl"
)

// FirecrawlAdapter wraps a Firecrawl client as a Scraper.
type FirecrawlAdapter struct {
	client firecrawl.Client
}

// NewFirecrawlAdapter creates a Firecrawl-backed scraper.
func NewFirecrawlAdapter(client firecrawl.Client) *FirecrawlAdapter {
	return &FirecrawlAdapter{client: client}
}

func (a *FirecrawlAdapter) Name() string {
	return "firecrawl"
}

func (a *FirecrawlAdapter) Scrape(ctx context.Context, url string) (*Result, error) {
	resp, err := a.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     url,
		Formats: []string{"markdown"},
	})
	if err != nil {
		return nil, eris.Wrap(err, "scrape: firecrawl scrape")
	}
	if resp.Data.Markdown == "" {
		return nil, eris.Errorf("scrape: firecrawl returned empty content for %s", url)
	}
	return &Result{
		Page: Page{
			URL:      url,
			Title:    resp.Data.Title,
			Markdown: resp.Data.Markdown,
		},
		Source: a.Name(),
	}, nil
}
