package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/hartanah/propcompare/pkg/jina"
)

// JinaAdapter wraps a Jina Reader client as a Scraper.
type JinaAdapter struct {
	client jina.Client
}

// NewJinaAdapter creates a Jina-backed scraper.
func NewJinaAdapter(client jina.Client) *JinaAdapter {
	return &JinaAdapter{client: client}
}

func (a *JinaAdapter) Name() string {
	return "jina"
}

func (a *JinaAdapter) Scrape(ctx context.Context, url string) (*Result, error) {
	resp, err := a.client.Read(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: jina read")
	}
	if resp.Data.Content == "" {
		return nil, eris.Errorf("scrape: jina returned empty content for %s", url)
	}
	return &Result{
		Page: Page{
			URL:      url,
			Title:    resp.Data.Title,
			Markdown: resp.Data.Content,
		},
		Source: a.Name(),
	}, nil
}
