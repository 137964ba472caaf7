package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hartanah/propcompare/internal/config"
	"github.com/hartanah/propcompare/internal/scrape"
)

// mockCompleter is a testify mock over the Completer interface.
type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// stubScraper returns a fixed page or error.
type stubScraper struct {
	name   string
	result *scrape.Result
	err    error
}

func (s *stubScraper) Name() string { return s.name }

func (s *stubScraper) Scrape(ctx context.Context, url string) (*scrape.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func markdownScraper(markdown string) *stubScraper {
	return &stubScraper{
		name: "stub",
		result: &scrape.Result{
			Page:   scrape.Page{Markdown: markdown},
			Source: "stub",
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			MaxRawChars:     12000,
			ComparableCount: 2,
			MaxTokens:       1024,
		},
	}
}

func testPipeline(scraper scrape.Scraper, llm, searcher Completer) *Pipeline {
	return New(testConfig(), scrape.NewChain(scraper), llm, searcher)
}
