package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/hartanah/propcompare/internal/pipeline"
	"github.com/hartanah/propcompare/internal/scrape"
	"github.com/hartanah/propcompare/internal/store"
	anthropicpkg "github.com/hartanah/propcompare/pkg/anthropic"
	"github.com/hartanah/propcompare/pkg/firecrawl"
	"github.com/hartanah/propcompare/pkg/jina"
	"github.com/hartanah/propcompare/pkg/perplexity"
)

// initEngine wires the scraper chain and completion backends into a
// pipeline according to the loaded config.
func initEngine() (*pipeline.Pipeline, error) {
	jinaClient := jina.NewClient(cfg.Jina.Key, jina.WithBaseURL(cfg.Jina.BaseURL))
	firecrawlClient := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
	chain := scrape.NewChain(
		scrape.NewJinaAdapter(jinaClient),
		scrape.NewFirecrawlAdapter(firecrawlClient),
	)

	perplexityClient := perplexity.NewClient(cfg.Perplexity.Key,
		perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
		perplexity.WithModel(cfg.Perplexity.Model),
	)
	searcher := pipeline.NewPerplexityCompleter(perplexityClient, cfg.Perplexity.Model, cfg.Pipeline.MaxTokens)

	var llm pipeline.Completer
	switch cfg.LLM.Provider {
	case "anthropic":
		anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
		llm = pipeline.NewAnthropicCompleter(anthropicClient, cfg.Anthropic.Model, int64(cfg.Pipeline.MaxTokens))
	case "perplexity":
		llm = searcher
	default:
		return nil, eris.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}

	return pipeline.New(cfg, chain, llm, searcher), nil
}

// initStore opens the run-history database and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
