// Package pipeline sequences the three stages of a comparison run:
// reference extraction, comparable search, and recommendation. Every
// stage is fail-soft: callers receive degraded data, never errors.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hartanah/propcompare/internal/config"
	"github.com/hartanah/propcompare/internal/model"
	"github.com/hartanah/propcompare/internal/parse"
	"github.com/hartanah/propcompare/internal/scrape"
)

// Pipeline orchestrates a full property-comparison run. Execution is
// strictly sequential; there is no parallelism and no retrying.
type Pipeline struct {
	cfg      *config.Config
	chain    *scrape.Chain
	llm      Completer // formatting + recommendation provider
	searcher Completer // search-capable provider

	// OnStatus, when set, receives stage transitions. Used by callers
	// that persist run progress.
	OnStatus func(model.RunStatus)
}

// New creates a Pipeline.
func New(cfg *config.Config, chain *scrape.Chain, llm, searcher Completer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		chain:    chain,
		llm:      llm,
		searcher: searcher,
	}
}

func (p *Pipeline) setStatus(status model.RunStatus) {
	if p.OnStatus != nil {
		p.OnStatus(status)
	}
}

// Run executes extraction, comparison, and recommendation for one listing
// URL. The result always holds a complete reference record; degraded
// stages show up as the record's Error field, an empty comparable list,
// or the recommendation fallback string.
func (p *Pipeline) Run(ctx context.Context, url string, prefs model.UserPreferences) model.RunResult {
	p.setStatus(model.RunStatusExtracting)
	ref := p.ExtractProperty(ctx, url)

	p.setStatus(model.RunStatusComparing)
	comps := p.FindComparables(ctx, ref, prefs)

	p.setStatus(model.RunStatusRecommending)
	recommendation := p.GenerateRecommendation(ctx, ref, comps, prefs)

	return model.RunResult{
		Reference:      ref,
		Preferences:    prefs,
		Comparables:    comps,
		Recommendation: recommendation,
	}
}

// ExtractProperty turns a single listing URL into a PropertyRecord. It
// never returns an error: structured parsing falls back to regex
// recovery, and transport failures yield a sentinel record whose Error
// field carries the failure description.
func (p *Pipeline) ExtractProperty(ctx context.Context, url string) model.PropertyRecord {
	log := zap.L().With(zap.String("url", url))

	result, err := p.chain.Scrape(ctx, url)
	if err != nil {
		log.Warn("extract: scrape failed", zap.Error(err))
		return model.SentinelRecord(url, fmt.Sprintf("Error: %v", err))
	}

	raw := truncate(result.Page.Markdown, p.cfg.Pipeline.MaxRawChars)

	formatted, err := p.llm.Complete(ctx, fmt.Sprintf(formatPrompt, raw))
	if err != nil {
		log.Warn("extract: format call failed", zap.Error(err))
		return model.SentinelRecord(url, fmt.Sprintf("Error: %v", err))
	}

	if obj, ok := parse.ParseObject(parse.TextPayload(formatted)); ok {
		log.Info("extract: structured parse succeeded", zap.String("source", result.Source))
		return recordFromMap(obj, url)
	}

	// Structured output failed; recover what the regexes can from the
	// original scrape text, not the formatting result.
	log.Info("extract: falling back to regex recovery", zap.String("source", result.Source))
	return parse.Fallback(raw, url)
}
