package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hartanah/propcompare/internal/model"
)

func TestGenerateRecommendation_ReturnsNarrativeVerbatim(t *testing.T) {
	narrative := "# Property Comparison Analysis\n\nBuy the Vista Tower unit."

	llm := &mockCompleter{}
	llm.On("Complete", mock.Anything, mock.Anything).Return(narrative, nil)

	p := testPipeline(markdownScraper(""), llm, &mockCompleter{})
	got := p.GenerateRecommendation(context.Background(), referenceRecord(), nil, model.UserPreferences{})

	assert.Equal(t, narrative, got)
}

func TestGenerateRecommendation_FailureYieldsFallback(t *testing.T) {
	llm := &mockCompleter{}
	llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("overloaded"))

	p := testPipeline(markdownScraper(""), llm, &mockCompleter{})
	got := p.GenerateRecommendation(context.Background(), referenceRecord(), nil, model.UserPreferences{})

	assert.Equal(t, NoRecommendation, got)
}

func TestGenerateRecommendation_EmptyResponseYieldsFallback(t *testing.T) {
	llm := &mockCompleter{}
	llm.On("Complete", mock.Anything, mock.Anything).Return("", nil)

	p := testPipeline(markdownScraper(""), llm, &mockCompleter{})
	got := p.GenerateRecommendation(context.Background(), referenceRecord(), nil, model.UserPreferences{})

	assert.Equal(t, NoRecommendation, got)
}

func TestGenerateRecommendation_PromptCarriesInputs(t *testing.T) {
	var captured string
	llm := &mockCompleter{}
	llm.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		captured = prompt
		return true
	})).Return("ok", nil)

	comps := []model.Comparable{{
		Title: "Vista Tower",
		Price: "RM 600,000",
		Link:  "https://www.iproperty.com.my/property/vista-tower",
	}}
	prefs := model.UserPreferences{Purpose: "investment"}

	p := testPipeline(markdownScraper(""), llm, &mockCompleter{})
	p.GenerateRecommendation(context.Background(), referenceRecord(), comps, prefs)

	assert.Contains(t, captured, "Sky Residence")
	assert.Contains(t, captured, "Vista Tower")
	assert.Contains(t, captured, "investment")
	assert.True(t, strings.Contains(captured, "# Property Comparison Analysis"))
}

func TestPipelineRun_FailureIsolation(t *testing.T) {
	// A dead scraper degrades extraction; the searcher still runs with the
	// sentinel record and the recommendation still completes.
	scraper := &stubScraper{name: "stub", err: errors.New("unreachable")}

	searcher := &mockCompleter{}
	searcher.On("Complete", mock.Anything, mock.MatchedBy(searchPromptMatcher)).Return(completeCandidates, nil)

	llm := &mockCompleter{}
	llm.On("Complete", mock.Anything, mock.Anything).Return("Recommendation text", nil)

	p := testPipeline(scraper, llm, searcher)

	var statuses []model.RunStatus
	p.OnStatus = func(s model.RunStatus) { statuses = append(statuses, s) }

	result := p.Run(context.Background(), "https://example.com/listing/ref", model.UserPreferences{})

	assert.True(t, result.Reference.Degraded())
	assert.Len(t, result.Comparables, 2)
	assert.Equal(t, "Recommendation text", result.Recommendation)
	assert.Equal(t, []model.RunStatus{
		model.RunStatusExtracting,
		model.RunStatusComparing,
		model.RunStatusRecommending,
	}, statuses)
}
