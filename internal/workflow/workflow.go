// Package workflow models the comparison session as an explicit state
// machine: CollectingURL → CollectingPreferences → ShowingResults. Each
// Workflow is a context object threaded through calls; there is no global
// session state.
package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/hartanah/propcompare/internal/model"
)

// Step enumerates the workflow stages.
type Step int

const (
	StepCollectingURL Step = iota
	StepCollectingPreferences
	StepShowingResults
)

func (s Step) String() string {
	switch s {
	case StepCollectingURL:
		return "collecting_url"
	case StepCollectingPreferences:
		return "collecting_preferences"
	case StepShowingResults:
		return "showing_results"
	}
	return "unknown"
}

// ErrOutOfOrder is returned when a submission arrives in the wrong step.
var ErrOutOfOrder = eris.New("workflow: submission out of order")

// Engine provides the pipeline stages a workflow drives. *pipeline.Pipeline
// satisfies it.
type Engine interface {
	ExtractProperty(ctx context.Context, url string) model.PropertyRecord
	FindComparables(ctx context.Context, ref model.PropertyRecord, prefs model.UserPreferences) []model.Comparable
	GenerateRecommendation(ctx context.Context, ref model.PropertyRecord, comps []model.Comparable, prefs model.UserPreferences) string
}

// Workflow holds the state of one comparison session.
type Workflow struct {
	ID string

	mu             sync.Mutex
	step           Step
	engine         Engine
	url            string
	reference      *model.PropertyRecord
	preferences    model.UserPreferences
	comparables    []model.Comparable
	recommendation string
}

// New creates a Workflow at the CollectingURL step.
func New(engine Engine) *Workflow {
	return &Workflow{
		ID:     uuid.NewString(),
		step:   StepCollectingURL,
		engine: engine,
	}
}

// Step returns the current step.
func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SubmitURL runs reference extraction and advances to preference
// collection. The returned record may be degraded (Error set); the
// workflow still advances so the user can decide whether to proceed.
func (w *Workflow) SubmitURL(ctx context.Context, url string) (model.PropertyRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepCollectingURL {
		return model.PropertyRecord{}, eris.Wrapf(ErrOutOfOrder, "expected %s, at %s", StepCollectingURL, w.step)
	}

	record := w.engine.ExtractProperty(ctx, url)
	w.url = url
	w.reference = &record
	w.step = StepCollectingPreferences
	return record, nil
}

// SubmitPreferences runs comparable search and recommendation, then
// advances to results.
func (w *Workflow) SubmitPreferences(ctx context.Context, prefs model.UserPreferences) (model.RunResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepCollectingPreferences {
		return model.RunResult{}, eris.Wrapf(ErrOutOfOrder, "expected %s, at %s", StepCollectingPreferences, w.step)
	}

	w.preferences = prefs
	w.comparables = w.engine.FindComparables(ctx, *w.reference, prefs)
	w.recommendation = w.engine.GenerateRecommendation(ctx, *w.reference, w.comparables, prefs)
	w.step = StepShowingResults

	return w.resultLocked(), nil
}

// Result returns the run outcome once the workflow has reached results.
func (w *Workflow) Result() (model.RunResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepShowingResults {
		return model.RunResult{}, false
	}
	return w.resultLocked(), true
}

// Reference returns the extracted record once available.
func (w *Workflow) Reference() (model.PropertyRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.reference == nil {
		return model.PropertyRecord{}, false
	}
	return *w.reference, true
}

// Reset returns the workflow to the initial step, discarding all state.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepCollectingURL
	w.url = ""
	w.reference = nil
	w.preferences = model.UserPreferences{}
	w.comparables = nil
	w.recommendation = ""
}

func (w *Workflow) resultLocked() model.RunResult {
	return model.RunResult{
		Reference:      *w.reference,
		Preferences:    w.preferences,
		Comparables:    w.comparables,
		Recommendation: w.recommendation,
	}
}
