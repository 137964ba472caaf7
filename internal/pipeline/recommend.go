package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/hartanah/propcompare/internal/model"
)

// NoRecommendation is returned when the backend response carries no text.
const NoRecommendation = "Could not generate a recommendation."

const recommendPromptTmpl = `As a Malaysian property expert, analyze these properties:

REFERENCE PROPERTY:
%s

ALTERNATIVES:
%s

USER PREFERENCES:
%s

Use Markdown formatting with clean headers, bullet points, and concise text.

Follow this EXACT structure for your analysis:

# Property Comparison Analysis

## 1. Market Value Analysis

### Reference Property: [PROPERTY NAME]
* **Price:** [PRICE]
* **Size:** [SIZE] sqft
* **Price per sqft:** RM [CALCULATED VALUE]
* **Tenure:** [FREEHOLD/LEASEHOLD]
* **Listing Type:** [FOR SALE/FOR RENT]
* **Link:** [FULL PROPERTY URL]

### Alternatives
[SAME FIELDS FOR EACH ALTERNATIVE]

### Price Comparison
| Property | Price | Size (sqft) | Price/sqft |
|----------|-------|-------------|------------|
| Reference | ... | ... | ... |

### Conclusion
[CONCISE PRICE ANALYSIS - 2-3 SENTENCES MAX]

## 2. Property Comparison

### Location
### Facilities
### Size and Layout
### Accessibility
[BRIEF ANALYSIS BASED ON USER PREFERENCES]

## 3. Investment Potential

### Market Trends
### Value Appreciation
### Rental Yield Estimates

## 4. Expert Recommendation

### Best Value: [RECOMMENDED PROPERTY NAME]
### Why This Property?
### Pros
### Cons
### Negotiation Tips
### Final Verdict
[CONCISE FINAL RECOMMENDATION - 1-2 SENTENCES]`

// referenceSummary is the reduced field subset of the reference record
// used in the recommendation prompt. Bounding the prompt size matters
// more than completeness here.
type referenceSummary struct {
	Title      string        `json:"title"`
	Location   string        `json:"location"`
	Price      string        `json:"price"`
	Details    model.Details `json:"details"`
	Type       string        `json:"property_type"`
	Facilities []string      `json:"facilities"`
	ListingURL string        `json:"listing_url"`
}

type comparableSummary struct {
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Price        string   `json:"price"`
	Size         float64  `json:"size"`
	PricePerSqft int      `json:"price_per_sqft"`
	Tenure       string   `json:"tenure"`
	ListingType  string   `json:"listing_type"`
	Facilities   []string `json:"facilities"`
	Link         string   `json:"link"`
}

// GenerateRecommendation builds the expert-analysis prompt from reduced
// inputs and returns the backend's narrative verbatim. No structural
// validation is performed on the returned text.
func (p *Pipeline) GenerateRecommendation(ctx context.Context, ref model.PropertyRecord, comps []model.Comparable, prefs model.UserPreferences) string {
	refJSON := marshalForPrompt(reduceReference(ref))
	compsJSON := marshalForPrompt(reduceComparables(comps))
	prefsJSON := marshalForPrompt(prefs)

	prompt := fmt.Sprintf(recommendPromptTmpl, refJSON, compsJSON, prefsJSON)

	text, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		zap.L().Warn("recommend: completion failed", zap.Error(err))
		return NoRecommendation
	}
	if text == "" {
		return NoRecommendation
	}
	return text
}

func reduceReference(ref model.PropertyRecord) referenceSummary {
	return referenceSummary{
		Title:      ref.Title,
		Location:   ref.Location,
		Price:      ref.Price,
		Details:    ref.Details,
		Type:       ref.PropertyType,
		Facilities: ref.Facilities,
		ListingURL: ref.ListingURL,
	}
}

func reduceComparables(comps []model.Comparable) []comparableSummary {
	out := make([]comparableSummary, len(comps))
	for i, c := range comps {
		out[i] = comparableSummary{
			Title:        c.Title,
			Location:     c.Location,
			Price:        c.Price,
			Size:         c.Size,
			PricePerSqft: c.PricePerSqft,
			Tenure:       c.Tenure,
			ListingType:  c.ListingType,
			Facilities:   c.Facilities,
			Link:         c.Link,
		}
	}
	return out
}

func marshalForPrompt(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
