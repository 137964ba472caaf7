package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hartanah/propcompare/internal/model"
	"github.com/hartanah/propcompare/internal/parse"
)

const (
	iPropertyHost    = "https://www.iproperty.com.my"
	propertyGuruHost = "https://www.propertyguru.com.my"
)

const searchPromptTmpl = `Find %d similar property listings to this reference property, ensuring they are DIFFERENT properties:

- Location: %s
- Price: up to %s
- Bedrooms: %s

User wants: %s
Budget: %s-%s

CRITICAL REQUIREMENTS:
1. Do NOT include this reference property URL: %s
2. Do NOT include this reference property title: %s
3. Extract the property size in square feet
4. Calculate the price per square foot
5. Determine if it is FREEHOLD or LEASEHOLD
6. Specify if it is FOR SALE or FOR RENT
7. Extract at least 3-5 common facilities (pool, gym, security, parking, etc.)
8. Include FULL direct URLs from iProperty.com.my or PropertyGuru.com.my

Return as JSON array with this exact structure:
` + "```json" + `
[
  {
    "title": "Property Name",
    "location": "Full Location",
    "price": "RM 500,000",
    "price_numeric": 500000,
    "size": 1000,
    "price_per_sqft": 500,
    "bedrooms": 3,
    "tenure": "Freehold",
    "listing_type": "For Sale",
    "facilities": ["Swimming Pool", "Gym", "24-hour Security"],
    "link": "https://www.iproperty.com.my/property/..."
  }
]
` + "```"

const detailPromptTmpl = `Extract ONLY the following details from this property listing: %s

Return ONLY a JSON object with these fields: %s

Field formats:
- size: square feet, number only
- price: price in RM, number only
- tenure: either "Freehold" or "Leasehold"
- listing_type: either "For Sale" or "For Rent"
- facilities: array of facility names`

// FindComparables searches for listings comparable to the reference and
// normalizes them. It never fails: any search or parse error yields an
// empty list, indistinguishable from "no comparables found". Output
// preserves backend order after exclusion filtering.
func (p *Pipeline) FindComparables(ctx context.Context, ref model.PropertyRecord, prefs model.UserPreferences) []model.Comparable {
	log := zap.L().With(zap.String("reference", ref.ListingURL))

	text, err := p.searcher.Complete(ctx, p.buildSearchPrompt(ref, prefs))
	if err != nil {
		log.Warn("comparables: search failed", zap.Error(err))
		return []model.Comparable{}
	}

	records, ok := parse.ParseRecords(parse.TextPayload(text))
	if !ok {
		log.Warn("comparables: response did not parse as records")
		return []model.Comparable{}
	}

	comparables := make([]model.Comparable, 0, len(records))
	for _, rec := range records {
		c := comparableFromMap(rec)

		// Self-exclusion: the reference must never appear in its own
		// comparison set.
		if c.Link == ref.ListingURL || c.Title == ref.Title {
			continue
		}

		normalizeLink(&c, rec)

		if c.MissingDetails() && c.Link != "" {
			p.enrichComparable(ctx, &c)
		}

		c.DerivePricePerSqft()
		c.InferListingType()
		c.ApplyDefaults()

		if c.Title == "" || c.Link == "" {
			continue
		}
		comparables = append(comparables, c)
	}

	log.Info("comparables: search complete",
		zap.Int("candidates", len(records)),
		zap.Int("retained", len(comparables)),
	)
	return comparables
}

func (p *Pipeline) buildSearchPrompt(ref model.PropertyRecord, prefs model.UserPreferences) string {
	location := ref.Location
	if location == "" || location == model.SentinelNotSpecified {
		location = "Kuala Lumpur"
	}

	ceiling := ref.Price
	if v, ok := model.ParsePriceMYR(ref.Price); ok {
		ceiling = model.FormatMYR(v)
	}

	return fmt.Sprintf(searchPromptTmpl,
		p.cfg.Pipeline.ComparableCount,
		location,
		ceiling,
		ref.Details.Beds,
		purposeOrDefault(prefs),
		model.FormatMYR(prefs.BudgetRange.Min),
		model.FormatMYR(prefs.BudgetRange.Max),
		ref.ListingURL,
		ref.Title,
	)
}

func purposeOrDefault(prefs model.UserPreferences) string {
	if prefs.Purpose == "" {
		return model.SentinelNotSpecified
	}
	return prefs.Purpose
}

// enrichComparable issues one narrow follow-up request scoped to exactly
// the fields still missing. Errors are tolerated: the candidate keeps
// whatever partial data it has.
func (p *Pipeline) enrichComparable(ctx context.Context, c *model.Comparable) {
	missing := missingFields(*c)
	if len(missing) == 0 {
		return
	}

	prompt := fmt.Sprintf(detailPromptTmpl, c.Link, strings.Join(missing, ", "))
	text, err := p.searcher.Complete(ctx, prompt)
	if err != nil {
		zap.L().Warn("comparables: detail fetch failed",
			zap.String("link", c.Link),
			zap.Error(err),
		)
		return
	}

	details, ok := parse.ParseObject(parse.TextPayload(text))
	if !ok {
		zap.L().Warn("comparables: detail response did not parse", zap.String("link", c.Link))
		return
	}

	mergeDetails(c, details)
}

func missingFields(c model.Comparable) []string {
	var missing []string
	if c.Size == 0 {
		missing = append(missing, "size")
	}
	if c.PricePerSqft == 0 && c.PriceNumeric == 0 {
		missing = append(missing, "price")
	}
	if c.Tenure == "" {
		missing = append(missing, "tenure")
	}
	if c.ListingType == "" {
		missing = append(missing, "listing_type")
	}
	if len(c.Facilities) == 0 {
		missing = append(missing, "facilities")
	}
	return missing
}

var digitsPattern = regexp.MustCompile(`\d+`)

func mergeDetails(c *model.Comparable, details map[string]any) {
	if c.Size == 0 {
		c.Size = numberOf(details["size"])
	}
	if c.PriceNumeric == 0 {
		c.PriceNumeric = numberOf(details["price"])
	}
	if c.Tenure == "" {
		if v, ok := details["tenure"].(string); ok {
			c.Tenure = strings.TrimSpace(v)
		}
	}
	if c.ListingType == "" {
		if v, ok := details["listing_type"].(string); ok {
			c.ListingType = strings.TrimSpace(v)
		}
	}
	if len(c.Facilities) == 0 {
		c.Facilities = stringSliceField(details, "facilities")
	}
}

// numberOf coerces a backend value to a number: numeric values pass
// through, strings surrender their first numeric run ("1,200 sqft" → 1200
// after comma stripping, "RM 500,000" → 500000).
func numberOf(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if parsed, ok := model.ParsePriceMYR(t); ok {
			return parsed
		}
		if m := digitsPattern.FindString(strings.ReplaceAll(t, ",", "")); m != "" {
			if n, err := strconv.ParseFloat(m, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

func comparableFromMap(m map[string]any) model.Comparable {
	c := model.Comparable{
		Title:        stringField(m, "title", ""),
		Location:     stringField(m, "location", ""),
		Price:        priceStringOf(m),
		PriceNumeric: numberOf(m["price_numeric"]),
		Size:         numberOf(m["size"]),
		PricePerSqft: int(numberOf(m["price_per_sqft"])),
		Bedrooms:     int(numberOf(m["bedrooms"])),
		Tenure:       stringField(m, "tenure", ""),
		ListingType:  stringField(m, "listing_type", ""),
		Facilities:   stringSliceField(m, "facilities"),
		Link:         stringField(m, "link", ""),
	}
	if c.PriceNumeric == 0 && c.Price != "" {
		if v, ok := model.ParsePriceMYR(c.Price); ok {
			c.PriceNumeric = v
		}
	}
	return c
}

func priceStringOf(m map[string]any) string {
	switch v := m["price"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v > 0 {
			return model.FormatMYR(v)
		}
	}
	return ""
}

// normalizeLink rewrites relative links to absolute URLs. The host is
// inferred by substring matching over the candidate's own text fields.
func normalizeLink(c *model.Comparable, raw map[string]any) {
	if c.Link == "" || strings.HasPrefix(c.Link, "http") {
		return
	}

	var hay strings.Builder
	for _, v := range raw {
		if s, ok := v.(string); ok {
			hay.WriteString(strings.ToLower(s))
			hay.WriteByte(' ')
		}
	}

	switch {
	case strings.Contains(hay.String(), "iproperty"):
		c.Link = iPropertyHost + c.Link
	case strings.Contains(hay.String(), "propertyguru"):
		c.Link = propertyGuruHost + c.Link
	}
}
