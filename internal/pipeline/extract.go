package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hartanah/propcompare/internal/model"
)

const formatPrompt = `Extract structured JSON from this property listing. Return ONLY valid JSON.

Required fields:
- title, location, price (MYR display string, e.g. "RM 650,000")
- details: beds, baths, sqft
- property_type, facilities (array), amenities (object)
- listing_url

Raw data:
%s`

// recordFromMap coerces a parsed mapping into a PropertyRecord, filling
// every absent field with its sentinel so the record invariant holds
// regardless of what the backend returned.
func recordFromMap(m map[string]any, listingURL string) model.PropertyRecord {
	record := model.PropertyRecord{
		Title:        stringField(m, "title", model.SentinelTitle),
		Location:     stringField(m, "location", model.SentinelNotSpecified),
		Price:        priceField(m, "price"),
		PropertyType: stringField(m, "property_type", model.SentinelNotSpecified),
		Facilities:   stringSliceField(m, "facilities"),
		Amenities:    stringMapField(m, "amenities"),
		ListingURL:   stringField(m, "listing_url", ""),
	}
	if record.ListingURL == "" || record.ListingURL == model.SentinelNotAvailable {
		record.ListingURL = listingURL
	}

	details, _ := m["details"].(map[string]any)
	record.Details = model.Details{
		Beds:  numericStringField(details, "beds"),
		Baths: numericStringField(details, "baths"),
		Sqft:  numericStringField(details, "sqft"),
	}

	return record
}

// stringField returns the trimmed string at key, or def when absent or
// not a string.
func stringField(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return def
}

// priceField flattens the price value to the canonical display string.
// Backends return either a plain string, a bare number, or a structured
// {amount, currency} object; all collapse to one shape here.
func priceField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case float64:
		if v > 0 {
			return model.FormatMYR(v)
		}
	case map[string]any:
		if amount, ok := v["amount"].(float64); ok && amount > 0 {
			return model.FormatMYR(amount)
		}
		if s, ok := v["amount"].(string); ok {
			if parsed, ok := model.ParsePriceMYR(s); ok {
				return model.FormatMYR(parsed)
			}
		}
	}
	return model.SentinelNotAvailable
}

// numericStringField renders a number-or-string detail value as a string,
// defaulting to the sentinel.
func numericStringField(m map[string]any, key string) string {
	if m == nil {
		return model.SentinelNotAvailable
	}
	switch v := m[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return model.SentinelNotAvailable
}

func stringSliceField(m map[string]any, key string) []string {
	out := []string{}
	list, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func stringMapField(m map[string]any, key string) map[string]string {
	out := map[string]string{}
	raw, ok := m[key].(map[string]any)
	if !ok {
		return out
	}
	for k, v := range raw {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

// truncate cuts scraped text at a byte ceiling before it reaches the
// formatting prompt.
func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit]
}
