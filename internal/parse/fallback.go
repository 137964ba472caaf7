package parse

import (
	"regexp"
	"strings"

	"github.com/hartanah/propcompare/internal/model"
)

// Patterns for the fallback extractor. Each field resolves independently,
// first match wins, sentinel default otherwise.
var (
	titleH1Pattern    = regexp.MustCompile(`(?m)^#\s+([^\n]+)`)
	titleKVPattern    = regexp.MustCompile(`(?i)title["']?\s*:\s*["']?([^"'\n]+)`)
	locationKVPattern = regexp.MustCompile(`(?i)location["']?\s*:\s*["']?([^"'\n]+)`)
	addressKVPattern  = regexp.MustCompile(`(?i)address["']?\s*:\s*["']?([^"'\n]+)`)
	priceRMPattern    = regexp.MustCompile(`RM\s*[\d,]+(?:\s*/\s*mo)?`)
	priceKVPattern    = regexp.MustCompile(`(?i)price["']?\s*:\s*["']?([^"'\n]+)`)
	bedsPattern       = regexp.MustCompile(`(\d+)\s*Beds`)
	bedsKVPattern     = regexp.MustCompile(`(?i)bed(?:room)?s?["']?\s*:\s*(\d+)`)
	bathsPattern      = regexp.MustCompile(`(\d+)\s*Baths`)
	bathsKVPattern    = regexp.MustCompile(`(?i)bath(?:room)?s?["']?\s*:\s*(\d+)`)
	sizePattern       = regexp.MustCompile(`(\d+)\s*sq(?:ft|\.ft\.)`)
	sizeKVPattern     = regexp.MustCompile(`(?i)size["']?\s*:\s*(\d+)`)
)

// Fallback recovers a minimal PropertyRecord from raw text that failed
// structured parsing. It is total: any input, including the empty string,
// yields a complete record with every field either matched or holding its
// sentinel default.
func Fallback(text, listingURL string) model.PropertyRecord {
	record := model.PropertyRecord{
		Title:        model.SentinelTitle,
		Location:     model.SentinelNotSpecified,
		Price:        model.SentinelNotAvailable,
		Details:      model.Details{Beds: model.SentinelNotAvailable, Baths: model.SentinelNotAvailable, Sqft: model.SentinelNotAvailable},
		PropertyType: model.SentinelNotSpecified,
		Facilities:   []string{},
		Amenities:    map[string]string{},
		ListingURL:   listingURL,
	}

	if m := firstGroup(titleH1Pattern, text); m != "" {
		record.Title = m
	} else if m := firstGroup(titleKVPattern, text); m != "" {
		record.Title = m
	}

	if m := firstGroup(locationKVPattern, text); m != "" {
		record.Location = m
	} else if m := firstGroup(addressKVPattern, text); m != "" {
		record.Location = m
	}

	if m := priceRMPattern.FindString(text); m != "" {
		record.Price = strings.TrimSpace(m)
	} else if m := firstGroup(priceKVPattern, text); m != "" {
		record.Price = m
	}

	if m := firstGroup(bedsPattern, text); m != "" {
		record.Details.Beds = m
	} else if m := firstGroup(bedsKVPattern, text); m != "" {
		record.Details.Beds = m
	}

	if m := firstGroup(bathsPattern, text); m != "" {
		record.Details.Baths = m
	} else if m := firstGroup(bathsKVPattern, text); m != "" {
		record.Details.Baths = m
	}

	if m := firstGroup(sizePattern, text); m != "" {
		record.Details.Sqft = m
	} else if m := firstGroup(sizeKVPattern, text); m != "" {
		record.Details.Sqft = m
	}

	return record
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
