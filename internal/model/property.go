// Package model defines the canonical records exchanged between the
// extraction, comparison, and recommendation stages.
package model

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Sentinel values substituted when a field cannot be resolved. Downstream
// consumers branch on these markers instead of missing keys.
const (
	SentinelNotAvailable = "Not available"
	SentinelNotSpecified = "Not specified"
	SentinelNA           = "N/A"
	SentinelTitle        = "Property Details"
	SentinelFacility     = "Information not available"
)

// Details holds the bed/bath/size triple of a listing. Values stay strings:
// backends return them in mixed shapes and the sentinel contract requires a
// printable value for every field.
type Details struct {
	Beds  string `json:"beds"`
	Baths string `json:"baths"`
	Sqft  string `json:"sqft"`
}

// PropertyRecord is the normalized unit produced by the extraction pipeline.
// Every record returned by the pipeline carries non-empty Title, Location,
// Price, Details, and ListingURL; unresolved fields hold sentinels.
type PropertyRecord struct {
	Title        string            `json:"title"`
	Location     string            `json:"location"`
	Price        string            `json:"price"`
	Details      Details           `json:"details"`
	PropertyType string            `json:"property_type"`
	Facilities   []string          `json:"facilities"`
	Amenities    map[string]string `json:"amenities"`
	ListingURL   string            `json:"listing_url"`

	// Error is non-empty only when extraction fully failed and the record
	// carries sentinels throughout.
	Error string `json:"error,omitempty"`
}

// SentinelRecord returns the minimal all-sentinel record for a URL whose
// extraction failed entirely. errMsg populates the Error field.
func SentinelRecord(url, errMsg string) PropertyRecord {
	return PropertyRecord{
		Title:        SentinelTitle,
		Location:     SentinelNotAvailable,
		Price:        SentinelNotAvailable,
		Details:      Details{Beds: SentinelNA, Baths: SentinelNA, Sqft: SentinelNA},
		PropertyType: SentinelNotSpecified,
		Facilities:   []string{},
		Amenities:    map[string]string{},
		ListingURL:   url,
		Error:        errMsg,
	}
}

// Degraded reports whether the record came out of the failure path.
func (r PropertyRecord) Degraded() bool {
	return r.Error != ""
}

var priceNumberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParsePriceMYR normalizes a Malaysian price string ("RM 650,000",
// "RM 2,500 /mo") to its numeric amount. Returns false when no numeric
// component is present (sentinels, free text). This is the single boundary
// where the display-string price becomes a number.
func ParsePriceMYR(price string) (float64, bool) {
	s := strings.ReplaceAll(price, ",", "")
	s = strings.NewReplacer("RM", "", "rm", "", "/mo", "", "per month", "").Replace(s)
	m := priceNumberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

var myrPrinter = message.NewPrinter(language.English)

// FormatMYR renders an amount as a grouped MYR display string, e.g.
// FormatMYR(650000) == "RM 650,000".
func FormatMYR(amount float64) string {
	return myrPrinter.Sprintf("RM %d", int64(amount+0.5))
}
