package model

import (
	"math"
	"strings"
)

// Tenure classes for Malaysian property.
const (
	TenureFreehold  = "Freehold"
	TenureLeasehold = "Leasehold"
	TenureUnknown   = "Unknown"
)

// Listing types.
const (
	ListingForSale = "For Sale"
	ListingForRent = "For Rent"
)

// Comparable is a third-party listing identified as similar to the
// reference property. Numeric fields are derived during normalization;
// string fields keep the backend's wording.
type Comparable struct {
	Title        string   `json:"title"`
	Location     string   `json:"location"`
	Price        string   `json:"price"`
	PriceNumeric float64  `json:"price_numeric,omitempty"`
	Size         float64  `json:"size,omitempty"`
	PricePerSqft int      `json:"price_per_sqft,omitempty"`
	Bedrooms     int      `json:"bedrooms,omitempty"`
	Tenure       string   `json:"tenure"`
	ListingType  string   `json:"listing_type"`
	Facilities   []string `json:"facilities"`
	Link         string   `json:"link"`
}

// DerivePricePerSqft computes round(PriceNumeric / Size) when both are
// known and the value was not already supplied by the backend.
func (c *Comparable) DerivePricePerSqft() {
	if c.PricePerSqft != 0 || c.Size <= 0 {
		return
	}
	price := c.PriceNumeric
	if price == 0 {
		if v, ok := ParsePriceMYR(c.Price); ok {
			price = v
		}
	}
	if price <= 0 {
		return
	}
	c.PricePerSqft = int(math.Round(price / c.Size))
}

// InferListingType fills ListingType from lexical cues in the title and
// price text when the backend did not supply it.
func (c *Comparable) InferListingType() {
	if c.ListingType != "" {
		return
	}
	title := strings.ToLower(c.Title)
	price := strings.ToLower(c.Price)
	if strings.Contains(title, "rent") || strings.Contains(price, "per month") || strings.Contains(price, "/mo") {
		c.ListingType = ListingForRent
		return
	}
	c.ListingType = ListingForSale
}

// ApplyDefaults fills the fields that must never leave the pipeline empty:
// tenure defaults to Unknown and facilities to a single sentinel entry.
func (c *Comparable) ApplyDefaults() {
	if c.Tenure == "" {
		c.Tenure = TenureUnknown
	}
	if len(c.Facilities) == 0 {
		c.Facilities = []string{SentinelFacility}
	}
}

// MissingDetails reports whether the enrichment stage still has fields to
// resolve for this candidate.
func (c Comparable) MissingDetails() bool {
	return c.Size == 0 ||
		c.PricePerSqft == 0 ||
		c.Tenure == "" ||
		c.ListingType == "" ||
		len(c.Facilities) == 0
}
