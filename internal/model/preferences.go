package model

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// BudgetRange bounds the buyer's budget in MYR.
type BudgetRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// UserPreferences captures what the buyer is looking for. The pipeline
// consumes it read-only; it is never mutated after submission.
type UserPreferences struct {
	Purpose     string      `json:"purpose" yaml:"purpose"`
	BudgetRange BudgetRange `json:"budget_range" yaml:"budget_range"`

	// Malaysian-market specifics; all optional.
	Tenure      string `json:"tenure,omitempty" yaml:"tenure"`
	Furnishing  string `json:"furnishing,omitempty" yaml:"furnishing"`
	NearTransit bool   `json:"near_transit,omitempty" yaml:"near_transit"`
	NearSchools bool   `json:"near_schools,omitempty" yaml:"near_schools"`
	BuyerStatus string `json:"buyer_status,omitempty" yaml:"buyer_status"`
}

// LoadPreferences reads a preferences profile from a YAML file.
func LoadPreferences(path string) (UserPreferences, error) {
	var prefs UserPreferences
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs, eris.Wrapf(err, "model: read preferences %s", path)
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return prefs, eris.Wrapf(err, "model: parse preferences %s", path)
	}
	return prefs, nil
}
