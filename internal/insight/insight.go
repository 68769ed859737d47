// Package insight fetches short AI-written facts about an element and
// tracks which selection they belong to.
package insight

import (
	"fmt"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/llm"
)

// Insight is the three-part blurb shown next to an atom.
type Insight struct {
	FunFact         string `json:"funFact"`
	RealWorldUse    string `json:"realWorldUse"`
	BondingBehavior string `json:"bondingBehavior"`
}

// complete reports whether every field has content.
func (i Insight) complete() bool {
	return i.FunFact != "" && i.RealWorldUse != "" && i.BondingBehavior != ""
}

// MissingKeyFallback is returned when no credential is configured.
func MissingKeyFallback() Insight {
	return Insight{
		FunFact:         "API Key is missing. Cannot fetch live data.",
		RealWorldUse:    "API Key is missing.",
		BondingBehavior: "Unknown",
	}
}

// ErrorFallback is returned when a fetch for rec fails for any reason.
func ErrorFallback(rec element.Record) Insight {
	return Insight{
		FunFact:         fmt.Sprintf("Could not load AI data for %s.", rec.Name),
		RealWorldUse:    "Information unavailable.",
		BondingBehavior: "Information unavailable.",
	}
}

// Prompt builds the request text for rec.
func Prompt(rec element.Record) string {
	return fmt.Sprintf(`Provide 3 specific insights for the chemical element %s (%s) suitable for a Grade 11 chemistry student.
1. A surprising or fun fact.
2. A concrete real-world application.
3. A brief explanation of its bonding behavior (ionic/covalent tendencies).`, rec.Name, rec.Symbol)
}

var fields = []string{"funFact", "realWorldUse", "bondingBehavior"}

// Schema is the structured-output contract sent with every request.
func Schema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"funFact":         {Type: llm.TypeString, Description: "A surprising or fun fact."},
			"realWorldUse":    {Type: llm.TypeString, Description: "A concrete real-world application."},
			"bondingBehavior": {Type: llm.TypeString, Description: "Ionic/covalent bonding tendencies."},
		},
		Order:    fields,
		Required: fields,
	}
}
