package compare

import (
	"bytes"

	"github.com/goccy/go-json"
)

// JSONFormatter formats comparison results as JSON. The document is the
// comparison set plus the names of the scenarios that rank first.
type JSONFormatter struct {
	Pretty bool
}

type jsonComparison struct {
	*ComparisonSet
	LargestEstate    string `json:"largestEstate"`
	LowestTaxes      string `json:"lowestTaxes"`
	FewestShortfalls string `json:"fewestShortfalls"`
}

func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	doc := jsonComparison{ComparisonSet: compSet}
	if compSet.BaseResult != nil {
		estate, taxes, shortfalls := compSet.BaseResult, compSet.BaseResult, compSet.BaseResult
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.TerminalValue.GreaterThan(estate.TerminalValue) {
				estate = alt
			}
			if alt.LifetimeTaxes.LessThan(taxes.LifetimeTaxes) {
				taxes = alt
			}
			if alt.ShortfallYears < shortfalls.ShortfallYears {
				shortfalls = alt
			}
		}
		doc.LargestEstate = estate.ScenarioName
		doc.LowestTaxes = taxes.ScenarioName
		doc.FewestShortfalls = shortfalls.ScenarioName
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
