package output

import (
	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpsim/internal/domain"
)

// JSONFormatter renders the full result as indented JSON. Money values are
// encoded as decimal strings so no precision is lost.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
