package analyzer

import (
	"log/slog"
	"strings"
)

var registry = map[string]func() ContentAnalyzer{
	"nudity-2.0": func() ContentAnalyzer { return NudityAnalyzer{} },
	"nudity":     func() ContentAnalyzer { return NudityAnalyzer{} },
	"violence":   func() ContentAnalyzer { return ViolenceAnalyzer{} },
	"weapon":     func() ContentAnalyzer { return WeaponAnalyzer{} },
	"alcohol":    func() ContentAnalyzer { return AlcoholAnalyzer{} },
	"gore":       func() ContentAnalyzer { return GoreAnalyzer{} },
	"drug":       func() ContentAnalyzer { return DrugAnalyzer{} },
	"offensive":  func() ContentAnalyzer { return OffensiveAnalyzer{} },
}

// CreateAnalyzers maps a comma separated model list to analyzers in the same order.
// Unknown models are skipped, duplicates are kept.
func CreateAnalyzers(models string) []ContentAnalyzer {
	var analyzers []ContentAnalyzer
	for _, model := range strings.Split(models, ",") {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		newAnalyzer, ok := registry[model]
		if !ok {
			slog.Debug("no analyzer for model, skipped", slog.String("model", model))
			continue
		}
		analyzers = append(analyzers, newAnalyzer())
	}
	return analyzers
}
