package analyzer

import (
	"opencsg.com/image-moderation/builder/sightengine"
	"opencsg.com/image-moderation/common/types"
)

// ContentAnalyzer turns one category of a classification result into a verdict.
type ContentAnalyzer interface {
	// Name is the lower-cased category, used as the "<name>_score" key.
	Name() string
	Analyze(result *sightengine.ClassificationResult, threshold float64) types.AnalysisOutcome
}

type scoreFunc func(v sightengine.Value) float64

// analyze implements the shared rule: a missing category is never a violation,
// otherwise the score must be strictly above threshold.
func analyze(result *sightengine.ClassificationResult, key string, score scoreFunc, threshold float64, reason string) types.AnalysisOutcome {
	if result == nil {
		return types.AnalysisOutcome{}
	}
	v, ok := result.Get(key)
	if !ok {
		return types.AnalysisOutcome{}
	}
	outcome := types.AnalysisOutcome{Score: score(v)}
	if outcome.Score > threshold {
		outcome.IsViolation = true
		outcome.Reason = reason
	}
	return outcome
}

// probScore reads the flat "prob" field of a category.
func probScore(v sightengine.Value) float64 {
	prob, ok := v.Get("prob")
	if !ok {
		return 0
	}
	return prob.Float()
}

type NudityAnalyzer struct{}

func (NudityAnalyzer) Name() string { return "nudity" }

func (NudityAnalyzer) Analyze(result *sightengine.ClassificationResult, threshold float64) types.AnalysisOutcome {
	return analyze(result, "nudity", SumProbabilities, threshold, "Nudity detected")
}

type ViolenceAnalyzer struct{}

func (ViolenceAnalyzer) Name() string { return "violence" }

func (ViolenceAnalyzer) Analyze(result *sightengine.ClassificationResult, threshold float64) types.AnalysisOutcome {
	return analyze(result, "violence", probScore, threshold, "Violence detected")
}

type WeaponAnalyzer struct{}

func (WeaponAnalyzer) Name() string { return "weapon" }

func (WeaponAnalyzer) Analyze(result *sightengine.ClassificationResult, threshold float64) types.AnalysisOutcome {
	return analyze(result, "weapon", SumProbabilities, threshold, "Weapon detected")
}

type AlcoholAnalyzer struct{}

func (AlcoholAnalyzer) Name() string { return "alcohol" }

func (AlcoholAnalyzer) Analyze(result *sightengine.ClassificationResult, threshold float64) types.AnalysisOutcome {
	return analyze(result, "alcohol", probScore, threshold, "Alcohol detected")
}

type GoreAnalyzer struct{}

func (GoreAnalyzer) Name() string { return "gore" }

func (GoreAnalyzer) Analyze(result *sightengine.ClassificationResult, threshold float64) types.AnalysisOutcome {
	return analyze(result, "gore", probScore, threshold, "Gore detected")
}

// DrugAnalyzer reads the recreational_drug category.
type DrugAnalyzer struct{}

func (DrugAnalyzer) Name() string { return "drug" }

func (DrugAnalyzer) Analyze(result *sightengine.ClassificationResult, threshold float64) types.AnalysisOutcome {
	return analyze(result, "recreational_drug", probScore, threshold, "Drug detected")
}

type OffensiveAnalyzer struct{}

func (OffensiveAnalyzer) Name() string { return "offensive" }

func (OffensiveAnalyzer) Analyze(result *sightengine.ClassificationResult, threshold float64) types.AnalysisOutcome {
	return analyze(result, "offensive", SumProbabilities, threshold, "Offensive detected")
}
