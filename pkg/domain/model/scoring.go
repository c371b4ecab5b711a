package model

import (
	"math"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Level is the classification of a risk derived from probability and impact
type Level struct {
	Code  types.LevelCode `json:"code"`
	Label types.RiskLevel `json:"label"`
	Score int             `json:"score"`
}

// DeriveImpact returns the unrounded mean of the five factors
func DeriveImpact(f Factors) float64 {
	sum := f.Management + f.Regulation + f.Functionality + f.LGPD + f.Customer
	return float64(sum) / 5
}

// roundImpact rounds half up for the non-negative impacts used here
func roundImpact(impact float64) int {
	return int(math.Round(impact))
}

// ImpactLabelOf returns the label of the rounded impact, or ImpactUnknown outside 1..5
func ImpactLabelOf(impact float64) types.ImpactLabel {
	switch roundImpact(impact) {
	case 1:
		return types.ImpactInsignificant
	case 2:
		return types.ImpactSmall
	case 3:
		return types.ImpactModerate
	case 4:
		return types.ImpactLarge
	case 5:
		return types.ImpactCatastrophic
	default:
		return types.ImpactUnknown
	}
}

// Score is probability times rounded impact
func Score(probability int, impact float64) int {
	return probability * roundImpact(impact)
}

// RiskLevelOf classifies a risk. Tiers are half-open: [0,4) RP, [4,8) RM,
// [8,15) RA, [15,20) RG, [20,...) RC.
func RiskLevelOf(probability int, impact float64) Level {
	score := Score(probability, impact)
	switch {
	case score < 4:
		return Level{Code: types.LevelCodeRP, Label: types.RiskLevelSmall, Score: score}
	case score < 8:
		return Level{Code: types.LevelCodeRM, Label: types.RiskLevelModerate, Score: score}
	case score < 15:
		return Level{Code: types.LevelCodeRA, Label: types.RiskLevelHigh, Score: score}
	case score < 20:
		return Level{Code: types.LevelCodeRG, Label: types.RiskLevelLarge, Score: score}
	default:
		return Level{Code: types.LevelCodeRC, Label: types.RiskLevelCritical, Score: score}
	}
}

// MatrixColorOf is the heat-map color of a cell. It uses its own four-color
// thresholds, independent of the five risk levels.
func MatrixColorOf(probability int, impact float64) types.MatrixColor {
	score := Score(probability, impact)
	switch {
	case score >= 15:
		return types.MatrixColorRed
	case score >= 8:
		return types.MatrixColorOrange
	case score >= 4:
		return types.MatrixColorYellow
	default:
		return types.MatrixColorGreen
	}
}
