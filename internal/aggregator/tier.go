package aggregator

import (
	"github.com/lukitun/Jahbreak/internal/models"
)

var tierRank = map[models.QualityTier]int{
	models.TierPoor:      0,
	models.TierFair:      1,
	models.TierGood:      2,
	models.TierExcellent: 3,
}

func (a *Aggregator) tierFor(score float64) models.QualityTier {
	tiers := a.rubric.Thresholds.Tiers
	switch {
	case score >= tiers.Excellent:
		return models.TierExcellent
	case score >= tiers.Good:
		return models.TierGood
	case score >= tiers.Fair:
		return models.TierFair
	default:
		return models.TierPoor
	}
}

func (a *Aggregator) passingTier(tier models.QualityTier) bool {
	return tierRank[tier] >= tierRank[models.QualityTier(a.rubric.Thresholds.PassingTier)]
}
