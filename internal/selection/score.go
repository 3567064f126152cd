package selection

import (
	"math"

	"newsdesk/pkg/models"
)

// Weights scales the three rating components when computing a total score.
// The zero value is not usable; call DefaultWeights for equal weighting.
type Weights struct {
	Interest        float64 `yaml:"interest" json:"interest"`
	LocalRelevance  float64 `yaml:"localRelevance" json:"local_relevance"`
	CommunityImpact float64 `yaml:"communityImpact" json:"community_impact"`
}

// DefaultWeights weighs every component equally, so the total is a plain sum.
func DefaultWeights() Weights {
	return Weights{Interest: 1, LocalRelevance: 1, CommunityImpact: 1}
}

// IsZero reports whether no weight has been configured.
func (w Weights) IsZero() bool {
	return w.Interest == 0 && w.LocalRelevance == 0 && w.CommunityImpact == 0
}

// Total computes the weighted total for a rating, rounded to the nearest
// integer. Equal weights reduce to interest + local_relevance + community_impact.
func (w Weights) Total(r models.Rating) int {
	sum := w.Interest*float64(r.Interest) +
		w.LocalRelevance*float64(r.LocalRelevance) +
		w.CommunityImpact*float64(r.CommunityImpact)
	return int(math.Round(sum))
}
