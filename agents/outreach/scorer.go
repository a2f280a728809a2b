package outreach

import (
	"math"

	"outreach-engine/internal/models"
)

// Category weights, summing to 100. Openers and triggers carry the most
// signal about whether an email will land.
const (
	weightOpeners     = 25
	weightPainPoints  = 20
	weightValueProps  = 15
	weightSocialProof = 10
	weightTriggers    = 20
	weightCTAs        = 10
)

// Flat fractions for categories whose presence matters more than their
// individual confidence.
const (
	fractionValueProps  = 0.7
	fractionSocialProof = 0.8
	fractionCTAs        = 0.8
)

// ScorePersonalization aggregates the six category lists into one
// composite 0-100 score.
//
// Openers and triggers count their best candidate's confidence; pain
// points count the mean across all candidates; value props, social proof
// and CTAs count a flat fraction when non-empty.
func ScorePersonalization(c *models.PersonalizationContext) int {
	var score float64

	score += topCandidateScore(c.Openers, weightOpeners)
	score += meanConfidenceScore(c.PainPoints, weightPainPoints)
	score += flatScore(c.ValueProps, weightValueProps, fractionValueProps)
	score += flatScore(c.SocialProof, weightSocialProof, fractionSocialProof)
	score += topCandidateScore(c.Triggers, weightTriggers)
	score += flatScore(c.CTAs, weightCTAs, fractionCTAs)

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func topCandidateScore(points []models.TalkingPoint, weight float64) float64 {
	if len(points) == 0 {
		return 0
	}
	// Lists are sorted ascending by priority, so the best candidate is
	// first.
	return weight * float64(points[0].Confidence) / 100.0
}

func meanConfidenceScore(points []models.TalkingPoint, weight float64) float64 {
	if len(points) == 0 {
		return 0
	}
	var total int
	for _, p := range points {
		total += p.Confidence
	}
	mean := float64(total) / float64(len(points))
	return weight * mean / 100.0
}

func flatScore(points []models.TalkingPoint, weight, fraction float64) float64 {
	if len(points) == 0 {
		return 0
	}
	return weight * fraction
}
