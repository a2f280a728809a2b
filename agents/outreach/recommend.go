package outreach

import (
	"fmt"
	"strings"

	"outreach-engine/internal/models"
)

// DefaultAngle is the fallback when no trigger or pain point is strong
// enough to lead with.
const DefaultAngle = "Value-led angle — lead with the most relevant benefit for their role"

// triggerAngles maps a top trigger's provenance to the angle it earns.
var triggerAngles = map[string]string{
	"intent_funding":     "Growth-investment angle — tie outreach to how they'll deploy the new funding",
	"intent_job_posting": "Scaling-team angle — speak to the pains of a team in hiring mode",
	"new_role":           "New-leader angle — speak to making an early mark in the role",
}

// SelectAngle picks the recommended messaging angle. Ordered cascade,
// first match wins: strong trigger, then strong pain point, then the
// value-led default.
func SelectAngle(c *models.PersonalizationContext) string {
	if len(c.Triggers) > 0 {
		top := c.Triggers[0]
		if top.Confidence >= 80 {
			if angle, ok := triggerAngles[top.Provenance]; ok {
				return angle
			}
		}
	}

	if len(c.PainPoints) > 0 && c.PainPoints[0].Confidence >= 70 {
		return fmt.Sprintf("Pain point angle — address '%s'", c.PainPoints[0].Content)
	}

	return DefaultAngle
}

// OptimizeTiming picks the recommended send window. Ordered cascade,
// first match wins.
func OptimizeTiming(s *models.ProspectSignals) models.TimingRecommendation {
	if s.Professional.Seniority == "VP" || s.Professional.Seniority == "C-suite" {
		return models.TimingRecommendation{
			Day:       "Tuesday",
			Time:      "7:00 AM",
			Rationale: "Executives check email early, before the calendar fills up",
		}
	}

	if NormalizeIndustry(s.Company.Industry) == "Technology" {
		return models.TimingRecommendation{
			Day:       "Wednesday",
			Time:      "10:00 AM",
			Rationale: "Mid-morning, after standup and before deep-work blocks",
		}
	}

	if isUKProfile(s.Contact.ProfileURL) {
		return models.TimingRecommendation{
			Day:       "Tuesday",
			Time:      "2:00 PM",
			Rationale: "Adjusted for UK local morning",
		}
	}

	return models.TimingRecommendation{
		Day:       "Tuesday",
		Time:      "9:00 AM",
		Rationale: "Default B2B engagement window",
	}
}

func isUKProfile(profileURL string) bool {
	url := strings.ToLower(profileURL)
	return strings.Contains(url, "uk.linkedin.com") || strings.Contains(url, ".co.uk")
}
