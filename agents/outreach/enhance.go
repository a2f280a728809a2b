package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"outreach-engine/internal/models"
	"outreach-engine/shared/ai"
)

// enhancementResponse is the named-field structure requested from the
// generative service during enhancement.
type enhancementResponse struct {
	EnhancedOpener    string `json:"enhanced_opener"`
	EnhancedPainPoint string `json:"enhanced_pain_point"`
	EnhancedValueProp string `json:"enhanced_value_prop"`
	CustomAngle       string `json:"custom_angle"`
	PersonalizedCTA   string `json:"personalized_cta"`
}

const enhancementProvenance = "ai_enhanced"

// enhancementBoost is added to the score on success, clamped to 100.
const enhancementBoost = 15

// EnhanceContext asks the generative service for sharper candidates and
// folds them into the context. Each returned field is prepended as a
// confidence-90, priority-1 candidate; existing candidates are only
// out-ranked, never removed. On any failure the context is returned
// exactly as computed by the deterministic pipeline.
func (e *Engine) EnhanceContext(ctx context.Context, s *models.ProspectSignals, pctx *models.PersonalizationContext) {
	prompt := e.buildEnhancementPrompt(s, pctx)

	resp, err := e.gen.Generate(ctx, ai.Request{
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: prompt},
		},
		Temperature:     0.7,
		MaxOutputTokens: e.cfg.AI.MaxOutputTokens,
	})
	if err != nil {
		log.Printf("Warning: AI enhancement failed for prospect %s, keeping deterministic context: %v", s.ProspectID, err)
		return
	}

	jsonStr, err := ai.ExtractJSON(resp.Text)
	if err != nil {
		log.Printf("Warning: AI enhancement returned no JSON for prospect %s, keeping deterministic context", s.ProspectID)
		return
	}

	var parsed enhancementResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		log.Printf("Warning: failed to parse AI enhancement for prospect %s, keeping deterministic context: %v", s.ProspectID, err)
		return
	}

	applyEnhancement(pctx, &parsed)
}

func applyEnhancement(pctx *models.PersonalizationContext, parsed *enhancementResponse) {
	prepend := func(list []models.TalkingPoint, category, content string) []models.TalkingPoint {
		point := models.TalkingPoint{
			Category:   category,
			Content:    strings.TrimSpace(content),
			Provenance: enhancementProvenance,
			Confidence: 90,
			Priority:   1,
		}
		return append([]models.TalkingPoint{point}, list...)
	}

	if strings.TrimSpace(parsed.EnhancedOpener) != "" {
		pctx.Openers = prepend(pctx.Openers, models.CategoryOpener, parsed.EnhancedOpener)
	}
	if strings.TrimSpace(parsed.EnhancedPainPoint) != "" {
		pctx.PainPoints = prepend(pctx.PainPoints, models.CategoryPainPoint, parsed.EnhancedPainPoint)
	}
	if strings.TrimSpace(parsed.EnhancedValueProp) != "" {
		pctx.ValueProps = prepend(pctx.ValueProps, models.CategoryValueProp, parsed.EnhancedValueProp)
	}
	if strings.TrimSpace(parsed.PersonalizedCTA) != "" {
		pctx.CTAs = prepend(pctx.CTAs, models.CategoryCTA, parsed.PersonalizedCTA)
	}
	if strings.TrimSpace(parsed.CustomAngle) != "" {
		pctx.RecommendedAngle = strings.TrimSpace(parsed.CustomAngle)
	}

	boost := enhancementBoost
	if remaining := 100 - pctx.PersonalizationScore; remaining < boost {
		boost = remaining
	}
	pctx.PersonalizationScore += boost
}

func (e *Engine) buildEnhancementPrompt(s *models.ProspectSignals, pctx *models.PersonalizationContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are refining outreach copy for %s %s, %s at %s (%s industry, %d employees).\n\n",
		s.Contact.FirstName, s.Contact.LastName, s.Professional.Title,
		s.Company.Name, s.Company.Industry, s.Company.EmployeeCount)

	sb.WriteString("Current best candidates:\n")
	writeTop := func(label string, points []models.TalkingPoint) {
		if len(points) > 0 {
			fmt.Fprintf(&sb, "- %s: %s\n", label, points[0].Content)
		}
	}
	writeTop("Opener", pctx.Openers)
	writeTop("Pain point", pctx.PainPoints)
	writeTop("Value prop", pctx.ValueProps)
	writeTop("CTA", pctx.CTAs)
	fmt.Fprintf(&sb, "- Angle: %s\n", pctx.RecommendedAngle)

	if len(s.Intent.Signals) > 0 {
		sb.WriteString("\nIntent signals:\n")
		for _, ev := range s.Intent.Signals {
			fmt.Fprintf(&sb, "- %s (confidence %d): %s\n", ev.Type, ev.Confidence, ev.Description)
		}
	}

	sb.WriteString(`
Sharpen each candidate where you can genuinely improve it. Respond ONLY with a JSON object:
{
  "enhanced_opener": "...",
  "enhanced_pain_point": "...",
  "enhanced_value_prop": "...",
  "custom_angle": "...",
  "personalized_cta": "..."
}
Leave a field as an empty string if you cannot improve on the current candidate.`)

	return sb.String()
}
