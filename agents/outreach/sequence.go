package outreach

import (
	"context"
	"fmt"

	"outreach-engine/internal/models"
)

// sequenceTemplateStep is one slot of the fixed outreach cadence.
type sequenceTemplateStep struct {
	Type    string
	Delay   string
	Channel string
}

// sequenceTemplate is the fixed cadence every sequence is cut from.
var sequenceTemplate = []sequenceTemplateStep{
	{Type: models.EmailColdOutreach, Delay: "Day 0", Channel: "email"},
	{Type: models.EmailFollowUp, Delay: "Day 3", Channel: "email"},
	{Type: models.EmailTriggerBased, Delay: "Day 5", Channel: "linkedin"},
	{Type: models.EmailFollowUp, Delay: "Day 8", Channel: "email"},
	{Type: models.EmailBreakup, Delay: "Day 14", Channel: "email"},
}

// GenerateSequence composes up to length steps of the template, strictly
// in order: each step's prompt carries the previous step's generated
// body, so steps can never be parallelized. The transcript threads as an
// explicit argument through the loop, not a captured accumulator.
func (e *Engine) GenerateSequence(ctx context.Context, s *models.ProspectSignals, pctx *models.PersonalizationContext, industry *models.IndustryMessaging, length int, tone string) (*models.EmailSequence, error) {
	if s == nil {
		return nil, &MissingDataError{What: "prospect signals"}
	}
	if pctx == nil {
		return nil, &MissingDataError{What: "personalization context"}
	}
	if length > len(sequenceTemplate) {
		length = len(sequenceTemplate)
	}
	if length <= 0 {
		return nil, fmt.Errorf("sequence length must be positive, got %d", length)
	}

	sequence := &models.EmailSequence{}
	var scoreTotal int
	previousBody := ""

	for i := 0; i < length; i++ {
		tmpl := sequenceTemplate[i]

		result, err := e.ComposeEmail(ctx, s, pctx, industry, models.EmailRequest{
			EmailType:    tmpl.Type,
			Tone:         tone,
			Length:       models.LengthShort,
			PreviousBody: previousBody,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate sequence step %d (%s): %w", i+1, tmpl.Type, err)
		}

		sequence.Steps = append(sequence.Steps, models.SequenceStep{
			Step:    i + 1,
			Type:    tmpl.Type,
			Delay:   tmpl.Delay,
			Channel: tmpl.Channel,
			Subject: result.Subject,
			Body:    result.Body,
		})
		scoreTotal += result.PersonalizationScore
		previousBody = result.Body
	}

	sequence.AvgPersonalizationScore = scoreTotal / len(sequence.Steps)
	return sequence, nil
}
