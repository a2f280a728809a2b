package outreach

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"outreach-engine/internal/models"
	"outreach-engine/shared/ai"
	"outreach-engine/shared/storage"
)

var toneDescriptions = map[string]string{
	models.ToneProfessional:   "Polished and direct. No slang, no exclamation marks.",
	models.ToneConversational: "Warm and natural, like a note from a colleague. Contractions welcome.",
	models.ToneBold:           "Confident and punchy. Short sentences. Take a clear position.",
	models.ToneEmpathetic:     "Lead with understanding of their situation. Soften every ask.",
}

var lengthBands = map[string]string{
	models.LengthShort:  "50-80 words",
	models.LengthMedium: "100-150 words",
	models.LengthLong:   "175-250 words",
}

// emailGoals carries the non-negotiable guidance per email type.
var emailGoals = map[string][]string{
	models.EmailColdOutreach: {
		"Open with something about the recipient or their company, never about the sender",
		"Earn a reply, not a meeting; one clear, low-friction ask",
		"Mention the product at most once",
	},
	models.EmailFollowUp: {
		"Reference the prior touch without guilt-tripping",
		"Add one new piece of value since the last email",
		"Keep the ask identical to or smaller than last time",
	},
	models.EmailTriggerBased: {
		"Lead with the trigger event and why it matters right now",
		"Connect the trigger to one concrete outcome",
		"Make timing the reason for writing",
	},
	models.EmailBreakup: {
		"Make clear this is the last outreach, without drama",
		"Leave one door open with zero pressure",
		"Keep it shorter than every previous email",
	},
	models.EmailReferralRequest: {
		"Ask to be pointed to the right person, not for a meeting",
		"Make forwarding effortless: include one summary line they can reuse",
		"Thank them regardless of outcome",
	},
}

// parsedEmail is the validated result of the delimited model response.
type parsedEmail struct {
	Subject     string
	PreviewText string
	Body        string
	PS          string
}

// ComposeEmail generates one outreach email from the personalization
// context. industry may be nil. The body-generation call has no
// deterministic substitute, so service and parse failures there are
// surfaced to the caller; the alternative-subjects call soft-fails to an
// empty list.
func (e *Engine) ComposeEmail(ctx context.Context, s *models.ProspectSignals, pctx *models.PersonalizationContext, industry *models.IndustryMessaging, req models.EmailRequest) (*models.EnhancedEmailResult, error) {
	if s == nil {
		return nil, &MissingDataError{What: "prospect signals"}
	}
	if pctx == nil {
		return nil, &MissingDataError{What: "personalization context"}
	}
	req = normalizeRequest(req)

	systemPrompt := buildSystemPrompt(e.cfg.Engine.CompanyName, req)
	userPrompt := buildUserPrompt(s, pctx, industry, req)

	resp, err := e.gen.Generate(ctx, ai.Request{
		Model: e.cfg.AI.Model,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: systemPrompt},
			{Role: ai.RoleUser, Content: userPrompt},
		},
		Temperature:     e.cfg.AI.Temperature,
		MaxOutputTokens: e.cfg.AI.MaxOutputTokens,
	})
	if err != nil {
		return nil, &ExternalServiceError{Op: "email body generation", Err: err}
	}

	parsed, err := parseEmailResponse(resp.Text)
	if err != nil {
		return nil, err
	}

	body := parsed.Body
	if parsed.PS != "" {
		body = body + "\n\nP.S. " + parsed.PS
	}

	result := &models.EnhancedEmailResult{
		Subject:              parsed.Subject,
		Body:                 body,
		PreviewText:          parsed.PreviewText,
		PersonalizationScore: pctx.PersonalizationScore,
		Metadata: models.EmailMetadata{
			Model:        e.cfg.AI.Model,
			PromptTokens: resp.PromptTokens,
			OutputTokens: resp.OutputTokens,
			GeneratedAt:  time.Now(),
		},
	}
	if result.PreviewText == "" {
		result.PreviewText = firstSentence(body)
	}

	result.SignalsUsed, result.TalkingPointsUsed = attributeContent(body, pctx, industry)
	result.Metadata.EnrichmentSources = result.SignalsUsed

	// Alternative subjects have a safe default (none), so this call
	// degrades silently.
	alternatives, err := e.alternativeSubjects(ctx, s, parsed.Subject)
	if err != nil {
		log.Printf("Warning: alternative subject generation failed for prospect %s: %v", s.ProspectID, err)
	} else {
		result.AlternativeSubjects = alternatives
	}

	e.writeAudit(s, req, result)
	return result, nil
}

func normalizeRequest(req models.EmailRequest) models.EmailRequest {
	if _, ok := emailGoals[req.EmailType]; !ok {
		req.EmailType = models.EmailColdOutreach
	}
	if _, ok := toneDescriptions[req.Tone]; !ok {
		req.Tone = models.ToneProfessional
	}
	if _, ok := lengthBands[req.Length]; !ok {
		req.Length = models.LengthMedium
	}
	return req
}

func buildSystemPrompt(companyName string, req models.EmailRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You write B2B outreach emails on behalf of %s.\n\n", companyName)
	fmt.Fprintf(&sb, "Tone: %s\n", toneDescriptions[req.Tone])
	fmt.Fprintf(&sb, "Length: the body must be %s.\n\n", lengthBands[req.Length])

	fmt.Fprintf(&sb, "Goals for this %s email:\n", req.EmailType)
	for _, goal := range emailGoals[req.EmailType] {
		fmt.Fprintf(&sb, "- %s\n", goal)
	}

	sb.WriteString(`
Respond in exactly this format:
SUBJECT: <subject line>
PREVIEW: <preview text, under 90 characters>
BODY:
<the email body>
PS: <optional postscript, or omit this line entirely>`)

	return sb.String()
}

func buildUserPrompt(s *models.ProspectSignals, pctx *models.PersonalizationContext, industry *models.IndustryMessaging, req models.EmailRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write to %s %s, %s at %s.\n",
		s.Contact.FirstName, s.Contact.LastName, s.Professional.Title, s.Company.Name)
	fmt.Fprintf(&sb, "Buying stage: %s\n", s.Intent.BuyingStage)
	fmt.Fprintf(&sb, "Messaging angle: %s\n\n", pctx.RecommendedAngle)

	if len(pctx.Openers) > 0 {
		fmt.Fprintf(&sb, "Best opener to build on: %s\n", pctx.Openers[0].Content)
	}
	if len(pctx.PainPoints) > 0 {
		fmt.Fprintf(&sb, "Pain point to address: %s\n", pctx.PainPoints[0].Content)
	}
	if len(pctx.ValueProps) > 0 {
		fmt.Fprintf(&sb, "Value to convey: %s\n", pctx.ValueProps[0].Content)
	}
	if len(pctx.CTAs) > 0 {
		fmt.Fprintf(&sb, "Closing ask: %s\n", pctx.CTAs[0].Content)
	}

	if industry != nil {
		fmt.Fprintf(&sb, "\nIndustry context (%s, relevance %d):\n", industry.Industry, industry.RelevanceScore)
		for _, p := range industry.PainPoints {
			fmt.Fprintf(&sb, "- Industry pain: %s\n", p.Content)
		}
		for _, p := range industry.SocialProof {
			fmt.Fprintf(&sb, "- Industry proof: %s\n", p.Content)
		}
	}

	if req.PreviousBody != "" {
		fmt.Fprintf(&sb, "\nThis is step %s in a sequence. The previous email was:\n---\n%s\n---\nDo not repeat its content; build on it.\n", req.EmailType, req.PreviousBody)
	}

	return sb.String()
}

// parseEmailResponse validates the delimited SUBJECT/PREVIEW/BODY/PS
// format. SUBJECT and BODY are required; there is no safe default for
// either, so their absence is a hard ParseError.
func parseEmailResponse(text string) (*parsedEmail, error) {
	var parsed parsedEmail
	var bodyLines []string
	inBody := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "SUBJECT:"):
			parsed.Subject = strings.TrimSpace(strings.TrimPrefix(trimmed, "SUBJECT:"))
			inBody = false
		case strings.HasPrefix(trimmed, "PREVIEW:"):
			parsed.PreviewText = strings.TrimSpace(strings.TrimPrefix(trimmed, "PREVIEW:"))
			inBody = false
		case strings.HasPrefix(trimmed, "BODY:"):
			inBody = true
			if rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "BODY:")); rest != "" {
				bodyLines = append(bodyLines, rest)
			}
		case strings.HasPrefix(trimmed, "PS:"):
			parsed.PS = strings.TrimSpace(strings.TrimPrefix(trimmed, "PS:"))
			inBody = false
		case inBody:
			bodyLines = append(bodyLines, line)
		}
	}

	parsed.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))

	if parsed.Subject == "" {
		return nil, &ParseError{Op: "email body", Snippet: snippet(text), Err: fmt.Errorf("missing SUBJECT marker")}
	}
	if parsed.Body == "" {
		return nil, &ParseError{Op: "email body", Snippet: snippet(text), Err: fmt.Errorf("missing BODY marker")}
	}
	return &parsed, nil
}

// attributeContent scans the generated body for each talking point's
// content so the result records which signals produced which sentences.
func attributeContent(body string, pctx *models.PersonalizationContext, industry *models.IndustryMessaging) ([]string, []models.UsedTalkingPoint) {
	points := pctx.AllPoints()
	if industry != nil {
		points = append(points, industry.Openers...)
		points = append(points, industry.PainPoints...)
		points = append(points, industry.ValueProps...)
		points = append(points, industry.SocialProof...)
		points = append(points, industry.CTAs...)
	}

	bodyLower := strings.ToLower(body)
	var signals []string
	var used []models.UsedTalkingPoint
	seenSignals := make(map[string]bool)

	for _, p := range points {
		if !matchesBody(bodyLower, p.Content) {
			continue
		}
		used = append(used, models.UsedTalkingPoint{Category: p.Category, Content: p.Content})
		if !seenSignals[p.Provenance] {
			seenSignals[p.Provenance] = true
			signals = append(signals, p.Provenance)
		}
	}
	return signals, used
}

// matchesBody looks for the content verbatim, then falls back to word
// overlap to catch paraphrases.
func matchesBody(bodyLower, content string) bool {
	contentLower := strings.ToLower(content)
	if strings.Contains(bodyLower, contentLower) {
		return true
	}

	words := strings.FieldsFunc(contentLower, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	var significant, matched int
	for _, w := range words {
		if len(w) < 5 {
			continue
		}
		significant++
		if strings.Contains(bodyLower, w) {
			matched++
		}
	}
	if significant < 2 {
		return false
	}
	return float64(matched)/float64(significant) >= 0.6
}

// alternativeSubjects asks for subject-line variants in a second call.
func (e *Engine) alternativeSubjects(ctx context.Context, s *models.ProspectSignals, subject string) ([]string, error) {
	prompt := fmt.Sprintf(`The subject line of an outreach email to %s, %s at %s is:
%q

Write 3 alternative subject lines, one per line. No numbering, no quotes, nothing else.`,
		s.Contact.FirstName, s.Professional.Title, s.Company.Name, subject)

	resp, err := e.gen.Generate(ctx, ai.Request{
		Model: e.cfg.AI.Model,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: prompt},
		},
		Temperature:     0.9,
		MaxOutputTokens: 256,
	})
	if err != nil {
		return nil, &ExternalServiceError{Op: "alternative subjects", Err: err}
	}

	var alternatives []string
	for _, line := range strings.Split(resp.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == subject {
			continue
		}
		alternatives = append(alternatives, line)
		if len(alternatives) == 3 {
			break
		}
	}
	return alternatives, nil
}

// writeAudit appends the audit record. Best-effort: a failed write is
// logged and never fails the response.
func (e *Engine) writeAudit(s *models.ProspectSignals, req models.EmailRequest, result *models.EnhancedEmailResult) {
	if e.audit == nil {
		return
	}
	err := e.audit.Append(storage.AuditRecord{
		ProspectID:  s.ProspectID,
		EmailType:   req.EmailType,
		Subject:     result.Subject,
		Body:        result.Body,
		SignalsUsed: result.SignalsUsed,
	})
	if err != nil {
		auditErr := &AuditWriteError{ProspectID: s.ProspectID, Err: err}
		log.Printf("Warning: %v", auditErr)
	}
}

func firstSentence(body string) string {
	body = strings.TrimSpace(body)
	if idx := strings.IndexAny(body, ".!?\n"); idx > 0 {
		body = body[:idx+1]
	}
	if len(body) > 90 {
		body = body[:87] + "..."
	}
	return strings.TrimSuffix(body, "\n")
}
