package models

import "time"

// Email types supported by the composer.
const (
	EmailColdOutreach    = "cold_outreach"
	EmailFollowUp        = "follow_up"
	EmailTriggerBased    = "trigger_based"
	EmailBreakup         = "breakup"
	EmailReferralRequest = "referral_request"
)

// Tones supported by the composer.
const (
	ToneProfessional   = "professional"
	ToneConversational = "conversational"
	ToneBold           = "bold"
	ToneEmpathetic     = "empathetic"
)

// Lengths supported by the composer.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// EmailRequest carries the caller's composition parameters.
type EmailRequest struct {
	EmailType string `json:"email_type"`
	Tone      string `json:"tone"`
	Length    string `json:"length"`
	// PreviousBody threads the prior step's generated body into
	// sequence generation. Empty for standalone emails.
	PreviousBody string `json:"previous_body,omitempty"`
}

// UsedTalkingPoint records a talking point that made it into the
// generated body, for audit.
type UsedTalkingPoint struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// EmailMetadata describes how a result was generated.
type EmailMetadata struct {
	Model             string    `json:"model"`
	PromptTokens      int       `json:"prompt_tokens"`
	OutputTokens      int       `json:"output_tokens"`
	GeneratedAt       time.Time `json:"generated_at"`
	EnrichmentSources []string  `json:"enrichment_sources,omitempty"`
}

// EnhancedEmailResult is a composed outreach email plus the audit trail
// of which signals and talking points shaped it.
type EnhancedEmailResult struct {
	Subject              string             `json:"subject"`
	Body                 string             `json:"body"`
	PreviewText          string             `json:"preview_text"`
	PersonalizationScore int                `json:"personalization_score"`
	SignalsUsed          []string           `json:"signals_used"`
	TalkingPointsUsed    []UsedTalkingPoint `json:"talking_points_used"`
	AlternativeSubjects  []string           `json:"alternative_subjects"`
	Metadata             EmailMetadata      `json:"metadata"`
}

// SequenceStep is one generated step of an outreach sequence.
type SequenceStep struct {
	Step    int    `json:"step"`
	Type    string `json:"type"`
	Delay   string `json:"delay"`
	Channel string `json:"channel"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailSequence is an ordered multi-step outreach plan.
type EmailSequence struct {
	Steps                   []SequenceStep `json:"steps"`
	AvgPersonalizationScore int            `json:"avg_personalization_score"`
}
