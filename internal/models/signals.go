package models

import "time"

// ProspectSignals is the read-only bundle of facts about a prospect and
// their employer, produced by the upstream enrichment pipeline.
type ProspectSignals struct {
	ProspectID   string              `json:"prospect_id"`
	Contact      ContactInfo         `json:"contact"`
	Professional ProfessionalSignals `json:"professional"`
	Company      CompanySignals      `json:"company"`
	Intent       IntentSignals       `json:"intent"`
	Research     ResearchSignals     `json:"research"`
}

type ContactInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	ProfileURL string `json:"profile_url"`
}

type ProfessionalSignals struct {
	Title          string   `json:"title"`
	Seniority      string   `json:"seniority"` // e.g. "C-suite", "VP", "Director", "Manager", "IC"
	Headline       string   `json:"headline"`
	Skills         []string `json:"skills"`
	TenureMonths   int      `json:"tenure_months"`
	PriorEmployers []string `json:"prior_employers"`
}

type CompanySignals struct {
	Name          string   `json:"name"`
	Industry      string   `json:"industry"`
	EmployeeCount int      `json:"employee_count"`
	Technologies  []string `json:"technologies"`
}

// Buying stages, ordered by funnel position.
const (
	StageAwareness     = "awareness"
	StageConsideration = "consideration"
	StageDecision      = "decision"
	StagePurchase      = "purchase"
)

// Intent event types emitted by the enrichment pipeline.
const (
	IntentFunding     = "funding"
	IntentJobPosting  = "job_posting"
	IntentTechStack   = "tech_stack"
	IntentWebVisit    = "web_visit"
	IntentNewsMention = "news_mention"
)

type IntentSignals struct {
	Score       int           `json:"score"`
	BuyingStage string        `json:"buying_stage"`
	Signals     []IntentEvent `json:"signals"`
}

type IntentEvent struct {
	Type        string `json:"type"`
	Confidence  int    `json:"confidence"` // 0-100
	Description string `json:"description"`
}

type ResearchSignals struct {
	RecentNews    []NewsItem `json:"recent_news"`
	RecentChanges []string   `json:"recent_changes"`
}

type NewsItem struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

// StageRank orders buying stages for threshold comparisons. Unknown
// stages rank below awareness.
func StageRank(stage string) int {
	switch stage {
	case StageAwareness:
		return 1
	case StageConsideration:
		return 2
	case StageDecision:
		return 3
	case StagePurchase:
		return 4
	default:
		return 0
	}
}
