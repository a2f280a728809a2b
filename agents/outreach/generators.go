package outreach

import (
	"fmt"
	"sort"
	"strings"

	"outreach-engine/internal/models"
	"outreach-engine/shared/config"
)

// Generator derives talking-point candidates from prospect signals.
// Every rule is a presence check: absent fields produce no candidate and
// never an error. Candidates are collected in rule-evaluation order and
// sorted ascending by priority; equal priorities keep evaluation order,
// so the first rule evaluated wins a tie. That ordering is the
// documented policy, not an accident of sort stability.
type Generator struct {
	cfg *config.EngineConfig
}

func NewGenerator(cfg *config.EngineConfig) *Generator {
	return &Generator{cfg: cfg}
}

func sortByPriority(points []models.TalkingPoint) []models.TalkingPoint {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Priority < points[j].Priority
	})
	return points
}

func findIntent(s *models.ProspectSignals, eventType string) *models.IntentEvent {
	for i := range s.Intent.Signals {
		if s.Intent.Signals[i].Type == eventType {
			return &s.Intent.Signals[i]
		}
	}
	return nil
}

// Openers builds opening-line candidates.
func (g *Generator) Openers(s *models.ProspectSignals) []models.TalkingPoint {
	var points []models.TalkingPoint

	if s.Professional.Headline != "" {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryOpener,
			Content:    fmt.Sprintf("I came across your profile and your headline %q stood out", s.Professional.Headline),
			Provenance: "headline",
			Confidence: 85,
			Priority:   2,
		})
	}

	if len(s.Professional.Skills) > 0 {
		skills := s.Professional.Skills
		if len(skills) > 3 {
			skills = skills[:3]
		}
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryOpener,
			Content:    fmt.Sprintf("Noticed your focus on %s", strings.Join(skills, ", ")),
			Provenance: "skills",
			Confidence: 75,
			Priority:   3,
		})
	}

	if len(s.Research.RecentNews) > 0 {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryOpener,
			Content:    fmt.Sprintf("Saw the news about %q — exciting times at %s", s.Research.RecentNews[0].Title, s.Company.Name),
			Provenance: "company_news",
			Confidence: 90,
			Priority:   1,
		})
	}

	if ev := findIntent(s, models.IntentFunding); ev != nil {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryOpener,
			Content:    fmt.Sprintf("Congratulations on the recent funding — %s", ev.Description),
			Provenance: "intent_funding",
			Confidence: 95,
			Priority:   1,
		})
	}

	if ev := findIntent(s, models.IntentJobPosting); ev != nil {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryOpener,
			Content:    fmt.Sprintf("Saw that %s is hiring — growing the team is usually the moment this conversation matters most", s.Company.Name),
			Provenance: "intent_job_posting",
			Confidence: 85,
			Priority:   2,
		})
	}

	if s.Professional.TenureMonths > 0 && s.Professional.TenureMonths < 12 {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryOpener,
			Content:    fmt.Sprintf("Congrats on the new role at %s", s.Company.Name),
			Provenance: "new_role",
			Confidence: 80,
			Priority:   2,
		})
	}

	if shared := g.sharedEmployer(s.Professional.PriorEmployers); shared != "" {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryOpener,
			Content:    fmt.Sprintf("Noticed you spent time at %s — we work with several teams there", shared),
			Provenance: "shared_employer",
			Confidence: 70,
			Priority:   3,
		})
	}

	return sortByPriority(points)
}

// sharedEmployer returns the first prior employer that is also a known
// customer company, or "".
func (g *Generator) sharedEmployer(priorEmployers []string) string {
	for _, prior := range priorEmployers {
		for _, customer := range g.cfg.CustomerCompanies {
			if strings.EqualFold(prior, customer) {
				return prior
			}
		}
	}
	return ""
}

var seniorityPains = map[string][]string{
	"C-suite": {
		"Hitting aggressive growth targets with flat budgets",
		"Getting a reliable, board-ready view of pipeline",
		"Aligning go-to-market teams around one number",
	},
	"VP": {
		"Ramping new reps fast enough to hit the plan",
		"Forecast accuracy across a growing team",
		"Keeping pipeline coverage ahead of quota growth",
	},
	"Director": {
		"Too much rep time lost to manual research and data entry",
		"Inconsistent outreach quality across the team",
		"Proving the ROI of the existing tool stack",
	},
	"Manager": {
		"Coaching reps with limited visibility into their activity",
		"Keeping CRM data clean enough to be useful",
		"Balancing prospecting volume against message quality",
	},
}

var industryPains = map[string][]string{
	"Technology": {
		"Standing out in a crowded, noisy market",
		"Long evaluation cycles with technical stakeholders",
		"Churn pressure on net revenue retention",
	},
	"Financial Services": {
		"Compliance constraints on customer communication",
		"Legacy systems slowing down customer-facing teams",
		"Demonstrating value to risk-averse buyers",
	},
	"Healthcare": {
		"Navigating long procurement and compliance reviews",
		"Reaching clinical stakeholders with limited time",
	},
	"Retail": {
		"Thin margins forcing efficiency in every function",
		"Seasonal demand swings straining planning",
	},
	"Manufacturing": {
		"Long sales cycles tied to capital budget windows",
		"Coordinating distributed plants and suppliers",
	},
}

var platformPains = map[string]string{
	"Salesforce": "Getting reps to actually live in Salesforce instead of spreadsheets",
	"HubSpot":    "Outgrowing HubSpot workflows as the team scales",
	"Marketo":    "Connecting Marketo engagement data to actual pipeline",
	"Outreach":   "Sequence fatigue — volume up, reply rates down",
}

// PainPoints builds pain-point candidates.
func (g *Generator) PainPoints(s *models.ProspectSignals) []models.TalkingPoint {
	var points []models.TalkingPoint

	if pains, ok := seniorityPains[s.Professional.Seniority]; ok {
		for i, pain := range pains {
			points = append(points, models.TalkingPoint{
				Category:   models.CategoryPainPoint,
				Content:    pain,
				Provenance: "seniority_pain",
				Confidence: 70,
				Priority:   i + 1,
			})
		}
	}

	if pains, ok := industryPains[NormalizeIndustry(s.Company.Industry)]; ok {
		for i, pain := range pains {
			if i >= 3 {
				break
			}
			points = append(points, models.TalkingPoint{
				Category:   models.CategoryPainPoint,
				Content:    pain,
				Provenance: "industry_pain",
				Confidence: 65,
				Priority:   i + 2,
			})
		}
	}

	switch count := s.Company.EmployeeCount; {
	case count > 0 && count <= 50:
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryPainPoint,
			Content:    "Doing more with limited resources",
			Provenance: "company_size",
			Confidence: 80,
			Priority:   1,
		})
	case count > 50 && count <= 1000:
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryPainPoint,
			Content:    "Scaling processes without scaling headcount at the same rate",
			Provenance: "company_size",
			Confidence: 75,
			Priority:   2,
		})
	case count > 1000:
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryPainPoint,
			Content:    "Coordinating across distributed teams and a sprawling tool stack",
			Provenance: "company_size",
			Confidence: 75,
			Priority:   2,
		})
	}

	for _, tech := range s.Company.Technologies {
		if pain, ok := platformPains[tech]; ok {
			points = append(points, models.TalkingPoint{
				Category:   models.CategoryPainPoint,
				Content:    pain,
				Provenance: "tech_stack",
				Confidence: 85,
				Priority:   1,
			})
		}
	}

	return sortByPriority(points)
}

var seniorityValues = map[string]string{
	"C-suite":  "Executive teams use us to tie outreach activity directly to revenue outcomes",
	"VP":       "VPs see ramped reps hitting quota a full quarter earlier on average",
	"Director": "Directors cut rep research time by half while lifting reply rates",
	"Manager":  "Managers get a live view of outreach quality without shadowing calls",
}

var alignedTechValues = map[string]string{
	"Salesforce": "We sync natively with Salesforce, so nothing new for reps to maintain",
	"HubSpot":    "Our HubSpot integration means personalization lands in the sequences you already run",
	"Slack":      "Deal signals land directly in Slack where your team already works",
}

// ValueProps builds value-proposition candidates. The default prop needs
// a company or role to anchor to; a contentless signal bundle yields an
// empty list so the composite score stays at zero.
func (g *Generator) ValueProps(s *models.ProspectSignals) []models.TalkingPoint {
	var points []models.TalkingPoint

	if s.Company.Name != "" || s.Professional.Title != "" {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryValueProp,
			Content:    "Teams like yours typically see meaningfully higher reply rates within the first month",
			Provenance: "default_value",
			Confidence: 60,
			Priority:   3,
		})
	}

	if value, ok := seniorityValues[s.Professional.Seniority]; ok {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryValueProp,
			Content:    value,
			Provenance: "seniority_value",
			Confidence: 80,
			Priority:   1,
		})
	}

	if s.Company.EmployeeCount > 0 && s.Company.EmployeeCount <= 50 {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryValueProp,
			Content:    "Built to give small teams enterprise-grade outbound without enterprise headcount",
			Provenance: "smb_value",
			Confidence: 80,
			Priority:   2,
		})
	}

	if models.StageRank(s.Intent.BuyingStage) >= models.StageRank(models.StageConsideration) {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryValueProp,
			Content:    "Since you're already evaluating options, worth noting we deploy in days, not quarters",
			Provenance: "buying_stage",
			Confidence: 85,
			Priority:   1,
		})
	}

	for _, tech := range s.Company.Technologies {
		if value, ok := alignedTechValues[tech]; ok {
			points = append(points, models.TalkingPoint{
				Category:   models.CategoryValueProp,
				Content:    value,
				Provenance: "tech_alignment",
				Confidence: 90,
				Priority:   1,
			})
		}
	}

	return sortByPriority(points)
}

var industryCaseStudies = map[string]string{
	"Technology":         "We helped a B2B software company lift qualified replies 42% in one quarter",
	"Financial Services": "A mid-market fintech cut outbound ramp time from 9 weeks to 4 with us",
	"Healthcare":         "A healthcare platform booked 3x more meetings with clinical buyers",
	"Retail":             "A retail analytics vendor doubled meetings booked per rep in 8 weeks",
	"Manufacturing":      "An industrial supplier shortened first-touch-to-meeting by 11 days",
}

// SocialProof builds social-proof candidates.
func (g *Generator) SocialProof(s *models.ProspectSignals) []models.TalkingPoint {
	var points []models.TalkingPoint

	if study, ok := industryCaseStudies[NormalizeIndustry(s.Company.Industry)]; ok {
		points = append(points, models.TalkingPoint{
			Category:   models.CategorySocialProof,
			Content:    study,
			Provenance: "industry_case_study",
			Confidence: 75,
			Priority:   1,
		})
	}

	switch count := s.Company.EmployeeCount; {
	case count > 0 && count <= 50:
		points = append(points, models.TalkingPoint{
			Category:   models.CategorySocialProof,
			Content:    "Most of our customers started as teams under 50 people",
			Provenance: "size_proof",
			Confidence: 70,
			Priority:   2,
		})
	case count > 50:
		points = append(points, models.TalkingPoint{
			Category:   models.CategorySocialProof,
			Content:    "We support outbound teams from 50 reps to several hundred",
			Provenance: "size_proof",
			Confidence: 70,
			Priority:   2,
		})
	}

	if strings.Contains(strings.ToLower(s.Professional.Title), "sales") {
		points = append(points, models.TalkingPoint{
			Category:   models.CategorySocialProof,
			Content:    "Sales leaders tell us the biggest surprise is reps choosing to use it unprompted",
			Provenance: "sales_role_proof",
			Confidence: 80,
			Priority:   1,
		})
	}

	return sortByPriority(points)
}

// triggerPriorities ranks intent-event types; funding and active hiring
// are the strongest buying moments.
var triggerPriorities = map[string]int{
	models.IntentFunding:     1,
	models.IntentJobPosting:  1,
	models.IntentTechStack:   2,
	models.IntentNewsMention: 2,
	models.IntentWebVisit:    3,
}

var triggerTemplates = map[string]string{
	models.IntentFunding:     "Recent funding round: %s",
	models.IntentJobPosting:  "Actively hiring: %s",
	models.IntentTechStack:   "Technology change detected: %s",
	models.IntentNewsMention: "In the news: %s",
	models.IntentWebVisit:    "Researched solutions in this space: %s",
}

// Triggers builds timing-trigger candidates. Intent-event candidates
// carry the event's own confidence.
func (g *Generator) Triggers(s *models.ProspectSignals) []models.TalkingPoint {
	var points []models.TalkingPoint

	for _, ev := range s.Intent.Signals {
		priority, ok := triggerPriorities[ev.Type]
		if !ok {
			continue
		}
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryTrigger,
			Content:    fmt.Sprintf(triggerTemplates[ev.Type], ev.Description),
			Provenance: "intent_" + ev.Type,
			Confidence: ev.Confidence,
			Priority:   priority,
		})
	}

	if s.Professional.TenureMonths > 0 && s.Professional.TenureMonths < 12 {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryTrigger,
			Content:    fmt.Sprintf("New in role (%d months) — typically when leaders rethink their stack", s.Professional.TenureMonths),
			Provenance: "new_role",
			Confidence: 85,
			Priority:   1,
		})
	}

	for i, change := range s.Research.RecentChanges {
		if i >= 2 {
			break
		}
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryTrigger,
			Content:    fmt.Sprintf("Recent change at %s: %s", s.Company.Name, change),
			Provenance: "recent_change",
			Confidence: 80,
			Priority:   2,
		})
	}

	return sortByPriority(points)
}

var stageCTAs = map[string][]string{
	models.StageAwareness: {
		"Open to a quick look at how peers are handling this?",
		"Worth 15 minutes to compare notes on what's working?",
	},
	models.StageConsideration: {
		"Happy to walk through how we compare to what you're evaluating — 20 minutes?",
		"Want me to send a short summary tailored to your stack?",
		"Open to a working session with one of our solution folks?",
	},
	models.StageDecision: {
		"Can I connect you with a customer in your industry for a reference call?",
		"Want me to put together pricing for your team size?",
		"Open to a 30-minute deep dive with your evaluation team?",
	},
	models.StagePurchase: {
		"Anything blocking the final call I can help clear up?",
		"Want me to loop in our onboarding lead so day one is mapped out?",
	},
}

// CTAs builds call-to-action candidates. An unknown or missing buying
// stage yields no stage candidates, like any other absent signal.
func (g *Generator) CTAs(s *models.ProspectSignals) []models.TalkingPoint {
	lines := stageCTAs[s.Intent.BuyingStage]

	var points []models.TalkingPoint
	for i, line := range lines {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryCTA,
			Content:    line,
			Provenance: "stage_cta",
			Confidence: 80,
			Priority:   i + 1,
		})
	}

	if s.Professional.Seniority == "VP" || s.Professional.Seniority == "Director" {
		points = append(points, models.TalkingPoint{
			Category:   models.CategoryCTA,
			Content:    "I'll keep it to 15 minutes and bring numbers from teams at your scale",
			Provenance: "senior_cta",
			Confidence: 85,
			Priority:   1,
		})
	}

	return sortByPriority(points)
}
