package outreach

import (
	"context"
	"testing"

	"outreach-engine/internal/models"
	"outreach-engine/shared/ai"
	"outreach-engine/shared/config"
)

// stubGenerator is a deterministic TextGenerator that records every
// request it receives.
type stubGenerator struct {
	respond func(req ai.Request) (ai.Response, error)
	calls   []ai.Request
}

func (s *stubGenerator) Generate(_ context.Context, req ai.Request) (ai.Response, error) {
	s.calls = append(s.calls, req)
	return s.respond(req)
}

// bodyCalls returns only the composer's body-generation requests (the
// ones carrying a system message).
func (s *stubGenerator) bodyCalls() []ai.Request {
	var out []ai.Request
	for _, req := range s.calls {
		if len(req.Messages) > 0 && req.Messages[0].Role == ai.RoleSystem {
			out = append(out, req)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			Model:           "test-model",
			Temperature:     0.7,
			MaxOutputTokens: 512,
		},
		Engine: config.EngineConfig{
			CompanyName:       "Acme Outbound",
			CustomerCompanies: []string{"Stripe"},
		},
	}
}

func testEngine(t *testing.T, gen ai.TextGenerator) *Engine {
	t.Helper()
	knowledge, err := NewIndustryKnowledge("")
	if err != nil {
		t.Fatalf("NewIndustryKnowledge() error = %v", err)
	}
	return New(testConfig(), gen, knowledge, nil)
}

// testSignals is a rich bundle exercising most generator rules.
func testSignals() *models.ProspectSignals {
	return &models.ProspectSignals{
		ProspectID: "p-123",
		Contact: models.ContactInfo{
			FirstName:  "Jordan",
			LastName:   "Reyes",
			Email:      "jordan@example.com",
			ProfileURL: "https://www.linkedin.com/in/jordanreyes",
		},
		Professional: models.ProfessionalSignals{
			Title:          "VP of Sales",
			Seniority:      "VP",
			Headline:       "Building pipeline machines",
			Skills:         []string{"outbound", "forecasting", "coaching", "negotiation"},
			TenureMonths:   8,
			PriorEmployers: []string{"Stripe", "Oracle"},
		},
		Company: models.CompanySignals{
			Name:          "Northwind Labs",
			Industry:      "B2B SaaS",
			EmployeeCount: 40,
			Technologies:  []string{"Salesforce", "Slack"},
		},
		Intent: models.IntentSignals{
			Score:       72,
			BuyingStage: models.StageConsideration,
			Signals: []models.IntentEvent{
				{Type: models.IntentFunding, Confidence: 95, Description: "raised a $20M Series B"},
				{Type: models.IntentJobPosting, Confidence: 85, Description: "hiring 5 SDRs"},
			},
		},
		Research: models.ResearchSignals{
			RecentNews: []models.NewsItem{
				{Title: "Northwind Labs raises Series B"},
			},
			RecentChanges: []string{"New CRO hired", "Opened London office"},
		},
	}
}

// validEmailResponse is a well-formed delimited composer response.
const validEmailResponse = `SUBJECT: Quick thought on your Series B
PREVIEW: Congrats on the raise
BODY:
Saw the news about the Series B. Doing more with limited resources gets
real after a raise. Worth 20 minutes?
PS: Happy to share what similar teams did first.`
