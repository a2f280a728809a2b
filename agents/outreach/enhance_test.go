package outreach

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"outreach-engine/internal/models"
	"outreach-engine/shared/ai"
)

func TestEnhanceContextSuccess(t *testing.T) {
	stub := &stubGenerator{
		respond: func(req ai.Request) (ai.Response, error) {
			return ai.Response{Text: `Here you go:
{
  "enhanced_opener": "Your Series B caught my eye",
  "enhanced_pain_point": "Scaling SDRs without drowning them in research",
  "enhanced_value_prop": "",
  "custom_angle": "Momentum angle — strike while the raise is news",
  "personalized_cta": "Worth 15 minutes next Tuesday?"
}`}, nil
		},
	}
	engine := testEngine(t, stub)

	signals := testSignals()
	pctx, err := engine.BuildContext(signals)
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}

	beforeScore := pctx.PersonalizationScore
	beforeOpeners := len(pctx.Openers)
	beforePains := len(pctx.PainPoints)
	beforeProps := len(pctx.ValueProps)
	beforeCTAs := len(pctx.CTAs)

	engine.EnhanceContext(context.Background(), signals, pctx)

	wantBoost := enhancementBoost
	if remaining := 100 - beforeScore; remaining < wantBoost {
		wantBoost = remaining
	}
	if pctx.PersonalizationScore != beforeScore+wantBoost {
		t.Errorf("score = %d, want %d", pctx.PersonalizationScore, beforeScore+wantBoost)
	}

	if len(pctx.Openers) != beforeOpeners+1 {
		t.Errorf("openers grew by %d, want 1", len(pctx.Openers)-beforeOpeners)
	}
	if len(pctx.PainPoints) != beforePains+1 {
		t.Errorf("pain points grew by %d, want 1", len(pctx.PainPoints)-beforePains)
	}
	if len(pctx.ValueProps) != beforeProps {
		t.Errorf("value props grew by %d for empty field, want 0", len(pctx.ValueProps)-beforeProps)
	}
	if len(pctx.CTAs) != beforeCTAs+1 {
		t.Errorf("ctas grew by %d, want 1", len(pctx.CTAs)-beforeCTAs)
	}

	// Enhanced candidates are prepended, outranking but not removing
	// existing ones.
	top := pctx.Openers[0]
	if top.Provenance != enhancementProvenance || top.Confidence != 90 || top.Priority != 1 {
		t.Errorf("top opener = %s/%d/%d, want ai_enhanced/90/1", top.Provenance, top.Confidence, top.Priority)
	}
	if top.Content != "Your Series B caught my eye" {
		t.Errorf("top opener content = %q", top.Content)
	}

	if pctx.RecommendedAngle != "Momentum angle — strike while the raise is news" {
		t.Errorf("angle = %q, want custom angle", pctx.RecommendedAngle)
	}
}

func TestEnhanceContextFailureLeavesContextUntouched(t *testing.T) {
	tests := []struct {
		name    string
		respond func(req ai.Request) (ai.Response, error)
	}{
		{
			name: "service error",
			respond: func(req ai.Request) (ai.Response, error) {
				return ai.Response{}, errors.New("rate limited")
			},
		},
		{
			name: "no JSON in response",
			respond: func(req ai.Request) (ai.Response, error) {
				return ai.Response{Text: "I cannot help with that."}, nil
			},
		},
		{
			name: "malformed JSON",
			respond: func(req ai.Request) (ai.Response, error) {
				return ai.Response{Text: `{"enhanced_opener": `}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := testEngine(t, &stubGenerator{respond: tt.respond})

			signals := testSignals()
			pctx, err := engine.BuildContext(signals)
			if err != nil {
				t.Fatalf("BuildContext() error = %v", err)
			}
			baseline, err := engine.BuildContext(signals)
			if err != nil {
				t.Fatalf("BuildContext() error = %v", err)
			}

			engine.EnhanceContext(context.Background(), signals, pctx)

			if !reflect.DeepEqual(pctx, baseline) {
				t.Errorf("context changed after failed enhancement:\n got %+v\nwant %+v", pctx, baseline)
			}
		})
	}
}

func TestEnhanceBoostClampsAtHundred(t *testing.T) {
	pctx := &models.PersonalizationContext{PersonalizationScore: 92}
	applyEnhancement(pctx, &enhancementResponse{EnhancedOpener: "hi"})
	if pctx.PersonalizationScore != 100 {
		t.Errorf("score = %d, want 100", pctx.PersonalizationScore)
	}
}
