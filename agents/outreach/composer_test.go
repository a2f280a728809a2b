package outreach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"outreach-engine/internal/models"
	"outreach-engine/shared/ai"
	"outreach-engine/shared/storage"
)

// composerStub answers body calls with a canned email and subject calls
// with three alternatives.
func composerStub() *stubGenerator {
	return &stubGenerator{
		respond: func(req ai.Request) (ai.Response, error) {
			if len(req.Messages) > 0 && req.Messages[0].Role == ai.RoleSystem {
				return ai.Response{Text: validEmailResponse, PromptTokens: 120, OutputTokens: 80}, nil
			}
			return ai.Response{Text: "Alt subject one\nAlt subject two\nAlt subject three"}, nil
		},
	}
}

func TestParseEmailResponse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		wantSubject string
		wantPS      string
	}{
		{
			name:        "full response",
			input:       validEmailResponse,
			wantSubject: "Quick thought on your Series B",
			wantPS:      "Happy to share what similar teams did first.",
		},
		{
			name:        "no preview or PS",
			input:       "SUBJECT: Hello\nBODY:\nJust the body.",
			wantSubject: "Hello",
		},
		{
			name:    "missing subject",
			input:   "BODY:\nA body with no subject.",
			wantErr: true,
		},
		{
			name:    "missing body",
			input:   "SUBJECT: Only a subject",
			wantErr: true,
		},
		{
			name:    "free prose without markers",
			input:   "Sure! Here's a great email for you.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseEmailResponse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseEmailResponse() error = nil, want ParseError")
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("error type = %T, want *ParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEmailResponse() error = %v", err)
			}
			if parsed.Subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", parsed.Subject, tt.wantSubject)
			}
			if parsed.PS != tt.wantPS {
				t.Errorf("ps = %q, want %q", parsed.PS, tt.wantPS)
			}
			if parsed.Body == "" {
				t.Error("body is empty")
			}
		})
	}
}

func TestComposeEmail(t *testing.T) {
	stub := composerStub()
	engine := testEngine(t, stub)

	signals := testSignals()
	pctx, err := engine.BuildContext(signals)
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}

	result, err := engine.ComposeEmail(context.Background(), signals, pctx, nil, models.EmailRequest{
		EmailType: models.EmailColdOutreach,
		Tone:      models.ToneConversational,
		Length:    models.LengthShort,
	})
	if err != nil {
		t.Fatalf("ComposeEmail() error = %v", err)
	}

	if result.Subject != "Quick thought on your Series B" {
		t.Errorf("subject = %q", result.Subject)
	}
	if !strings.Contains(result.Body, "P.S. Happy to share") {
		t.Errorf("body missing postscript: %q", result.Body)
	}
	if result.PreviewText != "Congrats on the raise" {
		t.Errorf("preview = %q", result.PreviewText)
	}
	if result.PersonalizationScore != pctx.PersonalizationScore {
		t.Errorf("score = %d, want %d", result.PersonalizationScore, pctx.PersonalizationScore)
	}
	if len(result.AlternativeSubjects) != 3 {
		t.Errorf("alternative subjects = %d, want 3", len(result.AlternativeSubjects))
	}
	if result.Metadata.Model != "test-model" {
		t.Errorf("metadata model = %q", result.Metadata.Model)
	}
	if result.Metadata.PromptTokens != 120 || result.Metadata.OutputTokens != 80 {
		t.Errorf("token usage = %d/%d, want 120/80", result.Metadata.PromptTokens, result.Metadata.OutputTokens)
	}

	// The canned body quotes the small-company pain verbatim, so the
	// attribution scan must credit the company_size rule.
	foundSignal := false
	for _, sig := range result.SignalsUsed {
		if sig == "company_size" {
			foundSignal = true
		}
	}
	if !foundSignal {
		t.Errorf("signalsUsed = %v, want company_size attributed", result.SignalsUsed)
	}
	foundPoint := false
	for _, used := range result.TalkingPointsUsed {
		if used.Category == models.CategoryPainPoint && used.Content == "Doing more with limited resources" {
			foundPoint = true
		}
	}
	if !foundPoint {
		t.Errorf("talkingPointsUsed = %v, want the small-company pain point", result.TalkingPointsUsed)
	}
}

func TestComposeEmailPromptAssembly(t *testing.T) {
	stub := composerStub()
	engine := testEngine(t, stub)

	signals := testSignals()
	pctx, err := engine.BuildContext(signals)
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}

	_, err = engine.ComposeEmail(context.Background(), signals, pctx, nil, models.EmailRequest{
		EmailType: models.EmailColdOutreach,
		Tone:      models.ToneBold,
		Length:    models.LengthLong,
	})
	if err != nil {
		t.Fatalf("ComposeEmail() error = %v", err)
	}

	bodyCalls := stub.bodyCalls()
	if len(bodyCalls) != 1 {
		t.Fatalf("body calls = %d, want 1", len(bodyCalls))
	}
	system := bodyCalls[0].Messages[0].Content
	user := bodyCalls[0].Messages[1].Content

	if !strings.Contains(system, toneDescriptions[models.ToneBold]) {
		t.Error("system prompt missing tone description")
	}
	if !strings.Contains(system, lengthBands[models.LengthLong]) {
		t.Error("system prompt missing length band")
	}
	if !strings.Contains(system, "never about the sender") {
		t.Error("system prompt missing cold outreach goal")
	}

	if !strings.Contains(user, pctx.Openers[0].Content) {
		t.Error("user prompt missing best opener")
	}
	if !strings.Contains(user, pctx.PainPoints[0].Content) {
		t.Error("user prompt missing best pain point")
	}
	if !strings.Contains(user, pctx.RecommendedAngle) {
		t.Error("user prompt missing recommended angle")
	}
	if !strings.Contains(user, models.StageConsideration) {
		t.Error("user prompt missing buying stage")
	}
}

func TestComposeEmailSurfacesBodyFailures(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		engine := testEngine(t, &stubGenerator{
			respond: func(req ai.Request) (ai.Response, error) {
				return ai.Response{}, errors.New("unreachable")
			},
		})

		signals := testSignals()
		pctx, _ := engine.BuildContext(signals)
		_, err := engine.ComposeEmail(context.Background(), signals, pctx, nil, models.EmailRequest{})
		var svcErr *ExternalServiceError
		if !errors.As(err, &svcErr) {
			t.Errorf("error = %v, want *ExternalServiceError", err)
		}
	})

	t.Run("unparseable body", func(t *testing.T) {
		engine := testEngine(t, &stubGenerator{
			respond: func(req ai.Request) (ai.Response, error) {
				return ai.Response{Text: "no markers here"}, nil
			},
		})

		signals := testSignals()
		pctx, _ := engine.BuildContext(signals)
		_, err := engine.ComposeEmail(context.Background(), signals, pctx, nil, models.EmailRequest{})
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("error = %v, want *ParseError", err)
		}
	})
}

func TestAlternativeSubjectFailureIsSoft(t *testing.T) {
	engine := testEngine(t, &stubGenerator{
		respond: func(req ai.Request) (ai.Response, error) {
			if len(req.Messages) > 0 && req.Messages[0].Role == ai.RoleSystem {
				return ai.Response{Text: validEmailResponse}, nil
			}
			return ai.Response{}, errors.New("quota exceeded")
		},
	})

	signals := testSignals()
	pctx, _ := engine.BuildContext(signals)
	result, err := engine.ComposeEmail(context.Background(), signals, pctx, nil, models.EmailRequest{})
	if err != nil {
		t.Fatalf("ComposeEmail() error = %v, want success despite subject failure", err)
	}
	if len(result.AlternativeSubjects) != 0 {
		t.Errorf("alternative subjects = %v, want none", result.AlternativeSubjects)
	}
}

type memAudit struct {
	records []storage.AuditRecord
	err     error
}

func (m *memAudit) Append(record storage.AuditRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

func TestComposeEmailWritesAuditRecord(t *testing.T) {
	audit := &memAudit{}
	knowledge, err := NewIndustryKnowledge("")
	if err != nil {
		t.Fatalf("NewIndustryKnowledge() error = %v", err)
	}
	engine := New(testConfig(), composerStub(), knowledge, audit)

	signals := testSignals()
	pctx, _ := engine.BuildContext(signals)
	result, err := engine.ComposeEmail(context.Background(), signals, pctx, nil, models.EmailRequest{
		EmailType: models.EmailTriggerBased,
	})
	if err != nil {
		t.Fatalf("ComposeEmail() error = %v", err)
	}

	if len(audit.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(audit.records))
	}
	rec := audit.records[0]
	if rec.ProspectID != "p-123" || rec.EmailType != models.EmailTriggerBased {
		t.Errorf("audit record = %+v", rec)
	}
	if rec.Subject != result.Subject {
		t.Errorf("audit subject = %q, want %q", rec.Subject, result.Subject)
	}
}

func TestAuditWriteFailureDoesNotFailCompose(t *testing.T) {
	audit := &memAudit{err: errors.New("disk full")}
	knowledge, err := NewIndustryKnowledge("")
	if err != nil {
		t.Fatalf("NewIndustryKnowledge() error = %v", err)
	}
	engine := New(testConfig(), composerStub(), knowledge, audit)

	signals := testSignals()
	pctx, _ := engine.BuildContext(signals)
	result, err := engine.ComposeEmail(context.Background(), signals, pctx, nil, models.EmailRequest{})
	if err != nil {
		t.Fatalf("ComposeEmail() error = %v, want success despite audit failure", err)
	}
	if result.Subject == "" {
		t.Error("result subject is empty")
	}
}
