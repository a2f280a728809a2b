package outreach

import (
	"outreach-engine/internal/models"
	"outreach-engine/shared/ai"
	"outreach-engine/shared/config"
	"outreach-engine/shared/storage"
)

// Engine is the personalization scoring and content-orchestration core.
// It is stateless per request: concurrent requests for different
// prospects share only the read-only knowledge table.
type Engine struct {
	cfg       *config.Config
	gen       ai.TextGenerator
	generator *Generator
	knowledge *IndustryKnowledge
	audit     storage.AuditStore
}

// New builds an engine around an injected text-generation capability.
// audit may be nil; composition then skips the audit write.
func New(cfg *config.Config, gen ai.TextGenerator, knowledge *IndustryKnowledge, audit storage.AuditStore) *Engine {
	return &Engine{
		cfg:       cfg,
		gen:       gen,
		generator: NewGenerator(&cfg.Engine),
		knowledge: knowledge,
		audit:     audit,
	}
}

// BuildContext runs the deterministic pipeline: generators, scorer,
// angle selector and timing optimizer. It never calls the generative
// service.
func (e *Engine) BuildContext(s *models.ProspectSignals) (*models.PersonalizationContext, error) {
	if s == nil {
		return nil, &MissingDataError{What: "prospect signals"}
	}
	if s.ProspectID == "" {
		return nil, &MissingDataError{What: "prospect id"}
	}

	pctx := &models.PersonalizationContext{
		Openers:     e.generator.Openers(s),
		PainPoints:  e.generator.PainPoints(s),
		ValueProps:  e.generator.ValueProps(s),
		SocialProof: e.generator.SocialProof(s),
		Triggers:    e.generator.Triggers(s),
		CTAs:        e.generator.CTAs(s),
	}
	pctx.PersonalizationScore = ScorePersonalization(pctx)
	pctx.RecommendedAngle = SelectAngle(pctx)
	pctx.Timing = OptimizeTiming(s)

	return pctx, nil
}
