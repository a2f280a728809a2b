package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"outreach-engine/internal/models"
	"outreach-engine/shared/ai"
)

// industryAliases maps a substring of a raw industry name to its
// normalized profile key. Checked in order; first match wins.
var industryAliases = []struct {
	substring  string
	normalized string
}{
	{"tech", "Technology"},
	{"software", "Technology"},
	{"saas", "Technology"},
	{"it ", "Technology"},
	{"financ", "Financial Services"},
	{"bank", "Financial Services"},
	{"insurance", "Financial Services"},
	{"health", "Healthcare"},
	{"medical", "Healthcare"},
	{"pharma", "Healthcare"},
	{"retail", "Retail"},
	{"commerce", "Retail"},
	{"consumer", "Retail"},
	{"manufactur", "Manufacturing"},
	{"industrial", "Manufacturing"},
}

// NormalizeIndustry maps a free-text industry name onto a knowledge-table
// key. Unrecognized names pass through trimmed, so lookups simply miss.
func NormalizeIndustry(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return ""
	}
	for _, alias := range industryAliases {
		if strings.Contains(name, alias.substring) {
			return alias.normalized
		}
	}
	return strings.TrimSpace(raw)
}

// IndustryKnowledge holds the industry profile table. The table is an
// immutable snapshot swapped atomically on reload, safe for concurrent
// readers.
type IndustryKnowledge struct {
	filePath string
	profiles atomic.Pointer[map[string]models.IndustryProfile]
}

// NewIndustryKnowledge loads the profile table from a YAML artifact.
// A missing file is not fatal: the table starts empty and every lookup
// goes through the synthesis fallback.
func NewIndustryKnowledge(filePath string) (*IndustryKnowledge, error) {
	k := &IndustryKnowledge{filePath: filePath}
	empty := map[string]models.IndustryProfile{}
	k.profiles.Store(&empty)

	if err := k.Reload(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		log.Printf("Industry knowledge file %s not found, starting with empty table", filePath)
	}
	return k, nil
}

// Reload re-reads the YAML artifact and swaps in the new table.
func (k *IndustryKnowledge) Reload() error {
	data, err := os.ReadFile(k.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("failed to read industry knowledge file %s: %w", k.filePath, err)
	}

	var file struct {
		Industries []models.IndustryProfile `yaml:"industries"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse industry knowledge file %s: %w", k.filePath, err)
	}

	table := make(map[string]models.IndustryProfile, len(file.Industries))
	for _, profile := range file.Industries {
		table[profile.Name] = profile
	}
	k.profiles.Store(&table)
	log.Printf("Loaded %d industry profiles from %s", len(table), k.filePath)
	return nil
}

// Lookup returns the profile for a normalized industry name.
func (k *IndustryKnowledge) Lookup(normalized string) (models.IndustryProfile, bool) {
	table := *k.profiles.Load()
	profile, ok := table[normalized]
	return profile, ok
}

// Count returns the number of loaded profiles.
func (k *IndustryKnowledge) Count() int {
	return len(*k.profiles.Load())
}

// Name implements scheduler.Job so the table can be reloaded on a cron
// schedule.
func (k *IndustryKnowledge) Name() string { return "industry-knowledge-refresh" }

// RunOnce implements scheduler.Job.
func (k *IndustryKnowledge) RunOnce(ctx context.Context) error {
	if err := k.Reload(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// defaultProfile is the substitute when the table misses and synthesis
// fails. Generic but safe.
var defaultProfile = models.IndustryProfile{
	Name:         "General Business",
	SubVerticals: []string{"B2B services"},
	RolePriorities: map[string][]string{
		"leader": {"Revenue growth", "Team efficiency", "Cost control"},
	},
	RolePainPoints: map[string][]string{
		"leader": {"Limited visibility into what's working", "Manual processes eating team time"},
	},
	RoleKPIs: map[string][]string{
		"leader": {"Revenue", "Pipeline coverage", "Cost per acquisition"},
	},
	Terminology: []string{"pipeline", "quota", "conversion"},
	TrendTopics: []string{"AI adoption", "doing more with less"},
	BuyingCycle: "4-8 weeks, 2-4 stakeholders",
}

// industryPrompt asks the model to synthesize a profile for an industry
// the static table doesn't cover.
const industryPrompt = `You are a B2B industry research assistant. Produce a concise messaging profile for the %q industry.

Respond ONLY with a JSON object in this exact shape:
{
  "name": "normalized industry name",
  "sub_verticals": ["..."],
  "role_priorities": {"leader": ["..."], "manager": ["..."]},
  "role_pain_points": {"leader": ["..."], "manager": ["..."]},
  "role_kpis": {"leader": ["..."], "manager": ["..."]},
  "terminology": ["..."],
  "trend_topics": ["..."],
  "regulatory": ["..."],
  "buying_cycle": "typical length and stakeholders"
}`

// ProfileFor resolves an industry profile: static table first, then AI
// synthesis, then the default profile. Never errors.
func (e *Engine) ProfileFor(ctx context.Context, rawIndustry string) models.IndustryProfile {
	normalized := NormalizeIndustry(rawIndustry)
	if normalized == "" {
		return defaultProfile
	}

	if profile, ok := e.knowledge.Lookup(normalized); ok {
		return profile
	}

	profile, err := e.synthesizeProfile(ctx, normalized)
	if err != nil {
		log.Printf("Warning: failed to synthesize profile for %s, using default: %v", normalized, err)
		return defaultProfile
	}
	return profile
}

func (e *Engine) synthesizeProfile(ctx context.Context, industry string) (models.IndustryProfile, error) {
	resp, err := e.gen.Generate(ctx, ai.Request{
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: fmt.Sprintf(industryPrompt, industry)},
		},
		Temperature:     0.3,
		MaxOutputTokens: e.cfg.AI.MaxOutputTokens,
	})
	if err != nil {
		return models.IndustryProfile{}, &ExternalServiceError{Op: "industry synthesis", Err: err}
	}

	jsonStr, err := ai.ExtractJSON(resp.Text)
	if err != nil {
		return models.IndustryProfile{}, &ParseError{Op: "industry synthesis", Snippet: snippet(resp.Text)}
	}

	var profile models.IndustryProfile
	if err := json.Unmarshal([]byte(jsonStr), &profile); err != nil {
		return models.IndustryProfile{}, &ParseError{Op: "industry synthesis", Err: err}
	}
	if profile.Name == "" {
		profile.Name = industry
	}
	return profile, nil
}

// IndustryMessaging produces industry-flavored candidates for the
// composer, parallel to the signal-driven generators, plus a relevance
// score for how specific the match is.
func (e *Engine) IndustryMessaging(ctx context.Context, s *models.ProspectSignals) *models.IndustryMessaging {
	profile := e.ProfileFor(ctx, s.Company.Industry)
	role := roleKey(s.Professional.Seniority)

	msg := &models.IndustryMessaging{
		Industry:       profile.Name,
		RelevanceScore: industryRelevance(profile, s),
	}

	if len(profile.TrendTopics) > 0 {
		msg.Openers = append(msg.Openers, models.TalkingPoint{
			Category:   models.CategoryOpener,
			Content:    fmt.Sprintf("With %s reshaping %s, curious how your team is approaching it", profile.TrendTopics[0], profile.Name),
			Provenance: "industry_profile",
			Confidence: 70,
			Priority:   2,
		})
	}

	for i, pain := range profile.RolePainPoints[role] {
		if i >= 2 {
			break
		}
		msg.PainPoints = append(msg.PainPoints, models.TalkingPoint{
			Category:   models.CategoryPainPoint,
			Content:    pain,
			Provenance: "industry_profile",
			Confidence: 70,
			Priority:   i + 1,
		})
	}

	for i, kpi := range profile.RoleKPIs[role] {
		if i >= 1 {
			break
		}
		msg.ValueProps = append(msg.ValueProps, models.TalkingPoint{
			Category:   models.CategoryValueProp,
			Content:    fmt.Sprintf("Teams in %s measure us directly against %s", profile.Name, kpi),
			Provenance: "industry_profile",
			Confidence: 70,
			Priority:   2,
		})
	}

	if len(profile.SubVerticals) > 0 {
		msg.SocialProof = append(msg.SocialProof, models.TalkingPoint{
			Category:   models.CategorySocialProof,
			Content:    fmt.Sprintf("We work with several %s teams across %s", profile.Name, strings.Join(profile.SubVerticals, ", ")),
			Provenance: "industry_profile",
			Confidence: 65,
			Priority:   2,
		})
	}

	if profile.BuyingCycle != "" {
		msg.CTAs = append(msg.CTAs, models.TalkingPoint{
			Category:   models.CategoryCTA,
			Content:    "Happy to share how teams in your industry typically run this evaluation",
			Provenance: "industry_profile",
			Confidence: 65,
			Priority:   2,
		})
	}

	return msg
}

// roleKey collapses seniority tags onto the knowledge table's role keys.
func roleKey(seniority string) string {
	switch seniority {
	case "C-suite", "VP", "Director":
		return "leader"
	case "Manager":
		return "manager"
	default:
		return "leader"
	}
}

// industryRelevance scores how specifically the profile matches the
// prospect: a direct table hit with role-keyed data beats a synthesized
// or default profile.
func industryRelevance(profile models.IndustryProfile, s *models.ProspectSignals) int {
	score := 40
	if profile.Name != defaultProfile.Name {
		score += 20
	}
	if len(profile.RolePainPoints[roleKey(s.Professional.Seniority)]) > 0 {
		score += 20
	}
	if len(profile.TrendTopics) > 0 {
		score += 10
	}
	if len(profile.Regulatory) > 0 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}

func snippet(text string) string {
	if len(text) > 120 {
		return text[:120] + "..."
	}
	return text
}
