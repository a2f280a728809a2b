package models

// Talking point categories.
const (
	CategoryOpener      = "opener"
	CategoryPainPoint   = "pain_point"
	CategoryValueProp   = "value_prop"
	CategorySocialProof = "social_proof"
	CategoryTrigger     = "trigger"
	CategoryCTA         = "cta"
)

// TalkingPoint is a scored, typed candidate sentence fragment for use in
// outreach copy. Provenance names the rule or signal that produced it so
// generated copy can be audited back to its source.
type TalkingPoint struct {
	Category   string `json:"category"`
	Content    string `json:"content"`
	Provenance string `json:"provenance"`
	Confidence int    `json:"confidence"` // 0-100
	Priority   int    `json:"priority"`   // 1-5, 1 = most preferred
}

// TimingRecommendation is the suggested send window for an outreach email.
type TimingRecommendation struct {
	Day       string `json:"day"`
	Time      string `json:"time"`
	Rationale string `json:"rationale"`
}

// PersonalizationContext holds everything derived from one prospect's
// signals: ranked talking points per category, a composite score, the
// recommended messaging angle and send timing. Computed per request,
// never persisted.
type PersonalizationContext struct {
	Openers              []TalkingPoint       `json:"openers"`
	PainPoints           []TalkingPoint       `json:"pain_points"`
	ValueProps           []TalkingPoint       `json:"value_props"`
	SocialProof          []TalkingPoint       `json:"social_proof"`
	Triggers             []TalkingPoint       `json:"triggers"`
	CTAs                 []TalkingPoint       `json:"ctas"`
	PersonalizationScore int                  `json:"personalization_score"` // 0-100
	RecommendedAngle     string               `json:"recommended_angle"`
	Timing               TimingRecommendation `json:"timing_recommendation"`
}

// Category returns the talking-point list for the given category name.
func (c *PersonalizationContext) Category(name string) []TalkingPoint {
	switch name {
	case CategoryOpener:
		return c.Openers
	case CategoryPainPoint:
		return c.PainPoints
	case CategoryValueProp:
		return c.ValueProps
	case CategorySocialProof:
		return c.SocialProof
	case CategoryTrigger:
		return c.Triggers
	case CategoryCTA:
		return c.CTAs
	default:
		return nil
	}
}

// AllPoints returns every talking point across categories, in category
// order. Used for attribution scans after composition.
func (c *PersonalizationContext) AllPoints() []TalkingPoint {
	all := make([]TalkingPoint, 0,
		len(c.Openers)+len(c.PainPoints)+len(c.ValueProps)+
			len(c.SocialProof)+len(c.Triggers)+len(c.CTAs))
	all = append(all, c.Openers...)
	all = append(all, c.PainPoints...)
	all = append(all, c.ValueProps...)
	all = append(all, c.SocialProof...)
	all = append(all, c.Triggers...)
	all = append(all, c.CTAs...)
	return all
}
