package models

// IndustryProfile is one entry of the industry knowledge table, keyed by
// normalized industry name. Profiles are data: new industries are added
// by extending the table artifact, not by code changes.
type IndustryProfile struct {
	Name           string              `json:"name" yaml:"name"`
	SubVerticals   []string            `json:"sub_verticals" yaml:"sub_verticals"`
	RolePriorities map[string][]string `json:"role_priorities" yaml:"role_priorities"`
	RolePainPoints map[string][]string `json:"role_pain_points" yaml:"role_pain_points"`
	RoleKPIs       map[string][]string `json:"role_kpis" yaml:"role_kpis"`
	Terminology    []string            `json:"terminology" yaml:"terminology"`
	TrendTopics    []string            `json:"trend_topics" yaml:"trend_topics"`
	Regulatory     []string            `json:"regulatory" yaml:"regulatory"`
	BuyingCycle    string              `json:"buying_cycle" yaml:"buying_cycle"`
}

// IndustryMessaging is the augmentor's output: industry-flavored
// candidates feeding the same composer contract as the signal-driven
// generators, plus a relevance score for the match.
type IndustryMessaging struct {
	Industry       string         `json:"industry"`
	Openers        []TalkingPoint `json:"openers"`
	PainPoints     []TalkingPoint `json:"pain_points"`
	ValueProps     []TalkingPoint `json:"value_props"`
	SocialProof    []TalkingPoint `json:"social_proof"`
	CTAs           []TalkingPoint `json:"ctas"`
	RelevanceScore int            `json:"relevance_score"` // 0-100
}
