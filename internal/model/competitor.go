package model

// CompetitorCandidate is a raw, unscored search hit. Candidates exist only
// between discovery and classification; they are never persisted.
type CompetitorCandidate struct {
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

// Relevance classifies how directly a competitor overlaps with the idea.
type Relevance string

const (
	RelevanceDirect   Relevance = "direct"
	RelevanceIndirect Relevance = "indirect"
	RelevanceNone     Relevance = "none"
)

// Valid reports whether r is one of the known relevance values.
func (r Relevance) Valid() bool {
	switch r {
	case RelevanceDirect, RelevanceIndirect, RelevanceNone:
		return true
	}
	return false
}

// PriceTier buckets a competitor's pricing posture.
type PriceTier string

const (
	PriceTierBudget     PriceTier = "budget"
	PriceTierMidRange   PriceTier = "mid-range"
	PriceTierPremium    PriceTier = "premium"
	PriceTierEnterprise PriceTier = "enterprise"
)

// Positioning describes how a classified competitor sits in the market.
type Positioning struct {
	TargetMarket    string    `json:"target_market,omitempty"`
	PriceTier       PriceTier `json:"price_tier,omitempty"`
	PriceDetails    string    `json:"price_details,omitempty"`
	KeyStrengths    []string  `json:"key_strengths,omitempty"`
	CompanyStage    string    `json:"company_stage,omitempty"`
	GeographicFocus string    `json:"geographic_focus,omitempty"`
}

// AnalyzedCompetitor is a classified competitor. Only records with Keep set
// and a relevance other than none survive to the final result.
type AnalyzedCompetitor struct {
	Name               string       `json:"name"`
	Website            string       `json:"website,omitempty"`
	Relevance          Relevance    `json:"relevance"`
	ThreatLevel        int          `json:"threat_level"`
	KeyFeatures        []string     `json:"key_features,omitempty"`
	Positioning        *Positioning `json:"positioning,omitempty"`
	OurDifferentiation string       `json:"our_differentiation,omitempty"`
	Keep               bool         `json:"keep"`
}
