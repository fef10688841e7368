package model

// Intent is the classic search-intent category of a keyword.
type Intent string

const (
	IntentInformational Intent = "informational"
	IntentNavigational  Intent = "navigational"
	IntentCommercial    Intent = "commercial"
	IntentTransactional Intent = "transactional"
)

// AnswerIntent is the answer-engine (AEO/GEO) query-intent category.
type AnswerIntent string

const (
	AnswerIntentQuestion   AnswerIntent = "question_based"
	AnswerIntentDefinition AnswerIntent = "definition"
	AnswerIntentComparison AnswerIntent = "comparison"
	AnswerIntentHowTo      AnswerIntent = "how_to"
	AnswerIntentList       AnswerIntent = "list_based"
	AnswerIntentFactual    AnswerIntent = "factual"
)

// SerpFeature is a SERP feature a keyword may be eligible for.
type SerpFeature string

const (
	SerpFeaturedSnippet SerpFeature = "featured_snippet"
	SerpFAQ             SerpFeature = "faq"
	SerpHowTo           SerpFeature = "how_to"
	SerpKnowledgePanel  SerpFeature = "knowledge_panel"
	SerpStandardResults SerpFeature = "standard_results"
)

// OpportunityType labels what kind of optimization a keyword calls for.
type OpportunityType string

const (
	TypeCtrOptimization OpportunityType = "ctr_optimization"
	TypeTop3Push        OpportunityType = "top_3_push"
	TypeTop10Push       OpportunityType = "top_10_push"
	TypeFirstPagePush   OpportunityType = "first_page_push"
	TypeLongTermTarget  OpportunityType = "long_term_target"
)

// AllOpportunityTypes returns the opportunity types in ladder order.
func AllOpportunityTypes() []OpportunityType {
	return []OpportunityType{
		TypeCtrOptimization,
		TypeTop3Push,
		TypeTop10Push,
		TypeFirstPagePush,
		TypeLongTermTarget,
	}
}

// Priority is the triage tier derived from the opportunity score.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// AllPriorities returns the priorities from most to least urgent.
func AllPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// DataSource indicates where the enrichment metrics came from.
type DataSource string

const (
	SourceAuthoritative DataSource = "authoritative"
	SourceEstimated     DataSource = "estimated"
)

// KeywordMetrics holds authoritative or estimated third-party data for one
// normalized keyword. Absence from the dataset is the expected case, not an
// error; the enrichment layer then synthesizes estimates.
type KeywordMetrics struct {
	SearchVolume  int64   `json:"search_volume"`
	Difficulty    int     `json:"difficulty"` // 0-100
	CostPerClick  float64 `json:"cost_per_click"`
	SerpFeatures  string  `json:"serp_features,omitempty"` // vendor free text
	Authoritative bool    `json:"authoritative"`
}

// Opportunity is the scored, enriched view of one query. Every derived
// field is a pure function of the source record plus one metrics lookup;
// no field depends on any other Opportunity.
type Opportunity struct {
	Record

	Intent       Intent        `json:"intent"`
	AnswerIntent AnswerIntent  `json:"answer_intent"`
	SerpFeatures []SerpFeature `json:"serp_features"`

	SearchVolume int64      `json:"search_volume"`
	Difficulty   int        `json:"difficulty"`
	CostPerClick float64    `json:"cost_per_click"`
	DataSource   DataSource `json:"data_source"`

	CTRGap           float64 `json:"ctr_gap"`
	TrafficPotential int64   `json:"traffic_potential"`

	OpportunityScore float64         `json:"opportunity_score"`
	AnswerPotential  float64         `json:"answer_potential"`
	OpportunityType  OpportunityType `json:"opportunity_type"`
	Priority         Priority        `json:"priority"`
}

// IsQuestion reports whether the keyword is a question-format query.
func (o Opportunity) IsQuestion() bool {
	return o.AnswerIntent == AnswerIntentQuestion
}
