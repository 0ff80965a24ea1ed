package models

// TopPerformer is one standout machine named by the analytics model.
type TopPerformer struct {
	MachineName string `json:"machine_name"`
	Reason      string `json:"reason"`
	Metrics     string `json:"metrics"`
}

// MachineRecommendation is one per-machine action suggested by the
// analytics model, or synthesized from the rule-based baseline when the
// model is unavailable.
type MachineRecommendation struct {
	MachineName string `json:"machine_name"`
	Action      string `json:"action"`
	Priority    string `json:"priority"`
	Reason      string `json:"reason"`
}

// AnalyticsInsights is the full result of the machine analytics screen.
type AnalyticsInsights struct {
	TopPerformers     []TopPerformer          `json:"top_performers"`
	Recommendations   []MachineRecommendation `json:"recommendations"`
	StrategicInsights []string                `json:"strategic_insights"`
}

// PersonalizedPicks is the result of the per-user recommendation engine:
// product IDs referencing the catalog plus a short reasoning blurb.
type PersonalizedPicks struct {
	RecommendedProductIDs []string `json:"recommended_product_ids"`
	Reasoning             string   `json:"reasoning"`
}

// RestockItem is one urgent restock suggestion from the restock advisor.
type RestockItem struct {
	Product string `json:"product"`
	Reason  string `json:"reason"`
	Urgency string `json:"urgency"` // high | medium | low
}

// ExpansionItem is a product worth adding to the catalog based on demand.
type ExpansionItem struct {
	Product     string  `json:"product"`
	DemandScore float64 `json:"demand_score"`
	Rationale   string  `json:"rationale"`
}

// MachinePriority names a machine needing operator attention.
type MachinePriority struct {
	Machine string `json:"machine"`
	Action  string `json:"action"`
}

// RestockInsights is the four-section result of the restock advisor.
type RestockInsights struct {
	PriorityRestock   []RestockItem     `json:"priority_restock"`
	NewProductsToAdd  []ExpansionItem   `json:"new_products_to_add"`
	MachinePriorities []MachinePriority `json:"machine_priorities"`
	Insights          []string          `json:"insights"`
}
