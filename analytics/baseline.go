package analytics

import (
	"fmt"
	"strings"
	"time"

	"app/models"
)

// Recommendation kinds and priorities emitted by the rule-based baseline.
const (
	KindRestock = "restock"
	KindReplace = "replace"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is one deterministic restock/replace suggestion. It is the
// fallback the operator sees whenever the AI path is unavailable.
type Recommendation struct {
	MachineID   string `json:"machine_id"`
	MachineName string `json:"machine_name"`
	Kind        string `json:"type"`
	Priority    string `json:"priority"`
	Reason      string `json:"reason"`
	Products    string `json:"products"`
	Action      string `json:"action"`
}

// staleAfter is how long a top-selling product may go without a sale before
// it is flagged for replacement.
const staleAfter = 14 * 24 * time.Hour

// BuildBaselineRecommendations derives rule-based suggestions from an
// aggregation: one high-priority restock per machine naming its top three
// sellers, followed by a medium-priority replace for every top-listed
// product with no movement in the last fourteen days. Machines are
// processed in catalog order so the output is reproducible.
func BuildBaselineRecommendations(agg Aggregation, machines []models.VendingMachine, now time.Time) []Recommendation {
	staleBefore := now.Add(-staleAfter)

	var recs []Recommendation
	for _, machine := range machines {
		top := agg.TopProductsByMachine[machine.ID]

		if len(top) > 0 {
			n := len(top)
			if n > 3 {
				n = 3
			}
			names := make([]string, n)
			for i := 0; i < n; i++ {
				names[i] = top[i].Name
			}
			joined := strings.Join(names, ", ")
			recs = append(recs, Recommendation{
				MachineID:   machine.ID,
				MachineName: machine.Name,
				Kind:        KindRestock,
				Priority:    PriorityHigh,
				Reason:      "7-day top seller",
				Products:    joined,
				Action:      fmt.Sprintf("Restock %s", joined),
			})
		}

		for _, product := range top {
			if product.LastSale.Before(staleBefore) {
				recs = append(recs, Recommendation{
					MachineID:   machine.ID,
					MachineName: machine.Name,
					Kind:        KindReplace,
					Priority:    PriorityMedium,
					Reason:      "14-day no movement",
					Products:    product.Name,
					Action:      fmt.Sprintf("Consider replacing %s", product.Name),
				})
			}
		}
	}
	return recs
}

// InsightsFromBaseline lifts baseline recommendations into the insights
// shape the analytics screen renders, so the fallback path and the AI path
// produce the same response structure.
func InsightsFromBaseline(recs []Recommendation) models.AnalyticsInsights {
	insights := models.AnalyticsInsights{
		Recommendations: make([]models.MachineRecommendation, 0, len(recs)),
	}
	for _, rec := range recs {
		insights.Recommendations = append(insights.Recommendations, models.MachineRecommendation{
			MachineName: rec.MachineName,
			Action:      rec.Action,
			Priority:    rec.Priority,
			Reason:      rec.Reason,
		})
	}
	insights.StrategicInsights = []string{
		"Rule-based suggestions using 7-day and 14-day analysis.",
	}
	return insights
}
