package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func machine(id, name string) models.VendingMachine {
	return models.VendingMachine{ID: id, Name: name, Status: "active"}
}

func TestBaselineRestockRecommendation(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "Chips", 9, 1, testNow),
		saleAt("M1", "P2", "Soda", 7, 1, testNow),
		saleAt("M1", "P3", "Gum", 5, 1, testNow),
		saleAt("M1", "P4", "Water", 1, 1, testNow),
	}
	agg := Aggregate(records, testNow, 7)
	machines := []models.VendingMachine{machine("M1", "Lobby")}

	recs := BuildBaselineRecommendations(agg, machines, testNow)

	assert.Len(t, recs, 1)
	assert.Equal(t, KindRestock, recs[0].Kind)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, "Chips, Soda, Gum", recs[0].Products)
	assert.Equal(t, "Restock Chips, Soda, Gum", recs[0].Action)
	assert.Equal(t, "Lobby", recs[0].MachineName)
}

func TestBaselineReplaceForStaleProducts(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "Chips", 9, 1, testNow.AddDate(0, 0, -1)),
		saleAt("M1", "P2", "Stale Bar", 4, 1, testNow.AddDate(0, 0, -20)),
		saleAt("M1", "P3", "Soda", 3, 1, testNow.AddDate(0, 0, -5)),
	}
	agg := Aggregate(records, testNow, 7)
	machines := []models.VendingMachine{machine("M1", "Lobby")}

	recs := BuildBaselineRecommendations(agg, machines, testNow)

	var replaces []Recommendation
	for _, rec := range recs {
		if rec.Kind == KindReplace {
			replaces = append(replaces, rec)
		}
	}
	assert.Len(t, replaces, 1)
	assert.Equal(t, PriorityMedium, replaces[0].Priority)
	assert.Equal(t, "Stale Bar", replaces[0].Products)
	assert.Equal(t, "Consider replacing Stale Bar", replaces[0].Action)
}

func TestBaselineSkipsMachinesWithoutSales(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M1", "P1", "Chips", 3, 1, testNow),
	}
	agg := Aggregate(records, testNow, 7)
	machines := []models.VendingMachine{
		machine("M1", "Lobby"),
		machine("M2", "Garage"),
	}

	recs := BuildBaselineRecommendations(agg, machines, testNow)

	assert.Len(t, recs, 1)
	assert.Equal(t, "M1", recs[0].MachineID)
}

func TestBaselineFollowsCatalogOrder(t *testing.T) {
	records := []models.SaleRecord{
		saleAt("M2", "P1", "Chips", 3, 1, testNow),
		saleAt("M1", "P2", "Soda", 2, 1, testNow),
	}
	agg := Aggregate(records, testNow, 7)
	machines := []models.VendingMachine{
		machine("M1", "Lobby"),
		machine("M2", "Garage"),
	}

	recs := BuildBaselineRecommendations(agg, machines, testNow)

	assert.Len(t, recs, 2)
	assert.Equal(t, "M1", recs[0].MachineID)
	assert.Equal(t, "M2", recs[1].MachineID)
}

func TestInsightsFromBaseline(t *testing.T) {
	recs := []Recommendation{
		{
			MachineName: "Lobby",
			Kind:        KindRestock,
			Priority:    PriorityHigh,
			Reason:      "7-day top seller",
			Action:      "Restock Chips",
		},
	}

	insights := InsightsFromBaseline(recs)

	assert.Len(t, insights.Recommendations, 1)
	assert.Equal(t, "Lobby", insights.Recommendations[0].MachineName)
	assert.Equal(t, "Restock Chips", insights.Recommendations[0].Action)
	assert.Equal(t, PriorityHigh, insights.Recommendations[0].Priority)
	assert.NotEmpty(t, insights.StrategicInsights)
	assert.Empty(t, insights.TopPerformers)
}

func TestBaselineStaleBoundary(t *testing.T) {
	// Exactly at the cutoff is not stale; one hour past it is.
	cutoff := testNow.Add(-staleAfter)
	records := []models.SaleRecord{
		saleAt("M1", "P1", "Edge", 2, 1, cutoff),
		saleAt("M1", "P2", "Past", 1, 1, cutoff.Add(-time.Hour)),
	}
	agg := Aggregate(records, testNow, 7)
	machines := []models.VendingMachine{machine("M1", "Lobby")}

	recs := BuildBaselineRecommendations(agg, machines, testNow)

	var staleNames []string
	for _, rec := range recs {
		if rec.Kind == KindReplace {
			staleNames = append(staleNames, rec.Products)
		}
	}
	assert.Equal(t, []string{"Past"}, staleNames)
}
