package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"app/models"
)

// MachineSummary is one machine's all-time totals, used for prompt shaping
// and the dashboard charts.
type MachineSummary struct {
	MachineID string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"total"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// MachineSummaries flattens the per-machine daily buckets into totals,
// sorted by quantity descending (machine ID ascending on ties, so the
// output is deterministic).
func MachineSummaries(agg Aggregation, machines []models.VendingMachine) []MachineSummary {
	names := make(map[string]string, len(machines))
	for _, m := range machines {
		names[m.ID] = m.Name
	}

	summaries := make([]MachineSummary, 0, len(agg.PerMachineDaily))
	for machineID, days := range agg.PerMachineDaily {
		s := MachineSummary{MachineID: machineID, Name: names[machineID]}
		if s.Name == "" {
			s.Name = "Unknown"
		}
		for _, bucket := range days {
			s.Quantity += bucket.Quantity
			s.Revenue = s.Revenue.Add(bucket.Revenue)
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Quantity != summaries[j].Quantity {
			return summaries[i].Quantity > summaries[j].Quantity
		}
		return summaries[i].MachineID < summaries[j].MachineID
	})
	return summaries
}

// TopProductTotals returns the n best-selling products across all machines
// by quantity, with product ID breaking ties.
func TopProductTotals(agg Aggregation, n int) []TopProduct {
	type entry struct {
		id    string
		total ProductTotal
	}
	entries := make([]entry, 0, len(agg.PerProductTotal))
	for id, total := range agg.PerProductTotal {
		entries = append(entries, entry{id: id, total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].total.Quantity != entries[j].total.Quantity {
			return entries[i].total.Quantity > entries[j].total.Quantity
		}
		return entries[i].id < entries[j].id
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	top := make([]TopProduct, len(entries))
	for i, e := range entries {
		top[i] = TopProduct{ProductID: e.id, Name: e.total.Name, Quantity: e.total.Quantity}
	}
	return top
}

// BuildAnalyticsPrompt renders the compact payload sent to the model for
// the machine analytics screen. Raw records are never sent; everything is
// pre-aggregated to keep the payload well under 4KB.
func BuildAnalyticsPrompt(agg Aggregation, machines []models.VendingMachine) string {
	var b strings.Builder

	b.WriteString("You are an AI analytics expert for a fleet of vending machines. ")
	b.WriteString("Analyze this sales data and provide actionable recommendations.\n\n")

	b.WriteString("MACHINE TOTALS:\n")
	for _, s := range MachineSummaries(agg, machines) {
		fmt.Fprintf(&b, "- %s (%s): %d units, %s revenue\n", s.Name, s.MachineID, s.Quantity, s.Revenue.StringFixed(2))
	}

	b.WriteString("\nTOP PRODUCTS (all machines):\n")
	for _, p := range TopProductTotals(agg, 10) {
		total := agg.PerProductTotal[p.ProductID]
		fmt.Fprintf(&b, "- %s: %d units, %s revenue\n", p.Name, p.Quantity, total.Revenue.StringFixed(2))
	}

	b.WriteString("\nTOP PRODUCTS PER MACHINE:\n")
	machineIDs := make([]string, 0, len(agg.TopProductsByMachine))
	for machineID := range agg.TopProductsByMachine {
		machineIDs = append(machineIDs, machineID)
	}
	sort.Strings(machineIDs)
	for _, machineID := range machineIDs {
		parts := make([]string, 0, 5)
		for _, p := range agg.TopProductsByMachine[machineID] {
			parts = append(parts, fmt.Sprintf("%s (%d)", p.Name, p.Quantity))
		}
		fmt.Fprintf(&b, "- %s: %s\n", machineID, strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, "\nTOTAL ACCEPTED SALE EVENTS: %d\n", agg.Stats.RowsIngested)

	b.WriteString(`
Provide specific, actionable recommendations for each machine. Focus on:
1. Which products to restock (high performers)
2. Which products to replace (low performers)
3. Strategic insights about trends

Keep recommendations concise and practical.`)

	return b.String()
}
