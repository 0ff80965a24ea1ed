package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"app/models"
)

// defaultLowStockThreshold applies when a machine slot does not declare
// its own threshold.
const defaultLowStockThreshold = 5

// SellerStat is one product's sales performance across all purchases.
type SellerStat struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Orders    int             `json:"orders"`
}

// MachineStockStat is one machine's stock posture.
type MachineStockStat struct {
	MachineID     string `json:"machine_id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	TotalStock    int    `json:"total_stock"`
	ProductCount  int    `json:"product_count"`
	LowStockCount int    `json:"low_stock_count"`
}

// DemandStat is the wishlist request count for one product name.
type DemandStat struct {
	ProductName string `json:"product_name"`
	Requests    int    `json:"requests"`
}

// RestockSummary is the deterministic aggregate behind the restock advisor:
// top sellers by revenue, machines in critical stock shape, and wishlist
// demand ranking.
type RestockSummary struct {
	TotalMachines    int
	ActiveMachines   int
	TotalOrders      int
	CatalogSize      int
	TopSellers       []SellerStat
	CriticalMachines []MachineStockStat
	WishlistDemand   []DemandStat
	lowStockProducts map[string]bool
}

// IsEmpty reports whether there is nothing to advise on. Matches the
// screen's own guard: no catalog or no machines means no analysis.
func (s RestockSummary) IsEmpty() bool {
	return s.CatalogSize == 0 || s.TotalMachines == 0
}

// LowStockProduct reports whether any machine currently lists the named
// product below its low-stock threshold.
func (s RestockSummary) LowStockProduct(name string) bool {
	return s.lowStockProducts[name]
}

// BuildRestockSummary folds purchases, machine stock, and wishlists into
// the advisor's input aggregate. Top sellers are capped at 15 by revenue,
// wishlist demand at 15 by request count; critical machines are those with
// under 20 items total or more than two low slots.
func BuildRestockSummary(purchases []models.Purchase, machines []models.VendingMachine, wishlist []models.WishlistItem, products []models.Product) RestockSummary {
	summary := RestockSummary{
		TotalMachines:    len(machines),
		TotalOrders:      len(purchases),
		CatalogSize:      len(products),
		lowStockProducts: make(map[string]bool),
	}

	sellers := make(map[string]*SellerStat)
	for _, purchase := range purchases {
		for _, item := range purchase.Products {
			stat, ok := sellers[item.ProductName]
			if !ok {
				stat = &SellerStat{ProductID: item.ProductID, Name: item.ProductName}
				sellers[item.ProductName] = stat
			}
			stat.Quantity += item.Quantity
			stat.Revenue = stat.Revenue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			stat.Orders++
		}
	}
	for _, stat := range sellers {
		summary.TopSellers = append(summary.TopSellers, *stat)
	}
	sort.Slice(summary.TopSellers, func(i, j int) bool {
		if !summary.TopSellers[i].Revenue.Equal(summary.TopSellers[j].Revenue) {
			return summary.TopSellers[i].Revenue.GreaterThan(summary.TopSellers[j].Revenue)
		}
		return summary.TopSellers[i].Name < summary.TopSellers[j].Name
	})
	if len(summary.TopSellers) > 15 {
		summary.TopSellers = summary.TopSellers[:15]
	}

	for _, machine := range machines {
		if machine.Status == "active" {
			summary.ActiveMachines++
		}
		stat := MachineStockStat{
			MachineID:    machine.ID,
			Name:         machine.Name,
			Status:       machine.Status,
			ProductCount: len(machine.ProductsInventory),
		}
		for _, slot := range machine.ProductsInventory {
			stat.TotalStock += slot.Quantity
			threshold := slot.LowStockThreshold
			if threshold <= 0 {
				threshold = defaultLowStockThreshold
			}
			if slot.Quantity < threshold {
				stat.LowStockCount++
				summary.lowStockProducts[slot.ProductName] = true
			}
		}
		if stat.TotalStock < 20 || stat.LowStockCount > 2 {
			summary.CriticalMachines = append(summary.CriticalMachines, stat)
		}
	}

	demand := make(map[string]int)
	for _, item := range wishlist {
		demand[item.ProductName]++
	}
	for name, count := range demand {
		summary.WishlistDemand = append(summary.WishlistDemand, DemandStat{ProductName: name, Requests: count})
	}
	sort.Slice(summary.WishlistDemand, func(i, j int) bool {
		if summary.WishlistDemand[i].Requests != summary.WishlistDemand[j].Requests {
			return summary.WishlistDemand[i].Requests > summary.WishlistDemand[j].Requests
		}
		return summary.WishlistDemand[i].ProductName < summary.WishlistDemand[j].ProductName
	})
	if len(summary.WishlistDemand) > 15 {
		summary.WishlistDemand = summary.WishlistDemand[:15]
	}

	return summary
}

// BaselineRestock is the deterministic fallback for the restock advisor.
// Priority restocks come from the top sellers, escalated when a machine
// currently runs that product low; expansion candidates come straight from
// the wishlist demand ranking; machine priorities from the critical list.
func BaselineRestock(summary RestockSummary) models.RestockInsights {
	insights := models.RestockInsights{
		PriorityRestock:   []models.RestockItem{},
		NewProductsToAdd:  []models.ExpansionItem{},
		MachinePriorities: []models.MachinePriority{},
	}

	for i, seller := range summary.TopSellers {
		if i >= 5 {
			break
		}
		urgency := "medium"
		reason := fmt.Sprintf("%d units across %d orders, %s revenue", seller.Quantity, seller.Orders, seller.Revenue.StringFixed(2))
		if summary.LowStockProduct(seller.Name) {
			urgency = "high"
			reason += "; currently low in at least one machine"
		}
		insights.PriorityRestock = append(insights.PriorityRestock, models.RestockItem{
			Product: seller.Name,
			Reason:  reason,
			Urgency: urgency,
		})
	}

	for i, demand := range summary.WishlistDemand {
		if i >= 5 {
			break
		}
		score := float64(demand.Requests)
		if score > 10 {
			score = 10
		}
		insights.NewProductsToAdd = append(insights.NewProductsToAdd, models.ExpansionItem{
			Product:     demand.ProductName,
			DemandScore: score,
			Rationale:   fmt.Sprintf("%d wishlist requests", demand.Requests),
		})
	}

	for i, machine := range summary.CriticalMachines {
		if i >= 4 {
			break
		}
		insights.MachinePriorities = append(insights.MachinePriorities, models.MachinePriority{
			Machine: machine.Name,
			Action:  fmt.Sprintf("Refill soon: %d items in stock, %d products running low", machine.TotalStock, machine.LowStockCount),
		})
	}

	insights.Insights = []string{
		"Baseline analysis: rankings derived from sales history, machine stock levels, and wishlist demand.",
	}
	return insights
}

// BuildRestockPrompt renders the advisor's aggregate for the model.
func BuildRestockPrompt(summary RestockSummary) string {
	var b strings.Builder

	b.WriteString("You are an AI inventory optimization expert for a fleet of vending machines. ")
	b.WriteString("Analyze the data and provide strategic, actionable recommendations.\n\n")

	b.WriteString("BUSINESS OVERVIEW:\n")
	fmt.Fprintf(&b, "- Total Machines: %d\n", summary.TotalMachines)
	fmt.Fprintf(&b, "- Active Machines: %d\n", summary.ActiveMachines)
	fmt.Fprintf(&b, "- Total Sales Orders: %d\n", summary.TotalOrders)
	fmt.Fprintf(&b, "- Product Catalog: %d SKUs\n", summary.CatalogSize)

	b.WriteString("\nTOP SELLING PRODUCTS (by revenue):\n")
	if len(summary.TopSellers) == 0 {
		b.WriteString("No sales data available\n")
	}
	for _, seller := range summary.TopSellers {
		fmt.Fprintf(&b, "%s: %s revenue, %d units, %d orders\n", seller.Name, seller.Revenue.StringFixed(0), seller.Quantity, seller.Orders)
	}

	b.WriteString("\nCRITICAL STOCK ALERTS:\n")
	if len(summary.CriticalMachines) == 0 {
		b.WriteString("All machines adequately stocked\n")
	}
	for _, machine := range summary.CriticalMachines {
		fmt.Fprintf(&b, "%s: %d total items, %d products low\n", machine.Name, machine.TotalStock, machine.LowStockCount)
	}

	b.WriteString("\nCUSTOMER DEMAND (Wishlist Analytics):\n")
	if len(summary.WishlistDemand) == 0 {
		b.WriteString("No wishlist data available\n")
	}
	for _, demand := range summary.WishlistDemand {
		fmt.Fprintf(&b, "%s: %d user requests\n", demand.ProductName, demand.Requests)
	}

	b.WriteString(`
YOUR TASK:
Provide data-driven recommendations to maximize revenue and customer satisfaction:

1. PRIORITY RESTOCK (3-5 items): Products that urgently need restocking due to high sales velocity and low stock. Include product name, specific reason citing the data, and urgency level (high/medium/low).

2. EXPANSION OPPORTUNITIES (3-5 items): Products to add to inventory based on strong wishlist demand. Include product name, demand score (1-10), and rationale with data points.

3. MACHINE PRIORITIES (2-4 machines): Specific machines requiring immediate attention. Include machine name and specific action needed.

4. STRATEGIC INSIGHTS (4-6 insights): Actionable business intelligence such as sales trends, category performance, price optimization, and customer preference shifts.

Be specific, use the actual data provided, and make your recommendations immediately actionable for operators.`)

	return b.String()
}
