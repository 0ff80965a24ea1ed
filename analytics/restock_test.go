package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"app/models"
)

func purchaseOf(items ...models.PurchaseItem) models.Purchase {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return models.Purchase{TotalAmount: total, Products: items}
}

func item(id, name string, qty int, price float64) models.PurchaseItem {
	return models.PurchaseItem{ProductID: id, ProductName: name, Quantity: qty, Price: decimal.NewFromFloat(price)}
}

func TestBuildRestockSummarySellers(t *testing.T) {
	purchases := []models.Purchase{
		purchaseOf(item("P1", "Chips", 2, 1.50), item("P2", "Soda", 1, 2.00)),
		purchaseOf(item("P1", "Chips", 1, 1.50)),
		purchaseOf(item("P3", "Coffee", 3, 2.50)),
	}
	products := []models.Product{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}}
	machines := []models.VendingMachine{machine("M1", "Lobby")}

	summary := BuildRestockSummary(purchases, machines, nil, products)

	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, 3, summary.CatalogSize)
	assert.Len(t, summary.TopSellers, 3)
	// Coffee 7.50 > Chips 4.50 > Soda 2.00
	assert.Equal(t, "Coffee", summary.TopSellers[0].Name)
	assert.Equal(t, "Chips", summary.TopSellers[1].Name)
	assert.Equal(t, 3, summary.TopSellers[1].Quantity)
	assert.Equal(t, 2, summary.TopSellers[1].Orders)
	assert.Equal(t, "Soda", summary.TopSellers[2].Name)
}

func TestBuildRestockSummaryCriticalMachines(t *testing.T) {
	machines := []models.VendingMachine{
		{
			ID: "M1", Name: "Lobby", Status: "active",
			ProductsInventory: models.MachineInventory{
				{ProductName: "Chips", Quantity: 30},
				{ProductName: "Soda", Quantity: 25},
			},
		},
		{
			ID: "M2", Name: "Garage", Status: "active",
			ProductsInventory: models.MachineInventory{
				{ProductName: "Chips", Quantity: 3},
				{ProductName: "Gum", Quantity: 9},
			},
		},
		{
			ID: "M3", Name: "Gym", Status: "maintenance",
			ProductsInventory: models.MachineInventory{
				{ProductName: "Water", Quantity: 2},
				{ProductName: "Soda", Quantity: 1, LowStockThreshold: 3},
				{ProductName: "Bar", Quantity: 4},
			},
		},
	}
	products := []models.Product{{ID: "P1"}}

	summary := BuildRestockSummary(nil, machines, nil, products)

	assert.Equal(t, 3, summary.TotalMachines)
	assert.Equal(t, 2, summary.ActiveMachines)
	assert.Len(t, summary.CriticalMachines, 2)
	assert.Equal(t, "Garage", summary.CriticalMachines[0].Name)
	assert.Equal(t, 12, summary.CriticalMachines[0].TotalStock)
	assert.Equal(t, 1, summary.CriticalMachines[0].LowStockCount)
	assert.Equal(t, "Gym", summary.CriticalMachines[1].Name)
	assert.Equal(t, 3, summary.CriticalMachines[1].LowStockCount)

	assert.True(t, summary.LowStockProduct("Chips"))
	assert.True(t, summary.LowStockProduct("Water"))
	assert.False(t, summary.LowStockProduct("Gum"))
}

func TestBuildRestockSummaryWishlistDemand(t *testing.T) {
	wishlist := []models.WishlistItem{
		{UserEmail: "a@x.com", ProductName: "Matcha Latte"},
		{UserEmail: "b@x.com", ProductName: "Matcha Latte"},
		{UserEmail: "c@x.com", ProductName: "Matcha Latte"},
		{UserEmail: "a@x.com", ProductName: "Energy Bar"},
		{UserEmail: "b@x.com", ProductName: "Iced Tea"},
	}
	products := []models.Product{{ID: "P1"}}
	machines := []models.VendingMachine{machine("M1", "Lobby")}

	summary := BuildRestockSummary(nil, machines, wishlist, products)

	assert.Len(t, summary.WishlistDemand, 3)
	assert.Equal(t, DemandStat{ProductName: "Matcha Latte", Requests: 3}, summary.WishlistDemand[0])
	// Ties broken by name ascending.
	assert.Equal(t, "Energy Bar", summary.WishlistDemand[1].ProductName)
	assert.Equal(t, "Iced Tea", summary.WishlistDemand[2].ProductName)
}

func TestRestockSummaryIsEmpty(t *testing.T) {
	assert.True(t, RestockSummary{}.IsEmpty())
	assert.True(t, RestockSummary{CatalogSize: 3}.IsEmpty())
	assert.True(t, RestockSummary{TotalMachines: 2}.IsEmpty())
	assert.False(t, RestockSummary{CatalogSize: 3, TotalMachines: 2}.IsEmpty())
}

func TestBaselineRestockSections(t *testing.T) {
	purchases := []models.Purchase{
		purchaseOf(item("P1", "Chips", 5, 1.50)),
		purchaseOf(item("P2", "Soda", 2, 2.00)),
	}
	machines := []models.VendingMachine{
		{
			ID: "M1", Name: "Garage", Status: "active",
			ProductsInventory: models.MachineInventory{
				{ProductName: "Chips", Quantity: 2},
			},
		},
	}
	wishlist := []models.WishlistItem{
		{UserEmail: "a@x.com", ProductName: "Matcha Latte"},
		{UserEmail: "b@x.com", ProductName: "Matcha Latte"},
	}
	products := []models.Product{{ID: "P1"}, {ID: "P2"}}

	summary := BuildRestockSummary(purchases, machines, wishlist, products)
	insights := BaselineRestock(summary)

	assert.Len(t, insights.PriorityRestock, 2)
	assert.Equal(t, "Chips", insights.PriorityRestock[0].Product)
	// Chips runs low in the garage machine, so it escalates.
	assert.Equal(t, "high", insights.PriorityRestock[0].Urgency)
	assert.Equal(t, "medium", insights.PriorityRestock[1].Urgency)

	assert.Len(t, insights.NewProductsToAdd, 1)
	assert.Equal(t, "Matcha Latte", insights.NewProductsToAdd[0].Product)
	assert.Equal(t, float64(2), insights.NewProductsToAdd[0].DemandScore)

	assert.Len(t, insights.MachinePriorities, 1)
	assert.Equal(t, "Garage", insights.MachinePriorities[0].Machine)
	assert.NotEmpty(t, insights.Insights)
}

func TestBaselineRestockDemandScoreClamped(t *testing.T) {
	wishlist := make([]models.WishlistItem, 0, 25)
	for i := 0; i < 25; i++ {
		wishlist = append(wishlist, models.WishlistItem{ProductName: "Matcha Latte"})
	}
	products := []models.Product{{ID: "P1"}}
	machines := []models.VendingMachine{machine("M1", "Lobby")}

	summary := BuildRestockSummary(nil, machines, wishlist, products)
	insights := BaselineRestock(summary)

	assert.Len(t, insights.NewProductsToAdd, 1)
	assert.Equal(t, float64(10), insights.NewProductsToAdd[0].DemandScore)
}

func TestBuildRestockPrompt(t *testing.T) {
	purchases := []models.Purchase{purchaseOf(item("P1", "Chips", 5, 1.50))}
	machines := []models.VendingMachine{machine("M1", "Lobby")}
	products := []models.Product{{ID: "P1"}}

	summary := BuildRestockSummary(purchases, machines, nil, products)
	prompt := BuildRestockPrompt(summary)

	assert.Contains(t, prompt, "Total Machines: 1")
	assert.Contains(t, prompt, "Chips: 8 revenue, 5 units, 1 orders")
	assert.Contains(t, prompt, "All machines adequately stocked")
	assert.Contains(t, prompt, "No wishlist data available")
	assert.Contains(t, prompt, "PRIORITY RESTOCK")
}
