package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"app/analytics"
)

// HandleOperatorDashboardSummary fetches summary data for the operator
// dashboard: fleet status, today's sales, and the trailing week's totals.
// GET /api/v1/admin/dashboard/summary
func HandleOperatorDashboardSummary(c *fiber.Ctx) error {
	ctx := context.Background()

	machines, err := fetchMachines(ctx)
	if err != nil {
		log.Printf("Error loading machines for dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load machines"})
	}
	sales, err := fetchSaleRecords(ctx, 1000)
	if err != nil {
		log.Printf("Error loading sale events for dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load sale events"})
	}

	statusCounts := map[string]int{}
	lowStockMachines := 0
	for _, machine := range machines {
		statusCounts[machine.Status]++
		for _, slot := range machine.ProductsInventory {
			threshold := slot.LowStockThreshold
			if threshold <= 0 {
				threshold = 5
			}
			if slot.Quantity < threshold {
				lowStockMachines++
				break
			}
		}
	}

	now := time.Now()
	agg := analytics.Aggregate(sales, now, analytics.DefaultTrendWindowDays)

	todayKey := now.Format(analytics.DateKeyLayout)
	todayQuantity := 0
	weekQuantity := 0
	var weekRevenue decimal.Decimal
	weekKeys := make(map[string]bool, analytics.DefaultTrendWindowDays)
	for i := 0; i < analytics.DefaultTrendWindowDays; i++ {
		weekKeys[now.AddDate(0, 0, -i).Format(analytics.DateKeyLayout)] = true
	}
	for _, days := range agg.PerMachineDaily {
		if bucket, ok := days[todayKey]; ok {
			todayQuantity += bucket.Quantity
		}
		for dateKey, bucket := range days {
			if weekKeys[dateKey] {
				weekRevenue = weekRevenue.Add(bucket.Revenue)
			}
		}
	}
	for _, days := range agg.TrendWindow {
		for _, qty := range days {
			weekQuantity += qty
		}
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"totalMachines":    len(machines),
			"machinesByStatus": statusCounts,
			"lowStockMachines": lowStockMachines,
			"salesToday":       todayQuantity,
			"salesLast7Days":   weekQuantity,
			"revenueLast7Days": weekRevenue,
			"topProducts":      analytics.TopProductTotals(agg, 5),
		},
		"stats": agg.Stats,
	})
}
