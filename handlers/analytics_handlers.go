package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"

	"app/ai"
	"app/analytics"
	"app/config"
	"app/models"
)

// analyticsSchema is the structured-output contract for the machine
// analytics screen.
var analyticsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"top_performers": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"machine_name": {Type: genai.TypeString},
					"reason":       {Type: genai.TypeString},
					"metrics":      {Type: genai.TypeString},
				},
				Required: []string{"machine_name", "reason", "metrics"},
			},
		},
		"recommendations": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"machine_name": {Type: genai.TypeString},
					"action":       {Type: genai.TypeString},
					"priority":     {Type: genai.TypeString},
					"reason":       {Type: genai.TypeString},
				},
				Required: []string{"machine_name", "action", "priority", "reason"},
			},
		},
		"strategic_insights": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"top_performers", "recommendations", "strategic_insights"},
}

// analyticsInput carries everything one analytics run needs; the
// orchestrator recomputes from it on every invocation.
type analyticsInput struct {
	agg      analytics.Aggregation
	machines []models.VendingMachine
	now      time.Time
}

// HandleAnalyticsInsights aggregates the raw sale feed and produces
// AI-backed insights, falling back to the rule-based recommendations when
// the model is slow or unavailable.
// GET /api/v1/admin/analytics/insights
func HandleAnalyticsInsights(c *fiber.Ctx) error {
	ctx := context.Background()

	machines, err := fetchMachines(ctx)
	if err != nil {
		log.Printf("Error loading machines for analytics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load machines"})
	}
	sales, err := fetchSaleRecords(ctx, 1000)
	if err != nil {
		log.Printf("Error loading sale events for analytics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load sale events"})
	}

	now := time.Now()
	input := analyticsInput{
		agg:      analytics.Aggregate(sales, now, analytics.DefaultTrendWindowDays),
		machines: machines,
		now:      now,
	}

	outcome := ai.Run(ctx, aiGenerator(), input, ai.Config[analyticsInput, models.AnalyticsInsights]{
		Empty: func(in analyticsInput) bool { return in.agg.IsEmpty() },
		Baseline: func(in analyticsInput) models.AnalyticsInsights {
			return analytics.InsightsFromBaseline(analytics.BuildBaselineRecommendations(in.agg, in.machines, in.now))
		},
		BuildPrompt: func(in analyticsInput) string { return analytics.BuildAnalyticsPrompt(in.agg, in.machines) },
		Schema:      analyticsSchema,
		Parse:       ai.ParseJSON[models.AnalyticsInsights],
		Timeout:     config.AppConfig.AnalyticsTimeout,
		EmptyMsg:    "Not enough sales data yet. Please collect data from vending machines.",
		FallbackMsg: "AI is temporarily unavailable. Showing baseline recommendations instead.",
	})

	if outcome.NoData {
		return c.JSON(fiber.Map{
			"status":  "success",
			"noData":  true,
			"message": outcome.ErrorMessage,
			"stats":   input.agg.Stats,
		})
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"data":         outcome.Result,
		"usedFallback": outcome.UsedFallback,
		"errorMessage": outcome.ErrorMessage,
		"stats":        input.agg.Stats,
	})
}

// HandleAnalyticsCharts returns the deterministic chart series for the
// analytics screen: per-machine totals and the trailing 7-day trend.
// GET /api/v1/admin/analytics/charts
func HandleAnalyticsCharts(c *fiber.Ctx) error {
	ctx := context.Background()

	machines, err := fetchMachines(ctx)
	if err != nil {
		log.Printf("Error loading machines for charts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load machines"})
	}
	sales, err := fetchSaleRecords(ctx, 1000)
	if err != nil {
		log.Printf("Error loading sale events for charts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load sale events"})
	}

	now := time.Now()
	agg := analytics.Aggregate(sales, now, analytics.DefaultTrendWindowDays)

	summaries := analytics.MachineSummaries(agg, machines)
	if len(summaries) > 8 {
		summaries = summaries[:8]
	}

	// Daily totals for the trailing week, oldest first.
	type trendPoint struct {
		Date  string `json:"date"`
		Sales int    `json:"sales"`
	}
	trend := make([]trendPoint, 0, analytics.DefaultTrendWindowDays)
	for i := analytics.DefaultTrendWindowDays - 1; i >= 0; i-- {
		dateKey := now.AddDate(0, 0, -i).Format(analytics.DateKeyLayout)
		total := 0
		for _, days := range agg.TrendWindow {
			total += days[dateKey]
		}
		trend = append(trend, trendPoint{Date: dateKey, Sales: total})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"machinePerformance": summaries,
			"weeklyTrend":        trend,
		},
		"stats": agg.Stats,
	})
}
