package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"

	"app/ai"
	"app/analytics"
	"app/models"
)

// restockSchema is the four-section structured-output contract for the
// restock advisor.
var restockSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"priority_restock": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"product": {Type: genai.TypeString},
					"reason":  {Type: genai.TypeString},
					"urgency": {Type: genai.TypeString, Enum: []string{"high", "medium", "low"}},
				},
				Required: []string{"product", "reason", "urgency"},
			},
		},
		"new_products_to_add": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"product":      {Type: genai.TypeString},
					"demand_score": {Type: genai.TypeNumber},
					"rationale":    {Type: genai.TypeString},
				},
				Required: []string{"product", "demand_score", "rationale"},
			},
		},
		"machine_priorities": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"machine": {Type: genai.TypeString},
					"action":  {Type: genai.TypeString},
				},
				Required: []string{"machine", "action"},
			},
		},
		"insights": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"priority_restock", "new_products_to_add", "machine_priorities", "insights"},
}

// HandleRestockInsights runs the restock advisor: sales, stock, and
// wishlist demand are folded into one summary, the model is asked for the
// four advisory sections, and a deterministic ranking stands in whenever
// the model fails.
// GET /api/v1/admin/restock/insights
func HandleRestockInsights(c *fiber.Ctx) error {
	ctx := context.Background()

	machines, err := fetchMachines(ctx)
	if err != nil {
		log.Printf("Error loading machines for restock advisor: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load machines"})
	}
	products, err := fetchAllProducts(ctx)
	if err != nil {
		log.Printf("Error loading catalog for restock advisor: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load catalog"})
	}
	purchases, err := fetchPurchases(ctx, "", 200)
	if err != nil {
		log.Printf("Error loading purchases for restock advisor: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load purchases"})
	}
	wishlist, err := fetchWishlist(ctx, "")
	if err != nil {
		log.Printf("Error loading wishlists for restock advisor: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load wishlists"})
	}

	summary := analytics.BuildRestockSummary(purchases, machines, wishlist, products)

	outcome := ai.Run(ctx, aiGenerator(), summary, ai.Config[analytics.RestockSummary, models.RestockInsights]{
		Empty:       analytics.RestockSummary.IsEmpty,
		Baseline:    analytics.BaselineRestock,
		BuildPrompt: analytics.BuildRestockPrompt,
		Schema:      restockSchema,
		Parse:       ai.ParseJSON[models.RestockInsights],
		EmptyMsg:    "Add machines and products before running the restock advisor.",
		FallbackMsg: "AI is temporarily unavailable. Showing baseline rankings instead.",
	})

	if outcome.NoData {
		return c.JSON(fiber.Map{"status": "success", "noData": true, "message": outcome.ErrorMessage})
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"data":         outcome.Result,
		"usedFallback": outcome.UsedFallback,
		"errorMessage": outcome.ErrorMessage,
	})
}
