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

// recommendationSchema is the structured-output contract for the
// personalized recommendation engine.
var recommendationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommended_product_ids": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Array of product IDs recommended for the user",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Brief explanation of why these products were recommended",
		},
	},
	Required: []string{"recommended_product_ids", "reasoning"},
}

type recommendationInput struct {
	profile  analytics.UserProfile
	products []models.Product
}

// HandleMyRecommendations builds a purchase/wishlist profile for the caller
// and asks the model for personalized picks, falling back to trending
// products the user has not bought yet.
// GET /api/v1/me/recommendations
func HandleMyRecommendations(c *fiber.Ctx) error {
	ctx := context.Background()
	userEmail := c.Locals("userEmail").(string)

	products, err := fetchAllProducts(ctx)
	if err != nil {
		log.Printf("Error loading catalog for recommendations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load catalog"})
	}
	purchases, err := fetchPurchases(ctx, userEmail, 20)
	if err != nil {
		log.Printf("Error loading purchases for recommendations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load purchases"})
	}
	wishlist, err := fetchWishlist(ctx, userEmail)
	if err != nil {
		log.Printf("Error loading wishlist for recommendations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load wishlist"})
	}

	input := recommendationInput{
		profile:  analytics.BuildUserProfile(purchases, wishlist, products),
		products: products,
	}

	outcome := ai.Run(ctx, aiGenerator(), input, ai.Config[recommendationInput, models.PersonalizedPicks]{
		Empty: func(in recommendationInput) bool { return len(in.products) == 0 },
		Baseline: func(in recommendationInput) models.PersonalizedPicks {
			return analytics.BaselinePicks(in.profile, in.products)
		},
		BuildPrompt: func(in recommendationInput) string {
			return analytics.BuildRecommendationPrompt(in.profile, in.products)
		},
		Schema:      recommendationSchema,
		Parse:       ai.ParseJSON[models.PersonalizedPicks],
		EmptyMsg:    "No products available yet.",
		FallbackMsg: "Trending products you might enjoy!",
	})

	if outcome.NoData {
		return c.JSON(fiber.Map{"status": "success", "noData": true, "message": outcome.ErrorMessage})
	}

	// Resolve recommended IDs against the catalog; unknown IDs from the
	// model are dropped rather than trusted.
	catalog := make(map[string]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	picks := []models.Product{}
	for _, id := range outcome.Result.RecommendedProductIDs {
		if p, ok := catalog[id]; ok {
			picks = append(picks, p)
		}
		if len(picks) == 6 {
			break
		}
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"data":         picks,
		"reasoning":    outcome.Result.Reasoning,
		"usedFallback": outcome.UsedFallback,
	})
}
