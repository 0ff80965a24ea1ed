package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"app/models"
)

// UserProfile is the deterministic summary of one user's purchase history
// and wishlist that feeds the personalized recommendation prompt.
type UserProfile struct {
	PurchaseCount       int
	TotalSpent          decimal.Decimal
	AverageOrderValue   decimal.Decimal
	TopCategories       []string
	RecentOrders        []string
	WishlistNames       []string
	WishlistCategories  []string
	PurchasedProductIDs map[string]bool
}

// BuildUserProfile folds a user's purchases and wishlist into a compact
// profile. Category preference is weighted by quantity bought; the top
// three categories are kept, name ascending on ties so the result is
// reproducible.
func BuildUserProfile(purchases []models.Purchase, wishlist []models.WishlistItem, products []models.Product) UserProfile {
	catalog := make(map[string]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	profile := UserProfile{
		PurchaseCount:       len(purchases),
		PurchasedProductIDs: make(map[string]bool),
	}

	categoryWeight := make(map[string]int)
	for _, purchase := range purchases {
		profile.TotalSpent = profile.TotalSpent.Add(purchase.TotalAmount)

		names := make([]string, 0, len(purchase.Products))
		for _, item := range purchase.Products {
			profile.PurchasedProductIDs[item.ProductID] = true
			names = append(names, item.ProductName)
			if product, ok := catalog[item.ProductID]; ok && product.Category != nil {
				categoryWeight[*product.Category] += item.Quantity
			}
		}
		if len(profile.RecentOrders) < 5 {
			profile.RecentOrders = append(profile.RecentOrders, strings.Join(names, ", "))
		}
	}

	if profile.PurchaseCount > 0 {
		profile.AverageOrderValue = profile.TotalSpent.Div(decimal.NewFromInt(int64(profile.PurchaseCount)))
	}

	categories := make([]string, 0, len(categoryWeight))
	for cat := range categoryWeight {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categoryWeight[categories[i]] != categoryWeight[categories[j]] {
			return categoryWeight[categories[i]] > categoryWeight[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > 3 {
		categories = categories[:3]
	}
	profile.TopCategories = categories

	for _, item := range wishlist {
		profile.WishlistNames = append(profile.WishlistNames, item.ProductName)
		if product, ok := catalog[item.ProductID]; ok && product.Category != nil {
			profile.WishlistCategories = append(profile.WishlistCategories, *product.Category)
		}
	}

	return profile
}

// BaselinePicks is the non-AI fallback: products tagged Popular or
// Recommended that the user has not bought yet, in catalog order, capped
// at five.
func BaselinePicks(profile UserProfile, products []models.Product) models.PersonalizedPicks {
	picks := models.PersonalizedPicks{
		Reasoning: "Trending products you might enjoy!",
	}
	for _, product := range products {
		if len(picks.RecommendedProductIDs) >= 5 {
			break
		}
		if profile.PurchasedProductIDs[product.ID] {
			continue
		}
		if hasTag(product.Tags, "Popular") || hasTag(product.Tags, "Recommended") {
			picks.RecommendedProductIDs = append(picks.RecommendedProductIDs, product.ID)
		}
	}
	return picks
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}

// BuildRecommendationPrompt renders the user profile and the full catalog
// for the recommendation model.
func BuildRecommendationPrompt(profile UserProfile, products []models.Product) string {
	var b strings.Builder

	b.WriteString("You are an AI recommendation engine for a vending machine app. ")
	b.WriteString("Analyze user behavior and suggest products they'll love.\n\n")

	b.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&b, "- Purchase History: %d orders\n", profile.PurchaseCount)
	fmt.Fprintf(&b, "- Total Spent: %s\n", profile.TotalSpent.StringFixed(2))
	fmt.Fprintf(&b, "- Average Order Value: %s\n", profile.AverageOrderValue.StringFixed(2))
	fmt.Fprintf(&b, "- Favorite Categories: %s\n", orNone(strings.Join(profile.TopCategories, ", ")))
	fmt.Fprintf(&b, "- Recent Purchases: %s\n", orNone(strings.Join(profile.RecentOrders, " | ")))
	fmt.Fprintf(&b, "- Wishlist: %s\n", orNone(strings.Join(profile.WishlistNames, ", ")))
	fmt.Fprintf(&b, "- Wishlist Categories: %s\n", orNone(strings.Join(profile.WishlistCategories, ", ")))

	fmt.Fprintf(&b, "\nAVAILABLE PRODUCTS (%d items):\n", len(products))
	for _, p := range products {
		category := "uncategorized"
		if p.Category != nil {
			category = *p.Category
		}
		tags := "none"
		if len(p.Tags) > 0 {
			tags = strings.Join(p.Tags, ", ")
		}
		fmt.Fprintf(&b, "ID: %s | %s | %s | %s | Tags: %s\n", p.ID, p.Name, category, p.Price.StringFixed(2), tags)
	}

	purchased := make([]string, 0, len(profile.PurchasedProductIDs))
	for id := range profile.PurchasedProductIDs {
		purchased = append(purchased, id)
	}
	sort.Strings(purchased)

	b.WriteString(`
TASK:
1. Recommend 5-6 products the user would love based on their purchase
   patterns, favorite categories, wishlist, and typical price range.
`)
	fmt.Fprintf(&b, "2. Exclude products they've already purchased (IDs: %s).\n", orNone(strings.Join(purchased, ", ")))
	b.WriteString("3. Provide a brief reasoning for your recommendations (2-3 sentences).\n\n")
	b.WriteString("Return JSON with recommended product IDs and reasoning.")

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
