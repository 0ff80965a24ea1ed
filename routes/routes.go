package routes

import (
	"github.com/gofiber/fiber/v2"

	"app/handlers"
	"app/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/register", handlers.HandleRegister)
	auth.Post("/login", handlers.HandleLogin)

	// --- Public Catalog Routes ---
	api.Get("/machines", handlers.HandleListMachines)
	api.Get("/machines/:machineId", handlers.HandleGetMachine)
	api.Get("/products", handlers.HandleListProducts)
	api.Get("/products/:productId", handlers.HandleGetProduct)

	// --- Authenticated Consumer Routes ---
	me := api.Group("/", middleware.JWTMiddleware)
	me.Get("/me/recommendations", handlers.HandleMyRecommendations)

	me.Get("/purchases", handlers.HandleListMyPurchases)
	me.Post("/purchases", handlers.HandleCreatePurchase)

	me.Get("/wishlist", handlers.HandleListMyWishlist)
	me.Post("/wishlist", handlers.HandleAddWishlistItem)
	me.Delete("/wishlist/:productId", handlers.HandleRemoveWishlistItem)

	me.Get("/points/balance", handlers.HandleGetPointsBalance)
	me.Get("/points/transactions", handlers.HandleListPointsTransactions)
	me.Post("/points/recharge", handlers.HandleRecharge)

	me.Get("/rewards", handlers.HandleListRewards)
	me.Post("/rewards/:rewardId/redeem", handlers.HandleRedeemReward)
	me.Get("/coupons", handlers.HandleListMyCoupons)

	me.Get("/lucky-draw/prizes", handlers.HandleListPrizes)
	me.Post("/lucky-draw/spin", handlers.HandleSpin)
	me.Get("/lucky-draw/history", handlers.HandleListMyDraws)

	// --- Operator Routes ---
	admin := api.Group("/admin", middleware.JWTMiddleware, middleware.AdminRequired)

	admin.Get("/dashboard/summary", handlers.HandleOperatorDashboardSummary)

	admin.Post("/machines", handlers.HandleCreateMachine)
	admin.Put("/machines/:machineId", handlers.HandleUpdateMachine)
	admin.Delete("/machines/:machineId", handlers.HandleDeleteMachine)

	admin.Post("/products", handlers.HandleCreateProduct)
	admin.Put("/products/:productId", handlers.HandleUpdateProduct)
	admin.Delete("/products/:productId", handlers.HandleDeleteProduct)

	admin.Post("/rewards", handlers.HandleCreateReward)

	admin.Post("/sales", handlers.HandleRecordSales)
	admin.Get("/sales", handlers.HandleListSales)

	admin.Get("/wishlist-demand", handlers.HandleWishlistDemand)

	admin.Get("/analytics/insights", handlers.HandleAnalyticsInsights)
	admin.Get("/analytics/charts", handlers.HandleAnalyticsCharts)
	admin.Get("/restock/insights", handlers.HandleRestockInsights)
}
