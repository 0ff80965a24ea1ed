package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"app/database"
	"app/models"
)

// AddWishlistRequest is the payload for saving a product to a wishlist.
type AddWishlistRequest struct {
	ProductID    string           `json:"product_id" validate:"required"`
	ProductName  string           `json:"product_name" validate:"required"`
	ProductImage *string          `json:"product_image"`
	ProductPrice *decimal.Decimal `json:"product_price"`
}

// HandleListMyWishlist lists the caller's wishlist.
// GET /api/v1/wishlist
func HandleListMyWishlist(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)

	items, err := fetchWishlist(context.Background(), userEmail)
	if err != nil {
		log.Printf("Error listing wishlist for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list wishlist"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": items})
}

// HandleAddWishlistItem saves a product to the caller's wishlist.
// POST /api/v1/wishlist
func HandleAddWishlistItem(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)

	var req AddWishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	item := models.WishlistItem{
		ID:           uuid.New().String(),
		UserEmail:    userEmail,
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		ProductImage: req.ProductImage,
		ProductPrice: req.ProductPrice,
	}

	query := `
		INSERT INTO wishlist_items (id, user_email, product_id, product_name, product_image, product_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_email, product_id) DO NOTHING
		RETURNING created_at
	`
	err := database.GetDB().QueryRow(context.Background(), query,
		item.ID, item.UserEmail, item.ProductID, item.ProductName, item.ProductImage, item.ProductPrice,
	).Scan(&item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict returns no row; the product is already saved.
		return c.JSON(fiber.Map{"status": "success", "message": "Already in wishlist"})
	}
	if err != nil {
		log.Printf("Error adding wishlist item for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to add wishlist item"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": item})
}

// HandleRemoveWishlistItem removes a product from the caller's wishlist.
// DELETE /api/v1/wishlist/:productId
func HandleRemoveWishlistItem(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)
	productID := c.Params("productId")

	tag, err := database.GetDB().Exec(context.Background(),
		`DELETE FROM wishlist_items WHERE user_email = $1 AND product_id = $2`, userEmail, productID)
	if err != nil {
		log.Printf("Error removing wishlist item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to remove wishlist item"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Wishlist item not found"})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// HandleWishlistDemand is the operator view: wishlist requests aggregated
// per product, ranked by unique requesting users.
// GET /api/v1/admin/wishlist-demand
func HandleWishlistDemand(c *fiber.Ctx) error {
	query := `
		SELECT product_id, product_name,
		       MIN(product_image) AS product_image,
		       MIN(product_price) AS product_price,
		       COUNT(*) AS request_count,
		       COUNT(DISTINCT user_email) AS unique_users
		FROM wishlist_items
		GROUP BY product_id, product_name
		ORDER BY unique_users DESC, request_count DESC
	`
	rows, err := database.GetDB().Query(context.Background(), query)
	if err != nil {
		log.Printf("Error aggregating wishlist demand: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to aggregate wishlist demand"})
	}
	defer rows.Close()

	demand := []models.WishlistDemand{}
	for rows.Next() {
		var d models.WishlistDemand
		if err := rows.Scan(&d.ProductID, &d.ProductName, &d.ProductImage, &d.ProductPrice, &d.RequestCount, &d.UniqueUsers); err != nil {
			log.Printf("Error scanning wishlist demand row: %v", err)
			continue
		}
		demand = append(demand, d)
	}

	return c.JSON(fiber.Map{"status": "success", "data": demand})
}

// fetchWishlist loads wishlist items. An empty userEmail loads all rows
// (operator views).
func fetchWishlist(ctx context.Context, userEmail string) ([]models.WishlistItem, error) {
	query := `
		SELECT id, user_email, product_id, product_name, product_image, product_price, created_at
		FROM wishlist_items
	`
	args := []interface{}{}
	if userEmail != "" {
		query += " WHERE user_email = $1"
		args = append(args, userEmail)
	}
	query += " ORDER BY created_at DESC"

	rows, err := database.GetDB().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		if err := rows.Scan(&item.ID, &item.UserEmail, &item.ProductID, &item.ProductName, &item.ProductImage, &item.ProductPrice, &item.CreatedAt); err != nil {
			log.Printf("Error scanning wishlist row: %v", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
