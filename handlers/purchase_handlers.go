package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"app/database"
	"app/models"
	"app/utils"
)

// CreatePurchaseInput defines the expected input for a consumer purchase.
type CreatePurchaseInput struct {
	MachineID *string               `json:"machine_id"`
	Items     []models.PurchaseItem `json:"items" validate:"required,min=1"`
}

// HandleCreatePurchase records a purchase, assigns an order number, and
// credits loyalty points for the bought products in one transaction.
// POST /api/v1/purchases
func HandleCreatePurchase(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userEmail := c.Locals("userEmail").(string)

	var input CreatePurchaseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	var totalAmount decimal.Decimal
	for _, item := range input.Items {
		totalAmount = totalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	orderNumber, err := utils.GenerateOrderNumber(ctx, tx)
	if err != nil {
		log.Printf("Error generating order number: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate order number"})
	}

	purchase := models.Purchase{
		ID:          uuid.New().String(),
		OrderNumber: orderNumber,
		UserEmail:   userEmail,
		MachineID:   input.MachineID,
		TotalAmount: totalAmount,
		Products:    input.Items,
	}

	purchaseQuery := `
		INSERT INTO purchases (id, order_number, user_email, machine_id, total_amount, products)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := tx.QueryRow(ctx, purchaseQuery,
		purchase.ID, purchase.OrderNumber, purchase.UserEmail, purchase.MachineID,
		purchase.TotalAmount, purchase.Products,
	).Scan(&purchase.CreatedAt); err != nil {
		log.Printf("Error creating purchase: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create purchase"})
	}

	// Credit loyalty points: points_value per unit for every bought product.
	points := 0
	for _, item := range input.Items {
		var pointsValue int
		if err := tx.QueryRow(ctx, `SELECT points_value FROM products WHERE id = $1`, item.ProductID).Scan(&pointsValue); err != nil {
			// Unknown products earn no points but do not fail the purchase.
			continue
		}
		points += pointsValue * item.Quantity
	}
	if points > 0 {
		pointsQuery := `
			INSERT INTO points_transactions (id, user_email, points_amount, description, reference_id)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, pointsQuery,
			uuid.New().String(), userEmail, points, "Purchase reward "+orderNumber, purchase.ID,
		); err != nil {
			log.Printf("Error crediting points for purchase %s: %v", purchase.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to credit points"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": purchase, "points_earned": points})
}

// HandleListMyPurchases lists the caller's purchase history, newest first.
// GET /api/v1/purchases
func HandleListMyPurchases(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)

	purchases, err := fetchPurchases(context.Background(), userEmail, 20)
	if err != nil {
		log.Printf("Error listing purchases for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list purchases"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": purchases})
}

// fetchPurchases loads purchases newest first. An empty userEmail loads
// across all users (operator views).
func fetchPurchases(ctx context.Context, userEmail string, limit int) ([]models.Purchase, error) {
	query := `
		SELECT id, order_number, user_email, machine_id, total_amount, products, created_at
		FROM purchases
	`
	args := []interface{}{}
	if userEmail != "" {
		query += " WHERE user_email = $1"
		args = append(args, userEmail)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		if userEmail != "" {
			query += " LIMIT $2"
		} else {
			query += " LIMIT $1"
		}
	}

	rows, err := database.GetDB().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := []models.Purchase{}
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.OrderNumber, &p.UserEmail, &p.MachineID, &p.TotalAmount, &p.Products, &p.CreatedAt); err != nil {
			log.Printf("Error scanning purchase row: %v", err)
			continue
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}
