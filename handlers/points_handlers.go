package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"app/database"
	"app/models"
	"app/utils"
)

// RechargeRequest is the payload for topping up the loyalty balance.
type RechargeRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// HandleGetPointsBalance returns the caller's loyalty balance: the sum of
// all their points transactions.
// GET /api/v1/points/balance
func HandleGetPointsBalance(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)

	var balance int
	err := database.GetDB().QueryRow(context.Background(),
		`SELECT COALESCE(SUM(points_amount), 0) FROM points_transactions WHERE user_email = $1`, userEmail,
	).Scan(&balance)
	if err != nil {
		log.Printf("Error fetching points balance for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch points balance"})
	}

	return c.JSON(fiber.Map{"status": "success", "balance": balance})
}

// HandleRecharge tops up the caller's balance. Larger tiers carry a bonus;
// the credit is amount plus bonus in one transaction row.
// POST /api/v1/points/recharge
func HandleRecharge(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)

	var req RechargeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	bonus, ok := utils.RechargeBonus(req.Amount)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unsupported recharge amount"})
	}

	description := fmt.Sprintf("Wallet Recharge: %d", req.Amount)
	if bonus > 0 {
		description = fmt.Sprintf("Wallet Recharge: %d (+%d bonus)", req.Amount, bonus)
	}

	total := req.Amount + bonus
	if _, err := database.GetDB().Exec(context.Background(), `
		INSERT INTO points_transactions (id, user_email, points_amount, description)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), userEmail, total, description); err != nil {
		log.Printf("Error recording recharge for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to record recharge"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":   "success",
		"credited": total,
		"bonus":    bonus,
	})
}

// HandleListPointsTransactions lists the caller's points history, newest first.
// GET /api/v1/points/transactions
func HandleListPointsTransactions(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)

	query := `
		SELECT id, user_email, points_amount, description, reference_id, created_at
		FROM points_transactions
		WHERE user_email = $1
		ORDER BY created_at DESC
		LIMIT 100
	`
	rows, err := database.GetDB().Query(context.Background(), query, userEmail)
	if err != nil {
		log.Printf("Error listing points transactions for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list points transactions"})
	}
	defer rows.Close()

	transactions := []models.PointsTransaction{}
	for rows.Next() {
		var t models.PointsTransaction
		if err := rows.Scan(&t.ID, &t.UserEmail, &t.PointsAmount, &t.Description, &t.ReferenceID, &t.CreatedAt); err != nil {
			log.Printf("Error scanning points transaction row: %v", err)
			continue
		}
		transactions = append(transactions, t)
	}

	return c.JSON(fiber.Map{"status": "success", "data": transactions})
}
