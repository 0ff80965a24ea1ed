package handlers

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"app/database"
	"app/models"
	"app/utils"
)

// SpinCost is the points price of one lucky-draw spin.
const SpinCost = 50

// HandleListPrizes lists the wheel segments.
// GET /api/v1/lucky-draw/prizes
func HandleListPrizes(c *fiber.Ctx) error {
	query := `
		SELECT id, name, prize_type, prize_value, probability, created_at
		FROM prizes
		ORDER BY created_at
	`
	rows, err := database.GetDB().Query(context.Background(), query)
	if err != nil {
		log.Printf("Error listing prizes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list prizes"})
	}
	defer rows.Close()

	prizes := []models.Prize{}
	for rows.Next() {
		var p models.Prize
		if err := rows.Scan(&p.ID, &p.Name, &p.PrizeType, &p.PrizeValue, &p.Probability, &p.CreatedAt); err != nil {
			log.Printf("Error scanning prize row: %v", err)
			continue
		}
		prizes = append(prizes, p)
	}

	return c.JSON(fiber.Map{"status": "success", "data": prizes})
}

// HandleSpin runs one lucky-draw spin: deducts the spin cost, picks a prize
// by weighted random selection, records the draw, and credits points-type
// prizes, all in one transaction.
// POST /api/v1/lucky-draw/spin
func HandleSpin(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userEmail := c.Locals("userEmail").(string)

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	var balance int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(points_amount), 0) FROM points_transactions WHERE user_email = $1`, userEmail,
	).Scan(&balance); err != nil {
		log.Printf("Error fetching balance for spin: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch points balance"})
	}
	if balance < SpinCost {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"status":  "error",
			"message": "Insufficient points",
			"needed":  SpinCost - balance,
		})
	}

	rows, err := tx.Query(ctx, `SELECT id, name, prize_type, prize_value, probability, created_at FROM prizes ORDER BY created_at`)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list prizes"})
	}
	prizes := []models.Prize{}
	for rows.Next() {
		var p models.Prize
		if err := rows.Scan(&p.ID, &p.Name, &p.PrizeType, &p.PrizeValue, &p.Probability, &p.CreatedAt); err != nil {
			continue
		}
		prizes = append(prizes, p)
	}
	rows.Close()
	if len(prizes) == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "No prizes available"})
	}

	prize := utils.PickPrize(prizes, rand.Intn(utils.TotalProbability(prizes)))

	// Deduct the spin cost
	if _, err := tx.Exec(ctx, `
		INSERT INTO points_transactions (id, user_email, points_amount, description)
		VALUES ($1, $2, $3, 'Lucky draw spin')
	`, uuid.New().String(), userEmail, -SpinCost); err != nil {
		log.Printf("Error deducting spin cost: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to deduct points"})
	}

	// Record the draw
	draw := models.DrawRecord{
		ID:          uuid.New().String(),
		UserEmail:   userEmail,
		PrizeID:     prize.ID,
		PrizeName:   prize.Name,
		PointsSpent: SpinCost,
		DrawDate:    time.Now(),
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO draw_records (id, user_email, prize_id, prize_name, points_spent, draw_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, draw.ID, draw.UserEmail, draw.PrizeID, draw.PrizeName, draw.PointsSpent, draw.DrawDate); err != nil {
		log.Printf("Error recording draw: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to record draw"})
	}

	// Award the prize. Points credit the balance immediately; coupon and
	// discount prizes mint a coupon instead.
	switch prize.PrizeType {
	case "points":
		if value, err := strconv.Atoi(prize.PrizeValue); err == nil && value > 0 {
			if _, err := tx.Exec(ctx, `
				INSERT INTO points_transactions (id, user_email, points_amount, description, reference_id)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New().String(), userEmail, value, "Lucky draw prize: "+prize.Name, &draw.ID); err != nil {
				log.Printf("Error crediting prize points: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to credit prize"})
			}
		}
	case "coupon", "discount":
		if err := insertCoupon(ctx, tx, utils.NewPrizeCoupon(userEmail, prize, time.Now())); err != nil {
			log.Printf("Error minting prize coupon: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to credit prize"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": draw, "prize": prize})
}

// HandleListMyDraws lists the caller's draw history, newest first.
// GET /api/v1/lucky-draw/history
func HandleListMyDraws(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)

	query := `
		SELECT id, user_email, prize_id, prize_name, points_spent, draw_date
		FROM draw_records
		WHERE user_email = $1
		ORDER BY draw_date DESC
		LIMIT 50
	`
	rows, err := database.GetDB().Query(context.Background(), query, userEmail)
	if err != nil {
		log.Printf("Error listing draws for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list draws"})
	}
	defer rows.Close()

	draws := []models.DrawRecord{}
	for rows.Next() {
		var d models.DrawRecord
		if err := rows.Scan(&d.ID, &d.UserEmail, &d.PrizeID, &d.PrizeName, &d.PointsSpent, &d.DrawDate); err != nil {
			log.Printf("Error scanning draw row: %v", err)
			continue
		}
		draws = append(draws, d)
	}

	return c.JSON(fiber.Map{"status": "success", "data": draws})
}
