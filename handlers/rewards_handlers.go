package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"app/database"
	"app/models"
)

// CreateRewardRequest is the payload for adding a points-mall reward.
type CreateRewardRequest struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category" validate:"required,oneof=product merchandise coupon"`
	PointsCost    int     `json:"points_cost" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	ImageURL      *string `json:"image_url"`
}

// HandleListRewards lists available points-mall rewards, optionally by
// category.
// GET /api/v1/rewards?category=...
func HandleListRewards(c *fiber.Ctx) error {
	query := `
		SELECT id, name, category, points_cost, stock_quantity, image_url, is_available, created_at
		FROM reward_items
		WHERE is_available = true
	`
	args := []interface{}{}
	if category := c.Query("category"); category != "" {
		query += " AND category = $1"
		args = append(args, category)
	}
	query += " ORDER BY points_cost"

	rows, err := database.GetDB().Query(context.Background(), query, args...)
	if err != nil {
		log.Printf("Error listing rewards: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list rewards"})
	}
	defer rows.Close()

	rewards := []models.RewardItem{}
	for rows.Next() {
		var r models.RewardItem
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.PointsCost, &r.StockQuantity, &r.ImageURL, &r.IsAvailable, &r.CreatedAt); err != nil {
			log.Printf("Error scanning reward row: %v", err)
			continue
		}
		rewards = append(rewards, r)
	}

	return c.JSON(fiber.Map{"status": "success", "data": rewards})
}

// HandleRedeemReward spends loyalty points on a reward: checks balance and
// stock, decrements the stock, and records the debit, all in one
// transaction.
// POST /api/v1/rewards/:rewardId/redeem
func HandleRedeemReward(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userEmail := c.Locals("userEmail").(string)
	rewardID := c.Params("rewardId")

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	var reward models.RewardItem
	err = tx.QueryRow(ctx, `
		SELECT id, name, category, points_cost, stock_quantity, image_url, is_available, created_at
		FROM reward_items
		WHERE id = $1
		FOR UPDATE
	`, rewardID).Scan(&reward.ID, &reward.Name, &reward.Category, &reward.PointsCost, &reward.StockQuantity, &reward.ImageURL, &reward.IsAvailable, &reward.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Reward not found"})
		}
		log.Printf("Error loading reward %s: %v", rewardID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load reward"})
	}
	if !reward.IsAvailable || reward.StockQuantity <= 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Reward is sold out"})
	}

	var balance int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(points_amount), 0) FROM points_transactions WHERE user_email = $1`, userEmail,
	).Scan(&balance); err != nil {
		log.Printf("Error fetching balance for redemption: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch points balance"})
	}
	if balance < reward.PointsCost {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"status":  "error",
			"message": "Insufficient points",
			"needed":  reward.PointsCost - balance,
		})
	}

	if _, err := tx.Exec(ctx,
		`UPDATE reward_items SET stock_quantity = stock_quantity - 1 WHERE id = $1`, reward.ID,
	); err != nil {
		log.Printf("Error decrementing reward stock: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to redeem reward"})
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO points_transactions (id, user_email, points_amount, description, reference_id)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), userEmail, -reward.PointsCost, "Redeemed: "+reward.Name, &reward.ID); err != nil {
		log.Printf("Error recording redemption: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to redeem reward"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"data":         reward,
		"points_spent": reward.PointsCost,
		"new_balance":  balance - reward.PointsCost,
	})
}

// HandleCreateReward adds a reward to the points mall.
// POST /api/v1/admin/rewards
func HandleCreateReward(c *fiber.Ctx) error {
	var req CreateRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	r := models.RewardItem{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Category:      req.Category,
		PointsCost:    req.PointsCost,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsAvailable:   true,
	}
	err := database.GetDB().QueryRow(context.Background(), `
		INSERT INTO reward_items (id, name, category, points_cost, stock_quantity, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING created_at
	`, r.ID, r.Name, r.Category, r.PointsCost, r.StockQuantity, r.ImageURL).Scan(&r.CreatedAt)
	if err != nil {
		log.Printf("Error creating reward: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create reward"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": r})
}

// HandleListMyCoupons lists the caller's active coupons.
// GET /api/v1/coupons
func HandleListMyCoupons(c *fiber.Ctx) error {
	userEmail := c.Locals("userEmail").(string)

	query := `
		SELECT id, user_email, code, title, discount_amount, discount_type, min_purchase, expiry_date, status, created_at
		FROM coupons
		WHERE user_email = $1 AND status = 'active' AND expiry_date > NOW()
		ORDER BY created_at DESC
	`
	rows, err := database.GetDB().Query(context.Background(), query, userEmail)
	if err != nil {
		log.Printf("Error listing coupons for %s: %v", userEmail, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list coupons"})
	}
	defer rows.Close()

	coupons := []models.Coupon{}
	for rows.Next() {
		var cp models.Coupon
		if err := rows.Scan(&cp.ID, &cp.UserEmail, &cp.Code, &cp.Title, &cp.DiscountAmount, &cp.DiscountType, &cp.MinPurchase, &cp.ExpiryDate, &cp.Status, &cp.CreatedAt); err != nil {
			log.Printf("Error scanning coupon row: %v", err)
			continue
		}
		coupons = append(coupons, cp)
	}

	return c.JSON(fiber.Map{"status": "success", "data": coupons})
}

// insertCoupon stores a freshly minted coupon inside an open transaction.
func insertCoupon(ctx context.Context, tx pgx.Tx, coupon models.Coupon) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO coupons (id, user_email, code, title, discount_amount, discount_type, min_purchase, expiry_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, coupon.ID, coupon.UserEmail, coupon.Code, coupon.Title, coupon.DiscountAmount,
		coupon.DiscountType, coupon.MinPurchase, coupon.ExpiryDate, coupon.Status)
	return err
}
