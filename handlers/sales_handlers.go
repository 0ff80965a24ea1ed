package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"app/database"
	"app/models"
	"app/utils"
)

// CreateSaleInput defines the expected input for recording sale events.
// Machine agents report batches; rows are stored verbatim, including the
// loosely formatted timestamp. Validation happens at aggregation time.
type CreateSaleInput struct {
	Sales []models.SaleRecord `json:"sales" validate:"required,min=1"`
}

// HandleRecordSales stores a batch of raw sale events.
// POST /api/v1/admin/sales
func HandleRecordSales(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	var input CreateSaleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sale_events (id, machine_id, product_id, product_name, quantity_sold, sale_price, revenue, sale_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, sale := range input.Sales {
		var revenue *decimal.Decimal
		if sale.Revenue != nil {
			revenue = sale.Revenue
		}
		if _, err := tx.Exec(ctx, query,
			uuid.New().String(), sale.MachineID, sale.ProductID, sale.ProductName,
			sale.QuantitySold, sale.SalePrice, revenue, sale.SaleTimestamp,
		); err != nil {
			log.Printf("Error recording sale event: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to record sale events"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "count": len(input.Sales)})
}

// HandleListSales lists raw sale events, newest first, paginated.
// GET /api/v1/admin/sales?page=...&pageSize=...
func HandleListSales(c *fiber.Ctx) error {
	ctx := context.Background()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "0"))

	var total int
	if err := database.GetDB().QueryRow(ctx, `SELECT COUNT(*) FROM sale_events`).Scan(&total); err != nil {
		log.Printf("Error counting sale events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list sale events"})
	}
	pagination := utils.CreatePagination(total, page, pageSize)

	query := `
		SELECT id, machine_id, product_id, product_name, quantity_sold, sale_price, revenue, sale_timestamp
		FROM sale_events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := database.GetDB().Query(ctx, query, pagination.PageSize, pagination.Offset())
	if err != nil {
		log.Printf("Error listing sale events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list sale events"})
	}
	defer rows.Close()

	sales := []models.SaleRecord{}
	for rows.Next() {
		var s models.SaleRecord
		if err := rows.Scan(&s.ID, &s.MachineID, &s.ProductID, &s.ProductName, &s.QuantitySold, &s.SalePrice, &s.Revenue, &s.SaleTimestamp); err != nil {
			log.Printf("Error scanning sale event row: %v", err)
			continue
		}
		sales = append(sales, s)
	}

	return c.JSON(fiber.Map{"status": "success", "data": sales, "pagination": pagination})
}

// fetchSaleRecords loads the most recent raw sale events for aggregation.
func fetchSaleRecords(ctx context.Context, limit int) ([]models.SaleRecord, error) {
	query := `
		SELECT id, machine_id, product_id, product_name, quantity_sold, sale_price, revenue, sale_timestamp
		FROM sale_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := database.GetDB().Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []models.SaleRecord{}
	for rows.Next() {
		var s models.SaleRecord
		if err := rows.Scan(&s.ID, &s.MachineID, &s.ProductID, &s.ProductName, &s.QuantitySold, &s.SalePrice, &s.Revenue, &s.SaleTimestamp); err != nil {
			log.Printf("Error scanning sale event row: %v", err)
			continue
		}
		sales = append(sales, s)
	}
	return sales, nil
}
