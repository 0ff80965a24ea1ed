package handlers

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"app/database"
	"app/models"
	"app/utils"
)

// CreateProductRequest is the payload for adding a catalog product.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    *string         `json:"category"`
	Price       decimal.Decimal `json:"price"`
	PointsValue int             `json:"points_value" validate:"gte=0"`
	Tags        []string        `json:"tags"`
	ImageURL    *string         `json:"image_url"`
}

func scanProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := database.GetDB().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var category, imageURL sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &category, &p.Price, &p.PointsValue, &p.Tags, &imageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			log.Printf("Error scanning product row: %v", err)
			continue
		}
		p.Category = utils.NullStringToStringPtr(category)
		p.ImageURL = utils.NullStringToStringPtr(imageURL)
		if p.Tags == nil {
			p.Tags = []string{}
		}
		products = append(products, p)
	}
	return products, nil
}

// HandleListProducts lists catalog products, optionally filtered by
// category or tag.
// GET /api/v1/products?category=...&tag=...
func HandleListProducts(c *fiber.Ctx) error {
	ctx := context.Background()

	query := `
		SELECT id, name, category, price, points_value, tags, image_url, created_at, updated_at
		FROM products
	`
	args := []interface{}{}
	if category := c.Query("category"); category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	} else if tag := c.Query("tag"); tag != "" {
		query += " WHERE $1 = ANY(tags)"
		args = append(args, tag)
	}
	query += " ORDER BY name"

	products, err := scanProducts(ctx, query, args...)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list products"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": products})
}

// HandleGetProduct returns one product by ID.
// GET /api/v1/products/:productId
func HandleGetProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")

	products, err := scanProducts(context.Background(), `
		SELECT id, name, category, price, points_value, tags, image_url, created_at, updated_at
		FROM products
		WHERE id = $1
	`, productID)
	if err != nil || len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": products[0]})
}

// HandleCreateProduct adds a product to the catalog.
// POST /api/v1/admin/products
func HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	p := models.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		PointsValue: req.PointsValue,
		Tags:        req.Tags,
		ImageURL:    req.ImageURL,
	}

	query := `
		INSERT INTO products (id, name, category, price, points_value, tags, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := database.GetDB().QueryRow(context.Background(), query,
		p.ID, p.Name, p.Category, p.Price, p.PointsValue, p.Tags, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": p})
}

// HandleUpdateProduct updates a catalog product.
// PUT /api/v1/admin/products/:productId
func HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4, points_value = $5, tags = $6, image_url = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := database.GetDB().Exec(context.Background(), query,
		productID, req.Name, req.Category, req.Price, req.PointsValue, req.Tags, req.ImageURL,
	)
	if err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update product"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// HandleDeleteProduct removes a product from the catalog.
// DELETE /api/v1/admin/products/:productId
func HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")

	tag, err := database.GetDB().Exec(context.Background(), `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete product"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// fetchAllProducts loads the full catalog, used by the AI call sites.
func fetchAllProducts(ctx context.Context) ([]models.Product, error) {
	return scanProducts(ctx, `
		SELECT id, name, category, price, points_value, tags, image_url, created_at, updated_at
		FROM products
		ORDER BY created_at
	`)
}
