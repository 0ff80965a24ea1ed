package handlers

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"app/database"
	"app/models"
	"app/utils"
)

// CreateMachineRequest is the payload for registering a vending machine.
type CreateMachineRequest struct {
	Name      string                    `json:"name" validate:"required"`
	Address   *string                   `json:"address"`
	Latitude  *float64                  `json:"latitude"`
	Longitude *float64                  `json:"longitude"`
	Status    string                    `json:"status" validate:"omitempty,oneof=active maintenance offline"`
	Inventory []models.MachineStockItem `json:"products_inventory"`
}

// HandleListMachines lists all vending machines.
// GET /api/v1/machines
func HandleListMachines(c *fiber.Ctx) error {
	machines, err := fetchMachines(context.Background())
	if err != nil {
		log.Printf("Error listing machines: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to list machines"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": machines})
}

// fetchMachines loads the machine catalog in name order. The AI call sites
// rely on this ordering for reproducible baseline output.
func fetchMachines(ctx context.Context) ([]models.VendingMachine, error) {
	query := `
		SELECT id, name, address, latitude, longitude, status, products_inventory, created_at, updated_at
		FROM vending_machines
		ORDER BY name
	`
	rows, err := database.GetDB().Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	machines := []models.VendingMachine{}
	for rows.Next() {
		var m models.VendingMachine
		var address sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &address, &m.Latitude, &m.Longitude, &m.Status, &m.ProductsInventory, &m.CreatedAt, &m.UpdatedAt); err != nil {
			log.Printf("Error scanning machine row: %v", err)
			continue
		}
		m.Address = utils.NullStringToStringPtr(address)
		machines = append(machines, m)
	}
	return machines, nil
}

// HandleGetMachine returns one machine by ID.
// GET /api/v1/machines/:machineId
func HandleGetMachine(c *fiber.Ctx) error {
	machineID := c.Params("machineId")

	query := `
		SELECT id, name, address, latitude, longitude, status, products_inventory, created_at, updated_at
		FROM vending_machines
		WHERE id = $1
	`
	var m models.VendingMachine
	var address sql.NullString
	err := database.GetDB().QueryRow(context.Background(), query, machineID).Scan(
		&m.ID, &m.Name, &address, &m.Latitude, &m.Longitude, &m.Status, &m.ProductsInventory, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Machine not found"})
	}
	m.Address = utils.NullStringToStringPtr(address)

	return c.JSON(fiber.Map{"status": "success", "data": m})
}

// HandleCreateMachine registers a new machine.
// POST /api/v1/admin/machines
func HandleCreateMachine(c *fiber.Ctx) error {
	var req CreateMachineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if req.Status == "" {
		req.Status = "active"
	}
	if req.Inventory == nil {
		req.Inventory = []models.MachineStockItem{}
	}

	query := `
		INSERT INTO vending_machines (id, name, address, latitude, longitude, status, products_inventory)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	m := models.VendingMachine{
		ID:                uuid.New().String(),
		Name:              req.Name,
		Address:           req.Address,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		Status:            req.Status,
		ProductsInventory: req.Inventory,
	}
	err := database.GetDB().QueryRow(context.Background(), query,
		m.ID, m.Name, m.Address, m.Latitude, m.Longitude, m.Status, models.MachineInventory(req.Inventory),
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		log.Printf("Error creating machine: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create machine"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": m})
}

// HandleUpdateMachine updates a machine's details and inventory.
// PUT /api/v1/admin/machines/:machineId
func HandleUpdateMachine(c *fiber.Ctx) error {
	machineID := c.Params("machineId")

	var req CreateMachineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	query := `
		UPDATE vending_machines
		SET name = $2, address = $3, latitude = $4, longitude = $5, status = $6, products_inventory = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := database.GetDB().Exec(context.Background(), query,
		machineID, req.Name, req.Address, req.Latitude, req.Longitude, req.Status, models.MachineInventory(req.Inventory),
	)
	if err != nil {
		log.Printf("Error updating machine %s: %v", machineID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update machine"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Machine not found"})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// HandleDeleteMachine removes a machine.
// DELETE /api/v1/admin/machines/:machineId
func HandleDeleteMachine(c *fiber.Ctx) error {
	machineID := c.Params("machineId")

	tag, err := database.GetDB().Exec(context.Background(), `DELETE FROM vending_machines WHERE id = $1`, machineID)
	if err != nil {
		log.Printf("Error deleting machine %s: %v", machineID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete machine"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Machine not found"})
	}

	return c.JSON(fiber.Map{"status": "success"})
}
