package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRestockRouteNotFound(t *testing.T) {
	app := fiber.New()
	// we don't register the restock route here; expect 404
	req := httptest.NewRequest("GET", "/api/v1/admin/restock/insights", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, 404, resp.StatusCode)
}
