package company

import (
	"strconv"

	"transition-hub-backend/internal/database"
	"transition-hub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CompanyResponse struct {
	ID        uint                 `json:"id"`
	Name      string               `json:"name"`
	DUNS      string               `json:"duns,omitempty"`
	Status    models.CompanyStatus `json:"status"`
	CreatedAt string               `json:"created_at"`
}

// GET /api/companies/:id
func GetCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a number")
		}

		var company models.Company
		if err := database.DB.First(&company, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Company not found")
		}

		return c.JSON(CompanyResponse{
			ID:        company.ID,
			Name:      company.Name,
			DUNS:      company.DUNS,
			Status:    company.Status,
			CreatedAt: company.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
}
