package emission

import (
	"fmt"
	"strconv"

	"transition-hub-backend/internal/audit"
	"transition-hub-backend/internal/auth"
	"transition-hub-backend/internal/database"
	"transition-hub-backend/internal/logging"
	"transition-hub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateEmissionRequest struct {
	Year   int      `json:"year"`
	Scope1 float64  `json:"scope_1"`
	Scope2 float64  `json:"scope_2"`
	Scope3 *float64 `json:"scope_3"`
	Offset float64  `json:"offset"`
}

type UpdateEmissionRequest struct {
	Scope1 *float64 `json:"scope_1"`
	Scope2 *float64 `json:"scope_2"`
	Scope3 *float64 `json:"scope_3"`
	Offset *float64 `json:"offset"`
}

type EmissionResponse struct {
	ID        uint     `json:"id"`
	CompanyID uint     `json:"company_id"`
	Year      int      `json:"year"`
	Scope1    float64  `json:"scope_1"`
	Scope2    float64  `json:"scope_2"`
	Scope3    *float64 `json:"scope_3"`
	Offset    float64  `json:"offset"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toResponse(e models.CorporateEmission) EmissionResponse {
	return EmissionResponse{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Year:      e.Year,
		Scope1:    e.Scope1,
		Scope2:    e.Scope2,
		Scope3:    e.Scope3,
		Offset:    e.Offset,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: e.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func emissionAuditPayload(e models.CorporateEmission) map[string]any {
	return map[string]any{
		"id":         e.ID,
		"company_id": e.CompanyID,
		"year":       e.Year,
		"scope_1":    e.Scope1,
		"scope_2":    e.Scope2,
		"scope_3":    e.Scope3,
		"offset":     e.Offset,
	}
}

// POST /api/corporate-emissions
// Creates the caller's company emission record for a year.
func CreateEmissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}

		var body CreateEmissionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Year < 1990 || body.Year > 2100 {
			return fiber.NewError(fiber.StatusBadRequest, "year is out of range")
		}
		if body.Scope1 < 0 || body.Scope2 < 0 || body.Offset < 0 || (body.Scope3 != nil && *body.Scope3 < 0) {
			return fiber.NewError(fiber.StatusBadRequest, "emission values cannot be negative")
		}

		var count int64
		database.DB.Model(&models.CorporateEmission{}).
			Where("company_id = ? AND year = ?", actingUser.CompanyID, body.Year).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "An emission record already exists for this year")
		}

		record := models.CorporateEmission{
			CompanyID: actingUser.CompanyID,
			Year:      body.Year,
			Scope1:    body.Scope1,
			Scope2:    body.Scope2,
			Scope3:    body.Scope3,
			Offset:    body.Offset,
		}
		if err := database.DB.Create(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create emission record")
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      actingUser.ID,
			EntityType:  "corporate_emission",
			EntityID:    record.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Emission record created for year %d", record.Year),
			After:       emissionAuditPayload(record),
		}); logErr != nil {
			logging.L.Error().Err(logErr).Uint("emission_id", record.ID).Msg("could not write audit trail")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(record))
	}
}

// GET /api/corporate-emissions?year=...
// Lists the caller's company emission records.
func ListEmissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("company_id = ?", actingUser.CompanyID)
		if v := c.Query("year"); v != "" {
			year, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "year must be a number")
			}
			q = q.Where("year = ?", year)
		}

		var records []models.CorporateEmission
		if err := q.Order("year desc").Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list emission records")
		}

		resp := make([]EmissionResponse, 0, len(records))
		for _, r := range records {
			resp = append(resp, toResponse(r))
		}
		return c.JSON(resp)
	}
}

// PUT /api/corporate-emissions/:id
func UpdateEmissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}

		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a number")
		}

		var record models.CorporateEmission
		if err := database.DB.First(&record, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Emission record not found")
		}
		if record.CompanyID != actingUser.CompanyID {
			return fiber.NewError(fiber.StatusForbidden, "This emission record belongs to another company")
		}

		var body UpdateEmissionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := emissionAuditPayload(record)
		updated := false

		if body.Scope1 != nil {
			record.Scope1 = *body.Scope1
			updated = true
		}
		if body.Scope2 != nil {
			record.Scope2 = *body.Scope2
			updated = true
		}
		if body.Scope3 != nil {
			record.Scope3 = body.Scope3
			updated = true
		}
		if body.Offset != nil {
			record.Offset = *body.Offset
			updated = true
		}

		if !updated {
			return c.JSON(toResponse(record))
		}

		if err := database.DB.Save(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update emission record")
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      actingUser.ID,
			EntityType:  "corporate_emission",
			EntityID:    record.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Emission record updated for year %d", record.Year),
			Before:      before,
			After:       emissionAuditPayload(record),
		}); logErr != nil {
			logging.L.Error().Err(logErr).Uint("emission_id", record.ID).Msg("could not write audit trail")
		}

		return c.JSON(toResponse(record))
	}
}
