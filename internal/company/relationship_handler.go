package company

import (
	"strconv"
	"strings"

	"transition-hub-backend/internal/auth"
	"transition-hub-backend/internal/database"
	"transition-hub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRelationshipRequest struct {
	SupplierID uint   `json:"supplier_id"`
	CustomerID uint   `json:"customer_id"`
	Note       string `json:"note"`
}

type UpdateRelationshipRequest struct {
	Status models.RelationshipStatus `json:"status"`
}

type RelationshipResponse struct {
	ID           uint                      `json:"id"`
	SupplierID   uint                      `json:"supplier_id"`
	SupplierName string                    `json:"supplier_name,omitempty"`
	CustomerID   uint                      `json:"customer_id"`
	CustomerName string                    `json:"customer_name,omitempty"`
	Status       models.RelationshipStatus `json:"status"`
	InvitedByID  uint                      `json:"invited_by_id"`
	Note         string                    `json:"note"`
	CreatedAt    string                    `json:"created_at"`
}

func relationshipToResponse(r models.CompanyRelationship) RelationshipResponse {
	resp := RelationshipResponse{
		ID:          r.ID,
		SupplierID:  r.SupplierID,
		CustomerID:  r.CustomerID,
		Status:      r.Status,
		InvitedByID: r.InvitedByID,
		Note:        r.Note,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.Supplier != nil {
		resp.SupplierName = r.Supplier.Name
	}
	if r.Customer != nil {
		resp.CustomerName = r.Customer.Name
	}
	return resp
}

// POST /api/company-relationships
// The inviting user's company must be one side of the pair; the invite
// starts pending until the other side approves it.
func CreateRelationshipHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}

		var body CreateRelationshipRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.SupplierID == 0 || body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_id and customer_id are required")
		}
		if body.SupplierID == body.CustomerID {
			return fiber.NewError(fiber.StatusBadRequest, "A company cannot be its own supplier")
		}
		if actingUser.CompanyID != body.SupplierID && actingUser.CompanyID != body.CustomerID {
			return fiber.NewError(fiber.StatusForbidden, "Your company must be part of the relationship")
		}

		var counterpart models.Company
		counterpartID := body.SupplierID
		if actingUser.CompanyID == body.SupplierID {
			counterpartID = body.CustomerID
		}
		if err := database.DB.First(&counterpart, "id = ?", counterpartID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Counterpart company not found")
		}

		var count int64
		database.DB.Model(&models.CompanyRelationship{}).
			Where("supplier_id = ? AND customer_id = ?", body.SupplierID, body.CustomerID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "A relationship between these companies already exists")
		}

		rel := models.CompanyRelationship{
			SupplierID:  body.SupplierID,
			CustomerID:  body.CustomerID,
			Status:      models.RelationshipStatusPending,
			InvitedByID: actingUser.ID,
			Note:        strings.TrimSpace(body.Note),
		}
		if err := database.DB.Create(&rel).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create relationship")
		}

		return c.Status(fiber.StatusCreated).JSON(relationshipToResponse(rel))
	}
}

// GET /api/company-relationships?status=...
// Lists relationships where the caller's company is either side.
func ListRelationshipsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}

		q := database.DB.
			Preload("Supplier").
			Preload("Customer").
			Where("supplier_id = ? OR customer_id = ?", actingUser.CompanyID, actingUser.CompanyID)

		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var rels []models.CompanyRelationship
		if err := q.Order("created_at desc").Find(&rels).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list relationships")
		}

		resp := make([]RelationshipResponse, 0, len(rels))
		for _, r := range rels {
			resp = append(resp, relationshipToResponse(r))
		}
		return c.JSON(resp)
	}
}

// PUT /api/company-relationships/:id
// Only a user of the invited company may approve or reject the invite.
func UpdateRelationshipHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}

		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a number")
		}

		var rel models.CompanyRelationship
		if err := database.DB.First(&rel, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Relationship not found")
		}

		var body UpdateRelationshipRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Status != models.RelationshipStatusApproved && body.Status != models.RelationshipStatusRejected {
			return fiber.NewError(fiber.StatusBadRequest, "status must be 'approved' or 'rejected'")
		}

		if actingUser.CompanyID != rel.SupplierID && actingUser.CompanyID != rel.CustomerID {
			return fiber.NewError(fiber.StatusForbidden, "Your company is not part of this relationship")
		}

		// The inviting side cannot approve its own invite.
		var inviter models.User
		if err := database.DB.First(&inviter, "id = ?", rel.InvitedByID).Error; err == nil {
			if inviter.CompanyID == actingUser.CompanyID {
				return fiber.NewError(fiber.StatusForbidden, "The inviting company cannot respond to its own invite")
			}
		}

		if rel.Status != models.RelationshipStatusPending {
			return fiber.NewError(fiber.StatusConflict, "Relationship has already been responded to")
		}

		rel.Status = body.Status
		if err := database.DB.Save(&rel).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update relationship")
		}

		return c.JSON(relationshipToResponse(rel))
	}
}
