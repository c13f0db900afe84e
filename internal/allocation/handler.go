package allocation

import (
	"errors"
	"strconv"
	"strings"

	"transition-hub-backend/internal/auth"
	"transition-hub-backend/internal/database"
	"transition-hub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateAllocationRequest struct {
	Year               int                      `json:"year"`
	SupplierID         uint                     `json:"supplier_id"`
	CustomerID         uint                     `json:"customer_id"`
	Emissions          *float64                 `json:"emissions"`
	SupplierEmissionID *uint                    `json:"supplier_emission_id"`
	AllocationMethod   *models.AllocationMethod `json:"allocation_method"`
	Note               *string                  `json:"note"`
}

type UpdateAllocationRequest struct {
	Status                    *models.AllocationStatus `json:"status"`
	Emissions                 *float64                 `json:"emissions"`
	SupplierEmissionID        *uint                    `json:"supplier_emission_id"`
	CustomerEmissionID        *uint                    `json:"customer_emission_id"`
	CategoryID                *uint                    `json:"category_id"`
	AllocationMethod          *models.AllocationMethod `json:"allocation_method"`
	AddedToCustomerScopeTotal *bool                    `json:"added_to_customer_scope_total"`
	Note                      *string                  `json:"note"`
}

type AllocationResponse struct {
	ID                        uint                     `json:"id"`
	Year                      int                      `json:"year"`
	Type                      string                   `json:"type"`
	Status                    models.AllocationStatus  `json:"status"`
	SupplierID                uint                     `json:"supplier_id"`
	SupplierName              string                   `json:"supplier_name,omitempty"`
	CustomerID                uint                     `json:"customer_id"`
	CustomerName              string                   `json:"customer_name,omitempty"`
	SupplierApproverID        *uint                    `json:"supplier_approver_id"`
	CustomerApproverID        *uint                    `json:"customer_approver_id"`
	SupplierEmissionID        *uint                    `json:"supplier_emission_id"`
	CustomerEmissionID        *uint                    `json:"customer_emission_id"`
	CategoryID                *uint                    `json:"category_id"`
	CategoryName              string                   `json:"category_name,omitempty"`
	Emissions                 *float64                 `json:"emissions"`
	AllocationMethod          *models.AllocationMethod `json:"allocation_method"`
	AddedToCustomerScopeTotal *bool                    `json:"added_to_customer_scope_total"`
	Note                      *string                  `json:"note"`
	CreatedAt                 string                   `json:"created_at"`
	UpdatedAt                 string                   `json:"updated_at"`
}

func toResponse(a models.EmissionAllocation) AllocationResponse {
	resp := AllocationResponse{
		ID:                        a.ID,
		Year:                      a.Year,
		Type:                      a.Type,
		Status:                    a.Status,
		SupplierID:                a.SupplierID,
		CustomerID:                a.CustomerID,
		SupplierApproverID:        a.SupplierApproverID,
		CustomerApproverID:        a.CustomerApproverID,
		SupplierEmissionID:        a.SupplierEmissionID,
		CustomerEmissionID:        a.CustomerEmissionID,
		CategoryID:                a.CategoryID,
		Emissions:                 a.Emissions,
		AllocationMethod:          a.AllocationMethod,
		AddedToCustomerScopeTotal: a.AddedToCustomerScopeTotal,
		Note:                      a.Note,
		CreatedAt:                 a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:                 a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.Supplier != nil {
		resp.SupplierName = a.Supplier.Name
	}
	if a.Customer != nil {
		resp.CustomerName = a.Customer.Name
	}
	if a.Category != nil {
		resp.CategoryName = a.Category.Name
	}
	return resp
}

// httpError maps workflow errors to HTTP statuses. Anything unknown bubbles
// up to the central error handler as a 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrAllocationDoesNotExist), errors.Is(err, ErrNoEmission):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrAllocationExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrCompanyMismatch), errors.Is(err, ErrDeleteNotAllowed):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrNoCompanyRelationship),
		errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrCannotAssignEmission),
		errors.Is(err, ErrInvalidStatusChange):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

// -------------------------
// Handlers
// -------------------------

// GET /api/emission-allocations?company_id=...&direction=...&statuses=...&year=...
// Without company_id the caller's own company is assumed. direction=customer
// answers "emissions allocated to my company".
func ListAllocationsHandler(ctl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}

		companyID := actingUser.CompanyID
		if v := c.Query("company_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "company_id must be a number")
			}
			companyID = uint(id)
		}

		var filter FindFilter
		if v := c.Query("direction"); v != "" {
			d := Direction(v)
			if d != DirectionSupplier && d != DirectionCustomer {
				return fiber.NewError(fiber.StatusBadRequest, "direction must be 'supplier' or 'customer'")
			}
			filter.Direction = &d
		}
		if v := c.Query("statuses"); v != "" {
			for _, s := range strings.Split(v, ",") {
				filter.Statuses = append(filter.Statuses, models.AllocationStatus(strings.TrimSpace(s)))
			}
		}
		if v := c.Query("year"); v != "" {
			year, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "year must be a number")
			}
			filter.Year = &year
		}

		allocations, err := ctl.FindByCompany(companyID, filter, actingUser)
		if err != nil {
			return httpError(err)
		}

		resp := make([]AllocationResponse, 0, len(allocations))
		for _, a := range allocations {
			resp = append(resp, toResponse(a))
		}
		return c.JSON(resp)
	}
}

// POST /api/emission-allocations
func CreateAllocationHandler(ctl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}
		loadActingUserName(&actingUser)

		var body CreateAllocationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Year == 0 || body.SupplierID == 0 || body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "year, supplier_id and customer_id are required")
		}

		alloc, err := ctl.Create(CreateInput{
			Year:               body.Year,
			SupplierID:         body.SupplierID,
			CustomerID:         body.CustomerID,
			Emissions:          body.Emissions,
			SupplierEmissionID: body.SupplierEmissionID,
			AllocationMethod:   body.AllocationMethod,
			Note:               body.Note,
		}, actingUser)
		if err != nil {
			return httpError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(*alloc))
	}
}

// PUT /api/emission-allocations/:id
func UpdateAllocationHandler(ctl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}
		loadActingUserName(&actingUser)

		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a number")
		}

		var body UpdateAllocationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		alloc, err := ctl.Update(UpdateInput{
			ID:                        uint(id),
			Status:                    body.Status,
			Emissions:                 body.Emissions,
			SupplierEmissionID:        body.SupplierEmissionID,
			CustomerEmissionID:        body.CustomerEmissionID,
			CategoryID:                body.CategoryID,
			AllocationMethod:          body.AllocationMethod,
			AddedToCustomerScopeTotal: body.AddedToCustomerScopeTotal,
			Note:                      body.Note,
		}, actingUser)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(toResponse(*alloc))
	}
}

// DELETE /api/emission-allocations/:id
func DeleteAllocationHandler(ctl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actingUser, err := auth.ActingUser(c)
		if err != nil {
			return err
		}
		loadActingUserName(&actingUser)

		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a number")
		}

		if err := ctl.Delete(DeleteInput{ID: uint(id)}, actingUser); err != nil {
			return httpError(err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// loadActingUserName fills in the display name for audit trails. Claims
// only carry the id; a failed lookup just leaves the name empty.
func loadActingUserName(u *models.User) {
	var dbUser models.User
	if err := database.DB.Select("name").First(&dbUser, u.ID).Error; err == nil {
		u.Name = dbUser.Name
	}
}
