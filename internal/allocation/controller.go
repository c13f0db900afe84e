package allocation

import (
	"errors"
	"fmt"

	"transition-hub-backend/internal/audit"
	"transition-hub-backend/internal/models"
	"transition-hub-backend/internal/notification"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Controller orchestrates the emission-allocation workflow: creation,
// status transitions, scope-3 reconciliation and notification dispatch.
// The delivery strategy behind the dispatcher is chosen once at
// construction, never per call.
type Controller struct {
	db         *gorm.DB
	dispatcher *notification.Dispatcher
	log        zerolog.Logger
}

func NewController(db *gorm.DB, dispatcher *notification.Dispatcher, log zerolog.Logger) *Controller {
	return &Controller{db: db, dispatcher: dispatcher, log: log}
}

type Direction string

const (
	DirectionSupplier Direction = "supplier"
	DirectionCustomer Direction = "customer"
)

type FindFilter struct {
	Direction *Direction
	Statuses  []models.AllocationStatus
	Year      *int
}

// FindByCompany returns allocations where companyID is the supplier or the
// customer. The caller must belong to the queried company.
func (ctl *Controller) FindByCompany(companyID uint, filter FindFilter, actingUser models.User) ([]models.EmissionAllocation, error) {
	if actingUser.CompanyID != companyID {
		return nil, ErrCompanyMismatch
	}

	q := ctl.db.
		Preload("Supplier").
		Preload("Customer").
		Preload("Category")

	if filter.Direction != nil {
		switch *filter.Direction {
		case DirectionSupplier:
			q = q.Where("supplier_id = ?", companyID)
		case DirectionCustomer:
			q = q.Where("customer_id = ?", companyID)
		default:
			return nil, fmt.Errorf("unknown direction %q", *filter.Direction)
		}
	} else {
		q = q.Where("supplier_id = ? OR customer_id = ?", companyID, companyID)
	}

	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.Year != nil {
		q = q.Where("year = ?", *filter.Year)
	}

	var allocations []models.EmissionAllocation
	if err := q.Order("year desc, id asc").Find(&allocations).Error; err != nil {
		return nil, fmt.Errorf("could not list allocations: %w", err)
	}
	return allocations, nil
}

type CreateInput struct {
	Year               int
	SupplierID         uint
	CustomerID         uint
	Emissions          *float64
	SupplierEmissionID *uint
	AllocationMethod   *models.AllocationMethod
	Note               *string
}

// Create starts a new allocation. A supplier-side call is a submission
// (lands in AWAITING_APPROVAL); a customer-side call is a request (lands in
// REQUESTED, no emission data yet).
func (ctl *Controller) Create(input CreateInput, actingUser models.User) (*models.EmissionAllocation, error) {
	var rel models.CompanyRelationship
	err := ctl.db.
		Where("supplier_id = ? AND customer_id = ? AND status = ?",
			input.SupplierID, input.CustomerID, models.RelationshipStatusApproved).
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCompanyRelationship
	}
	if err != nil {
		return nil, fmt.Errorf("could not check company relationship: %w", err)
	}

	var count int64
	if err := ctl.db.Model(&models.EmissionAllocation{}).
		Where("supplier_id = ? AND customer_id = ? AND year = ?",
			input.SupplierID, input.CustomerID, input.Year).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("could not check existing allocations: %w", err)
	}
	if count > 0 {
		return nil, ErrAllocationExists
	}

	switch actingUser.CompanyID {
	case input.SupplierID:
		return ctl.createAsSupplier(input, actingUser)
	case input.CustomerID:
		return ctl.createAsCustomer(input, actingUser)
	default:
		return nil, ErrCompanyMismatch
	}
}

func (ctl *Controller) createAsSupplier(input CreateInput, actingUser models.User) (*models.EmissionAllocation, error) {
	if input.Emissions == nil || input.SupplierEmissionID == nil {
		return nil, ErrMissingFields
	}
	if err := ctl.validateEmission(*input.SupplierEmissionID, actingUser.CompanyID, input.Year); err != nil {
		return nil, err
	}

	alloc := models.EmissionAllocation{
		Year:               input.Year,
		Type:               models.EmissionAllocationTypeScope3,
		Status:             models.AllocationStatusAwaitingApproval,
		SupplierID:         input.SupplierID,
		CustomerID:         input.CustomerID,
		SupplierApproverID: &actingUser.ID,
		SupplierEmissionID: input.SupplierEmissionID,
		Emissions:          input.Emissions,
		AllocationMethod:   input.AllocationMethod,
		Note:               input.Note,
	}

	if err := ctl.db.Create(&alloc).Error; err != nil {
		return nil, fmt.Errorf("could not create allocation: %w", err)
	}

	ctl.writeAudit(actingUser, models.AuditActionCreate, alloc,
		fmt.Sprintf("Allocation submitted for year %d", alloc.Year), nil)
	ctl.notify(notification.EventSubmitted, alloc, actingUser.CompanyID, alloc.CustomerID, nil)

	return &alloc, nil
}

func (ctl *Controller) createAsCustomer(input CreateInput, actingUser models.User) (*models.EmissionAllocation, error) {
	alloc := models.EmissionAllocation{
		Year:               input.Year,
		Type:               models.EmissionAllocationTypeScope3,
		Status:             models.AllocationStatusRequested,
		SupplierID:         input.SupplierID,
		CustomerID:         input.CustomerID,
		CustomerApproverID: &actingUser.ID,
		Note:               input.Note,
	}

	if err := ctl.db.Create(&alloc).Error; err != nil {
		return nil, fmt.Errorf("could not create allocation request: %w", err)
	}

	ctl.writeAudit(actingUser, models.AuditActionCreate, alloc,
		fmt.Sprintf("Allocation requested for year %d", alloc.Year), nil)
	ctl.notify(notification.EventRequested, alloc, actingUser.CompanyID, alloc.SupplierID, nil)

	return &alloc, nil
}

type UpdateInput struct {
	ID                        uint
	Status                    *models.AllocationStatus
	Emissions                 *float64
	SupplierEmissionID        *uint
	CustomerEmissionID        *uint
	CategoryID                *uint
	AllocationMethod          *models.AllocationMethod
	AddedToCustomerScopeTotal *bool
	Note                      *string
}

// Update dispatches to the supplier- or customer-side pipeline depending on
// which company the caller belongs to. Both pipelines work on an immutable
// {previous, next} snapshot pair; previous is never mutated.
func (ctl *Controller) Update(input UpdateInput, actingUser models.User) (*models.EmissionAllocation, error) {
	var previous models.EmissionAllocation
	if err := ctl.db.First(&previous, "id = ?", input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationDoesNotExist
		}
		return nil, fmt.Errorf("could not load allocation: %w", err)
	}

	switch actingUser.CompanyID {
	case previous.SupplierID:
		return ctl.updateAsSupplier(previous, input, actingUser)
	case previous.CustomerID:
		return ctl.updateAsCustomer(previous, input, actingUser)
	default:
		return nil, ErrCompanyMismatch
	}
}

func (ctl *Controller) updateAsSupplier(previous models.EmissionAllocation, input UpdateInput, actingUser models.User) (*models.EmissionAllocation, error) {
	dismissing := input.Status != nil && *input.Status == models.AllocationStatusRequestDismissed

	next := previous
	if dismissing {
		next.Status = models.AllocationStatusRequestDismissed
	} else {
		if input.Emissions == nil || input.SupplierEmissionID == nil {
			return nil, ErrMissingFields
		}
		if err := ctl.validateEmission(*input.SupplierEmissionID, actingUser.CompanyID, previous.Year); err != nil {
			return nil, err
		}

		next.Emissions = input.Emissions
		next.SupplierEmissionID = input.SupplierEmissionID
		if input.AllocationMethod != nil {
			next.AllocationMethod = input.AllocationMethod
		}
		if input.Note != nil {
			next.Note = input.Note
		}
		// Any supplier-side edit re-opens the approval cycle.
		next.Status = models.AllocationStatusAwaitingApproval
	}
	next.SupplierApproverID = &actingUser.ID

	if err := ctl.persistWithReconciliation(previous, &next); err != nil {
		return nil, err
	}

	ctl.writeAudit(actingUser, models.AuditActionUpdate, next,
		fmt.Sprintf("Allocation updated by supplier for year %d", next.Year), &previous)

	if next.Status != models.AllocationStatusRequestDismissed {
		event := notification.EventUpdated
		if previous.Status == models.AllocationStatusRequested {
			event = notification.EventSubmitted
		}
		ctl.notify(event, next, actingUser.CompanyID, next.CustomerID, nil)
	}

	return &next, nil
}

func (ctl *Controller) updateAsCustomer(previous models.EmissionAllocation, input UpdateInput, actingUser models.User) (*models.EmissionAllocation, error) {
	next := previous

	if input.Status != nil && *input.Status != previous.Status {
		if *input.Status == models.AllocationStatusApproved &&
			(input.CategoryID == nil || input.CustomerEmissionID == nil) {
			return nil, ErrMissingFields
		}
		if !IsValidTransition(previous.Status, *input.Status, RoleCustomer) {
			return nil, ErrInvalidStatusChange
		}
		next.Status = *input.Status
	}

	if input.CustomerEmissionID != nil {
		if err := ctl.validateEmission(*input.CustomerEmissionID, actingUser.CompanyID, previous.Year); err != nil {
			return nil, err
		}
		next.CustomerEmissionID = input.CustomerEmissionID
	}
	if input.CategoryID != nil {
		next.CategoryID = input.CategoryID
	}
	if input.AddedToCustomerScopeTotal != nil {
		next.AddedToCustomerScopeTotal = input.AddedToCustomerScopeTotal
	}

	// A rejected allocation no longer points at the customer's emission
	// record.
	if next.Status == models.AllocationStatusRejected && previous.Status != models.AllocationStatusRejected {
		next.CustomerEmissionID = nil
	}
	next.CustomerApproverID = &actingUser.ID

	if err := ctl.persistWithReconciliation(previous, &next); err != nil {
		return nil, err
	}

	ctl.writeAudit(actingUser, models.AuditActionUpdate, next,
		fmt.Sprintf("Allocation updated by customer for year %d", next.Year), &previous)

	if previous.Status == models.AllocationStatusAwaitingApproval {
		switch next.Status {
		case models.AllocationStatusApproved:
			ctl.notify(notification.EventApproved, next, actingUser.CompanyID, next.SupplierID, nil)
		case models.AllocationStatusRejected:
			ctl.notify(notification.EventRejected, next, actingUser.CompanyID, next.SupplierID, nil)
		}
	}

	return &next, nil
}

type DeleteInput struct {
	ID uint
}

// Delete removes an allocation. The supplier may always delete; the
// customer only when the request was dismissed. Scope-3 reversal runs in
// the same transaction as the delete.
func (ctl *Controller) Delete(input DeleteInput, actingUser models.User) error {
	var previous models.EmissionAllocation
	if err := ctl.db.First(&previous, "id = ?", input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationDoesNotExist
		}
		return fmt.Errorf("could not load allocation: %w", err)
	}

	switch actingUser.CompanyID {
	case previous.SupplierID:
		// Suppliers may always withdraw their own allocation.
	case previous.CustomerID:
		if previous.Status != models.AllocationStatusRequestDismissed {
			return ErrDeleteNotAllowed
		}
	default:
		return ErrCompanyMismatch
	}

	tx := ctl.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not start transaction: %w", tx.Error)
	}

	if err := tx.Delete(&models.EmissionAllocation{}, "id = ?", previous.ID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete allocation: %w", err)
	}

	if delta := ComputeAdjustment(snapshotOf(previous), nil); delta != nil {
		if err := ctl.applyScope3Delta(tx, previous, *delta); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("could not commit delete: %w", err)
	}

	ctl.writeAudit(actingUser, models.AuditActionDelete, previous,
		fmt.Sprintf("Allocation deleted for year %d", previous.Year), &previous)

	if actingUser.CompanyID == previous.SupplierID && previous.Status == models.AllocationStatusApproved {
		ctl.notify(notification.EventDeleted, previous, actingUser.CompanyID, previous.CustomerID, previous.Emissions)
	}

	return nil
}

// validateEmission checks that the referenced corporate emission exists,
// belongs to companyID and covers year.
func (ctl *Controller) validateEmission(emissionID, companyID uint, year int) error {
	var emission models.CorporateEmission
	err := ctl.db.First(&emission, "id = ?", emissionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoEmission
	}
	if err != nil {
		return fmt.Errorf("could not load emission record: %w", err)
	}
	if emission.CompanyID != companyID || emission.Year != year {
		return ErrCannotAssignEmission
	}
	return nil
}

// persistWithReconciliation saves next and applies the scope-3 delta to the
// customer's emission record inside one transaction. A committed allocation
// with a stale scope-3 total must never be observable.
func (ctl *Controller) persistWithReconciliation(previous models.EmissionAllocation, next *models.EmissionAllocation) error {
	tx := ctl.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("could not start transaction: %w", tx.Error)
	}

	if err := tx.Save(next).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("could not save allocation: %w", err)
	}

	currentSnap := snapshotOf(*next)
	if delta := ComputeAdjustment(snapshotOf(previous), &currentSnap); delta != nil {
		target := previous
		if next.CustomerEmissionID != nil {
			target = *next
		}
		if err := ctl.applyScope3Delta(tx, target, *delta); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("could not commit allocation update: %w", err)
	}
	return nil
}

// applyScope3Delta adds delta to the scope-3 total of the customer emission
// record the allocation points at. Missing link means the customer never
// attached an emission record; nothing to adjust then.
func (ctl *Controller) applyScope3Delta(tx *gorm.DB, alloc models.EmissionAllocation, delta float64) error {
	if alloc.CustomerEmissionID == nil {
		ctl.log.Warn().
			Uint("allocation_id", alloc.ID).
			Float64("delta", delta).
			Msg("scope-3 adjustment computed but allocation has no customer emission record")
		return nil
	}

	var emission models.CorporateEmission
	if err := tx.First(&emission, "id = ?", *alloc.CustomerEmissionID).Error; err != nil {
		return fmt.Errorf("could not load customer emission record: %w", err)
	}

	base := 0.0
	if emission.Scope3 != nil {
		base = *emission.Scope3
	}
	total := base + delta
	emission.Scope3 = &total

	if err := tx.Save(&emission).Error; err != nil {
		return fmt.Errorf("could not update scope-3 total: %w", err)
	}
	return nil
}

func (ctl *Controller) writeAudit(actingUser models.User, action models.AuditAction, current models.EmissionAllocation, description string, previous *models.EmissionAllocation) {
	opts := audit.LogOptions{
		UserID:      actingUser.ID,
		UserName:    actingUser.Name,
		EntityType:  "emission_allocation",
		EntityID:    current.ID,
		Action:      action,
		Description: description,
		After:       allocationAuditPayload(current),
	}
	if previous != nil {
		opts.Before = allocationAuditPayload(*previous)
	}
	if action == models.AuditActionDelete {
		opts.After = nil
	}

	if err := audit.WriteLog(ctl.db, opts); err != nil {
		ctl.log.Error().Err(err).Uint("allocation_id", current.ID).Msg("could not write audit trail")
	}
}

func allocationAuditPayload(a models.EmissionAllocation) map[string]any {
	return map[string]any{
		"id":                            a.ID,
		"year":                          a.Year,
		"status":                        a.Status,
		"supplier_id":                   a.SupplierID,
		"customer_id":                   a.CustomerID,
		"supplier_emission_id":          a.SupplierEmissionID,
		"customer_emission_id":          a.CustomerEmissionID,
		"category_id":                   a.CategoryID,
		"emissions":                     a.Emissions,
		"allocation_method":             a.AllocationMethod,
		"added_to_customer_scope_total": a.AddedToCustomerScopeTotal,
	}
}

// notify resolves the sender's display name and hands the event to the
// dispatcher. Failures are logged, never surfaced: the write has committed.
func (ctl *Controller) notify(event notification.EventType, alloc models.EmissionAllocation, senderCompanyID, recipientCompanyID uint, emissions *float64) {
	var sender models.Company
	if err := ctl.db.First(&sender, "id = ?", senderCompanyID).Error; err != nil {
		ctl.log.Error().Err(err).Uint("company_id", senderCompanyID).Msg("could not resolve sender company for notification")
		return
	}

	err := ctl.dispatcher.Dispatch(notification.Event{
		Type:               event,
		AllocationID:       alloc.ID,
		Year:               alloc.Year,
		SenderCompanyName:  sender.Name,
		RecipientCompanyID: recipientCompanyID,
		Emissions:          emissions,
	})
	if err != nil {
		ctl.log.Error().Err(err).Str("event", string(event)).Uint("allocation_id", alloc.ID).Msg("notification dispatch failed")
	}
}
