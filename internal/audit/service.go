package audit

import (
	"encoding/json"
	"fmt"

	"transition-hub-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog persists one audit trail row. Callers treat failures as
// non-fatal: the business write has already happened.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	beforeData := datatypes.JSON([]byte("null"))
	afterData := datatypes.JSON([]byte("null"))

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeData = datatypes.JSON(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterData = datatypes.JSON(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeData,
		AfterData:   afterData,
	}

	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}
