package audit

import (
	"fmt"
	"testing"

	"transition-hub-backend/internal/database"
	"transition-hub-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestWriteLogSnapshots(t *testing.T) {
	db := openTestDB(t)

	err := WriteLog(db, LogOptions{
		UserID:      7,
		UserName:    "Carla",
		EntityType:  "emission_allocation",
		EntityID:    12,
		Action:      models.AuditActionUpdate,
		Description: "Allocation updated by customer for year 2023",
		Before:      map[string]any{"status": "AWAITING_APPROVAL"},
		After:       map[string]any{"status": "APPROVED"},
	})
	require.NoError(t, err)

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, uint(7), entry.UserID)
	assert.Equal(t, "emission_allocation", entry.EntityType)
	assert.Equal(t, models.AuditActionUpdate, entry.Action)
	assert.JSONEq(t, `{"status":"AWAITING_APPROVAL"}`, string(entry.BeforeData))
	assert.JSONEq(t, `{"status":"APPROVED"}`, string(entry.AfterData))
}

func TestWriteLogNilSnapshots(t *testing.T) {
	db := openTestDB(t)

	err := WriteLog(db, LogOptions{
		UserID:     7,
		EntityType: "emission_allocation",
		EntityID:   12,
		Action:     models.AuditActionCreate,
		After:      map[string]any{"status": "REQUESTED"},
	})
	require.NoError(t, err)

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "null", string(entry.BeforeData))
}
