package notification

import (
	"errors"
	"fmt"
	"testing"

	"transition-hub-backend/internal/database"
	"transition-hub-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingStrategy struct {
	delivered []Notification
	fail      bool
}

func (s *recordingStrategy) Deliver(n Notification) error {
	if s.fail {
		return errors.New("boom")
	}
	s.delivered = append(s.delivered, n)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedCompanyUsers(t *testing.T, db *gorm.DB) (companyID uint, editor models.User) {
	t.Helper()
	company := models.Company{Name: "Auto Group AG", Status: models.CompanyStatusActive}
	require.NoError(t, db.Create(&company).Error)

	editor = models.User{CompanyID: company.ID, Name: "Carla", Email: "carla@autogroup.example", PasswordHash: "x", Role: models.RoleEditor}
	viewer := models.User{CompanyID: company.ID, Name: "Vic", Email: "vic@autogroup.example", PasswordHash: "x", Role: models.RoleViewer}
	require.NoError(t, db.Create(&editor).Error)
	require.NoError(t, db.Create(&viewer).Error)

	return company.ID, editor
}

func TestDispatchResolvesOnlyEditors(t *testing.T) {
	db := openTestDB(t)
	companyID, editor := seedCompanyUsers(t, db)

	strategy := &recordingStrategy{}
	d := NewDispatcher(db, strategy, zerolog.Nop())

	err := d.Dispatch(Event{
		Type:               EventSubmitted,
		AllocationID:       1,
		Year:               2023,
		SenderCompanyName:  "Steel Works Ltd",
		RecipientCompanyID: companyID,
	})
	require.NoError(t, err)

	require.Len(t, strategy.delivered, 1)
	assert.Equal(t, editor.Email, strategy.delivered[0].Recipient.Email)
	assert.Equal(t, "Steel Works Ltd", strategy.delivered[0].CompanyName)
	assert.Equal(t, 2023, strategy.delivered[0].Year)
}

func TestDispatchDeletedRequiresEmissions(t *testing.T) {
	db := openTestDB(t)
	companyID, _ := seedCompanyUsers(t, db)

	strategy := &recordingStrategy{}
	d := NewDispatcher(db, strategy, zerolog.Nop())

	err := d.Dispatch(Event{
		Type:               EventDeleted,
		AllocationID:       1,
		Year:               2023,
		SenderCompanyName:  "Steel Works Ltd",
		RecipientCompanyID: companyID,
	})
	assert.Error(t, err)
	assert.Empty(t, strategy.delivered)
}

func TestDispatchSwallowsDeliveryFailures(t *testing.T) {
	db := openTestDB(t)
	companyID, _ := seedCompanyUsers(t, db)

	strategy := &recordingStrategy{fail: true}
	d := NewDispatcher(db, strategy, zerolog.Nop())

	err := d.Dispatch(Event{
		Type:               EventSubmitted,
		AllocationID:       1,
		Year:               2023,
		SenderCompanyName:  "Steel Works Ltd",
		RecipientCompanyID: companyID,
	})
	assert.NoError(t, err, "per-recipient failures must not surface")
}

func TestQueueStrategyEnqueuesJob(t *testing.T) {
	db := openTestDB(t)

	s := NewQueueStrategy(db)
	emissions := 42.5
	err := s.Deliver(Notification{
		Type:        EventDeleted,
		Recipient:   models.User{Name: "Carla", Email: "carla@autogroup.example"},
		CompanyName: "Steel Works Ltd",
		Year:        2023,
		Emissions:   &emissions,
	})
	require.NoError(t, err)

	var jobs []models.EmailJob
	require.NoError(t, db.Find(&jobs).Error)
	require.Len(t, jobs, 1)
	assert.Equal(t, "carla@autogroup.example", jobs[0].Recipient)
	assert.NotEmpty(t, jobs[0].MessageID)
	assert.Contains(t, jobs[0].Subject, "Steel Works Ltd")
	assert.Contains(t, jobs[0].Body, "42.5")
	assert.Nil(t, jobs[0].SentAt)
}

func TestRenderEmailUnknownType(t *testing.T) {
	_, _, err := RenderEmail(Notification{Type: EventType("carrier-pigeon")})
	assert.Error(t, err)
}

func TestRenderEmailAllTypes(t *testing.T) {
	emissions := 10.0
	for eventType := range templates {
		subject, body, err := RenderEmail(Notification{
			Type:        eventType,
			Recipient:   models.User{Name: "Carla"},
			CompanyName: "Steel Works Ltd",
			Year:        2023,
			Emissions:   &emissions,
		})
		require.NoError(t, err, "event %s", eventType)
		assert.NotEmpty(t, subject)
		assert.Contains(t, body, "Carla")
	}
}

type fakeTransactionalClient struct {
	calls []string
}

func (c *fakeTransactionalClient) record(name string, p MailParams) error {
	c.calls = append(c.calls, name+":"+p.Recipient)
	return nil
}

func (c *fakeTransactionalClient) SendAllocationSubmitted(p MailParams) error {
	return c.record("submitted", p)
}
func (c *fakeTransactionalClient) SendAllocationRequested(p MailParams) error {
	return c.record("requested", p)
}
func (c *fakeTransactionalClient) SendAllocationApproved(p MailParams) error {
	return c.record("approved", p)
}
func (c *fakeTransactionalClient) SendAllocationRejected(p MailParams) error {
	return c.record("rejected", p)
}
func (c *fakeTransactionalClient) SendAllocationUpdated(p MailParams) error {
	return c.record("updated", p)
}
func (c *fakeTransactionalClient) SendAllocationDeleted(p MailParams) error {
	return c.record("deleted", p)
}

func TestTransactionalStrategyRoutesByType(t *testing.T) {
	client := &fakeTransactionalClient{}
	s := NewTransactionalStrategy(client)

	for _, eventType := range []EventType{EventSubmitted, EventRequested, EventApproved, EventRejected, EventUpdated, EventDeleted} {
		err := s.Deliver(Notification{
			Type:      eventType,
			Recipient: models.User{Email: "carla@autogroup.example"},
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"submitted:carla@autogroup.example",
		"requested:carla@autogroup.example",
		"approved:carla@autogroup.example",
		"rejected:carla@autogroup.example",
		"updated:carla@autogroup.example",
		"deleted:carla@autogroup.example",
	}, client.calls)
}

func TestTransactionalStrategyUnknownType(t *testing.T) {
	s := NewTransactionalStrategy(&fakeTransactionalClient{})
	err := s.Deliver(Notification{Type: EventType("smoke-signal")})
	assert.Error(t, err)
}
