package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/models"
)

// openTestDB creates a SQLite in-memory DB unique per test and applies
// a busy timeout and WAL journal mode to reduce SQLITE locking during parallel tests.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	require.NoError(t, db.AutoMigrate(
		&models.Requester{},
		&models.Action{},
		&models.PendingApproval{},
		&models.ApprovalRule{},
		&models.AuditEntry{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.Setting{},
		&models.User{},
	))
	return db
}

func createRequester(t *testing.T, db *gorm.DB, uuid string, trust int) *models.Requester {
	t.Helper()
	r := &models.Requester{UUID: uuid, Name: "agent " + uuid, TrustLevel: trust, Enabled: true}
	require.NoError(t, db.Create(r).Error)
	return r
}

func createAction(t *testing.T, db *gorm.DB, requesterUUID string, level models.RiskLevel) *models.Action {
	t.Helper()
	a := &models.Action{
		RequesterUUID: requesterUUID,
		Type:          "transfer",
		RiskLevel:     level,
		Status:        models.ActionStatusPending,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func fetchRequester(t *testing.T, db *gorm.DB, uuid string) models.Requester {
	t.Helper()
	var r models.Requester
	require.NoError(t, db.Where("uuid = ?", uuid).First(&r).Error)
	return r
}

func fetchAction(t *testing.T, db *gorm.DB, uuid string) models.Action {
	t.Helper()
	var a models.Action
	require.NoError(t, db.Where("uuid = ?", uuid).First(&a).Error)
	return a
}
