package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/tripmesh/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

// newTestDB opens a private in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Group{},
		&models.GroupMember{},
		&models.Preference{},
		&models.AvailabilitySlot{},
		&models.Recommendation{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedGroup creates a group plus memberships for the given user ids; the
// first id becomes the owner.
func seedGroup(t *testing.T, db *gorm.DB, group *models.Group, userIDs ...uint) {
	t.Helper()

	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	for i, uid := range userIDs {
		role := models.RoleMember
		if i == 0 {
			role = models.RoleOwner
		}
		member := models.GroupMember{GroupID: group.ID, UserID: uid, Role: role}
		if err := db.Create(&member).Error; err != nil {
			t.Fatalf("failed to create member %d: %v", uid, err)
		}
	}
}
