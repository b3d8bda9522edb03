// Package testutil provides an in-memory store for service and handler tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
// A single connection serializes transactions the way the Postgres row lock
// does for one event.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg := database.Config()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, id string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:    id,
		Name:  "User " + id,
		Email: id + "@campus.edu",
		Role:  role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateEvent(t testing.TB, db *gorm.DB, creator string, capacity *int) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:            uuid.NewString(),
		Name:          "Golang Workshop",
		CapacityLimit: capacity,
		CreatedBy:     creator,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func Capacity(n int) *int {
	return &n
}
