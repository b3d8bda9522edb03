package database

import (
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

// Migrate creates or updates the users, events and registrations tables.
// The registrations unique index on (event_id, user_id) gives the
// registered-user list its set semantics.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Registration{}); err != nil {
		return errors.Annotate(err, "auto-migrate")
	}
	if db.Dialector.Name() == "postgres" {
		// Capacity limits are positive when present; NULL means unlimited.
		err := db.Exec(`
			DO $$ BEGIN
				ALTER TABLE events ADD CONSTRAINT chk_events_capacity
				CHECK (capacity_limit IS NULL OR capacity_limit > 0);
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$;
		`).Error
		if err != nil {
			return errors.Annotate(err, "add capacity constraint")
		}
	}
	return nil
}
