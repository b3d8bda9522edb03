package repository

import (
	"context"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.Event) error
	FindByID(ctx context.Context, tx *gorm.DB, id string) (*models.Event, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Event, error)
	FindAll(ctx context.Context, tx *gorm.DB) ([]models.Event, error)
	UpdateAttendeeCount(ctx context.Context, tx *gorm.DB, event *models.Event, count int) error
	Delete(ctx context.Context, tx *gorm.DB, id string) (int64, error)
	GetDB() *gorm.DB
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *eventRepository) Create(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	return conn(r.db, tx).WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*models.Event, error) {
	var event models.Event
	if err := conn(r.db, tx).WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDForUpdate acquires a row-level lock on the event within the given transaction.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Event, error) {
	var event models.Event
	if err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, tx *gorm.DB) ([]models.Event, error) {
	var events []models.Event
	if err := conn(r.db, tx).WithContext(ctx).Order("starts_at ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateAttendeeCount writes count only if the event still has the version it
// was read with, and bumps the version. On success event reflects the new row.
func (r *eventRepository) UpdateAttendeeCount(ctx context.Context, tx *gorm.DB, event *models.Event, count int) error {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND version = ?", event.ID, event.Version).
		Updates(map[string]any{
			"attendee_count": count,
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleVersion
	}
	event.AttendeeCount = count
	event.Version++
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, tx *gorm.DB, id string) (int64, error) {
	result := conn(r.db, tx).WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
