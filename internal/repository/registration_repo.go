package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error
	Find(ctx context.Context, tx *gorm.DB, eventID, userID string) (*models.Registration, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	MarkRedeemed(ctx context.Context, tx *gorm.DB, eventID, userID string, at time.Time) (bool, error)
	ListByEvent(ctx context.Context, tx *gorm.DB, eventID string) ([]models.Registration, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.Registration, error)
	CountByEvent(ctx context.Context, tx *gorm.DB, eventID string) (int64, error)
	DeleteByEvent(ctx context.Context, tx *gorm.DB, eventID string) (int64, error)
	DeleteOrphans(ctx context.Context, tx *gorm.DB) (int64, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	return conn(r.db, tx).WithContext(ctx).Omit("User").Create(reg).Error
}

func (r *registrationRepository) Find(ctx context.Context, tx *gorm.DB, eventID, userID string) (*models.Registration, error) {
	var reg models.Registration
	err := conn(r.db, tx).WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	return conn(r.db, tx).WithContext(ctx).Delete(&models.Registration{}, "id = ?", id).Error
}

// MarkRedeemed flips an unredeemed registration to redeemed. It reports false
// when no unredeemed row matched, i.e. the ticket was already redeemed or the
// registration does not exist.
func (r *registrationRepository) MarkRedeemed(ctx context.Context, tx *gorm.DB, eventID, userID string, at time.Time) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ? AND redeemed = ?", eventID, userID, false).
		Updates(map[string]any{"redeemed": true, "redeemed_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, tx *gorm.DB, eventID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := conn(r.db, tx).WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := conn(r.db, tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) CountByEvent(ctx context.Context, tx *gorm.DB, eventID string) (int64, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *registrationRepository) DeleteByEvent(ctx context.Context, tx *gorm.DB, eventID string) (int64, error) {
	result := conn(r.db, tx).WithContext(ctx).Delete(&models.Registration{}, "event_id = ?", eventID)
	return result.RowsAffected, result.Error
}

// DeleteOrphans removes registrations whose event no longer exists.
func (r *registrationRepository) DeleteOrphans(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := conn(r.db, tx).WithContext(ctx)
	result := db.
		Where("event_id NOT IN (?)", db.Model(&models.Event{}).Select("id")).
		Delete(&models.Registration{})
	return result.RowsAffected, result.Error
}
