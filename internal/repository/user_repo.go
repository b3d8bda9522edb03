package repository

import (
	"context"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	UpdateProfile(ctx context.Context, tx *gorm.DB, user *models.User) error
	UpdateRole(ctx context.Context, tx *gorm.DB, id string, role models.Role) error
	FindByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	FindAll(ctx context.Context, tx *gorm.DB, role *models.Role) ([]models.User, error)
	GetDB() *gorm.DB
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return conn(r.db, tx).WithContext(ctx).Create(user).Error
}

func (r *userRepository) UpdateProfile(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(user).
		Select("name", "email", "updated_at").
		Updates(user).Error
}

func (r *userRepository) UpdateRole(ctx context.Context, tx *gorm.DB, id string, role models.Role) error {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := conn(r.db, tx).WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := conn(r.db, tx).WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll lists users ordered by name, optionally restricted to one role.
func (r *userRepository) FindAll(ctx context.Context, tx *gorm.DB, role *models.Role) ([]models.User, error) {
	var users []models.User
	q := conn(r.db, tx).WithContext(ctx)
	if role != nil {
		q = q.Where("role = ?", *role)
	}
	if err := q.Order("name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
