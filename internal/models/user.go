package models

import (
	"strings"
	"time"

	"github.com/juju/errors"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(128)" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'standard'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) Validate() error {
	if u.ID == "" {
		return errors.NotValidf("empty user id")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.NotValidf("email %q", u.Email)
	}
	if !u.Role.Valid() {
		return errors.NotValidf("role %q", u.Role)
	}
	return nil
}
