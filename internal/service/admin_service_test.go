package service

import (
	"context"
	"testing"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupByEmail(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "root", models.RoleAdmin)
	f.user(t, "alice", models.RoleStudent)

	user, err := f.admin().LookupByEmail(context.Background(), admin, "  ALICE@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)

	_, err = f.admin().LookupByEmail(context.Background(), admin, "nobody@campus.edu")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdmin_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	faculty := f.user(t, "prof", models.RoleFaculty)

	_, err := f.admin().ListAll(context.Background(), faculty, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.admin().SetRole(context.Background(), faculty, "prof", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "root", models.RoleAdmin)
	f.user(t, "alice", models.RoleStudent)

	user, err := f.admin().SetRole(context.Background(), admin, "alice", models.RoleAlumni)

	require.NoError(t, err)
	assert.Equal(t, models.RoleAlumni, user.Role)
	assert.Equal(t, []string{KeyUserRoleChanged}, f.publisher.Keys())

	_, err = f.admin().SetRole(context.Background(), admin, "alice", "wizard")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = f.admin().SetRole(context.Background(), admin, "ghost", models.RoleFaculty)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListByRoleAndSearch(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "root", models.RoleAdmin)
	f.user(t, "alice", models.RoleStudent)
	f.user(t, "bob", models.RoleStudent)
	f.user(t, "carol", models.RoleFaculty)

	students, err := f.admin().ListByRole(context.Background(), admin, models.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	all, err := f.admin().ListAll(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	found, err := f.admin().ListAll(context.Background(), admin, "CAROL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "carol", found[0].ID)
}

func TestFilterUsers(t *testing.T) {
	users := []models.User{
		{ID: "1", Name: "Straße Müller", Email: "sm@uni.de"},
		{ID: "2", Name: "Ada Lovelace", Email: "ada@uni.edu"},
	}

	assert.Len(t, FilterUsers(users, ""), 2)
	assert.Len(t, FilterUsers(users, "LOVE"), 1)
	assert.Len(t, FilterUsers(users, "uni"), 2)
	assert.Len(t, FilterUsers(users, "müller"), 1)
	assert.Empty(t, FilterUsers(users, "zzz"))
}
