package service

import (
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStudentService(db *gorm.DB) *StudentService {
	return NewStudentService(newTestRepos(db).user)
}

func TestStudentLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newStudentService(db)

	student := &model.User{
		Name:     "Created By Admin",
		Email:    "managed@test.dev",
		Password: "initial",
		Role:     model.Admin, // forced back to student on create
	}
	require.NoError(t, svc.CreateStudent(student))
	assert.Equal(t, model.Student, student.Role)
	assert.NotEqual(t, "initial", student.Password)

	dup := &model.User{Name: "Dup", Email: "managed@test.dev", Password: "pw"}
	assert.ErrorIs(t, svc.CreateStudent(dup), util.ErrEmailRegistered)

	disabled := true
	updated, err := svc.UpdateStudent(student.ID, ProfileUpdate{Name: "Renamed", Phone: "0812"}, &disabled)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "0812", updated.Phone)
	assert.True(t, updated.Disabled)

	listed, total, err := svc.ListStudents(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)

	require.NoError(t, svc.DeleteStudent(student.ID))
	_, err = svc.GetProfile(student.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	assert.ErrorIs(t, svc.DeleteStudent(99999), util.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newStudentService(db)

	student := createStudent(t, db, "profile@test.dev")

	updated, err := svc.UpdateProfile(student.ID, ProfileUpdate{Name: "Self Edit", Address: "Jl. Test 1"})
	require.NoError(t, err)
	assert.Equal(t, "Self Edit", updated.Name)
	assert.Equal(t, "Jl. Test 1", updated.Address)

	_, err = svc.UpdateProfile(99999, ProfileUpdate{Name: "Ghost"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
