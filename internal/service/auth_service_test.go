package service

import (
	"edu_center_backend/internal/config"
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	repos := newTestRepos(db)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-for-unit-tests-only!"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repos.user, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{
		Name:     "New Student",
		Email:    "signup@test.dev",
		Password: "plain-password",
		Role:     model.Student,
	}
	require.NoError(t, svc.Register(user))
	assert.NotEqual(t, "plain-password", user.Password)

	token, logged, err := svc.Login("signup@test.dev", "plain-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := util.ParseJWT(token, "test-secret-for-unit-tests-only!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	first := &model.User{Name: "A", Email: "dup@test.dev", Password: "pw", Role: model.Student}
	require.NoError(t, svc.Register(first))

	second := &model.User{Name: "B", Email: "dup@test.dev", Password: "pw", Role: model.Student}
	assert.ErrorIs(t, svc.Register(second), util.ErrEmailRegistered)
}

func TestLogin_Rejections(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "C", Email: "locked@test.dev", Password: "correct", Role: model.Student}
	require.NoError(t, svc.Register(user))

	_, _, err := svc.Login("locked@test.dev", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@test.dev", "correct")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", user.ID).Update("disabled", true).Error)
	_, _, err = svc.Login("locked@test.dev", "correct")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
