package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/app/services"
	"github.com/storelane/storelane/pkg/auth"
	"github.com/storelane/storelane/pkg/errs"
)

func TestSignUpAndSignIn(t *testing.T) {
	db := newTestDB(t)
	authSvc := services.NewAuthService(db)

	require.NoError(t, authSvc.SignUp("Alice", "alice@example.com", "s3cretpass"))

	resp, err := authSvc.SignIn("alice@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Type)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, models.RoleUser, resp.Role)
	assert.NotEmpty(t, resp.Token)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	authSvc := services.NewAuthService(db)

	require.NoError(t, authSvc.SignUp("Alice", "alice@example.com", "s3cretpass"))
	err := authSvc.SignUp("Other Alice", "alice@example.com", "different")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	authSvc := services.NewAuthService(db)

	require.NoError(t, authSvc.SignUp("Alice", "alice@example.com", "s3cretpass"))

	_, err := authSvc.SignIn("alice@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = authSvc.SignIn("nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestPasswordIsStoredHashed(t *testing.T) {
	db := newTestDB(t)
	authSvc := services.NewAuthService(db)

	require.NoError(t, authSvc.SignUp("Alice", "alice@example.com", "s3cretpass"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.NotEqual(t, "s3cretpass", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "s3cretpass"))
}
