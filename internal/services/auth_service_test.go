package services

import (
	"testing"
	"time"

	"github.com/play-builder/layer-x-forum/internal/models"
	"github.com/play-builder/layer-x-forum/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")

	user, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.False(t, user.IsEmailVerified)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, utils.CheckPasswordHash("password123", user.Password))

	// The stored token is a hash, never the raw value.
	var stored models.User
	require.NoError(t, gdb.First(&stored, user.ID).Error)
	assert.Len(t, stored.EmailVerificationToken, 64)
	require.NotNil(t, stored.EmailVerificationExpires)
	assert.True(t, stored.EmailVerificationExpires.After(time.Now()))
}

func TestRegisterValidation(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")

	var fieldErrs FieldErrors
	_, err := svc.Register(RegisterInput{Email: "not-an-email", Username: "ab", Password: "short"})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "username")
	assert.Contains(t, fieldErrs, "password")
}

func TestRegisterDuplicates(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")
	seedUser(t, gdb, "alice")

	var fieldErrs FieldErrors
	_, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "username")
}

func TestLogin(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")
	seedUser(t, gdb, "alice")

	user, token, err := svc.Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login("", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyEmail(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")
	user := seedUser(t, gdb, "alice")

	token := user.GenerateEmailVerificationToken()
	require.NoError(t, gdb.Save(user).Error)

	assert.ErrorIs(t, svc.VerifyEmail(""), ErrInvalidToken)
	assert.ErrorIs(t, svc.VerifyEmail("bogus"), ErrInvalidToken)

	require.NoError(t, svc.VerifyEmail(token))

	var stored models.User
	require.NoError(t, gdb.First(&stored, user.ID).Error)
	assert.True(t, stored.IsEmailVerified)
	assert.Empty(t, stored.EmailVerificationToken)

	// The token is single-use.
	assert.ErrorIs(t, svc.VerifyEmail(token), ErrInvalidToken)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")
	user := seedUser(t, gdb, "alice")

	token := user.GenerateEmailVerificationToken()
	expired := time.Now().Add(-time.Minute)
	user.EmailVerificationExpires = &expired
	require.NoError(t, gdb.Save(user).Error)

	assert.ErrorIs(t, svc.VerifyEmail(token), ErrInvalidToken)
}

func TestForgotPasswordSilentForUnknownEmail(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")

	assert.NoError(t, svc.ForgotPassword("ghost@example.com"))
}

func TestForgotPasswordRollsBackTokenWhenMailFails(t *testing.T) {
	gdb := newTestDB(t)

	// An enabled mail service pointing at a dead relay: the send fails and
	// the freshly stored token must not stay live.
	t.Setenv("SMTP_HOST", "127.0.0.1")
	t.Setenv("SMTP_PORT", "1")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("SMTP_FROM", "noreply@example.com")
	svc := NewAuthService(gdb, NewMailService(), "test-secret")

	user := seedUser(t, gdb, "alice")
	require.Error(t, svc.ForgotPassword(user.Email))

	var stored models.User
	require.NoError(t, gdb.First(&stored, user.ID).Error)
	assert.Empty(t, stored.PasswordResetToken)
	assert.Nil(t, stored.PasswordResetExpires)
}

func TestResetPassword(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")
	user := seedUser(t, gdb, "alice")

	token := user.GeneratePasswordResetToken()
	require.NoError(t, gdb.Save(user).Error)

	err := svc.ResetPassword(token, "newpassword", "different")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.ResetPassword(token, "short", "short")
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, svc.ResetPassword("bogus", "newpassword", "newpassword"), ErrInvalidToken)

	require.NoError(t, svc.ResetPassword(token, "newpassword", "newpassword"))

	_, _, err = svc.Login("alice", "newpassword")
	require.NoError(t, err)
	_, _, err = svc.Login("alice", "password123")
	assert.ErrorIs(t, err, ErrBadCredentials)

	// Consumed on success.
	assert.ErrorIs(t, svc.ResetPassword(token, "another-one", "another-one"), ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewAuthService(gdb, NewMailService(), "test-secret")
	user := seedUser(t, gdb, "alice")

	err := svc.ChangePassword(user, "wrong", "newpassword", "newpassword")
	assert.ErrorIs(t, err, ErrBadCredentials)

	err = svc.ChangePassword(user, "password123", "newpassword", "mismatch")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.ChangePassword(user, "password123", "newpassword", "newpassword"))

	_, _, err = svc.Login("alice", "newpassword")
	require.NoError(t, err)
}
