package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/play-builder/layer-x-forum/internal/models"
	"github.com/play-builder/layer-x-forum/internal/utils"

	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthService struct {
	db        *gorm.DB
	mail      *MailService
	jwtSecret []byte
	jwtExpire time.Duration
}

func NewAuthService(gdb *gorm.DB, mail *MailService, secret string) *AuthService {
	return &AuthService{
		db:        gdb,
		mail:      mail,
		jwtSecret: []byte(secret),
		jwtExpire: 7 * 24 * time.Hour,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates the account and sends the verification mail. A mail
// failure does not fail registration; the token can be resent.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	fieldErrs := FieldErrors{}
	if !emailPattern.MatchString(in.Email) {
		fieldErrs["email"] = "Email address is invalid"
	}
	if len(in.Username) < 3 {
		fieldErrs["username"] = "Username must be at least 3 characters"
	}
	if len(in.Password) < 6 {
		fieldErrs["password"] = "Password must be at least 6 characters"
	}
	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if count > 0 {
		fieldErrs["email"] = "Email address is already in use"
	}
	if err := s.db.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if count > 0 {
		fieldErrs["username"] = "Username is already taken"
	}
	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: hash,
	}
	token := user.GenerateEmailVerificationToken()

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	go func() {
		if err := s.mail.SendVerificationEmail(user.Email, user.Username, token); err != nil {
			log.Printf("Failed to send verification email to %s: %v", user.Email, err)
		}
	}()

	return &user, nil
}

// VerifyEmail marks the account verified when the raw token's hash matches
// an unexpired stored token.
func (s *AuthService) VerifyEmail(token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	var user models.User
	err := s.db.Where("email_verification_token = ?", models.HashToken(token)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("looking up verification token: %w", err)
	}
	if user.EmailVerificationExpires != nil && user.EmailVerificationExpires.Before(time.Now()) {
		return ErrInvalidToken
	}

	updates := map[string]interface{}{
		"is_email_verified":          true,
		"email_verification_token":   "",
		"email_verification_expires": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("marking email verified: %w", err)
	}
	return nil
}

func (s *AuthService) ResendVerification(email string) error {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTargetNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user.IsEmailVerified {
		return FieldErrors{"email": "Email is already verified"}
	}

	token := user.GenerateEmailVerificationToken()
	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("saving verification token: %w", err)
	}
	return s.mail.SendVerificationEmail(user.Email, user.Username, token)
}

// Login checks the credentials and returns the user with a signed JWT.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	fieldErrs := FieldErrors{}
	if username == "" {
		fieldErrs["username"] = "Username must not be empty"
	}
	if password == "" {
		fieldErrs["password"] = "Password must not be empty"
	}
	if fieldErrs.Any() {
		return nil, "", fieldErrs
	}

	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrBadCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrBadCredentials
	}

	token, err := s.signToken(user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("signing token: %w", err)
	}
	return &user, token, nil
}

func (s *AuthService) signToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(s.jwtExpire).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ForgotPassword issues a reset token and mails it. It succeeds silently for
// unknown addresses so the endpoint cannot be used to enumerate accounts. If
// the mail fails, the token is rolled back.
func (s *AuthService) ForgotPassword(email string) error {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}

	token := user.GeneratePasswordResetToken()
	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("saving reset token: %w", err)
	}

	if err := s.mail.SendPasswordResetEmail(user.Email, user.Username, token); err != nil {
		rollback := s.db.Model(&user).Updates(map[string]interface{}{
			"password_reset_token":   "",
			"password_reset_expires": nil,
		})
		if rollback.Error != nil {
			log.Printf("Failed to roll back reset token for %s: %v", user.Email, rollback.Error)
		}
		return fmt.Errorf("sending reset email: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(token, password, confirmPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}
	if password != confirmPassword {
		return FieldErrors{"confirmPassword": "Passwords do not match"}
	}
	if len(password) < 6 {
		return FieldErrors{"password": "Password must be at least 6 characters"}
	}

	var user models.User
	err := s.db.Where("password_reset_token = ?", models.HashToken(token)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("looking up reset token: %w", err)
	}
	if user.PasswordResetExpires != nil && user.PasswordResetExpires.Before(time.Now()) {
		return ErrInvalidToken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	updates := map[string]interface{}{
		"password":               hash,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

func (s *AuthService) ChangePassword(user *models.User, current, newPassword, confirmPassword string) error {
	if !utils.CheckPasswordHash(current, user.Password) {
		return ErrBadCredentials
	}
	if newPassword != confirmPassword {
		return FieldErrors{"confirmPassword": "Passwords do not match"}
	}
	if len(newPassword) < 6 {
		return FieldErrors{"password": "Password must be at least 6 characters"}
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.db.Model(user).Update("password", hash).Error; err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}
