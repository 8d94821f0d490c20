package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash

	IsEmailVerified          bool       `gorm:"default:false" json:"isEmailVerified"`
	EmailVerificationToken   string     `gorm:"index" json:"-"` // sha256 hex, never the raw token
	EmailVerificationExpires *time.Time `json:"-"`
	PasswordResetToken       string     `gorm:"index" json:"-"`
	PasswordResetExpires     *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GenerateEmailVerificationToken stores the hashed token on the user and
// returns the raw token for the verification mail. Valid for 24 hours.
func (u *User) GenerateEmailVerificationToken() string {
	token := randomToken()
	expires := time.Now().Add(24 * time.Hour)
	u.EmailVerificationToken = HashToken(token)
	u.EmailVerificationExpires = &expires
	return token
}

// GeneratePasswordResetToken works like the verification token but expires
// after one hour.
func (u *User) GeneratePasswordResetToken() string {
	token := randomToken()
	expires := time.Now().Add(time.Hour)
	u.PasswordResetToken = HashToken(token)
	u.PasswordResetExpires = &expires
	return token
}

// HashToken maps a raw mail token to its stored form.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
