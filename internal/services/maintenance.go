package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartMaintenance schedules the recurring cleanup jobs and returns the
// running scheduler so the caller can Stop it on shutdown.
func StartMaintenance(gdb *gorm.DB) *cron.Cron {
	c := cron.New()
	c.AddFunc("@hourly", func() {
		purgeExpiredTokens(gdb)
	})
	c.Start()
	return c
}

// purgeExpiredTokens clears verification and reset tokens whose expiry has
// passed. Expired tokens are already rejected on use; this keeps dead hashes
// out of the users table.
func purgeExpiredTokens(gdb *gorm.DB) {
	now := time.Now()

	res := gdb.Table("users").
		Where("email_verification_expires IS NOT NULL AND email_verification_expires < ?", now).
		Updates(map[string]interface{}{
			"email_verification_token":   "",
			"email_verification_expires": nil,
		})
	if res.Error != nil {
		log.Printf("Failed to purge expired verification tokens: %v", res.Error)
	}

	res = gdb.Table("users").
		Where("password_reset_expires IS NOT NULL AND password_reset_expires < ?", now).
		Updates(map[string]interface{}{
			"password_reset_token":   "",
			"password_reset_expires": nil,
		})
	if res.Error != nil {
		log.Printf("Failed to purge expired reset tokens: %v", res.Error)
	}
}
