package models

import (
	"time"
)

type Forum struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	ImageURN    string    `json:"imageUrn"`
	BannerURN   string    `json:"bannerUrn"`
	UserID      uint      `gorm:"not null;index" json:"-"`
	Username    string    `gorm:"index;not null" json:"username"` // owner, denormalized for the auth gate
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Filled per request, not stored.
	Posts     []Post `gorm:"-" json:"posts,omitempty"`
	ImageURL  string `gorm:"-" json:"imageUrl,omitempty"`
	BannerURL string `gorm:"-" json:"bannerUrl,omitempty"`
}

// TopForum is the projection returned by the popular-forums listing.
type TopForum struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	ImageURN  string `json:"imageUrn"`
	ImageURL  string `json:"imageUrl,omitempty"`
	PostCount int64  `json:"postCount"`
}
