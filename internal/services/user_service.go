package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/play-builder/layer-x-forum/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// ProfileItem is one entry of a user's public activity feed: either a post
// or a comment, merged and sorted newest first.
type ProfileItem struct {
	Type      string          `json:"type"`
	Post      *models.Post    `json:"post,omitempty"`
	Comment   *models.Comment `json:"comment,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PublicUser is the reduced user shape exposed on profiles.
type PublicUser struct {
	Username        string    `json:"username"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Profile returns a user's public data with their posts and comments merged
// into one paginated timeline, annotated for the viewer.
func (s *UserService) Profile(viewer, username string, page, perPage int) (*PublicUser, []ProfileItem, models.Pagination, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, models.Pagination{}, ErrTargetNotFound
	}
	if err != nil {
		return nil, nil, models.Pagination{}, fmt.Errorf("loading user: %w", err)
	}

	var posts []models.Post
	err = s.db.
		Preload("Forum").
		Preload("Votes").
		Preload("Comments").
		Where("username = ?", user.Username).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, nil, models.Pagination{}, fmt.Errorf("loading user posts: %w", err)
	}

	var comments []models.Comment
	err = s.db.
		Preload("Post").
		Preload("Votes").
		Where("username = ?", user.Username).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, nil, models.Pagination{}, fmt.Errorf("loading user comments: %w", err)
	}

	items := make([]ProfileItem, 0, len(posts)+len(comments))
	for i := range posts {
		posts[i].Annotate(viewer)
		items = append(items, ProfileItem{Type: "Post", Post: &posts[i], CreatedAt: posts[i].CreatedAt})
	}
	for i := range comments {
		comments[i].Annotate(viewer)
		if comments[i].Post != nil {
			comments[i].Post.Annotate(viewer)
		}
		items = append(items, ProfileItem{Type: "Comment", Comment: &comments[i], CreatedAt: comments[i].CreatedAt})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := int64(len(items))
	start := page * perPage
	if start > len(items) {
		start = len(items)
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	public := &PublicUser{
		Username:        user.Username,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
	}
	return public, items[start:end], models.NewPagination(page, perPage, total), nil
}
