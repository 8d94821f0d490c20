package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/play-builder/layer-x-forum/internal/models"
	"github.com/play-builder/layer-x-forum/internal/utils"

	"gorm.io/gorm"
)

const topForumsCacheKey = "forums:top"

type ForumService struct {
	db *gorm.DB
}

func NewForumService(gdb *gorm.DB) *ForumService {
	return &ForumService{db: gdb}
}

type CreateForumInput struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create makes a new forum. Name uniqueness is case-insensitive, so "Golang"
// and "golang" are the same forum.
func (s *ForumService) Create(user *models.User, in CreateForumInput) (*models.Forum, error) {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fieldErrs["name"] = "Name must not be empty"
	}
	if strings.TrimSpace(in.Title) == "" {
		fieldErrs["title"] = "Title must not be empty"
	}
	if fieldErrs.Any() {
		return nil, fieldErrs
	}

	var existing models.Forum
	err := s.db.Where("LOWER(name) = ?", strings.ToLower(in.Name)).First(&existing).Error
	if err == nil {
		return nil, ErrNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking forum name: %w", err)
	}

	forum := models.Forum{
		Name:        in.Name,
		Title:       in.Title,
		Description: in.Description,
		UserID:      user.ID,
		Username:    user.Username,
	}
	if err := s.db.Create(&forum).Error; err != nil {
		return nil, fmt.Errorf("creating forum: %w", err)
	}

	utils.GetCache().Delete(topForumsCacheKey)
	return &forum, nil
}

// Get returns a forum with one page of its posts, each annotated for the
// viewer.
func (s *ForumService) Get(viewer, name string, page, perPage int) (*models.Forum, models.Pagination, error) {
	var forum models.Forum
	if err := s.db.Where("name = ?", name).First(&forum).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.Pagination{}, ErrTargetNotFound
		}
		return nil, models.Pagination{}, fmt.Errorf("loading forum: %w", err)
	}

	var total int64
	if err := s.db.Model(&models.Post{}).Where("forum_name = ?", forum.Name).Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("counting posts: %w", err)
	}

	var posts []models.Post
	err := s.db.
		Preload("Votes").
		Preload("Comments").
		Where("forum_name = ?", forum.Name).
		Order("created_at DESC").
		Limit(perPage).
		Offset(page * perPage).
		Find(&posts).Error
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("listing forum posts: %w", err)
	}

	for i := range posts {
		posts[i].Annotate(viewer)
	}
	forum.Posts = posts
	return &forum, models.NewPagination(page, perPage, total), nil
}

func (s *ForumService) List(page, perPage int) ([]models.Forum, models.Pagination, error) {
	var total int64
	if err := s.db.Model(&models.Forum{}).Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("counting forums: %w", err)
	}

	var forums []models.Forum
	err := s.db.
		Order("created_at DESC").
		Limit(perPage).
		Offset(page * perPage).
		Find(&forums).Error
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("listing forums: %w", err)
	}
	return forums, models.NewPagination(page, perPage, total), nil
}

// Top returns the five forums with the most posts. The result is shared by
// every front-page render, so it sits in the cache for a while.
func (s *ForumService) Top() ([]models.TopForum, error) {
	if cached := utils.GetCache().Get(topForumsCacheKey); cached != nil {
		if forums, ok := cached.([]models.TopForum); ok {
			return forums, nil
		}
	}

	var forums []models.TopForum
	err := s.db.Model(&models.Forum{}).
		Select("forums.name, forums.title, forums.image_urn, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.forum_name = forums.name").
		Group("forums.id, forums.name, forums.title, forums.image_urn").
		Order("post_count DESC").
		Limit(5).
		Scan(&forums).Error
	if err != nil {
		return nil, fmt.Errorf("loading top forums: %w", err)
	}

	utils.GetCache().Set(topForumsCacheKey, forums, 5*time.Minute)
	return forums, nil
}

// ImageKind distinguishes the two uploadable forum images.
type ImageKind string

const (
	ImageKindImage  ImageKind = "image"
	ImageKindBanner ImageKind = "banner"
)

// SetImage swaps the stored object name for the forum's image or banner and
// returns the previous one so the caller can remove the orphaned blob.
func (s *ForumService) SetImage(user *models.User, name string, kind ImageKind, objectName string) (*models.Forum, string, error) {
	var forum models.Forum
	if err := s.db.Where("name = ?", name).First(&forum).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTargetNotFound
		}
		return nil, "", fmt.Errorf("loading forum: %w", err)
	}

	if forum.Username != user.Username {
		return nil, "", ErrForbidden
	}

	var old string
	switch kind {
	case ImageKindImage:
		old = forum.ImageURN
		forum.ImageURN = objectName
	case ImageKindBanner:
		old = forum.BannerURN
		forum.BannerURN = objectName
	default:
		return nil, "", FieldErrors{"type": "Type must be image or banner"}
	}

	if err := s.db.Save(&forum).Error; err != nil {
		return nil, "", fmt.Errorf("updating forum image: %w", err)
	}

	utils.GetCache().Delete(topForumsCacheKey)
	return &forum, old, nil
}
