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

type PostService struct {
	db *gorm.DB
}

func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

type CreatePostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Forum string `json:"forum"`
}

type UpdatePostInput struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (s *PostService) Create(user *models.User, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, FieldErrors{"title": "Title must not be empty"}
	}

	var forum models.Forum
	if err := s.db.Where("name = ?", in.Forum).First(&forum).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("looking up forum: %w", err)
	}

	post := models.Post{
		Identifier: utils.MakeID(8),
		Slug:       utils.Slugify(in.Title),
		Title:      in.Title,
		Body:       in.Body,
		UserID:     user.ID,
		Username:   user.Username,
		ForumID:    forum.ID,
		ForumName:  forum.Name,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	utils.GetCache().Delete(feedCacheKey(0))

	post.Annotate(user.Username)
	return &post, nil
}

func feedCacheKey(page int) string {
	return fmt.Sprintf("posts:feed:page:%d", page)
}

// feedPage is the cached shape of one anonymous feed page.
type feedPage struct {
	posts      []models.Post
	pagination models.Pagination
}

// List returns the global feed, newest first, with votes and comment counts
// loaded for the annotation pass. The anonymous first page is the hottest
// read in the app and is served from the cache between writes.
func (s *PostService) List(viewer string, page, perPage int) ([]models.Post, models.Pagination, error) {
	cacheable := viewer == "" && page == 0
	if cacheable {
		if cached := utils.GetCache().Get(feedCacheKey(page)); cached != nil {
			if fp, ok := cached.(feedPage); ok && fp.pagination.PerPage == perPage {
				return fp.posts, fp.pagination, nil
			}
		}
	}

	var total int64
	if err := s.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("counting posts: %w", err)
	}

	var posts []models.Post
	err := s.db.
		Preload("Forum").
		Preload("Votes").
		Preload("Comments").
		Order("created_at DESC").
		Limit(perPage).
		Offset(page * perPage).
		Find(&posts).Error
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("listing posts: %w", err)
	}

	for i := range posts {
		posts[i].Annotate(viewer)
	}

	pagination := models.NewPagination(page, perPage, total)
	if cacheable {
		utils.GetCache().Set(feedCacheKey(page), feedPage{posts: posts, pagination: pagination}, time.Minute)
	}
	return posts, pagination, nil
}

// Get loads a single post by its public (identifier, slug) key, including
// the sanitized bodyHtml projection.
func (s *PostService) Get(viewer, identifier, slug string) (*models.Post, error) {
	var post models.Post
	err := s.db.
		Preload("Forum").
		Preload("Votes").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.created_at ASC")
		}).
		Preload("Comments.Votes").
		Where("identifier = ? AND slug = ?", identifier, slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("loading post: %w", err)
	}

	post.Annotate(viewer)
	post.BodyHTML = utils.RenderMarkdown(post.Body)
	for i := range post.Comments {
		post.Comments[i].Annotate(viewer)
	}
	return &post, nil
}

func (s *PostService) Update(user *models.User, identifier, slug string, in UpdatePostInput) (*models.Post, error) {
	var post models.Post
	if err := s.db.Where("identifier = ? AND slug = ?", identifier, slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("loading post: %w", err)
	}

	if post.Username != user.Username {
		return nil, ErrForbidden
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, FieldErrors{"title": "Title must not be empty"}
		}
		post.Title = *in.Title
	}
	if in.Body != nil {
		post.Body = *in.Body
	}

	if err := s.db.Save(&post).Error; err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	return s.Get(user.Username, identifier, slug)
}

// Delete removes a post and everything hanging off it in one transaction:
// votes on its comments, the comments, votes on the post, then the post row.
// The order matters; the store has no cascading foreign keys for votes.
func (s *PostService) Delete(user *models.User, identifier, slug string) error {
	var post models.Post
	if err := s.db.Where("identifier = ? AND slug = ?", identifier, slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return fmt.Errorf("loading post: %w", err)
	}

	if post.Username != user.Username {
		return ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", post.ID).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	utils.GetCache().Delete(feedCacheKey(0))
	return nil
}

// Comments returns the paginated comments of a post, newest first.
func (s *PostService) Comments(viewer, identifier, slug string, page, perPage int) ([]models.Comment, models.Pagination, error) {
	var post models.Post
	if err := s.db.Where("identifier = ? AND slug = ?", identifier, slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.Pagination{}, ErrTargetNotFound
		}
		return nil, models.Pagination{}, fmt.Errorf("loading post: %w", err)
	}

	var total int64
	if err := s.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("counting comments: %w", err)
	}

	var comments []models.Comment
	err := s.db.
		Preload("Votes").
		Where("post_id = ?", post.ID).
		Order("created_at DESC").
		Limit(perPage).
		Offset(page * perPage).
		Find(&comments).Error
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("listing comments: %w", err)
	}

	for i := range comments {
		comments[i].Annotate(viewer)
	}
	return comments, models.NewPagination(page, perPage, total), nil
}

func (s *PostService) CreateComment(user *models.User, identifier, slug, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, FieldErrors{"body": "Body must not be empty"}
	}

	var post models.Post
	if err := s.db.Where("identifier = ? AND slug = ?", identifier, slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("loading post: %w", err)
	}

	comment := models.Comment{
		Identifier: utils.MakeID(8),
		Body:       body,
		UserID:     user.ID,
		Username:   user.Username,
		PostID:     post.ID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	comment.Annotate(user.Username)
	return &comment, nil
}
