package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/play-builder/layer-x-forum/internal/models"

	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

func (s *CommentService) Get(viewer, identifier string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.
		Preload("Votes").
		Preload("Post").
		Where("identifier = ?", identifier).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("loading comment: %w", err)
	}

	comment.Annotate(viewer)
	if comment.Post != nil {
		comment.Post.Annotate(viewer)
	}
	return &comment, nil
}

func (s *CommentService) Update(user *models.User, identifier, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, FieldErrors{"body": "Body must not be empty"}
	}

	var comment models.Comment
	if err := s.db.Preload("Votes").Where("identifier = ?", identifier).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("loading comment: %w", err)
	}

	if comment.Username != user.Username {
		return nil, ErrForbidden
	}

	comment.Body = body
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, fmt.Errorf("updating comment: %w", err)
	}

	comment.Annotate(user.Username)
	return &comment, nil
}

// Delete removes the comment's votes and then the comment itself, atomically.
func (s *CommentService) Delete(user *models.User, identifier string) error {
	var comment models.Comment
	if err := s.db.Where("identifier = ?", identifier).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return fmt.Errorf("loading comment: %w", err)
	}

	if comment.Username != user.Username {
		return ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}
