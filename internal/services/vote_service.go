package services

import (
	"errors"
	"fmt"

	"github.com/play-builder/layer-x-forum/internal/models"

	"gorm.io/gorm"
)

// VoteService owns the vote ledger: one row per (username, target), value
// always +1 or -1, removal modeled as row deletion. Scores are never stored;
// they are summed from the loaded vote collections on every read.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(gdb *gorm.DB) *VoteService {
	return &VoteService{db: gdb}
}

type VoteInput struct {
	Identifier        string `json:"identifier" binding:"required"`
	Slug              string `json:"slug" binding:"required"`
	CommentIdentifier string `json:"commentIdentifier"`
	Value             int    `json:"value"`
}

// CastVote applies one vote action for the voter and returns the fully
// reloaded post, annotated with the voter's own vote on the post and on
// every comment.
//
// Outcomes against the voter's current row for the target:
//
//	no row, value 0      -> ErrNothingToRemove
//	no row, value ±1     -> insert
//	row, value 0         -> delete (toggle-off)
//	row, different value -> update in place (flip)
//	row, same value      -> no-op
func (s *VoteService) CastVote(voter *models.User, in VoteInput) (*models.Post, error) {
	if !models.IsValidVoteValue(in.Value) {
		return nil, ErrInvalidVoteValue
	}

	var post models.Post
	if err := s.db.Where("identifier = ? AND slug = ?", in.Identifier, in.Slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("looking up post: %w", err)
	}

	target := models.Vote{Username: voter.Username, UserID: voter.ID, Value: in.Value}

	if in.CommentIdentifier != "" {
		var comment models.Comment
		err := s.db.Where("identifier = ? AND post_id = ?", in.CommentIdentifier, post.ID).First(&comment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetNotFound
			}
			return nil, fmt.Errorf("looking up comment: %w", err)
		}
		target.CommentID = &comment.ID
	} else {
		target.PostID = &post.ID
	}

	var existing models.Vote
	find := func() error {
		q := s.db.Where("username = ?", voter.Username)
		if target.CommentID != nil {
			q = q.Where("comment_id = ?", *target.CommentID)
		} else {
			q = q.Where("post_id = ?", *target.PostID)
		}
		return q.First(&existing).Error
	}

	err := find()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && in.Value == models.VoteNone:
		return nil, ErrNothingToRemove
	case errors.Is(err, gorm.ErrRecordNotFound):
		if cerr := s.db.Create(&target).Error; cerr != nil {
			// A concurrent cast can win the insert; the unique index turns
			// the loser into an error here. Re-read and flip the winner's
			// row instead.
			if find() != nil {
				return nil, fmt.Errorf("creating vote: %w", cerr)
			}
			if existing.Value != in.Value {
				if uerr := s.db.Model(&existing).Update("value", in.Value).Error; uerr != nil {
					return nil, fmt.Errorf("flipping vote: %w", uerr)
				}
			}
		}
	case err != nil:
		return nil, fmt.Errorf("looking up vote: %w", err)
	case in.Value == models.VoteNone:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, fmt.Errorf("removing vote: %w", err)
		}
	case existing.Value != in.Value:
		if err := s.db.Model(&existing).Update("value", in.Value).Error; err != nil {
			return nil, fmt.Errorf("flipping vote: %w", err)
		}
	}
	// Same value resubmitted: nothing to do, fall through to the reload.

	return s.loadAnnotatedPost(in.Identifier, in.Slug, voter.Username)
}

// loadAnnotatedPost reloads the post with forum, comments and all votes, and
// recomputes the derived view fields for the given viewer.
func (s *VoteService) loadAnnotatedPost(identifier, slug, viewer string) (*models.Post, error) {
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
		return nil, fmt.Errorf("reloading post: %w", err)
	}

	post.Annotate(viewer)
	for i := range post.Comments {
		post.Comments[i].Annotate(viewer)
	}
	return &post, nil
}
