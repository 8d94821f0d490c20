package models

import (
	"time"
)

// Vote values. A stored vote is always up or down; "no vote" is the absence
// of a row, and VoteNone only appears in requests as the toggle-off signal.
const (
	VoteUp   = 1
	VoteDown = -1
	VoteNone = 0
)

// Vote targets exactly one of a post or a comment. The composite unique
// indexes enforce one row per (username, target); NULL target columns never
// collide, so each index constrains only its own target kind.
type Vote struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"-"`
	Username  string `gorm:"not null;uniqueIndex:idx_votes_user_post;uniqueIndex:idx_votes_user_comment" json:"username"`
	PostID    *uint  `gorm:"uniqueIndex:idx_votes_user_post" json:"postId,omitempty"`
	CommentID *uint  `gorm:"uniqueIndex:idx_votes_user_comment" json:"commentId,omitempty"`
	Value     int    `gorm:"not null" json:"value"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsValidVoteValue reports whether v is acceptable in a cast-vote request.
func IsValidVoteValue(v int) bool {
	return v == VoteUp || v == VoteDown || v == VoteNone
}

func tallyVotes(votes []Vote) int {
	score := 0
	for _, v := range votes {
		score += v.Value
	}
	return score
}

func userVote(votes []Vote, viewer string) int {
	if viewer == "" {
		return VoteNone
	}
	for _, v := range votes {
		if v.Username == viewer {
			return v.Value
		}
	}
	return VoteNone
}
