package models

import (
	"time"
)

type Comment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Identifier string `gorm:"uniqueIndex;size:8;not null" json:"identifier"`
	Body       string `gorm:"type:text;not null" json:"body"`
	UserID     uint   `gorm:"not null;index" json:"-"`
	Username   string `gorm:"index;not null" json:"username"`
	PostID     uint   `gorm:"index;not null" json:"postId"`

	Post  *Post  `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Votes []Vote `gorm:"foreignKey:CommentID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	VoteScore int `gorm:"-" json:"voteScore"`
	UserVote  int `gorm:"-" json:"userVote"`
}

// Annotate computes the vote score and the viewer's own vote from the loaded
// vote collection.
func (c *Comment) Annotate(viewer string) {
	c.VoteScore = tallyVotes(c.Votes)
	c.UserVote = userVote(c.Votes, viewer)
}
