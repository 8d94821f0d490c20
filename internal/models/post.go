package models

import (
	"fmt"
	"time"
)

type Post struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Identifier string `gorm:"uniqueIndex;size:8;not null" json:"identifier"`
	Slug       string `gorm:"index;not null" json:"slug"`
	Title      string `gorm:"not null" json:"title"`
	Body       string `gorm:"type:text" json:"body"`
	UserID     uint   `gorm:"not null;index" json:"-"`
	Username   string `gorm:"index;not null" json:"username"`
	ForumID    uint   `gorm:"not null;index" json:"-"`
	ForumName  string `gorm:"index;not null" json:"forumName"`

	Forum    *Forum    `gorm:"foreignKey:ForumID" json:"forum,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Votes    []Vote    `gorm:"foreignKey:PostID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Derived on serialization, never persisted.
	URLPath      string `gorm:"-" json:"url"`
	BodyHTML     string `gorm:"-" json:"bodyHtml,omitempty"`
	CommentCount int    `gorm:"-" json:"commentCount"`
	VoteScore    int    `gorm:"-" json:"voteScore"`
	UserVote     int    `gorm:"-" json:"userVote"`
}

// Annotate fills the derived fields from the loaded vote and comment
// collections. The viewer may be empty for anonymous reads.
func (p *Post) Annotate(viewer string) {
	p.URLPath = fmt.Sprintf("/f/%s/%s/%s", p.ForumName, p.Identifier, p.Slug)
	p.CommentCount = len(p.Comments)
	p.VoteScore = tallyVotes(p.Votes)
	p.UserVote = userVote(p.Votes, viewer)
}
