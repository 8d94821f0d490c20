package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/models"
	"github.com/play-builder/layer-x-forum/internal/utils"
	"github.com/stretchr/testify/require"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory database with the full schema,
// including the vote uniqueness indexes.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func seedForum(t *testing.T, gdb *gorm.DB, owner *models.User, name string) *models.Forum {
	t.Helper()
	forum := &models.Forum{
		Name:     name,
		Title:    "The " + name + " forum",
		UserID:   owner.ID,
		Username: owner.Username,
	}
	require.NoError(t, gdb.Create(forum).Error)
	return forum
}

func seedPost(t *testing.T, gdb *gorm.DB, author *models.User, forum *models.Forum, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Identifier: utils.MakeID(8),
		Slug:       utils.Slugify(title),
		Title:      title,
		Body:       "body of " + title,
		UserID:     author.ID,
		Username:   author.Username,
		ForumID:    forum.ID,
		ForumName:  forum.Name,
	}
	require.NoError(t, gdb.Create(post).Error)
	return post
}

func seedComment(t *testing.T, gdb *gorm.DB, author *models.User, post *models.Post, body string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Identifier: utils.MakeID(8),
		Body:       body,
		UserID:     author.ID,
		Username:   author.Username,
		PostID:     post.ID,
	}
	require.NoError(t, gdb.Create(comment).Error)
	return comment
}

func countVotes(t *testing.T, gdb *gorm.DB, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&models.Vote{}).Where(where, args...).Count(&n).Error)
	return n
}
