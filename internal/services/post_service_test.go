package services

import (
	"testing"

	"github.com/play-builder/layer-x-forum/internal/models"
	"github.com/play-builder/layer-x-forum/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	user := seedUser(t, gdb, "alice")
	seedForum(t, gdb, user, "golang")

	post, err := svc.Create(user, CreatePostInput{Title: "My First Post", Body: "hello", Forum: "golang"})
	require.NoError(t, err)

	assert.Len(t, post.Identifier, 8)
	assert.Equal(t, "my-first-post", post.Slug)
	assert.Equal(t, "alice", post.Username)
	assert.Equal(t, "golang", post.ForumName)
	assert.Equal(t, "/f/golang/"+post.Identifier+"/my-first-post", post.URLPath)
}

func TestCreatePostValidation(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	user := seedUser(t, gdb, "alice")
	seedForum(t, gdb, user, "golang")

	_, err := svc.Create(user, CreatePostInput{Title: "   ", Forum: "golang"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(user, CreatePostInput{Title: "ok", Forum: "no-such-forum"})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestGetPostAnnotatesForViewer(t *testing.T) {
	gdb := newTestDB(t)
	posts := NewPostService(gdb)
	votes := NewVoteService(gdb)
	author := seedUser(t, gdb, "author")
	viewer := seedUser(t, gdb, "viewer")
	forum := seedForum(t, gdb, author, "golang")
	post := seedPost(t, gdb, author, forum, "Markdown *body*")

	_, err := votes.CastVote(viewer, VoteInput{Identifier: post.Identifier, Slug: post.Slug, Value: 1})
	require.NoError(t, err)

	got, err := posts.Get(viewer.Username, post.Identifier, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, got.VoteScore)
	assert.Equal(t, 1, got.UserVote)
	assert.Contains(t, got.BodyHTML, "<em>body</em>")

	// Anonymous read sees the score but no user vote.
	anon, err := posts.Get("", post.Identifier, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, anon.VoteScore)
	assert.Equal(t, 0, anon.UserVote)
}

func TestUpdatePostOwnership(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	author := seedUser(t, gdb, "author")
	other := seedUser(t, gdb, "other")
	forum := seedForum(t, gdb, author, "golang")
	post := seedPost(t, gdb, author, forum, "Original title")

	newTitle := "Edited title"
	_, err := svc.Update(other, post.Identifier, post.Slug, UpdatePostInput{Title: &newTitle})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(author, post.Identifier, post.Slug, UpdatePostInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Edited title", updated.Title)

	empty := "  "
	_, err = svc.Update(author, post.Identifier, post.Slug, UpdatePostInput{Title: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeletePostCascades(t *testing.T) {
	gdb := newTestDB(t)
	posts := NewPostService(gdb)
	votes := NewVoteService(gdb)
	author := seedUser(t, gdb, "author")
	voter := seedUser(t, gdb, "voter")
	forum := seedForum(t, gdb, author, "golang")
	post := seedPost(t, gdb, author, forum, "Doomed post")
	c1 := seedComment(t, gdb, voter, post, "one")
	c2 := seedComment(t, gdb, author, post, "two")

	in := VoteInput{Identifier: post.Identifier, Slug: post.Slug, Value: 1}
	_, err := votes.CastVote(voter, in)
	require.NoError(t, err)

	in.CommentIdentifier = c1.Identifier
	_, err = votes.CastVote(author, in)
	require.NoError(t, err)

	in.CommentIdentifier = c2.Identifier
	in.Value = -1
	_, err = votes.CastVote(voter, in)
	require.NoError(t, err)

	require.NoError(t, posts.Delete(author, post.Identifier, post.Slug))

	var postCount, commentCount int64
	require.NoError(t, gdb.Model(&models.Post{}).Where("id = ?", post.ID).Count(&postCount).Error)
	require.NoError(t, gdb.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	assert.Zero(t, postCount)
	assert.Zero(t, commentCount)
	assert.Zero(t, countVotes(t, gdb, "post_id = ?", post.ID))
	assert.Zero(t, countVotes(t, gdb, "comment_id IN ?", []uint{c1.ID, c2.ID}))
}

func TestDeletePostNotOwner(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	author := seedUser(t, gdb, "author")
	other := seedUser(t, gdb, "other")
	forum := seedForum(t, gdb, author, "golang")
	post := seedPost(t, gdb, author, forum, "Keep me")

	err := svc.Delete(other, post.Identifier, post.Slug)
	assert.ErrorIs(t, err, ErrForbidden)

	var count int64
	require.NoError(t, gdb.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPostComments(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	author := seedUser(t, gdb, "author")
	forum := seedForum(t, gdb, author, "golang")
	post := seedPost(t, gdb, author, forum, "Discuss")

	_, err := svc.CreateComment(author, post.Identifier, post.Slug, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	comment, err := svc.CreateComment(author, post.Identifier, post.Slug, "well said")
	require.NoError(t, err)
	assert.Len(t, comment.Identifier, 8)
	assert.Equal(t, post.ID, comment.PostID)

	comments, pagination, err := svc.Comments("", post.Identifier, post.Slug, 0, 20)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.EqualValues(t, 1, pagination.Total)
	assert.False(t, pagination.HasNext)
}

func TestListPostsPagination(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	author := seedUser(t, gdb, "author")
	forum := seedForum(t, gdb, author, "golang")
	for i := 0; i < 5; i++ {
		seedPost(t, gdb, author, forum, "Post number "+string(rune('A'+i)))
	}

	utils.GetCache().Delete(feedCacheKey(0))
	t.Cleanup(func() { utils.GetCache().Delete(feedCacheKey(0)) })

	posts, pagination, err := svc.List("", 0, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.EqualValues(t, 5, pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
	assert.False(t, pagination.HasPrev)

	posts, pagination, err = svc.List("", 2, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.False(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)
}

func TestListServesCachedAnonymousFeed(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewPostService(gdb)
	author := seedUser(t, gdb, "author")
	forum := seedForum(t, gdb, author, "golang")
	seedPost(t, gdb, author, forum, "Cached post")

	utils.GetCache().Delete(feedCacheKey(0))
	t.Cleanup(func() { utils.GetCache().Delete(feedCacheKey(0)) })

	posts, _, err := svc.List("", 0, 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// Seeding bypasses the service, so the cached page goes stale until a
	// write through the service invalidates it.
	seedPost(t, gdb, author, forum, "Newer post")
	posts, _, err = svc.List("", 0, 20)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = svc.Create(author, CreatePostInput{Title: "Through the service", Forum: "golang"})
	require.NoError(t, err)
	posts, _, err = svc.List("", 0, 20)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	// Signed-in viewers never hit the cache.
	posts, _, err = svc.List("author", 0, 20)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}
