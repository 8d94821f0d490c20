package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb)
	user := seedUser(t, gdb, "alice")
	forum := seedForum(t, gdb, user, "golang")
	post := seedPost(t, gdb, user, forum, "A post")
	seedComment(t, gdb, user, post, "a comment")

	public, items, pagination, err := svc.Profile("", "alice", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, "alice", public.Username)
	assert.False(t, public.IsEmailVerified)
	require.Len(t, items, 2)
	assert.EqualValues(t, 2, pagination.Total)

	// Newest first: the comment was created after the post.
	assert.Equal(t, "Comment", items[0].Type)
	require.NotNil(t, items[0].Comment)
	require.NotNil(t, items[0].Comment.Post)
	assert.Equal(t, "Post", items[1].Type)
	require.NotNil(t, items[1].Post)
}

func TestProfilePagination(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb)
	user := seedUser(t, gdb, "alice")
	forum := seedForum(t, gdb, user, "golang")
	for i := 0; i < 3; i++ {
		seedPost(t, gdb, user, forum, "Post "+string(rune('A'+i)))
	}

	_, items, pagination, err := svc.Profile("", "alice", 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.True(t, pagination.HasPrev)
	assert.False(t, pagination.HasNext)

	// A page past the end is empty, not an error.
	_, items, _, err = svc.Profile("", "alice", 9, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProfileUnknownUser(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb)

	_, _, _, err := svc.Profile("", "ghost", 0, 10)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}
