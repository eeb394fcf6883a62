package service

import (
	"context"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// activePost creates a user-owned post and activates it.
func activePost(t *testing.T, env *testEnv, author *models.User) *models.Post {
	t.Helper()
	ctx := context.Background()
	post, err := env.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID, Title: "Post", Content: "x",
	})
	require.NoError(t, err)
	_, err = env.posts.ActivatePost(ctx, post.ID, author.ID)
	require.NoError(t, err)
	return post
}

func TestCommentService_CreateComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	commenter := env.createUser(t, "bob")
	post := activePost(t, env, author)

	t.Run("creates active and bumps count", func(t *testing.T) {
		comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
			PostID: post.ID, AuthorID: commenter.ID, Content: "hi",
		})
		require.NoError(t, err)
		assert.Equal(t, models.CommentStatusActive, comment.Status)
		assert.Equal(t, 1, env.loadPost(t, post.ID).CommentsCount)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := env.comments.CreateComment(ctx, CreateCommentInput{
			PostID: "nope", AuthorID: commenter.ID, Content: "hi",
		})
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	})

	t.Run("draft post rejects comments", func(t *testing.T) {
		draft, err := env.posts.CreatePost(ctx, CreatePostInput{
			AuthorID: author.ID, Title: "Draft", Content: "x",
		})
		require.NoError(t, err)

		_, err = env.comments.CreateComment(ctx, CreateCommentInput{
			PostID: draft.ID, AuthorID: commenter.ID, Content: "hi",
		})
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := env.comments.CreateComment(ctx, CreateCommentInput{
			PostID: post.ID, AuthorID: commenter.ID,
		})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})
}

func TestCommentService_CrossPostGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	postA := activePost(t, env, author)
	postB := activePost(t, env, author)

	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
		PostID: postA.ID, AuthorID: author.ID, Content: "on A",
	})
	require.NoError(t, err)

	_, err = env.comments.GetComment(ctx, postB.ID, comment.ID)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
	assert.Contains(t, err.Error(), "not found in this post")

	got, err := env.comments.GetComment(ctx, postA.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, got.ID)
}

func TestCommentService_UpdateAndOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	commenter := env.createUser(t, "bob")
	post := activePost(t, env, author)

	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
		PostID: post.ID, AuthorID: commenter.ID, Content: "v1",
	})
	require.NoError(t, err)

	t.Run("author edits", func(t *testing.T) {
		got, err := env.comments.UpdateComment(ctx, UpdateCommentInput{
			PostID: post.ID, CommentID: comment.ID, ActorID: commenter.ID, Content: "v2",
		})
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Content)
	})

	t.Run("post author cannot edit others' comments", func(t *testing.T) {
		_, err := env.comments.UpdateComment(ctx, UpdateCommentInput{
			PostID: post.ID, CommentID: comment.ID, ActorID: author.ID, Content: "hijack",
		})
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})

	t.Run("post author cannot delete others' comments", func(t *testing.T) {
		err := env.comments.DeleteComment(ctx, post.ID, comment.ID, author.ID)
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})
}

func TestCommentService_DeleteCascadesReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	post := activePost(t, env, author)

	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
		PostID: post.ID, AuthorID: author.ID, Content: "parent",
	})
	require.NoError(t, err)
	require.Equal(t, 1, env.loadPost(t, post.ID).CommentsCount)

	reply, err := env.replies.CreateReply(ctx, CreateReplyInput{
		PostID: post.ID, CommentID: comment.ID, AuthorID: author.ID, Content: "child",
	})
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteComment(ctx, post.ID, comment.ID, author.ID))

	var count int64
	env.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Zero(t, count, "comment row should be hard deleted")
	env.db.Model(&models.Reply{}).Where("id = ?", reply.ID).Count(&count)
	assert.Zero(t, count, "replies should be hard deleted with the comment")
	assert.Equal(t, 0, env.loadPost(t, post.ID).CommentsCount)
}

func TestCommentService_ArchiveActivateToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	post := activePost(t, env, author)

	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
		PostID: post.ID, AuthorID: author.ID, Content: "toggle",
	})
	require.NoError(t, err)

	t.Run("cannot activate an active comment", func(t *testing.T) {
		_, err := env.comments.ActivateComment(ctx, post.ID, comment.ID, author.ID)
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})

	got, err := env.comments.ArchiveComment(ctx, post.ID, comment.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusArchived, got.Status)

	t.Run("cannot archive twice", func(t *testing.T) {
		_, err := env.comments.ArchiveComment(ctx, post.ID, comment.ID, author.ID)
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})

	t.Run("archived comments are not listed", func(t *testing.T) {
		comments, err := env.comments.ListComments(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("archived comments cannot be read", func(t *testing.T) {
		_, err := env.comments.GetComment(ctx, post.ID, comment.ID)
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
		assert.Contains(t, err.Error(), "Comment is not active")
	})

	got, err = env.comments.ActivateComment(ctx, post.ID, comment.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusActive, got.Status)
}
