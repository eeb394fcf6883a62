package service

import (
	"context"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author")

	t.Run("creates in draft", func(t *testing.T) {
		post, err := env.posts.CreatePost(ctx, CreatePostInput{
			AuthorID: author.ID,
			Title:    "First post",
			Content:  "hello",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusDraft, post.Status)
		assert.Equal(t, author.ID, post.AuthorID)
		assert.NotEmpty(t, post.ID)
	})

	t.Run("requires title and content", func(t *testing.T) {
		_, err := env.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Content: "x"})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

		_, err = env.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Title: "x"})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("rejects unknown tags", func(t *testing.T) {
		_, err := env.posts.CreatePost(ctx, CreatePostInput{
			AuthorID: author.ID,
			Title:    "Tagged",
			Content:  "x",
			TagIDs:   []string{"missing-tag"},
		})
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
		assert.Contains(t, err.Error(), "not found or not active")
	})

	t.Run("rejects archived tags", func(t *testing.T) {
		tag, err := env.tags.CreateTag(ctx, CreateTagInput{CreatorID: author.ID, Name: "old-news"})
		require.NoError(t, err)
		_, err = env.tags.ArchiveTag(ctx, tag.ID, author.ID)
		require.NoError(t, err)

		_, err = env.posts.CreatePost(ctx, CreatePostInput{
			AuthorID: author.ID,
			Title:    "Tagged",
			Content:  "x",
			TagIDs:   []string{tag.ID},
		})
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	})

	t.Run("links active tags and counts usage", func(t *testing.T) {
		tag, err := env.tags.CreateTag(ctx, CreateTagInput{CreatorID: author.ID, Name: "fresh"})
		require.NoError(t, err)

		post, err := env.posts.CreatePost(ctx, CreatePostInput{
			AuthorID: author.ID,
			Title:    "Tagged",
			Content:  "x",
			TagIDs:   []string{tag.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{tag.ID}, post.TagIDs)
		assert.Equal(t, 1, env.loadTag(t, tag.ID).UsageCount)
	})
}

func TestPostService_GetPost_DraftVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	other := env.createUser(t, "bob")

	post, err := env.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID, Title: "Draft", Content: "secret",
	})
	require.NoError(t, err)

	t.Run("anonymous gets unauthorized", func(t *testing.T) {
		_, err := env.posts.GetPost(ctx, post.ID, "")
		assert.Equal(t, "UNAUTHORIZED", appCode(t, err))
	})

	t.Run("other user gets forbidden", func(t *testing.T) {
		_, err := env.posts.GetPost(ctx, post.ID, other.ID)
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})

	t.Run("author can read own draft", func(t *testing.T) {
		got, err := env.posts.GetPost(ctx, post.ID, author.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("everyone after activation", func(t *testing.T) {
		_, err := env.posts.ActivatePost(ctx, post.ID, author.ID)
		require.NoError(t, err)

		got, err := env.posts.GetPost(ctx, post.ID, other.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusActive, got.Status)

		got, err = env.posts.GetPost(ctx, post.ID, "")
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := env.posts.GetPost(ctx, "nope", author.ID)
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	})
}

func TestPostService_GetPost_RefreshesCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	fan := env.createUser(t, "bob")

	post, err := env.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID, Title: "Counted", Content: "x",
	})
	require.NoError(t, err)
	_, err = env.posts.ActivatePost(ctx, post.ID, author.ID)
	require.NoError(t, err)

	_, _, err = env.reactions.React(ctx, ReactInput{
		ActorID: fan.ID, TargetType: models.TargetPost, TargetID: post.ID, Type: models.ReactionLike,
	})
	require.NoError(t, err)
	_, err = env.comments.CreateComment(ctx, CreateCommentInput{
		PostID: post.ID, AuthorID: fan.ID, Content: "nice",
	})
	require.NoError(t, err)

	// Skew the stored counters; a read must recompute them.
	require.NoError(t, env.db.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumns(map[string]interface{}{"likes_count": 99, "comments_count": 99}).Error)

	got, err := env.posts.GetPost(ctx, post.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)
	assert.Equal(t, 0, got.DislikesCount)
}

func TestPostService_ListPosts_Visibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	mkPost := func(author *models.User, title, status string) *models.Post {
		post, err := env.posts.CreatePost(ctx, CreatePostInput{
			AuthorID: author.ID, Title: title, Content: "x",
		})
		require.NoError(t, err)
		if status != models.PostStatusDraft {
			_, err = env.posts.ActivatePost(ctx, post.ID, author.ID)
			require.NoError(t, err)
		}
		if status == models.PostStatusArchived {
			_, err = env.posts.ArchivePost(ctx, post.ID, author.ID)
			require.NoError(t, err)
		}
		return post
	}

	mkPost(alice, "alice draft", models.PostStatusDraft)
	mkPost(alice, "alice active", models.PostStatusActive)
	mkPost(bob, "bob draft", models.PostStatusDraft)
	mkPost(bob, "bob active", models.PostStatusActive)
	mkPost(bob, "bob archived", models.PostStatusArchived)

	titles := func(posts []*models.Post) []string {
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.Title)
		}
		return out
	}

	t.Run("own author filter shows all statuses", func(t *testing.T) {
		posts, err := env.posts.ListPosts(ctx, ListPostsInput{ViewerID: alice.ID, AuthorID: alice.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice draft", "alice active"}, titles(posts))
	})

	t.Run("foreign author filter hides drafts", func(t *testing.T) {
		posts, err := env.posts.ListPosts(ctx, ListPostsInput{ViewerID: alice.ID, AuthorID: bob.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"bob active", "bob archived"}, titles(posts))
	})

	t.Run("no filter unions own and public", func(t *testing.T) {
		posts, err := env.posts.ListPosts(ctx, ListPostsInput{ViewerID: alice.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"alice draft", "alice active", "bob active", "bob archived"},
			titles(posts))
	})

	t.Run("anonymous sees only public", func(t *testing.T) {
		posts, err := env.posts.ListPosts(ctx, ListPostsInput{})
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"alice active", "bob active", "bob archived"},
			titles(posts))
	})

	t.Run("status filter applies", func(t *testing.T) {
		posts, err := env.posts.ListPosts(ctx, ListPostsInput{
			ViewerID: bob.ID, AuthorID: bob.ID, Status: models.PostStatusDraft,
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"bob draft"}, titles(posts))
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := env.posts.ListPosts(ctx, ListPostsInput{Status: "BOGUS"})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	other := env.createUser(t, "bob")

	post, err := env.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID, Title: "Original", Content: "v1",
	})
	require.NoError(t, err)

	t.Run("author edits draft", func(t *testing.T) {
		got, err := env.posts.UpdatePost(ctx, UpdatePostInput{
			PostID: post.ID, ActorID: author.ID, Title: "Edited",
		})
		require.NoError(t, err)
		assert.Equal(t, "Edited", got.Title)
		assert.Equal(t, "v1", got.Content)
	})

	t.Run("non-author forbidden", func(t *testing.T) {
		_, err := env.posts.UpdatePost(ctx, UpdatePostInput{
			PostID: post.ID, ActorID: other.ID, Title: "Hijack",
		})
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})

	t.Run("active post not editable", func(t *testing.T) {
		_, err := env.posts.ActivatePost(ctx, post.ID, author.ID)
		require.NoError(t, err)

		_, err = env.posts.UpdatePost(ctx, UpdatePostInput{
			PostID: post.ID, ActorID: author.ID, Title: "Nope",
		})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("modifying post editable again", func(t *testing.T) {
		_, err := env.posts.ModifyPost(ctx, post.ID, author.ID)
		require.NoError(t, err)

		got, err := env.posts.UpdatePost(ctx, UpdatePostInput{
			PostID: post.ID, ActorID: author.ID, Content: "v2",
		})
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Content)
	})
}

func TestPostService_UpdatePost_TagDiff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")

	tagA, err := env.tags.CreateTag(ctx, CreateTagInput{CreatorID: author.ID, Name: "a"})
	require.NoError(t, err)
	tagB, err := env.tags.CreateTag(ctx, CreateTagInput{CreatorID: author.ID, Name: "b"})
	require.NoError(t, err)

	post, err := env.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID, Title: "Tagged", Content: "x", TagIDs: []string{tagA.ID},
	})
	require.NoError(t, err)
	require.Equal(t, 1, env.loadTag(t, tagA.ID).UsageCount)

	got, err := env.posts.UpdatePost(ctx, UpdatePostInput{
		PostID: post.ID, ActorID: author.ID,
		TagIDs: []string{tagB.ID}, TagIDsSet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{tagB.ID}, got.TagIDs)
	assert.Equal(t, 0, env.loadTag(t, tagA.ID).UsageCount)
	assert.Equal(t, 1, env.loadTag(t, tagB.ID).UsageCount)

	// clearing the set decrements the remaining tag
	_, err = env.posts.UpdatePost(ctx, UpdatePostInput{
		PostID: post.ID, ActorID: author.ID,
		TagIDs: []string{}, TagIDsSet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, env.loadTag(t, tagB.ID).UsageCount)
}

func TestPostService_Transitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")

	post, err := env.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID, Title: "Lifecycle", Content: "x",
	})
	require.NoError(t, err)

	got, err := env.posts.ActivatePost(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusActive, got.Status)

	got, err = env.posts.ModifyPost(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusModifying, got.Status)

	got, err = env.posts.ArchivePost(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusArchived, got.Status)

	t.Run("archived is terminal", func(t *testing.T) {
		_, err := env.posts.ActivatePost(ctx, post.ID, author.ID)
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

		_, err = env.posts.ModifyPost(ctx, post.ID, author.ID)
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

		_, err = env.posts.ArchivePost(ctx, post.ID, author.ID)
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("only the author transitions", func(t *testing.T) {
		other := env.createUser(t, "bob")
		fresh, err := env.posts.CreatePost(ctx, CreatePostInput{
			AuthorID: author.ID, Title: "Mine", Content: "x",
		})
		require.NoError(t, err)

		_, err = env.posts.ActivatePost(ctx, fresh.ID, other.ID)
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})
}

func TestPostService_DeleteCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	commenter := env.createUser(t, "bob")

	tag, err := env.tags.CreateTag(ctx, CreateTagInput{CreatorID: author.ID, Name: "doomed"})
	require.NoError(t, err)

	post, err := env.posts.CreatePost(ctx, CreatePostInput{
		AuthorID: author.ID, Title: "Doomed", Content: "x", TagIDs: []string{tag.ID},
	})
	require.NoError(t, err)
	_, err = env.posts.ActivatePost(ctx, post.ID, author.ID)
	require.NoError(t, err)

	// two comments, three replies total
	var commentIDs []string
	for i := 0; i < 2; i++ {
		comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
			PostID: post.ID, AuthorID: commenter.ID, Content: "c",
		})
		require.NoError(t, err)
		commentIDs = append(commentIDs, comment.ID)
	}
	for i := 0; i < 3; i++ {
		_, err := env.replies.CreateReply(ctx, CreateReplyInput{
			PostID: post.ID, CommentID: commentIDs[i%2], AuthorID: commenter.ID, Content: "r",
		})
		require.NoError(t, err)
	}

	t.Run("non-author cannot delete", func(t *testing.T) {
		err := env.posts.DeletePost(ctx, post.ID, commenter.ID)
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})

	require.NoError(t, env.posts.DeletePost(ctx, post.ID, author.ID))

	var count int64
	env.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	assert.Zero(t, count)
	env.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Zero(t, count)
	env.db.Model(&models.Reply{}).Where("comment_id IN ?", commentIDs).Count(&count)
	assert.Zero(t, count)
	env.db.Model(&models.PostTag{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Zero(t, count)

	_, err = env.posts.GetPost(ctx, post.ID, author.ID)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))
}
