package service

import (
	"testing"

	"murmur/internal/database"
	"murmur/internal/models"
	"murmur/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires all services against one in-memory database so tests
// can exercise cross-entity flows end to end.
type testEnv struct {
	db        *gorm.DB
	users     *UserService
	posts     *PostService
	comments  *CommentService
	replies   *ReplyService
	reactions *ReactionService
	tags      *TagService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	tagRepo := repository.NewTagRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	return &testEnv{
		db:        db,
		users:     NewUserService(userRepo),
		posts:     NewPostService(postRepo, tagRepo),
		comments:  NewCommentService(commentRepo, postRepo),
		replies:   NewReplyService(replyRepo, commentRepo, postRepo),
		reactions: NewReactionService(reactionRepo, postRepo, commentRepo, replyRepo, userRepo),
		tags:      NewTagService(tagRepo, postRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) loadPost(t *testing.T, id string) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, e.db.First(&post, "id = ?", id).Error)
	return &post
}

func (e *testEnv) loadTag(t *testing.T, id string) *models.Tag {
	t.Helper()
	var tag models.Tag
	require.NoError(t, e.db.First(&tag, "id = ?", id).Error)
	return &tag
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	return appErr.Code
}
