// Package seed provides helpers to create demo data for development
// databases. Not intended for production use.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"murmur/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures how much data the seeder creates.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with plausible demo content.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Order matters: children first.
func (s *Seeder) ClearAll() error {
	tables := []string{"reactions", "post_tags", "replies", "comments", "posts", "tags", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("cleared existing data")
	return nil
}

// Run seeds users, tags, posts and a mesh of comments, replies and
// reactions on top.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	tags, err := s.seedTags(users)
	if err != nil {
		return err
	}
	posts, err := s.seedPosts(users, tags, opts.NumPosts)
	if err != nil {
		return err
	}
	if err := s.seedEngagement(users, posts); err != nil {
		return err
	}

	log.Printf("seeded %d users, %d tags, %d posts", len(users), len(tags), len(posts))
	return nil
}

// seedUsers creates accounts. Every seeded user has the password
// "password123!".
func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:        fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			PasswordHash: string(hash),
			Bio:          gofakeit.Sentence(8),
			IsActive:     true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedTags(users []*models.User) ([]*models.Tag, error) {
	names := []string{
		"golang", "music", "travel", "food", "gaming",
		"fitness", "books", "movies", "science", "art",
	}
	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		tag := &models.Tag{
			Name:        name,
			Description: gofakeit.Sentence(6),
			CreatorID:   users[s.rng.Intn(len(users))].ID,
			Status:      models.TagStatusActive,
		}
		if err := s.db.Create(tag).Error; err != nil {
			return nil, fmt.Errorf("creating tag %s: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Seeder) seedPosts(users []*models.User, tags []*models.Tag, n int) ([]*models.Post, error) {
	statuses := []string{
		models.PostStatusActive, models.PostStatusActive, models.PostStatusActive,
		models.PostStatusDraft, models.PostStatusArchived,
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		post := &models.Post{
			AuthorID:  author.ID,
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
			Status:    statuses[s.rng.Intn(len(statuses))],
			CreatedAt: time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour),
		}
		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("creating post: %w", err)
		}

		for _, tag := range s.pickTags(tags) {
			link := &models.PostTag{PostID: post.ID, TagID: tag.ID}
			if err := s.db.Create(link).Error; err != nil {
				return nil, err
			}
			if err := s.db.Model(tag).
				UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error; err != nil {
				return nil, err
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) pickTags(tags []*models.Tag) []*models.Tag {
	count := s.rng.Intn(3)
	picked := make([]*models.Tag, 0, count)
	seen := map[string]bool{}
	for len(picked) < count {
		tag := tags[s.rng.Intn(len(tags))]
		if !seen[tag.ID] {
			seen[tag.ID] = true
			picked = append(picked, tag)
		}
	}
	return picked
}

// seedEngagement adds comments, replies and reactions to ACTIVE posts.
func (s *Seeder) seedEngagement(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		if post.Status != models.PostStatusActive {
			continue
		}

		commentCount := s.rng.Intn(5)
		for i := 0; i < commentCount; i++ {
			author := users[s.rng.Intn(len(users))]
			comment := &models.Comment{
				PostID:   post.ID,
				AuthorID: author.ID,
				Content:  gofakeit.Sentence(12),
				Status:   models.CommentStatusActive,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}

			replyCount := s.rng.Intn(3)
			for j := 0; j < replyCount; j++ {
				reply := &models.Reply{
					CommentID: comment.ID,
					AuthorID:  users[s.rng.Intn(len(users))].ID,
					Content:   gofakeit.Sentence(8),
					Status:    models.ReplyStatusActive,
				}
				if err := s.db.Create(reply).Error; err != nil {
					return err
				}
			}
		}
		if err := s.db.Model(post).
			UpdateColumn("comments_count", commentCount).Error; err != nil {
			return err
		}

		// a handful of reactions per post from distinct users
		reactors := s.rng.Intn(len(users)/2 + 1)
		likes, dislikes := 0, 0
		for i := 0; i < reactors; i++ {
			kind := models.ReactionLike
			if s.rng.Intn(4) == 0 {
				kind = models.ReactionDislike
				dislikes++
			} else {
				likes++
			}
			reaction := &models.Reaction{
				UserID:     users[i].ID,
				TargetID:   post.ID,
				TargetType: models.TargetPost,
				Type:       kind,
			}
			if err := s.db.Create(reaction).Error; err != nil {
				return err
			}
		}
		if err := s.db.Model(post).UpdateColumns(map[string]interface{}{
			"likes_count":    likes,
			"dislikes_count": dislikes,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
