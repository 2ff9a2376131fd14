// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with generated users, groups, posts,
// comments and follows.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

var defaultGroups = []models.Group{
	{Title: "Travel Notes", Slug: "travel-notes", Description: "Postcards from the road"},
	{Title: "Kitchen Table", Slug: "kitchen-table", Description: "Recipes and food writing"},
	{Title: "Night Reading", Slug: "night-reading", Description: "Books worth losing sleep over"},
	{Title: "City Sketches", Slug: "city-sketches", Description: "Small observations of urban life"},
}

// Groups seeds the built-in groups, skipping ones that already exist.
func (s *Seeder) Groups() ([]models.Group, error) {
	groups := make([]models.Group, 0, len(defaultGroups))
	for _, g := range defaultGroups {
		group := g
		err := s.db.Where(models.Group{Slug: group.Slug}).FirstOrCreate(&group).Error
		if err != nil {
			return nil, fmt.Errorf("seed group %s: %w", group.Slug, err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// Users creates n users with a shared well-known password for local login.
func (s *Seeder) Users(n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("seed%d_%s", i, gofakeit.Email()),
			Password: string(hash),
			Bio:      gofakeit.Sentence(8),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// BuildPost constructs an unsaved post with a realistic created_at spread
// so listings page across several screens of history.
func (s *Seeder) BuildPost(author *models.User, group *models.Group) *models.Post {
	post := &models.Post{
		Text:     gofakeit.Paragraph(1, 3, 12, "\n"),
		AuthorID: author.ID,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	if s.rng.Intn(4) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}

	daysBack := s.rng.Intn(90)
	minsBack := s.rng.Intn(24 * 60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minsBack)*time.Minute)
	return post
}

// SocialMesh seeds a connected data set: users, groups, posts (roughly a
// third ungrouped), comment threads, and a follow graph without self
// edges.
func (s *Seeder) SocialMesh(numUsers, numPosts int) error {
	groups, err := s.Groups()
	if err != nil {
		return err
	}

	users, err := s.Users(numUsers)
	if err != nil {
		return err
	}
	if len(users) < 2 {
		return fmt.Errorf("need at least 2 users, got %d", len(users))
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := &users[s.rng.Intn(len(users))]
		var group *models.Group
		if s.rng.Intn(3) != 0 {
			group = &groups[s.rng.Intn(len(groups))]
		}
		posts = append(posts, s.BuildPost(author, group))
	}
	if err := s.db.CreateInBatches(posts, 100).Error; err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	comments := make([]*models.Comment, 0, numPosts)
	for _, post := range posts {
		for i := 0; i < s.rng.Intn(4); i++ {
			commenter := &users[s.rng.Intn(len(users))]
			comments = append(comments, &models.Comment{
				PostID:   post.ID,
				AuthorID: commenter.ID,
				Text:     gofakeit.Sentence(10),
			})
		}
	}
	if len(comments) > 0 {
		if err := s.db.CreateInBatches(comments, 100).Error; err != nil {
			return fmt.Errorf("seed comments: %w", err)
		}
	}

	for i := range users {
		followCount := s.rng.Intn(len(users)/2 + 1)
		for j := 0; j < followCount; j++ {
			target := &users[s.rng.Intn(len(users))]
			if target.ID == users[i].ID {
				continue
			}
			follow := models.Follow{UserID: users[i].ID, AuthorID: target.ID}
			// duplicate pairs are skipped, matching the app's idempotent follow
			if err := s.db.Where(follow).FirstOrCreate(&follow).Error; err != nil {
				return fmt.Errorf("seed follow: %w", err)
			}
		}
	}

	log.Printf("Seeded %d users, %d groups, %d posts, %d comments",
		len(users), len(groups), len(posts), len(comments))
	return nil
}
