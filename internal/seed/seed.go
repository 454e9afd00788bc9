// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password assigned to every seeded account.
const DefaultPassword = "Password123!"

var categories = []string{
	"engineering", "design", "travel", "food", "productivity", "fiction",
}

// Seeder creates demo users, blogs, comments, likes, and follows.
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

// ClearAll removes all seeded data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{"payments", "blog_likes", "comments", "follows", "blogs", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// CreateUser persists a user with a realistic profile.
func (s *Seeder) CreateUser() (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	genders := []models.Gender{models.GenderMale, models.GenderFemale, models.GenderOther}
	gender := genders[s.rng.Intn(len(genders))]

	user := &models.User{
		Username:       strings.ToLower(gofakeit.Username()) + fmt.Sprint(s.rng.Intn(10000)),
		Email:          gofakeit.Email(),
		Password:       string(hashed),
		Name:           gofakeit.Name(),
		Gender:         gender,
		DOB:            gofakeit.DateRange(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)),
		Address:        gofakeit.Address().Address,
		Title:          gofakeit.JobTitle(),
		About:          gofakeit.Paragraph(1, 2, 8, " "),
		AvatarURL:      fmt.Sprintf("https://avatar.iran.liara.run/public?seed=%s", gofakeit.UUID()),
		Rewards:        models.DefaultRewards,
		TotalAiCredits: models.DefaultAiCredits,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateBlog persists a blog authored by the given user, with a created_at
// spread over the last 90 days for realistic listings.
func (s *Seeder) CreateBlog(author *models.User) (*models.Blog, error) {
	content := gofakeit.Paragraph(4, 6, 12, "\n\n")
	blog := &models.Blog{
		Title:     gofakeit.Sentence(6),
		Excerpt:   gofakeit.Sentence(12),
		Content:   content,
		Category:  categories[s.rng.Intn(len(categories))],
		HeroImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		Author: models.AuthorSnapshot{
			ID:        author.ID,
			Name:      author.Name,
			AvatarURL: author.AvatarURL,
		},
		ReadingTime: models.ReadingTime(content),
		CreatedAt:   time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour),
	}
	if err := s.db.Create(blog).Error; err != nil {
		return nil, err
	}
	return blog, nil
}

// Seed populates the database with an interconnected set of users and
// content: blogs, comments, likes, and a follow graph.
func (s *Seeder) Seed(numUsers, numBlogs int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users (password %q)", len(users), DefaultPassword)

	blogs := make([]*models.Blog, 0, numBlogs)
	for i := 0; i < numBlogs; i++ {
		author := users[s.rng.Intn(len(users))]
		blog, err := s.CreateBlog(author)
		if err != nil {
			return fmt.Errorf("seeding blog: %w", err)
		}
		blogs = append(blogs, blog)
	}
	log.Printf("Seeded %d blogs", len(blogs))

	comments := 0
	for _, blog := range blogs {
		for i := 0; i < s.rng.Intn(5); i++ {
			commenter := users[s.rng.Intn(len(users))]
			comment := &models.Comment{
				BlogID: blog.ID,
				Text:   gofakeit.Sentence(10),
				Author: models.AuthorSnapshot{
					ID:        commenter.ID,
					Name:      commenter.Name,
					AvatarURL: commenter.AvatarURL,
				},
			}
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("Seeded %d comments", comments)

	likes := 0
	for _, blog := range blogs {
		for i := 0; i < s.rng.Intn(8); i++ {
			fan := users[s.rng.Intn(len(users))]
			res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.BlogLike{
				UserID: fan.ID,
				BlogID: blog.ID,
			})
			if res.Error != nil {
				return fmt.Errorf("seeding like: %w", res.Error)
			}
			likes += int(res.RowsAffected)
		}
	}
	log.Printf("Seeded %d likes", likes)

	follows := 0
	for _, follower := range users {
		for i := 0; i < s.rng.Intn(6); i++ {
			followee := users[s.rng.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Follow{
				FollowerID: follower.ID,
				FolloweeID: followee.ID,
			})
			if res.Error != nil {
				return fmt.Errorf("seeding follow: %w", res.Error)
			}
			follows += int(res.RowsAffected)
		}
	}
	log.Printf("Seeded %d follows", follows)

	return nil
}
