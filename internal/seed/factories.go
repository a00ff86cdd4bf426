// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"matchasocial/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var storeNames = []string{
	"Kyoto Matcha House", "Uji Garden Tea", "Whisk & Bowl", "Green Hour Cafe",
	"Chasen Corner", "Stone Mill Teahouse", "Matsu Matcha Bar", "First Flush",
	"Cloud Nine Tea Lab", "The Usucha Room", "Sencha & Co", "Tencha Roasters",
}

var brands = []string{
	"Ippodo", "Marukyu Koyamaen", "Yamamasa Koyamaen", "Hibiki-an",
	"Naoki", "Encha", "Jade Leaf", "Kettl",
}

var origins = []string{
	"Uji, Kyoto", "Nishio, Aichi", "Yame, Fukuoka", "Kagoshima", "Shizuoka",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	// rand is factory-owned so seeded runs are reproducible
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (f *Factory) pick(values []string) string {
	return values[f.rand.Intn(len(values))]
}

// pickSome returns up to max distinct entries from values, possibly none.
func (f *Factory) pickSome(values []string, max int) []string {
	n := f.rand.Intn(max + 1)
	picked := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(picked) < n {
		v := values[f.rand.Intn(len(values))]
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		picked = append(picked, v)
	}
	return picked
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username:           gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:              gofakeit.Email(),
		Password:           string(hashedPassword),
		Bio:                gofakeit.Sentence(10),
		AvatarURL:          fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		FavoriteMatchaType: f.pick(models.MatchaTypes),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a review struct without persisting it. Useful for
// batching.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:    user.ID,
		StoreName: f.pick(storeNames),
		StoreLocation: models.StoreLocation{
			Address: gofakeit.Street(),
			City:    gofakeit.City(),
			State:   gofakeit.StateAbr(),
			ZipCode: gofakeit.Zip(),
		},
		ProductName:   fmt.Sprintf("%s Blend", gofakeit.Adjective()),
		Brand:         f.pick(brands),
		MatchaType:    f.pick(models.MatchaTypes),
		Origin:        f.pick(origins),
		PriceRange:    f.pick(models.PriceRanges[1:]),
		ReviewText:    gofakeit.Paragraph(1, 3, 8, " "),
		OverallRating: gofakeit.Number(1, 5),
		DetailedRatings: models.DetailedRatings{
			Taste:      gofakeit.Number(1, 5),
			Texture:    gofakeit.Number(1, 5),
			Bitterness: gofakeit.Number(1, 5),
			Sweetness:  gofakeit.Number(1, 5),
		},
		Tags:        f.pickSome([]string{"iced", "hot", "latte", "straight", "dessert", "weekend"}, 3),
		FlavorNotes: f.pickSome(models.FlavorNotes, 4),
	}

	if f.rand.Intn(2) == 0 {
		post.Images = []models.PostImage{{
			URL:     fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
			Caption: gofakeit.Sentence(4),
		}}
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample review for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple reviews in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateLike persists a like from `user` on `post`.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	return f.db.Create(like).Error
}
