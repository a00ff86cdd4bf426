package seed

import (
	"testing"

	"matchasocial/internal/models"
	"matchasocial/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}))
	return db
}

func TestSeeder_Run(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 4, NumPosts: 10, ShouldClean: true}))

	var userCount, postCount, likeCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Like{}).Count(&likeCount).Error)

	assert.EqualValues(t, 4, userCount)
	assert.EqualValues(t, 10, postCount)
	assert.LessOrEqual(t, likeCount, int64(4*10))
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 2, NumPosts: 4}))
	require.NoError(t, s.ClearAll())

	var userCount, postCount, likeCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Like{}).Count(&likeCount).Error)

	assert.Zero(t, userCount)
	assert.Zero(t, postCount)
	assert.Zero(t, likeCount)
}

func TestFactory_GeneratesValidReviews(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	for i := 0; i < 20; i++ {
		post := f.BuildPost(user)
		assert.NoError(t, validation.ValidatePost(post), "generated review %d should pass validation", i)
	}
}

func TestFactory_CreateLikeIsUniquePerPair(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	post, err := f.CreatePost(user)
	require.NoError(t, err)

	require.NoError(t, f.CreateLike(user, post))
	assert.Error(t, f.CreateLike(user, post), "duplicate like must hit the unique index")
}
