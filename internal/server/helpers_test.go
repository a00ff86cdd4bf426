package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"matchasocial/internal/config"
	"matchasocial/internal/models"
	"matchasocial/internal/repository"
	"matchasocial/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer builds a Server backed by in-memory sqlite with the full
// route table mounted. Rate limits are bypassed via APP_ENV=test and the nil
// Redis client.
func setupTestServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Port:      "8080",
		Env:       "test",
	}

	s := &Server{
		config:   cfg,
		db:       db,
		userRepo: repository.NewUserRepository(db),
		postRepo: repository.NewPostRepository(db),
	}
	s.postService = service.NewPostService(s.postRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupRoutes(app)
	return app, s
}

// doJSON performs a request with an optional JSON body and bearer token,
// decoding the response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints returning a JSON array.
func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// registerTestUser signs up a user through the API and returns its token and id.
func registerTestUser(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, status)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, _ := user["id"].(float64)
	require.NotZero(t, id)

	return token, uint(id)
}

// signTestToken mints an HS256 token with arbitrary issuer/audience claims.
func signTestToken(t *testing.T, secret, sub, issuer, audience string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"iss": issuer,
		"aud": audience,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// sampleReview returns a valid review creation body.
func sampleReview(storeName string) map[string]any {
	return map[string]any{
		"storeName": storeName,
		"storeLocation": map[string]string{
			"city":  "Kyoto",
			"state": "KY",
		},
		"productName":   "Morning Blend",
		"brand":         "Ippodo",
		"matchaType":    "ceremonial",
		"origin":        "Uji, Kyoto",
		"priceRange":    "$$",
		"reviewText":    "Vivid green, silky foam, and a long umami finish.",
		"overallRating": 5,
		"detailedRatings": map[string]int{
			"taste":   5,
			"texture": 4,
		},
		"images": []map[string]string{
			{"url": "https://example.com/bowl.jpg", "caption": "first pour"},
		},
		"tags":        []string{"iced", "weekend"},
		"flavorNotes": []string{"umami", "sweet"},
	}
}

// createTestReview creates a review via the API and returns its id.
func createTestReview(t *testing.T, app *fiber.App, token, storeName string) uint {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/posts", sampleReview(storeName), token)
	require.Equal(t, http.StatusCreated, status)
	id, _ := body["id"].(float64)
	require.NotZero(t, id)
	return uint(id)
}
