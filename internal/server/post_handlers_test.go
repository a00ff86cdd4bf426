package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	app, _ := setupTestServer(t)
	token, userID := registerTestUser(t, app, "junseo")

	t.Run("success", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", sampleReview("Kyoto Matcha House"), token)
		require.Equal(t, http.StatusCreated, status)

		assert.Equal(t, "Kyoto Matcha House", body["storeName"])
		assert.Equal(t, "ceremonial", body["matchaType"])
		assert.Equal(t, float64(5), body["overallRating"])
		assert.Equal(t, float64(0), body["likesCount"])
		assert.Equal(t, float64(0), body["commentsCount"])
		assert.Equal(t, false, body["liked"])
		assert.Equal(t, []any{}, body["likes"])

		author := body["user"].(map[string]any)
		assert.Equal(t, float64(userID), author["id"])

		ratings := body["detailedRatings"].(map[string]any)
		assert.Equal(t, float64(5), ratings["taste"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", sampleReview("Unauthorized Store"), "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("missing store name", func(t *testing.T) {
		review := sampleReview("X")
		review["storeName"] = "   "
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", review, token)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})

	t.Run("rating out of range", func(t *testing.T) {
		review := sampleReview("X")
		review["overallRating"] = 6
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", review, token)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("bad matcha type", func(t *testing.T) {
		review := sampleReview("X")
		review["matchaType"] = "imaginary"
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", review, token)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown flavor note", func(t *testing.T) {
		review := sampleReview("X")
		review["flavorNotes"] = []string{"metallic"}
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", review, token)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("image without url", func(t *testing.T) {
		review := sampleReview("X")
		review["images"] = []map[string]string{{"caption": "no url"}}
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", review, token)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("matcha type defaults to other", func(t *testing.T) {
		review := sampleReview("Default Type Store")
		delete(review, "matchaType")
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", review, token)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "other", body["matchaType"])
	})
}

func TestGetPosts_FeedOrdering(t *testing.T) {
	app, _ := setupTestServer(t)
	token, _ := registerTestUser(t, app, "junseo")

	for i := 0; i < 3; i++ {
		createTestReview(t, app, token, fmt.Sprintf("Store %d", i))
	}

	status, posts := doJSONList(t, app, http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, posts, 3)

	// Newest first.
	assert.Equal(t, "Store 2", posts[0]["storeName"])
	assert.Equal(t, "Store 1", posts[1]["storeName"])
	assert.Equal(t, "Store 0", posts[2]["storeName"])
}

func TestGetPosts_Pagination(t *testing.T) {
	app, _ := setupTestServer(t)
	token, _ := registerTestUser(t, app, "junseo")

	for i := 0; i < 5; i++ {
		createTestReview(t, app, token, fmt.Sprintf("Store %d", i))
	}

	status, page := doJSONList(t, app, http.MethodGet, "/api/posts?limit=2&offset=2", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, page, 2)
	assert.Equal(t, "Store 2", page[0]["storeName"])
	assert.Equal(t, "Store 1", page[1]["storeName"])

	// Out-of-range limits are clamped rather than rejected.
	status, clamped := doJSONList(t, app, http.MethodGet, "/api/posts?limit=99999", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, clamped, 5)

	status, defaulted := doJSONList(t, app, http.MethodGet, "/api/posts?limit=-3&offset=-1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, defaulted, 5)
}

func TestGetPost(t *testing.T) {
	app, _ := setupTestServer(t)
	token, _ := registerTestUser(t, app, "junseo")
	postID := createTestReview(t, app, token, "Kyoto Matcha House")

	t.Run("found", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), nil, "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Kyoto Matcha House", body["storeName"])
	})

	t.Run("not found", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/posts/99999", nil, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", body["code"])
	})

	t.Run("invalid id", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/posts/abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestSearchPosts(t *testing.T) {
	app, _ := setupTestServer(t)
	token, _ := registerTestUser(t, app, "junseo")
	createTestReview(t, app, token, "Kyoto Matcha House")
	createTestReview(t, app, token, "Whisk & Bowl")

	t.Run("matches store name", func(t *testing.T) {
		status, posts := doJSONList(t, app, http.MethodGet, "/api/posts/search?q=kyoto", "")
		require.Equal(t, http.StatusOK, status)
		require.Len(t, posts, 1)
		assert.Equal(t, "Kyoto Matcha House", posts[0]["storeName"])
	})

	t.Run("query required", func(t *testing.T) {
		status, _ := doJSONList(t, app, http.MethodGet, "/api/posts/search", "")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestGetUserPosts(t *testing.T) {
	app, _ := setupTestServer(t)
	aliceToken, aliceID := registerTestUser(t, app, "alice")
	bobToken, _ := registerTestUser(t, app, "bob")

	createTestReview(t, app, aliceToken, "Alice Store")
	createTestReview(t, app, bobToken, "Bob Store")

	status, posts := doJSONList(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/posts", aliceID), "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, posts, 1)
	assert.Equal(t, "Alice Store", posts[0]["storeName"])
}

func TestUpdatePost(t *testing.T) {
	app, _ := setupTestServer(t)
	ownerToken, _ := registerTestUser(t, app, "owner")
	otherToken, _ := registerTestUser(t, app, "other")
	postID := createTestReview(t, app, ownerToken, "Kyoto Matcha House")
	path := fmt.Sprintf("/api/posts/%d", postID)

	t.Run("owner can patch fields", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, path, map[string]any{
			"reviewText":    "Even better the second time.",
			"overallRating": 4,
		}, ownerToken)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Even better the second time.", body["reviewText"])
		assert.Equal(t, float64(4), body["overallRating"])
		// Untouched fields survive the patch.
		assert.Equal(t, "Kyoto Matcha House", body["storeName"])
	})

	t.Run("patched fields are validated", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPut, path, map[string]any{
			"overallRating": 0,
		}, ownerToken)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("non-owner gets 403 and nothing changes", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, path, map[string]any{
			"reviewText": "hijacked",
		}, otherToken)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", body["code"])

		status, current := doJSON(t, app, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Even better the second time.", current["reviewText"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPut, path, map[string]any{"reviewText": "x"}, "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestDeletePost(t *testing.T) {
	app, _ := setupTestServer(t)
	ownerToken, _ := registerTestUser(t, app, "owner")
	otherToken, _ := registerTestUser(t, app, "other")
	postID := createTestReview(t, app, ownerToken, "Kyoto Matcha House")
	path := fmt.Sprintf("/api/posts/%d", postID)

	t.Run("non-owner gets 403", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, path, nil, otherToken)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("owner deletes", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodDelete, path, nil, ownerToken)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Post deleted successfully", body["message"])

		status, _ = doJSON(t, app, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("deleting a missing post is 404", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, path, nil, ownerToken)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestToggleLikePost(t *testing.T) {
	app, _ := setupTestServer(t)
	ownerToken, _ := registerTestUser(t, app, "owner")
	fanToken, fanID := registerTestUser(t, app, "fan")
	otherToken, otherID := registerTestUser(t, app, "other")
	postID := createTestReview(t, app, ownerToken, "Kyoto Matcha House")
	likePath := fmt.Sprintf("/api/posts/%d/like", postID)

	t.Run("first toggle likes", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, likePath, nil, fanToken)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["likesCount"])
		assert.Equal(t, true, body["liked"])
		assert.Equal(t, []any{float64(fanID)}, body["likes"])
	})

	t.Run("second toggle returns to the original state", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, likePath, nil, fanToken)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(0), body["likesCount"])
		assert.Equal(t, false, body["liked"])
		assert.Equal(t, []any{}, body["likes"])
	})

	t.Run("likes from different users accumulate", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPut, likePath, nil, fanToken)
		require.Equal(t, http.StatusOK, status)
		status, body := doJSON(t, app, http.MethodPut, likePath, nil, otherToken)
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, float64(2), body["likesCount"])
		assert.ElementsMatch(t, []any{float64(fanID), float64(otherID)}, body["likes"].([]any))
	})

	t.Run("anonymous readers see the count but not a liked flag", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), nil, "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(2), body["likesCount"])
		assert.Equal(t, false, body["liked"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPut, likePath, nil, "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("missing post", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPut, "/api/posts/99999/like", nil, fanToken)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
