package server

import (
	"strconv"

	"matchasocial/internal/models"
	"matchasocial/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the JSON body accepted when creating a review.
type postRequest struct {
	StoreName       string                 `json:"storeName"`
	StoreLocation   models.StoreLocation   `json:"storeLocation"`
	ProductName     string                 `json:"productName"`
	Brand           string                 `json:"brand"`
	MatchaType      string                 `json:"matchaType"`
	Origin          string                 `json:"origin"`
	PriceRange      string                 `json:"priceRange"`
	ReviewText      string                 `json:"reviewText"`
	OverallRating   int                    `json:"overallRating"`
	DetailedRatings models.DetailedRatings `json:"detailedRatings"`
	Images          []models.PostImage     `json:"images"`
	Tags            []string               `json:"tags"`
	FlavorNotes     []string               `json:"flavorNotes"`
}

// postUpdateRequest uses pointers so omitted fields are left untouched.
type postUpdateRequest struct {
	StoreName       *string                 `json:"storeName"`
	StoreLocation   *models.StoreLocation   `json:"storeLocation"`
	ProductName     *string                 `json:"productName"`
	Brand           *string                 `json:"brand"`
	MatchaType      *string                 `json:"matchaType"`
	Origin          *string                 `json:"origin"`
	PriceRange      *string                 `json:"priceRange"`
	ReviewText      *string                 `json:"reviewText"`
	OverallRating   *int                    `json:"overallRating"`
	DetailedRatings *models.DetailedRatings `json:"detailedRatings"`
	Images          *[]models.PostImage     `json:"images"`
	Tags            *[]string               `json:"tags"`
	FlavorNotes     *[]string               `json:"flavorNotes"`
}

// parseIDParam extracts a positive integer path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(id), nil
}

// parsePageParams reads limit/offset query parameters with the feed defaults.
func parsePageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", service.DefaultFeedLimit)
	offset := c.QueryInt("offset", 0)
	return limit, offset
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), service.CreatePostInput{
		UserID:          userID,
		StoreName:       req.StoreName,
		StoreLocation:   req.StoreLocation,
		ProductName:     req.ProductName,
		Brand:           req.Brand,
		MatchaType:      req.MatchaType,
		Origin:          req.Origin,
		PriceRange:      req.PriceRange,
		ReviewText:      req.ReviewText,
		OverallRating:   req.OverallRating,
		DetailedRatings: req.DetailedRatings,
		Images:          req.Images,
		Tags:            req.Tags,
		FlavorNotes:     req.FlavorNotes,
	})
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset := parsePageParams(c)
	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postService.List(c.Context(), limit, offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	currentUserID, _ := s.optionalUserID(c)

	post, err := s.postService.Get(c.Context(), id, currentUserID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(post)
}

// SearchPosts handles GET /api/posts/search
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter 'q' is required"))
	}

	limit, offset := parsePageParams(c)
	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postService.Search(c.Context(), query, limit, offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(posts)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	limit, offset := parsePageParams(c)
	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListByUser(c.Context(), userID, limit, offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req postUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), id, userID, service.UpdatePostInput{
		StoreName:       req.StoreName,
		StoreLocation:   req.StoreLocation,
		ProductName:     req.ProductName,
		Brand:           req.Brand,
		MatchaType:      req.MatchaType,
		Origin:          req.Origin,
		PriceRange:      req.PriceRange,
		ReviewText:      req.ReviewText,
		OverallRating:   req.OverallRating,
		DetailedRatings: req.DetailedRatings,
		Images:          req.Images,
		Tags:            req.Tags,
		FlavorNotes:     req.FlavorNotes,
	})
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.postService.Delete(c.Context(), id, userID); err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted successfully",
	})
}

// ToggleLikePost handles PUT /api/posts/:id/like
func (s *Server) ToggleLikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postService.ToggleLike(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(post)
}
