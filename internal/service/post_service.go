// Package service contains the application logic between HTTP handlers and
// repositories: input normalization, validation, ownership checks, and
// cache decisions.
package service

import (
	"context"
	"errors"
	"strings"

	"matchasocial/internal/cache"
	"matchasocial/internal/models"
	"matchasocial/internal/repository"
	"matchasocial/internal/validation"

	"gorm.io/gorm"
)

const (
	// DefaultFeedLimit is used when the caller omits a page size.
	DefaultFeedLimit = 20
	// MaxFeedLimit bounds a single feed page.
	MaxFeedLimit = 100
)

// PostService orchestrates review operations.
type PostService struct {
	postRepo repository.PostRepository
}

// NewPostService creates a PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePostInput carries the review fields accepted at creation.
type CreatePostInput struct {
	UserID          uint
	StoreName       string
	StoreLocation   models.StoreLocation
	ProductName     string
	Brand           string
	MatchaType      string
	Origin          string
	PriceRange      string
	ReviewText      string
	OverallRating   int
	DetailedRatings models.DetailedRatings
	Images          []models.PostImage
	Tags            []string
	FlavorNotes     []string
}

// UpdatePostInput is a partial patch; nil fields are left untouched.
type UpdatePostInput struct {
	StoreName       *string
	StoreLocation   *models.StoreLocation
	ProductName     *string
	Brand           *string
	MatchaType      *string
	Origin          *string
	PriceRange      *string
	ReviewText      *string
	OverallRating   *int
	DetailedRatings *models.DetailedRatings
	Images          *[]models.PostImage
	Tags            *[]string
	FlavorNotes     *[]string
}

// ClampPage normalizes limit/offset to the documented feed contract.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// cleanTags trims tag entries and drops empties, keeping order.
func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	return cleaned
}

func normalizePost(post *models.Post) {
	post.StoreName = strings.TrimSpace(post.StoreName)
	post.ProductName = strings.TrimSpace(post.ProductName)
	post.Brand = strings.TrimSpace(post.Brand)
	post.Origin = strings.TrimSpace(post.Origin)
	if post.MatchaType == "" {
		post.MatchaType = models.MatchaTypeOther
	}
	post.Tags = cleanTags(post.Tags)
}

// Create validates and persists a new review, returning it enriched with
// author and like details.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	post := &models.Post{
		UserID:          in.UserID,
		StoreName:       in.StoreName,
		StoreLocation:   in.StoreLocation,
		ProductName:     in.ProductName,
		Brand:           in.Brand,
		MatchaType:      in.MatchaType,
		Origin:          in.Origin,
		PriceRange:      in.PriceRange,
		ReviewText:      in.ReviewText,
		OverallRating:   in.OverallRating,
		DetailedRatings: in.DetailedRatings,
		Images:          in.Images,
		Tags:            in.Tags,
		FlavorNotes:     in.FlavorNotes,
	}
	normalizePost(post)
	if err := validation.ValidatePost(post); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.Get(ctx, post.ID, in.UserID)
}

// Get returns a single review or NotFound.
func (s *PostService) Get(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// List returns the feed, newest first. The anonymous first page is served
// cache-aside; authenticated reads always hit the database so the liked flag
// is correct for the requester.
func (s *PostService) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	limit, offset = ClampPage(limit, offset)

	var posts []*models.Post
	var err error
	if currentUserID == 0 && offset == 0 && limit == DefaultFeedLimit {
		err = cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, limit, offset, 0)
			return fetchErr
		})
	} else {
		posts, err = s.postRepo.List(ctx, limit, offset, currentUserID)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Search returns reviews matching the query against store, product, or text.
func (s *PostService) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	limit, offset = ClampPage(limit, offset)
	posts, err := s.postRepo.Search(ctx, query, limit, offset, currentUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListByUser returns one author's reviews, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	limit, offset = ClampPage(limit, offset)
	posts, err := s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Update applies a partial patch to an owned review. Patched fields are
// re-validated against the same rules as creation.
func (s *PostService) Update(ctx context.Context, id, requesterID uint, in UpdatePostInput) (*models.Post, error) {
	post, err := s.Get(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if post.UserID != requesterID {
		return nil, models.NewForbiddenError("You can only update your own reviews")
	}

	if in.StoreName != nil {
		post.StoreName = *in.StoreName
	}
	if in.StoreLocation != nil {
		post.StoreLocation = *in.StoreLocation
	}
	if in.ProductName != nil {
		post.ProductName = *in.ProductName
	}
	if in.Brand != nil {
		post.Brand = *in.Brand
	}
	if in.MatchaType != nil {
		post.MatchaType = *in.MatchaType
	}
	if in.Origin != nil {
		post.Origin = *in.Origin
	}
	if in.PriceRange != nil {
		post.PriceRange = *in.PriceRange
	}
	if in.ReviewText != nil {
		post.ReviewText = *in.ReviewText
	}
	if in.OverallRating != nil {
		post.OverallRating = *in.OverallRating
	}
	if in.DetailedRatings != nil {
		post.DetailedRatings = *in.DetailedRatings
	}
	if in.Images != nil {
		post.Images = *in.Images
	}
	if in.Tags != nil {
		post.Tags = *in.Tags
	}
	if in.FlavorNotes != nil {
		post.FlavorNotes = *in.FlavorNotes
	}

	normalizePost(post)
	if err := validation.ValidatePost(post); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.Get(ctx, id, requesterID)
}

// Delete removes an owned review.
func (s *PostService) Delete(ctx context.Context, id, requesterID uint) error {
	post, err := s.Get(ctx, id, requesterID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return models.NewForbiddenError("You can only delete your own reviews")
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleLike flips the requester's like on a review and returns the updated
// review.
func (s *PostService) ToggleLike(ctx context.Context, id, userID uint) (*models.Post, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, err
	}

	if _, err := s.postRepo.ToggleLike(ctx, userID, id); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.Get(ctx, id, userID)
}
