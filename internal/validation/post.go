package validation

import (
	"fmt"
	"strings"

	"matchasocial/internal/models"
)

// MaxReviewTextLen is the upper bound on review body length.
const MaxReviewTextLen = 2000

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ValidateRating checks that a rating sits in the 1-5 range.
func ValidateRating(name string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%s must be between 1 and 5", name)
	}
	return nil
}

// ValidatePost checks every constrained review field. Required fields must
// be present; enumerated fields must use their fixed vocabulary.
func ValidatePost(post *models.Post) error {
	if strings.TrimSpace(post.StoreName) == "" {
		return fmt.Errorf("store name is required")
	}
	if strings.TrimSpace(post.ReviewText) == "" {
		return fmt.Errorf("review text is required")
	}
	if len(post.ReviewText) > MaxReviewTextLen {
		return fmt.Errorf("review text must be less than %d characters", MaxReviewTextLen)
	}
	if err := ValidateRating("overall rating", post.OverallRating); err != nil {
		return err
	}
	if !contains(models.MatchaTypes, post.MatchaType) {
		return fmt.Errorf("invalid matcha type %q", post.MatchaType)
	}
	if !contains(models.PriceRanges, post.PriceRange) {
		return fmt.Errorf("invalid price range %q", post.PriceRange)
	}
	for _, note := range post.FlavorNotes {
		if !contains(models.FlavorNotes, note) {
			return fmt.Errorf("invalid flavor note %q", note)
		}
	}
	for i, img := range post.Images {
		if strings.TrimSpace(img.URL) == "" {
			return fmt.Errorf("image %d is missing a url", i+1)
		}
	}
	// Sub-scores are optional; zero means unset.
	detailed := map[string]int{
		"taste rating":      post.DetailedRatings.Taste,
		"texture rating":    post.DetailedRatings.Texture,
		"bitterness rating": post.DetailedRatings.Bitterness,
		"sweetness rating":  post.DetailedRatings.Sweetness,
	}
	for name, rating := range detailed {
		if rating == 0 {
			continue
		}
		if err := ValidateRating(name, rating); err != nil {
			return err
		}
	}
	return nil
}
