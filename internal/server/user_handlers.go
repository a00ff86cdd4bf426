package server

import (
	"strings"

	"matchasocial/internal/cache"
	"matchasocial/internal/models"
	"matchasocial/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		AvatarURL          *string `json:"avatarUrl"`
		Bio                *string `json:"bio"`
		FavoriteMatchaType *string `json:"favoriteMatchaType"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if err := validation.ValidateBio(bio); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		user.Bio = bio
	}
	if req.FavoriteMatchaType != nil {
		matchaType := strings.TrimSpace(*req.FavoriteMatchaType)
		if matchaType != "" && !models.ValidMatchaType(matchaType) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid matcha type"))
		}
		user.FavoriteMatchaType = matchaType
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}
	cache.InvalidateUser(c.Context(), userID)

	return c.JSON(user)
}
