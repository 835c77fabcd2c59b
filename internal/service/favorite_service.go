package service

import (
	"context"

	"odbyte/internal/models"
	"odbyte/internal/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	promptRepo   repository.PromptRepository
}

// ToggleResult is the JSON answer to a star toggle.
type ToggleResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, promptRepo repository.PromptRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, promptRepo: promptRepo}
}

// Toggle stars or unstars a prompt for the user. The prompt must still
// exist; toggling a deleted prompt is a not-found, not a silent no-op.
func (s *FavoriteService) Toggle(ctx context.Context, userID, promptID uint) (*ToggleResult, error) {
	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	// Private prompts of other users cannot be starred.
	if prompt.UserID != userID && prompt.Visibility == models.VisibilityPrivate {
		return nil, models.NewNotFoundError("Prompt", promptID)
	}

	exists, err := s.favoriteRepo.Exists(ctx, userID, promptID)
	if err != nil {
		return nil, err
	}

	if exists {
		if err := s.favoriteRepo.Remove(ctx, userID, promptID); err != nil {
			return nil, err
		}
		return &ToggleResult{Status: "removed", Message: "Prompt removed from favorites"}, nil
	}

	if err := s.favoriteRepo.Add(ctx, userID, promptID); err != nil {
		return nil, err
	}
	return &ToggleResult{Status: "added", Message: "Prompt added to favorites"}, nil
}

// List returns the user's starred prompts, most recently starred first.
func (s *FavoriteService) List(ctx context.Context, userID uint, limit, offset int) ([]*models.Prompt, error) {
	prompts, err := s.favoriteRepo.ListPrompts(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		p.Favorited = true
	}
	return prompts, nil
}
