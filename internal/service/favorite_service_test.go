package service

import (
	"context"
	"testing"

	"odbyte/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_Toggle(t *testing.T) {
	t.Parallel()

	publicPrompt := func(context.Context, uint) (*models.Prompt, error) {
		return &models.Prompt{ID: 5, UserID: 2, Visibility: models.VisibilityPublic}, nil
	}

	t.Run("adds when not starred", func(t *testing.T) {
		t.Parallel()
		promptRepo := noopPromptRepo()
		promptRepo.getByIDFn = publicPrompt
		favRepo := noopFavoriteRepo()
		added := false
		favRepo.addFn = func(context.Context, uint, uint) error {
			added = true
			return nil
		}

		svc := NewFavoriteService(favRepo, promptRepo)
		res, err := svc.Toggle(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, "added", res.Status)
		assert.NotEmpty(t, res.Message)
	})

	t.Run("removes when already starred", func(t *testing.T) {
		t.Parallel()
		promptRepo := noopPromptRepo()
		promptRepo.getByIDFn = publicPrompt
		favRepo := noopFavoriteRepo()
		favRepo.existsFn = func(context.Context, uint, uint) (bool, error) { return true, nil }
		removed := false
		favRepo.removeFn = func(context.Context, uint, uint) error {
			removed = true
			return nil
		}

		svc := NewFavoriteService(favRepo, promptRepo)
		res, err := svc.Toggle(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, "removed", res.Status)
	})

	t.Run("deleted prompt is not found", func(t *testing.T) {
		t.Parallel()
		promptRepo := noopPromptRepo()
		promptRepo.getByIDFn = func(context.Context, uint) (*models.Prompt, error) {
			return nil, models.NewNotFoundError("Prompt", 5)
		}

		svc := NewFavoriteService(noopFavoriteRepo(), promptRepo)
		_, err := svc.Toggle(context.Background(), 1, 5)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("another user's private prompt is not found", func(t *testing.T) {
		t.Parallel()
		promptRepo := noopPromptRepo()
		promptRepo.getByIDFn = func(context.Context, uint) (*models.Prompt, error) {
			return &models.Prompt{ID: 5, UserID: 2, Visibility: models.VisibilityPrivate}, nil
		}

		svc := NewFavoriteService(noopFavoriteRepo(), promptRepo)
		_, err := svc.Toggle(context.Background(), 1, 5)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestFavoriteService_List(t *testing.T) {
	t.Parallel()

	favRepo := noopFavoriteRepo()
	favRepo.listPromptsFn = func(context.Context, uint, int, int) ([]*models.Prompt, error) {
		return []*models.Prompt{{ID: 1}, {ID: 2}}, nil
	}

	svc := NewFavoriteService(favRepo, noopPromptRepo())
	prompts, err := svc.List(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	for _, p := range prompts {
		assert.True(t, p.Favorited)
	}
}
