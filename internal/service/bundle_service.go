package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"odbyte/internal/models"
	"odbyte/internal/observability"
	"odbyte/internal/repository"
)

type BundleService struct {
	bundleRepo repository.BundleRepository
	promptRepo repository.PromptRepository
	userRepo   repository.UserRepository
}

type CreateBundleInput struct {
	UserID      uint
	Title       string
	Description string
	PromptIDs   []uint
}

type UpdateBundleInput struct {
	BundleID    uint
	UserID      uint
	Title       string
	Description string
	PromptIDs   []uint
}

// BundleView is the resolved shape served to readers of a share link.
// Members pointing at since-deleted prompts are dropped, not surfaced
// as holes.
type BundleView struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	UniqueLink  string               `json:"unique_link"`
	Author      models.PublicProfile `json:"author"`
	Prompts     []*models.Prompt     `json:"prompts"`
	CreatedAt   time.Time            `json:"created_at"`
}

func NewBundleService(
	bundleRepo repository.BundleRepository,
	promptRepo repository.PromptRepository,
	userRepo repository.UserRepository,
) *BundleService {
	return &BundleService{
		bundleRepo: bundleRepo,
		promptRepo: promptRepo,
		userRepo:   userRepo,
	}
}

// newBundleLink mints the unguessable share token: 128 bits of randomness,
// hex encoded. Guessing a link is as hard as guessing a session token.
func newBundleLink() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Create builds a bundle from the owner's prompts, enforcing the plan's
// bundle quota. Duplicate member ids collapse to the first occurrence and
// insertion order is preserved.
func (s *BundleService) Create(ctx context.Context, in CreateBundleInput) (*models.PromptBundle, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	count, err := s.bundleRepo.CountByUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	limit := models.BundleLimit(user.Plan)
	if count >= int64(limit) {
		observability.QuotaRejections.WithLabelValues("bundle").Inc()
		return nil, models.NewQuotaError(fmt.Sprintf("Bundle limit of %d reached for your plan", limit))
	}

	items, err := s.buildItems(ctx, in.UserID, in.PromptIDs)
	if err != nil {
		return nil, err
	}

	bundle := &models.PromptBundle{
		Title:       in.Title,
		Description: in.Description,
		UserID:      in.UserID,
		Items:       items,
	}

	// Retry on the off chance the random link collides with an existing row.
	for attempt := 0; attempt < 3; attempt++ {
		link, err := newBundleLink()
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		bundle.UniqueLink = link

		err = s.bundleRepo.Create(ctx, bundle)
		if err == nil {
			return bundle, nil
		}
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "DUPLICATE" {
			return nil, err
		}
	}
	return nil, models.NewInternalError(errors.New("could not allocate a unique bundle link"))
}

// buildItems validates membership and produces positioned item rows.
// Every member must be an existing prompt owned by the bundle owner.
func (s *BundleService) buildItems(ctx context.Context, userID uint, promptIDs []uint) ([]models.BundleItem, error) {
	if len(promptIDs) == 0 {
		return nil, models.NewValidationError("a bundle needs at least one prompt")
	}

	deduped := make([]uint, 0, len(promptIDs))
	seen := make(map[uint]struct{}, len(promptIDs))
	for _, id := range promptIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}

	prompts, err := s.bundleRepo.GetPromptsByIDs(ctx, deduped)
	if err != nil {
		return nil, err
	}
	owned := make(map[uint]bool, len(prompts))
	for _, p := range prompts {
		owned[p.ID] = p.UserID == userID
	}

	items := make([]models.BundleItem, 0, len(deduped))
	for pos, id := range deduped {
		isOwner, exists := owned[id]
		if !exists {
			return nil, models.NewNotFoundError("Prompt", id)
		}
		if !isOwner {
			return nil, models.NewForbiddenError("Bundles may only contain your own prompts")
		}
		items = append(items, models.BundleItem{PromptID: id, Position: pos})
	}
	return items, nil
}

// Update rewrites a bundle's metadata and membership. Owner only.
func (s *BundleService) Update(ctx context.Context, in UpdateBundleInput) (*models.PromptBundle, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}

	bundle, err := s.bundleRepo.GetByID(ctx, in.BundleID)
	if err != nil {
		return nil, err
	}
	if bundle.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own bundles")
	}

	items, err := s.buildItems(ctx, in.UserID, in.PromptIDs)
	if err != nil {
		return nil, err
	}

	bundle.Title = in.Title
	bundle.Description = in.Description
	bundle.Items = items
	if err := s.bundleRepo.Update(ctx, bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Delete removes a bundle and its member rows. The prompts themselves are
// untouched. Owner only.
func (s *BundleService) Delete(ctx context.Context, bundleID, userID uint) error {
	bundle, err := s.bundleRepo.GetByID(ctx, bundleID)
	if err != nil {
		return err
	}
	if bundle.UserID != userID {
		return models.NewForbiddenError("You can only delete your own bundles")
	}
	return s.bundleRepo.Delete(ctx, bundleID)
}

// ListMine returns the owner's bundles with member counts resolved.
func (s *BundleService) ListMine(ctx context.Context, userID uint) ([]*models.PromptBundle, error) {
	return s.bundleRepo.GetByUserID(ctx, userID)
}

// Get returns the owner's view of one bundle with members resolved.
func (s *BundleService) Get(ctx context.Context, bundleID, userID uint) (*BundleView, error) {
	bundle, err := s.bundleRepo.GetByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if bundle.UserID != userID {
		return nil, models.NewForbiddenError("You can only view your own bundles here")
	}
	return s.resolveView(ctx, bundle)
}

// ViewByLink serves a share link without authentication. Knowing the link
// is the capability; the author appears as a public profile only.
func (s *BundleService) ViewByLink(ctx context.Context, link string) (*BundleView, error) {
	bundle, err := s.bundleRepo.GetByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	return s.resolveView(ctx, bundle)
}

func (s *BundleService) resolveView(ctx context.Context, bundle *models.PromptBundle) (*BundleView, error) {
	prompts, err := s.bundleRepo.GetPromptsByIDs(ctx, bundle.PromptIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Prompt, len(prompts))
	for _, p := range prompts {
		byID[p.ID] = p
	}

	resolved := make([]*models.Prompt, 0, len(bundle.Items))
	for _, item := range bundle.Items {
		if p, ok := byID[item.PromptID]; ok {
			resolved = append(resolved, p)
		}
	}

	author := bundle.User.Public()
	if author.ID == 0 {
		if owner, err := s.userRepo.GetByID(ctx, bundle.UserID); err == nil {
			author = owner.Public()
		}
	}

	return &BundleView{
		ID:          bundle.ID,
		Title:       bundle.Title,
		Description: bundle.Description,
		UniqueLink:  bundle.UniqueLink,
		Author:      author,
		Prompts:     resolved,
		CreatedAt:   bundle.CreatedAt,
	}, nil
}
