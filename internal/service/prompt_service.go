package service

import (
	"context"
	"fmt"

	"odbyte/internal/models"
	"odbyte/internal/observability"
	"odbyte/internal/repository"
	"odbyte/internal/validation"
)

type PromptService struct {
	promptRepo   repository.PromptRepository
	favoriteRepo repository.FavoriteRepository
	userRepo     repository.UserRepository
}

type CreatePromptInput struct {
	UserID      uint
	Title       string
	Description string
	Content     string
	Tags        string
	Category    string
	AIModel     string
	Visibility  string
}

type UpdatePromptInput struct {
	PromptID    uint
	UserID      uint
	Title       string
	Description string
	Content     string
	Tags        string
	Category    string
	AIModel     string
	Visibility  string
}

// Dashboard summarizes a user's library against their plan limits.
type Dashboard struct {
	Prompts      []*models.Prompt `json:"prompts"`
	PromptCount  int64            `json:"prompt_count"`
	PromptLimit  int              `json:"prompt_limit"`
	PendingCount int              `json:"pending_count"`
}

func NewPromptService(
	promptRepo repository.PromptRepository,
	favoriteRepo repository.FavoriteRepository,
	userRepo repository.UserRepository,
) *PromptService {
	return &PromptService{
		promptRepo:   promptRepo,
		favoriteRepo: favoriteRepo,
		userRepo:     userRepo,
	}
}

// normalizeVisibility coerces the stored visibility for the author's plan:
// only top-tier plans may keep prompts private. Anything unrecognized is
// treated as a request for private and coerced the same way.
func normalizeVisibility(requested, plan string) string {
	if requested == models.VisibilityPublic {
		return models.VisibilityPublic
	}
	if models.IsTopTier(plan) {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

// Create authors a new prompt, enforcing the plan's prompt quota.
//
// The count check and the insert are not one atomic step; two racing
// creates can both pass the check and land one prompt over the limit.
// That overshoot is accepted, the next create is rejected.
func (s *PromptService) Create(ctx context.Context, in CreatePromptInput) (*models.Prompt, error) {
	if err := validation.ValidatePromptFields(in.Title, in.Description, in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	count, err := s.promptRepo.CountByUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	limit := models.PromptLimit(user.Plan)
	if count >= int64(limit) {
		observability.QuotaRejections.WithLabelValues("prompt").Inc()
		return nil, models.NewQuotaError(fmt.Sprintf("Prompt limit of %d reached for your plan", limit))
	}

	prompt := &models.Prompt{
		Title:         in.Title,
		Description:   in.Description,
		Content:       in.Content,
		Tags:          in.Tags,
		Category:      in.Category,
		AIModel:       in.AIModel,
		Visibility:    normalizeVisibility(in.Visibility, user.Plan),
		PremiumStatus: models.PremiumStatusNone,
		UserID:        in.UserID,
	}
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

// Get fetches a prompt and applies the read policy for the viewer:
// private prompts are owner-only, and approved premium content requires a
// top-tier plan. viewerID zero means an unauthenticated request. The plan
// is re-read from the user row, never trusted from the session.
func (s *PromptService) Get(ctx context.Context, id, viewerID uint) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if prompt.UserID != viewerID {
		if prompt.Visibility == models.VisibilityPrivate {
			// Existence of another user's private prompt is not disclosed.
			return nil, models.NewNotFoundError("Prompt", id)
		}
		if prompt.IsApprovedPremium() {
			if viewerID == 0 {
				return nil, models.NewUpgradeRequiredError("Premium prompts require a diamond plan")
			}
			viewer, err := s.userRepo.GetByID(ctx, viewerID)
			if err != nil {
				return nil, err
			}
			if !models.IsTopTier(viewer.Plan) {
				return nil, models.NewUpgradeRequiredError("Premium prompts require a diamond plan")
			}
		}
	}

	if viewerID != 0 {
		favorited, err := s.favoriteRepo.Exists(ctx, viewerID, prompt.ID)
		if err != nil {
			return nil, err
		}
		prompt.Favorited = favorited
	}
	return prompt, nil
}

// Update edits a prompt. Only the owner may edit; the visibility is
// re-coerced against the owner's current plan on every write.
func (s *PromptService) Update(ctx context.Context, in UpdatePromptInput) (*models.Prompt, error) {
	if err := validation.ValidatePromptFields(in.Title, in.Description, in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	prompt, err := s.promptRepo.GetByID(ctx, in.PromptID)
	if err != nil {
		return nil, err
	}
	if prompt.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own prompts")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	prompt.Title = in.Title
	prompt.Description = in.Description
	prompt.Content = in.Content
	prompt.Tags = in.Tags
	prompt.Category = in.Category
	prompt.AIModel = in.AIModel
	prompt.Visibility = normalizeVisibility(in.Visibility, user.Plan)

	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

// Delete removes a prompt together with its stars and bundle memberships.
// Owners and admins may delete.
func (s *PromptService) Delete(ctx context.Context, promptID, userID uint, isAdmin bool) error {
	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return err
	}
	if prompt.UserID != userID && !isAdmin {
		return models.NewForbiddenError("You can only delete your own prompts")
	}
	return s.promptRepo.Delete(ctx, promptID)
}

// SubmitPremium enters a prompt into the review queue. The owner needs a
// top-tier plan, and only a prompt outside the pipeline (status none) can
// enter it. A rejected prompt stays rejected until an admin resets it via
// remove-premium.
func (s *PromptService) SubmitPremium(ctx context.Context, promptID, userID uint) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if prompt.UserID != userID {
		return nil, models.NewForbiddenError("You can only submit your own prompts")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !models.IsTopTier(user.Plan) {
		return nil, models.NewUpgradeRequiredError("Premium submissions require a diamond plan")
	}

	switch prompt.PremiumStatus {
	case models.PremiumStatusPending:
		return nil, models.NewValidationError("Prompt is already under review")
	case models.PremiumStatusApproved:
		return nil, models.NewValidationError("Prompt is already premium")
	case models.PremiumStatusRejected:
		return nil, models.NewValidationError("Prompt was rejected; an admin must reset it before it can be submitted again")
	}

	// is_premium stays false until an admin approves.
	prompt.PremiumStatus = models.PremiumStatusPending
	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

// ReviewPremium applies an admin decision to a pending prompt. Approval
// puts the prompt live in the premium tier and forces it public so it is
// discoverable; rejection keeps the status so the owner sees the outcome
// and may resubmit.
func (s *PromptService) ReviewPremium(ctx context.Context, promptID uint, approve bool) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if prompt.PremiumStatus != models.PremiumStatusPending {
		return nil, models.NewValidationError("Prompt is not awaiting review")
	}

	if approve {
		prompt.PremiumStatus = models.PremiumStatusApproved
		prompt.IsPremium = true
		prompt.Visibility = models.VisibilityPublic
	} else {
		prompt.PremiumStatus = models.PremiumStatusRejected
		prompt.IsPremium = false
	}
	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

// RemovePremium takes a prompt out of the premium pipeline entirely,
// whatever state it is in. Admin only.
func (s *PromptService) RemovePremium(ctx context.Context, promptID uint) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	prompt.IsPremium = false
	prompt.PremiumStatus = models.PremiumStatusNone
	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

// ListPendingReview returns the admin review queue, oldest first.
func (s *PromptService) ListPendingReview(ctx context.Context, limit, offset int) ([]*models.Prompt, error) {
	return s.promptRepo.ListByPremiumStatus(ctx, models.PremiumStatusPending, limit, offset)
}

// Search lists public prompts for the explore page. Approved premium
// prompts are listed for everyone; their content stays behind the plan
// gate in Get. The viewer's stars are annotated when authenticated.
func (s *PromptService) Search(ctx context.Context, filter repository.SearchFilter, viewerID uint) ([]*models.Prompt, error) {
	prompts, err := s.promptRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.annotateFavorites(ctx, prompts, viewerID); err != nil {
		return nil, err
	}
	return prompts, nil
}

func (s *PromptService) Facets(ctx context.Context) (*repository.Facets, error) {
	return s.promptRepo.ListFacets(ctx)
}

// GetDashboard assembles the owner's library view with quota headroom.
// The page size is independent of the plan quota: a downgraded user over
// quota still sees their whole library through pagination.
func (s *PromptService) GetDashboard(ctx context.Context, userID uint, limit, offset int) (*Dashboard, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompts, err := s.promptRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	count, err := s.promptRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, p := range prompts {
		if p.PremiumStatus == models.PremiumStatusPending {
			pending++
		}
	}

	return &Dashboard{
		Prompts:      prompts,
		PromptCount:  count,
		PromptLimit:  models.PromptLimit(user.Plan),
		PendingCount: pending,
	}, nil
}

func (s *PromptService) annotateFavorites(ctx context.Context, prompts []*models.Prompt, viewerID uint) error {
	if viewerID == 0 || len(prompts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(prompts))
	for _, p := range prompts {
		ids = append(ids, p.ID)
	}
	starred, err := s.favoriteRepo.FavoritedIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	set := make(map[uint]struct{}, len(starred))
	for _, id := range starred {
		set[id] = struct{}{}
	}
	for _, p := range prompts {
		_, p.Favorited = set[p.ID]
	}
	return nil
}
