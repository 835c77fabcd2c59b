package service

import (
	"context"
	"errors"
	"testing"

	"odbyte/internal/models"
	"odbyte/internal/repository"
)

// Function-field stubs shared by the service tests in this package.

type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
	updatePlanFn func(context.Context, uint, string) error
	setAdminFn   func(context.Context, uint, bool) error
	deleteFn     func(context.Context, uint) error
	listFn       func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdatePlan(ctx context.Context, id uint, plan string) error {
	return s.updatePlanFn(ctx, id, plan)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return s.setAdminFn(ctx, id, isAdmin)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
		updateFn:     func(context.Context, *models.User) error { return nil },
		updatePlanFn: func(context.Context, uint, string) error { return nil },
		setAdminFn:   func(context.Context, uint, bool) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
		listFn:       func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

type promptRepoStub struct {
	createFn              func(context.Context, *models.Prompt) error
	getByIDFn             func(context.Context, uint) (*models.Prompt, error)
	getByUserIDFn         func(context.Context, uint, int, int) ([]*models.Prompt, error)
	countByUserFn         func(context.Context, uint) (int64, error)
	searchFn              func(context.Context, repository.SearchFilter) ([]*models.Prompt, error)
	listFacetsFn          func(context.Context) (*repository.Facets, error)
	listByPremiumStatusFn func(context.Context, string, int, int) ([]*models.Prompt, error)
	updateFn              func(context.Context, *models.Prompt) error
	deleteFn              func(context.Context, uint) error
}

func (s *promptRepoStub) Create(ctx context.Context, p *models.Prompt) error {
	return s.createFn(ctx, p)
}
func (s *promptRepoStub) GetByID(ctx context.Context, id uint) (*models.Prompt, error) {
	return s.getByIDFn(ctx, id)
}
func (s *promptRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Prompt, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset)
}
func (s *promptRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}
func (s *promptRepoStub) Search(ctx context.Context, filter repository.SearchFilter) ([]*models.Prompt, error) {
	return s.searchFn(ctx, filter)
}
func (s *promptRepoStub) ListFacets(ctx context.Context) (*repository.Facets, error) {
	return s.listFacetsFn(ctx)
}
func (s *promptRepoStub) ListByPremiumStatus(ctx context.Context, status string, limit, offset int) ([]*models.Prompt, error) {
	return s.listByPremiumStatusFn(ctx, status, limit, offset)
}
func (s *promptRepoStub) Update(ctx context.Context, p *models.Prompt) error {
	return s.updateFn(ctx, p)
}
func (s *promptRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPromptRepo() *promptRepoStub {
	return &promptRepoStub{
		createFn:      func(context.Context, *models.Prompt) error { return nil },
		getByIDFn:     func(context.Context, uint) (*models.Prompt, error) { return &models.Prompt{}, nil },
		getByUserIDFn: func(context.Context, uint, int, int) ([]*models.Prompt, error) { return nil, nil },
		countByUserFn: func(context.Context, uint) (int64, error) { return 0, nil },
		searchFn: func(context.Context, repository.SearchFilter) ([]*models.Prompt, error) {
			return nil, nil
		},
		listFacetsFn: func(context.Context) (*repository.Facets, error) {
			return &repository.Facets{}, nil
		},
		listByPremiumStatusFn: func(context.Context, string, int, int) ([]*models.Prompt, error) {
			return nil, nil
		},
		updateFn: func(context.Context, *models.Prompt) error { return nil },
		deleteFn: func(context.Context, uint) error { return nil },
	}
}

type favoriteRepoStub struct {
	existsFn       func(context.Context, uint, uint) (bool, error)
	addFn          func(context.Context, uint, uint) error
	removeFn       func(context.Context, uint, uint) error
	listPromptsFn  func(context.Context, uint, int, int) ([]*models.Prompt, error)
	favoritedIDsFn func(context.Context, uint, []uint) ([]uint, error)
}

func (s *favoriteRepoStub) Exists(ctx context.Context, userID, promptID uint) (bool, error) {
	return s.existsFn(ctx, userID, promptID)
}
func (s *favoriteRepoStub) Add(ctx context.Context, userID, promptID uint) error {
	return s.addFn(ctx, userID, promptID)
}
func (s *favoriteRepoStub) Remove(ctx context.Context, userID, promptID uint) error {
	return s.removeFn(ctx, userID, promptID)
}
func (s *favoriteRepoStub) ListPrompts(ctx context.Context, userID uint, limit, offset int) ([]*models.Prompt, error) {
	return s.listPromptsFn(ctx, userID, limit, offset)
}
func (s *favoriteRepoStub) FavoritedIDs(ctx context.Context, userID uint, promptIDs []uint) ([]uint, error) {
	return s.favoritedIDsFn(ctx, userID, promptIDs)
}

func noopFavoriteRepo() *favoriteRepoStub {
	return &favoriteRepoStub{
		existsFn:      func(context.Context, uint, uint) (bool, error) { return false, nil },
		addFn:         func(context.Context, uint, uint) error { return nil },
		removeFn:      func(context.Context, uint, uint) error { return nil },
		listPromptsFn: func(context.Context, uint, int, int) ([]*models.Prompt, error) { return nil, nil },
		favoritedIDsFn: func(context.Context, uint, []uint) ([]uint, error) {
			return nil, nil
		},
	}
}

type bundleRepoStub struct {
	createFn          func(context.Context, *models.PromptBundle) error
	getByIDFn         func(context.Context, uint) (*models.PromptBundle, error)
	getByLinkFn       func(context.Context, string) (*models.PromptBundle, error)
	getByUserIDFn     func(context.Context, uint) ([]*models.PromptBundle, error)
	countByUserFn     func(context.Context, uint) (int64, error)
	updateFn          func(context.Context, *models.PromptBundle) error
	deleteFn          func(context.Context, uint) error
	getPromptsByIDsFn func(context.Context, []uint) ([]*models.Prompt, error)
}

func (s *bundleRepoStub) Create(ctx context.Context, b *models.PromptBundle) error {
	return s.createFn(ctx, b)
}
func (s *bundleRepoStub) GetByID(ctx context.Context, id uint) (*models.PromptBundle, error) {
	return s.getByIDFn(ctx, id)
}
func (s *bundleRepoStub) GetByLink(ctx context.Context, link string) (*models.PromptBundle, error) {
	return s.getByLinkFn(ctx, link)
}
func (s *bundleRepoStub) GetByUserID(ctx context.Context, userID uint) ([]*models.PromptBundle, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *bundleRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}
func (s *bundleRepoStub) Update(ctx context.Context, b *models.PromptBundle) error {
	return s.updateFn(ctx, b)
}
func (s *bundleRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *bundleRepoStub) GetPromptsByIDs(ctx context.Context, ids []uint) ([]*models.Prompt, error) {
	return s.getPromptsByIDsFn(ctx, ids)
}

func noopBundleRepo() *bundleRepoStub {
	return &bundleRepoStub{
		createFn:      func(context.Context, *models.PromptBundle) error { return nil },
		getByIDFn:     func(context.Context, uint) (*models.PromptBundle, error) { return &models.PromptBundle{}, nil },
		getByLinkFn:   func(context.Context, string) (*models.PromptBundle, error) { return &models.PromptBundle{}, nil },
		getByUserIDFn: func(context.Context, uint) ([]*models.PromptBundle, error) { return nil, nil },
		countByUserFn: func(context.Context, uint) (int64, error) { return 0, nil },
		updateFn:      func(context.Context, *models.PromptBundle) error { return nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		getPromptsByIDsFn: func(context.Context, []uint) ([]*models.Prompt, error) {
			return nil, nil
		},
	}
}

type paymentRepoStub struct {
	recordUpgradeFn func(context.Context, *models.Payment, string) error
	listByUserFn    func(context.Context, uint) ([]models.Payment, error)
}

func (s *paymentRepoStub) RecordUpgrade(ctx context.Context, p *models.Payment, plan string) error {
	return s.recordUpgradeFn(ctx, p, plan)
}
func (s *paymentRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	return s.listByUserFn(ctx, userID)
}

func noopPaymentRepo() *paymentRepoStub {
	return &paymentRepoStub{
		recordUpgradeFn: func(context.Context, *models.Payment, string) error { return nil },
		listByUserFn:    func(context.Context, uint) ([]models.Payment, error) { return nil, nil },
	}
}

type gatewayStub struct {
	createOrderFn     func(context.Context, int64, string, string) (string, error)
	verifySignatureFn func(string, string, string) bool
	keyID             string
}

func (s *gatewayStub) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	return s.createOrderFn(ctx, amount, currency, receipt)
}
func (s *gatewayStub) VerifySignature(orderID, paymentID, signature string) bool {
	return s.verifySignatureFn(orderID, paymentID, signature)
}
func (s *gatewayStub) KeyID() string { return s.keyID }

func noopGateway() *gatewayStub {
	return &gatewayStub{
		createOrderFn: func(context.Context, int64, string, string) (string, error) {
			return "order_stub", nil
		},
		verifySignatureFn: func(string, string, string) bool { return true },
		keyID:             "rzp_test_stub",
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}
