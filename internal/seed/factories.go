// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"time"

	"odbyte/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account logs in with.
const DefaultPassword = "Password123!"

var categories = []string{
	"coding", "writing", "marketing", "devops", "design",
	"research", "education", "creative", "productivity",
}

var aiModels = []string{
	"gpt-4", "gpt-4o", "claude", "gemini", "llama-3", "mistral",
}

var plans = []string{
	models.PlanFree, models.PlanFree, models.PlanFree,
	models.PlanSilver, models.PlanDiamond, models.PlanPremium,
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	// bcrypt of DefaultPassword, computed once; hashing per user makes
	// large seeds painfully slow.
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	return &Factory{db: db, passwordHash: string(hash)}
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    fmt.Sprintf("%s%d@%s", gofakeit.Username(), gofakeit.Number(100, 999), gofakeit.DomainName()),
		Password: f.passwordHash,
		Plan:     plans[mrand.Intn(len(plans))],
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePrompt constructs and persists a sample prompt for the given user.
// Non-top-tier authors always get public prompts, matching what the
// service layer would have stored.
func (f *Factory) CreatePrompt(user *models.User, overrides ...func(*models.Prompt)) (*models.Prompt, error) {
	prompt := &models.Prompt{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Sentence(12),
		Content:     gofakeit.Paragraph(1, 3, 8, "\n"),
		Tags:        fmt.Sprintf("%s,%s", gofakeit.HackerNoun(), gofakeit.HackerNoun()),
		Category:    categories[mrand.Intn(len(categories))],
		AIModel:     aiModels[mrand.Intn(len(aiModels))],
		Visibility:  models.VisibilityPublic,
		UserID:      user.ID,
	}
	if models.IsTopTier(user.Plan) && mrand.Intn(4) == 0 {
		prompt.Visibility = models.VisibilityPrivate
	}

	// Spread creation dates so explore ordering looks lived-in.
	daysBack := mrand.Intn(90)
	prompt.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(mrand.Intn(24))*time.Hour)

	for _, override := range overrides {
		override(prompt)
	}

	if err := f.db.Create(prompt).Error; err != nil {
		return nil, err
	}
	return prompt, nil
}

// CreateFavorite persists a star from `user` on `prompt`.
func (f *Factory) CreateFavorite(user *models.User, prompt *models.Prompt) error {
	fav := &models.Favorite{
		UserID:   user.ID,
		PromptID: prompt.ID,
	}
	return f.db.Create(fav).Error
}

// CreateBundle persists a bundle owned by `user` containing the given
// prompts in order.
func (f *Factory) CreateBundle(user *models.User, prompts []*models.Prompt, overrides ...func(*models.PromptBundle)) (*models.PromptBundle, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	bundle := &models.PromptBundle{
		Title:       gofakeit.Sentence(3),
		Description: gofakeit.Sentence(10),
		UniqueLink:  hex.EncodeToString(buf),
		UserID:      user.ID,
	}
	for i, p := range prompts {
		bundle.Items = append(bundle.Items, models.BundleItem{
			PromptID: p.ID,
			Position: i,
		})
	}

	for _, override := range overrides {
		override(bundle)
	}

	if err := f.db.Create(bundle).Error; err != nil {
		return nil, err
	}
	return bundle, nil
}

// CreatePayment records a successful historical payment for the user.
func (f *Factory) CreatePayment(user *models.User, amount int64) error {
	payment := &models.Payment{
		PaymentID: "pay_" + gofakeit.LetterN(14),
		OrderID:   "order_" + gofakeit.LetterN(14),
		Amount:    amount,
		Currency:  "INR",
		Status:    models.PaymentStatusSuccess,
		UserID:    user.ID,
	}
	return f.db.Create(payment).Error
}
