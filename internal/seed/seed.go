package seed

import (
	"fmt"
	"log"
	mrand "math/rand"

	"odbyte/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPrompts  int
	ShouldClean bool
}

// Seed populates the database with demo data: an admin, one well-known
// account per plan tier, and a mesh of users, prompts, favorites and
// bundles. Some top-tier prompts are scattered across the premium review
// states so the admin queue is not empty.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d prompts...", opts.NumUsers, opts.NumPrompts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	f := NewFactory(db)

	if err := createKnownAccounts(f); err != nil {
		return fmt.Errorf("failed to create known accounts: %w", err)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	prompts := make([]*models.Prompt, 0, opts.NumPrompts)
	for i := 0; i < opts.NumPrompts; i++ {
		author := users[mrand.Intn(len(users))]
		prompt, err := f.CreatePrompt(author, premiumSpread(author))
		if err != nil {
			return fmt.Errorf("failed to create prompts: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	log.Printf("Created %d prompts", len(prompts))

	if err := seedFavorites(f, users, prompts); err != nil {
		return fmt.Errorf("failed to create favorites: %w", err)
	}

	if err := seedBundles(f, users, prompts); err != nil {
		return fmt.Errorf("failed to create bundles: %w", err)
	}

	log.Println("Seeding completed")
	log.Printf("All seeded accounts use the password: %s", DefaultPassword)
	return nil
}

// createKnownAccounts makes predictable logins for manual testing.
func createKnownAccounts(f *Factory) error {
	if _, err := f.CreateUser(func(u *models.User) {
		u.Name = "Odbyte Admin"
		u.Email = "admin@odbyte.dev"
		u.Plan = models.PlanPremium
		u.IsAdmin = true
	}); err != nil {
		return err
	}

	for _, plan := range []string{models.PlanFree, models.PlanSilver, models.PlanDiamond, models.PlanPremium} {
		plan := plan
		if _, err := f.CreateUser(func(u *models.User) {
			u.Name = "Demo " + plan
			u.Email = plan + "@odbyte.dev"
			u.Plan = plan
		}); err != nil {
			return err
		}
	}
	return nil
}

// premiumSpread puts a fraction of top-tier prompts into the premium
// review pipeline.
func premiumSpread(author *models.User) func(*models.Prompt) {
	return func(p *models.Prompt) {
		if !models.IsTopTier(author.Plan) || mrand.Intn(5) != 0 {
			return
		}
		switch mrand.Intn(3) {
		case 0:
			p.PremiumStatus = models.PremiumStatusPending
		case 1:
			// Only approved prompts carry the premium flag, and approval
			// forces them public.
			p.PremiumStatus = models.PremiumStatusApproved
			p.IsPremium = true
			p.Visibility = models.VisibilityPublic
		default:
			p.PremiumStatus = models.PremiumStatusRejected
		}
	}
}

func seedFavorites(f *Factory, users []*models.User, prompts []*models.Prompt) error {
	count := 0
	for _, user := range users {
		// Each user stars a few distinct public prompts.
		seen := map[uint]bool{}
		for i := 0; i < 3 && len(prompts) > 0; i++ {
			prompt := prompts[mrand.Intn(len(prompts))]
			if seen[prompt.ID] || prompt.UserID == user.ID || prompt.Visibility != models.VisibilityPublic {
				continue
			}
			seen[prompt.ID] = true
			if err := f.CreateFavorite(user, prompt); err != nil {
				return err
			}
			count++
		}
	}
	log.Printf("Created %d favorites", count)
	return nil
}

func seedBundles(f *Factory, users []*models.User, prompts []*models.Prompt) error {
	byAuthor := map[uint][]*models.Prompt{}
	for _, p := range prompts {
		byAuthor[p.UserID] = append(byAuthor[p.UserID], p)
	}

	count := 0
	for _, user := range users {
		own := byAuthor[user.ID]
		if len(own) < 2 || mrand.Intn(2) == 0 {
			continue
		}
		n := 2 + mrand.Intn(min(len(own)-1, 4))
		if n > len(own) {
			n = len(own)
		}
		if _, err := f.CreateBundle(user, own[:n]); err != nil {
			return err
		}
		count++
	}
	log.Printf("Created %d bundles", count)
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE payments, bundle_items, prompt_bundles, favorites, prompts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
