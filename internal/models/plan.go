package models

// Plan tiers, ordered free < silver < diamond < premium.
const (
	PlanFree    = "free"
	PlanSilver  = "silver"
	PlanDiamond = "diamond"
	PlanPremium = "premium"
)

// Quota limits per tier. Unrecognized plans fall back to the entry limits.
const (
	promptLimitDefault = 10
	promptLimitTop     = 200
	bundleLimitDefault = 3
	bundleLimitTop     = 30
)

// IsTopTier reports whether a plan may hold private prompts, submit for
// premium review, and view approved premium prompts.
func IsTopTier(plan string) bool {
	return plan == PlanDiamond || plan == PlanPremium
}

// PromptLimit returns the maximum number of prompts the plan may author.
func PromptLimit(plan string) int {
	if IsTopTier(plan) {
		return promptLimitTop
	}
	return promptLimitDefault
}

// BundleLimit returns the maximum number of bundles the plan may own.
func BundleLimit(plan string) int {
	if IsTopTier(plan) {
		return bundleLimitTop
	}
	return bundleLimitDefault
}
