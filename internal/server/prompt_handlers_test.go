package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"odbyte/internal/models"
	"odbyte/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePrompt_FreePlanCoercedToPublic(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "Asha", "asha@example.com")

	prompt := env.createPrompt(t, token, map[string]string{
		"title":      "SQL tuning",
		"visibility": models.VisibilityPrivate,
	})

	// Private visibility is a top-tier feature; the request is accepted
	// but the stored visibility is public.
	assert.Equal(t, models.VisibilityPublic, prompt.Visibility)
}

func TestCreatePrompt_TopTierKeepsPrivate(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signup(t, "Dia", "dia@example.com")
	env.setPlan(t, userID, models.PlanDiamond)

	prompt := env.createPrompt(t, token, map[string]string{
		"title":      "Private notes",
		"visibility": models.VisibilityPrivate,
	})
	assert.Equal(t, models.VisibilityPrivate, prompt.Visibility)
}

func TestCreatePrompt_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "Asha", "asha@example.com")

	resp := env.request(t, http.MethodPost, "/api/prompts", token, map[string]string{
		"title": "Missing everything else",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestCreatePrompt_FreePlanQuota(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "Asha", "asha@example.com")

	for i := 0; i < 10; i++ {
		env.createPrompt(t, token, map[string]string{
			"title": fmt.Sprintf("Prompt %d", i),
		})
	}

	resp := env.request(t, http.MethodPost, "/api/prompts", token, map[string]string{
		"title":       "One too many",
		"description": "d",
		"content":     "c",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "PLAN_LIMIT", body["code"])
}

func TestGetPrompt_PrivateHiddenFromOthers(t *testing.T) {
	env := newTestEnv(t)
	ownerToken, ownerID := env.signup(t, "Dia", "dia@example.com")
	env.setPlan(t, ownerID, models.PlanDiamond)
	otherToken, _ := env.signup(t, "Bob", "bob@example.com")

	prompt := env.createPrompt(t, ownerToken, map[string]string{
		"title":      "Private notes",
		"visibility": models.VisibilityPrivate,
	})
	path := fmt.Sprintf("/api/prompts/%d", prompt.ID)

	// Owner sees it.
	resp := env.request(t, http.MethodGet, path, ownerToken, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Existence is not revealed to anyone else.
	for name, token := range map[string]string{"anonymous": "", "other user": otherToken} {
		t.Run(name, func(t *testing.T) {
			resp := env.request(t, http.MethodGet, path, token, nil)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestGetPrompt_AuthorEmailNeverSerialized(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "Asha", "asha@example.com")
	prompt := env.createPrompt(t, token, map[string]string{"title": "Shared"})

	resp := env.request(t, http.MethodGet, fmt.Sprintf("/api/prompts/%d", prompt.ID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var fetched models.Prompt
	require.NoError(t, json.Unmarshal(raw, &fetched))
	require.NotNil(t, fetched.Author)
	assert.Equal(t, "Asha", fetched.Author.Name)
	assert.False(t, strings.Contains(string(raw), "asha@example.com"),
		"prompt response must not expose the author email")
	assert.False(t, strings.Contains(string(raw), `"email"`))
}

func TestGetPrompt_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/prompts/abc", "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePrompt_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ownerToken, _ := env.signup(t, "Asha", "asha@example.com")
	otherToken, _ := env.signup(t, "Bob", "bob@example.com")

	prompt := env.createPrompt(t, ownerToken, map[string]string{"title": "Original"})
	path := fmt.Sprintf("/api/prompts/%d", prompt.ID)

	update := map[string]string{
		"title":       "Hijacked",
		"description": "d",
		"content":     "c",
	}

	resp := env.request(t, http.MethodPut, path, otherToken, update)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "FORBIDDEN", body["code"])

	update["title"] = "Renamed"
	resp = env.request(t, http.MethodPut, path, ownerToken, update)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Prompt
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestDeletePrompt_OwnerAndAdmin(t *testing.T) {
	env := newTestEnv(t)
	ownerToken, _ := env.signup(t, "Asha", "asha@example.com")
	adminToken, adminID := env.signup(t, "Root", "root@example.com")
	env.makeAdmin(t, adminID)
	strangerToken, _ := env.signup(t, "Bob", "bob@example.com")

	first := env.createPrompt(t, ownerToken, map[string]string{"title": "First"})
	second := env.createPrompt(t, ownerToken, map[string]string{"title": "Second"})

	// A stranger cannot delete.
	resp := env.request(t, http.MethodDelete, fmt.Sprintf("/api/prompts/%d", first.ID), strangerToken, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner can.
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/prompts/%d", first.ID), ownerToken, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// An admin can delete anyone's prompt.
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/prompts/%d", second.ID), adminToken, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Both are gone.
	resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/prompts/%d", second.ID), ownerToken, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitPremium_RequiresTopTier(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "Asha", "asha@example.com")

	prompt := env.createPrompt(t, token, map[string]string{"title": "Wannabe premium"})

	resp := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/prompts/%d/submit-premium", prompt.ID), token, nil)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "UPGRADE_REQUIRED", body["code"])
}

func TestSubmitPremium_TopTierEntersReview(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signup(t, "Dia", "dia@example.com")
	env.setPlan(t, userID, models.PlanDiamond)

	prompt := env.createPrompt(t, token, map[string]string{"title": "Premium candidate"})
	path := fmt.Sprintf("/api/prompts/%d/submit-premium", prompt.ID)

	resp := env.request(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var submitted models.Prompt
	decodeBody(t, resp, &submitted)
	assert.False(t, submitted.IsPremium)
	assert.Equal(t, models.PremiumStatusPending, submitted.PremiumStatus)

	// Resubmitting while pending is rejected.
	resp = env.request(t, http.MethodPost, path, token, nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "Asha", "asha@example.com")

	env.createPrompt(t, token, map[string]string{"title": "One"})
	env.createPrompt(t, token, map[string]string{"title": "Two"})

	resp := env.request(t, http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var dashboard service.Dashboard
	decodeBody(t, resp, &dashboard)
	assert.Equal(t, int64(2), dashboard.PromptCount)
	assert.Equal(t, 10, dashboard.PromptLimit)
	assert.Len(t, dashboard.Prompts, 2)
	assert.Equal(t, 0, dashboard.PendingCount)
}

func TestGetDashboard_DowngradedUserSeesWholeLibrary(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signup(t, "Dia", "dia@example.com")
	env.setPlan(t, userID, models.PlanDiamond)

	for i := 0; i < 12; i++ {
		env.createPrompt(t, token, map[string]string{
			"title": fmt.Sprintf("Prompt %d", i),
		})
	}
	env.setPlan(t, userID, models.PlanFree)

	resp := env.request(t, http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var dashboard service.Dashboard
	decodeBody(t, resp, &dashboard)
	// Over quota after the downgrade, but the listing is not truncated
	// to the quota.
	assert.Equal(t, int64(12), dashboard.PromptCount)
	assert.Equal(t, 10, dashboard.PromptLimit)
	assert.Len(t, dashboard.Prompts, 12)
}
