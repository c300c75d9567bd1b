package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/view"
)

func companySession() model.Session {
	return model.Session{ID: "sess-co", UserID: "user-9", Role: model.RoleCompany, AccessToken: "tok"}
}

func testContributors() []model.Contributor {
	return []model.Contributor{
		{ID: "1", Name: "Ada Lovelace", Username: "ada", Email: "ada@example.com", XP: 1200, IsActive: true, Languages: []string{"Go", "Rust"}},
		{ID: "2", Name: "Grace Hopper", Username: "grace", XP: 300, IsActive: true},
		{ID: "3", Name: "Linus", Username: "linus", XP: 50, Rank: "Code Master", IsActive: false},
	}
}

// =========================================================================
// DIRECTORY TESTS
// =========================================================================

func TestCompanyDashboard_ListsEveryone(t *testing.T) {
	h := newHarness(t)
	h.backend.contributors = testContributors()

	rr := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/company/dashboard", nil), companySession())
	h.companyHandler().HandleDashboard(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Showing 3 of 3 contributors")
	assert.Contains(t, body, "Go, Rust")
	assert.Contains(t, body, view.RankFor(1200))
	assert.Contains(t, body, "/company/contributors/ada")
}

func TestCompanyDashboard_Filters(t *testing.T) {
	h := newHarness(t)
	h.backend.contributors = testContributors()

	rr := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/company/dashboard?q=GRACE&status=active", nil), companySession())
	h.companyHandler().HandleDashboard(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Showing 1 of 3 contributors")
	assert.Contains(t, body, "Grace Hopper")
	assert.NotContains(t, body, "Ada Lovelace")
	assert.Contains(t, body, `value="GRACE"`)
}

func TestCompanyDashboard_BackendDown(t *testing.T) {
	h := newHarness(t)
	h.backend.listErr = errors.New("connection refused")

	rr := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/company/dashboard", nil), companySession())
	h.companyHandler().HandleDashboard(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Showing 0 of 0 contributors")
	assert.Contains(t, body, "No contributors match these filters.")
	assert.Contains(t, body, "Failed to fetch contributors")
}

// =========================================================================
// CONTRIBUTOR CARD TESTS
// =========================================================================

func TestCompanyContributor(t *testing.T) {
	h := newHarness(t)
	h.backend.contributors = testContributors()

	r := chi.NewRouter()
	r.Get("/company/contributors/{username}", h.companyHandler().HandleContributor)

	t.Run("found, case-insensitive", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/company/contributors/ADA", nil), companySession()))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Ada Lovelace")
		assert.Contains(t, body, "mailto:ada@example.com")
		assert.Contains(t, body, "Active contributor")
	})

	t.Run("backend rank wins", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/company/contributors/linus", nil), companySession()))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), view.RankMaster)
	})

	t.Run("unknown", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/company/contributors/nobody", nil), companySession()))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Contributor not found")
	})
}

func TestCompanyContributor_BackendDown(t *testing.T) {
	h := newHarness(t)
	h.backend.listErr = errors.New("connection refused")

	r := chi.NewRouter()
	r.Get("/company/contributors/{username}", h.companyHandler().HandleContributor)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/company/contributors/ada", nil), companySession()))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Contributor unavailable")
}
