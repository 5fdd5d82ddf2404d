package entitlement

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	internal "github.com/jovitools/portal/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// stubService returns canned results so the specs exercise only HTTP concerns.
type stubService struct {
	setGrantsResult  *SetGrantsResult
	setGrantsErr     error
	adjustResult     *AdjustExpirationResult
	adjustErr        error
	toggleAccount    *Account
	toggleErr        error
	deleteErr        error
	lastUserID       string
	lastSetGrantsDTO SetGrantsDTO
}

func (s *stubService) SetGrants(_ context.Context, userID string, dto SetGrantsDTO) (*SetGrantsResult, error) {
	s.lastUserID = userID
	s.lastSetGrantsDTO = dto
	return s.setGrantsResult, s.setGrantsErr
}

func (s *stubService) AdjustExpiration(_ context.Context, userID string, _ AdjustExpirationDTO) (*AdjustExpirationResult, error) {
	s.lastUserID = userID
	return s.adjustResult, s.adjustErr
}

func (s *stubService) ToggleBlock(_ context.Context, userID string) (*Account, error) {
	s.lastUserID = userID
	return s.toggleAccount, s.toggleErr
}

func (s *stubService) DeleteUser(_ context.Context, userID string) error {
	s.lastUserID = userID
	return s.deleteErr
}

func newTestRouter(svc ServiceAPI) *chi.Mux {
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Route("/admin/users/{userID}", func(ur chi.Router) {
		ur.Put("/grants", h.SetGrants)
		ur.Patch("/expiration", h.AdjustExpiration)
		ur.Post("/toggle-block", h.ToggleBlock)
		ur.Delete("/", h.DeleteUser)
	})
	return r
}

var _ = ginkgo.Describe("Entitlement Handler", func() {
	var (
		svc    *stubService
		router *chi.Mux
	)

	ginkgo.BeforeEach(func() {
		svc = &stubService{}
		router = newTestRouter(svc)
	})

	ginkgo.Describe("SetGrants", func() {
		ginkgo.It("returns the reconciliation result for a valid request", func() {
			expires := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
			svc.setGrantsResult = &SetGrantsResult{
				Account: Account{
					ProfileID:       "p1",
					UserID:          "u1",
					Email:           "member@portal.dev",
					HasAccess:       true,
					AccessExpiresAt: &expires,
				},
				PlatformIDs:   []string{"plat-a", "plat-b"},
				Added:         []string{"plat-b"},
				Removed:       nil,
				DurationLabel: "90 days",
			}

			body, _ := json.Marshal(map[string]interface{}{
				"platform_ids":  []string{"plat-a", "plat-b"},
				"duration_days": 90,
			})
			req := httptest.NewRequest(http.MethodPut, "/admin/users/u1/grants", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(svc.lastUserID).To(gomega.Equal("u1"))
			gomega.Expect(svc.lastSetGrantsDTO.PlatformIDs).To(gomega.ConsistOf("plat-a", "plat-b"))

			var resp map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp).To(gomega.HaveKeyWithValue("duration_label", "90 days"))
		})

		ginkgo.It("rejects a malformed body with 400", func() {
			req := httptest.NewRequest(http.MethodPut, "/admin/users/u1/grants", bytes.NewReader([]byte("{not json")))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("maps validation errors to 400 with a machine code", func() {
			svc.setGrantsErr = internal.NewValidationError("duration_days must be positive", internal.ErrCodeInvalidDuration)

			body, _ := json.Marshal(map[string]interface{}{
				"platform_ids":  []string{"plat-a"},
				"duration_days": -5,
			})
			req := httptest.NewRequest(http.MethodPut, "/admin/users/u1/grants", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			var resp map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp).To(gomega.HaveKeyWithValue("code", "INVALID_DURATION"))
		})
	})

	ginkgo.Describe("AdjustExpiration", func() {
		ginkgo.It("returns 409 with the lifetime code for lifetime accounts", func() {
			svc.adjustErr = internal.ErrLifetimeAccount

			body, _ := json.Marshal(map[string]interface{}{"delta_days": 30})
			req := httptest.NewRequest(http.MethodPatch, "/admin/users/u1/expiration", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
			var resp map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp).To(gomega.HaveKeyWithValue("code", "LIFETIME_ACCOUNT"))
		})

		ginkgo.It("returns the new expiration on success", func() {
			expires := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
			svc.adjustResult = &AdjustExpirationResult{
				Account: Account{
					ProfileID:       "p1",
					UserID:          "u1",
					HasAccess:       true,
					AccessExpiresAt: &expires,
				},
				ExpiresAt: expires,
			}

			body, _ := json.Marshal(map[string]interface{}{"delta_days": 30})
			req := httptest.NewRequest(http.MethodPatch, "/admin/users/u1/expiration", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(svc.lastUserID).To(gomega.Equal("u1"))
		})
	})

	ginkgo.Describe("ToggleBlock", func() {
		ginkgo.It("returns 404 for an unknown user", func() {
			svc.toggleErr = internal.ErrProfileNotFound

			req := httptest.NewRequest(http.MethodPost, "/admin/users/nope/toggle-block", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})

		ginkgo.It("returns the flipped account state", func() {
			svc.toggleAccount = &Account{ProfileID: "p1", UserID: "u1", HasAccess: false}

			req := httptest.NewRequest(http.MethodPost, "/admin/users/u1/toggle-block", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var resp map[string]interface{}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp).To(gomega.HaveKeyWithValue("has_access", false))
		})
	})

	ginkgo.Describe("DeleteUser", func() {
		ginkgo.It("returns 204 on success", func() {
			req := httptest.NewRequest(http.MethodDelete, "/admin/users/u1/", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(svc.lastUserID).To(gomega.Equal("u1"))
		})
	})
})
