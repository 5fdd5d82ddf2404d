package rest

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRouter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Router Suite")
}

var _ = Describe("OpenAPI contract", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(openapi3.NewLoader().Context)).To(Succeed())
	})

	It("documents the core portal operations", func() {
		for _, p := range []string{
			"/auth/login",
			"/auth/signup",
			"/users/me",
			"/platforms",
			"/platforms/{platformID}/secret",
			"/announcements",
			"/admin/profiles",
			"/admin/users/{userID}/grants",
			"/admin/users/{userID}/expiration",
			"/admin/users/{userID}/toggle-block",
			"/admin/presence",
			"/admin/provision",
		} {
			Expect(doc.Paths.Find(p)).NotTo(BeNil(), "path %s missing from openapi.yml", p)
		}
	})

	It("marks gated operations with bearer auth", func() {
		item := doc.Paths.Find("/platforms/{platformID}/secret")
		Expect(item).NotTo(BeNil())
		Expect(item.Get).NotTo(BeNil())
		Expect(item.Get.Security).NotTo(BeNil())
	})
})

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// routePatterns walks a chi router and collects method+pattern pairs.
func routePatterns(router *chi.Mux) map[string]struct{} {
	routes := make(map[string]struct{})
	walker := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		route = strings.ReplaceAll(route, "/*/", "/")
		routes[method+" "+route] = struct{}{}
		return nil
	}
	_ = chi.Walk(router, walker)
	return routes
}

var _ = Describe("route registration", func() {
	It("mounts every documented API path", func() {
		router := chi.NewRouter()
		RegisterAllRoutes(router, nil, nil, Handlers{}, "*", "", discardLogger())

		routes := routePatterns(router)

		for _, want := range []string{
			"GET /api/v1/health",
			"GET /api/v1/ping",
			"POST /api/v1/auth/login",
			"POST /api/v1/auth/signup",
			"POST /api/v1/auth/refresh",
			"GET /api/v1/users/me",
			"GET /api/v1/platforms",
			"GET /api/v1/platforms/{platformID}/secret",
			"GET /api/v1/announcements",
			"GET /api/v1/admin/profiles",
			"PUT /api/v1/admin/users/{userID}/grants",
			"PATCH /api/v1/admin/users/{userID}/expiration",
			"POST /api/v1/admin/users/{userID}/toggle-block",
			"GET /api/v1/admin/presence",
			"POST /api/v1/admin/covers",
			"POST /api/v1/admin/provision",
		} {
			_, ok := routes[want]
			Expect(ok).To(BeTrue(), "route %s not registered", want)
		}
	})
})
