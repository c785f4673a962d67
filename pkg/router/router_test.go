package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func tag(header, value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(header, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.show", ok)
	r.Get("/products", "products.index", ok)

	url, err := r.URL("products.show", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/products/42", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err, "unfilled params should fail")

	_, err = r.URL("nope", nil)
	assert.Error(t, err)

	path, found := r.Path("products.index")
	require.True(t, found)
	assert.Equal(t, "/products", path)
}

func TestGroupPrefixAndMiddlewareOrder(t *testing.T) {
	r := router.New()

	api := r.Group("/api", tag("X-Chain", "outer"))
	admin := api.Group("/admin", tag("X-Chain", "inner"))
	admin.Post("/things", "things.create", ok, tag("X-Chain", "route"))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/things", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "route"}, rec.Result().Header.Values("X-Chain"))
}

func TestMethodIsEnforced(t *testing.T) {
	r := router.New()
	r.Delete("/carts/clear", "carts.clear", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts/clear", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/carts/clear", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutesListsRegistrations(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok)
	r.Post("/b", "b", ok)
	r.Get("/unnamed", "", ok)

	infos := r.Routes()
	assert.Len(t, infos, 2, "unnamed routes are not listed")
}
