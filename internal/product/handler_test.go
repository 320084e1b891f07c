package product

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAppWithProductHandler(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	h.RegisterAdminRoutes(app.Group("/api/v1/admin"))
	return app
}

func TestProductRoutes_Registered(t *testing.T) {
	app := makeAppWithProductHandler(NewHandler(NewService(NewInMemoryRepository(nil), false)))

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"GET /api/v1/categories",
		"POST /api/v1/admin/products",
		"PUT /api/v1/admin/products/:id",
		"DELETE /api/v1/admin/products/:id",
	} {
		assert.True(t, routes[want], "expected route %q", want)
	}
}

func TestGetProducts_QueryFilters(t *testing.T) {
	app := makeAppWithProductHandler(NewHandler(NewService(NewInMemoryRepository(sampleProducts()), false)))

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products?category=Rockets&search=pack", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var got []Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID)
}

func TestGetProducts_StoreUnavailable(t *testing.T) {
	app := makeAppWithProductHandler(NewHandler(NewService(&failingRepository{}, false)))

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, res.StatusCode)
}

func TestGetProduct(t *testing.T) {
	app := makeAppWithProductHandler(NewHandler(NewService(NewInMemoryRepository(sampleProducts()), false)))

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/p2", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(b), "Gold Sparkler")

	res, err = app.Test(httptest.NewRequest("GET", "/api/v1/products/zzz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/api/v1/products/featured", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var featured []Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&featured))
	assert.Equal(t, []string{"p1", "p4"}, ids(featured))
}

func TestCategories(t *testing.T) {
	app := makeAppWithProductHandler(NewHandler(NewService(NewInMemoryRepository(nil), false)))

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/categories", nil))
	require.NoError(t, err)
	var got []string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Len(t, got, 16)
}

func TestAdminCreateProduct_Validation(t *testing.T) {
	app := makeAppWithProductHandler(NewHandler(NewService(NewInMemoryRepository(nil), false)))

	req := httptest.NewRequest("POST", "/api/v1/admin/products", strings.NewReader(`{"name":"","category":"Toys","price":-5}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "category")
	assert.Contains(t, body.Errors, "price")

	req = httptest.NewRequest("POST", "/api/v1/admin/products", strings.NewReader(`{"name":"Atom Bomb XL","category":"Atom bomb","price":"75.50","inStock":true}`))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)
}

func TestAdminDeleteAndReset(t *testing.T) {
	repo := NewInMemoryRepository(sampleProducts())
	app := makeAppWithProductHandler(NewHandler(NewService(repo, false)))

	res, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/admin/products/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/admin/products/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("POST", "/api/v1/admin/products/reset", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	all, _ := repo.List(context.Background())
	assert.Len(t, all, 3)
}

func TestAdminReset_DemoCatalogWhenEnabled(t *testing.T) {
	repo := NewInMemoryRepository(sampleProducts())
	app := makeAppWithProductHandler(NewHandler(NewService(repo, true)))

	res, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/products/reset", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	all, _ := repo.List(context.Background())
	assert.Len(t, all, 48)
}

func TestAdminReset_MalformedBodyKeepsCatalog(t *testing.T) {
	for _, demo := range []bool{false, true} {
		repo := NewInMemoryRepository(sampleProducts())
		app := makeAppWithProductHandler(NewHandler(NewService(repo, demo)))

		req := httptest.NewRequest("POST", "/api/v1/admin/products/reset", strings.NewReader(`[{"name":"Sky Lantern","category":"Sky lanterns"`))
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

		all, _ := repo.List(context.Background())
		assert.Equal(t, sampleProducts(), all, "demo=%v", demo)
	}
}

func TestAdminReset_ReplacesWithBody(t *testing.T) {
	repo := NewInMemoryRepository(sampleProducts())
	app := makeAppWithProductHandler(NewHandler(NewService(repo, false)))

	req := httptest.NewRequest("POST", "/api/v1/admin/products/reset", strings.NewReader(`[{"id":"n1","name":"Atom Bomb XL","category":"Atom bomb","price":"75.50","inStock":true}]`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	all, _ := repo.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, "n1", all[0].ID)
}
