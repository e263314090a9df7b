package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/app/models"
	"github.com/shashiranjanraj/wardrobe/config"
	"github.com/shashiranjanraj/wardrobe/database/seeders"
	"github.com/shashiranjanraj/wardrobe/internal/kernel"
	"github.com/shashiranjanraj/wardrobe/internal/testdb"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/middleware"
	"github.com/shashiranjanraj/wardrobe/pkg/storage"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type api struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db := testdb.Open(t)
	require.NoError(t, seeders.SeedAdmin(context.Background(), db))

	disk, err := storage.NewLocalDisk(t.TempDir(), config.UploadURL())
	require.NoError(t, err)

	return &api{
		t:  t,
		db: db,
		handler: kernel.NewHandler(kernel.Deps{
			DB:        db,
			Disk:      disk,
			RateStore: middleware.NewMemoryStore(),
			Issuer:    auth.NewIssuer("test-secret", time.Hour),
		}),
	}
}

func (a *api) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *api) json(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, token)
}

func (a *api) form(method, path, token string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(a.t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "shirt.png")
		require.NoError(a.t, err)
		_, err = part.Write(image)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.do(req, token)
}

func (a *api) login(username, password string) string {
	rec := a.json(http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	decode(a.t, rec, &out)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

type productBody struct {
	Product struct {
		ID            uint    `json:"id"`
		SerialNumber  string  `json:"serial_number"`
		Price         float64 `json:"price"`
		ImageURL      string  `json:"image_url"`
		TotalQuantity int64   `json:"total_quantity"`
		Variants      []struct {
			Color    string `json:"color"`
			Size     string `json:"size"`
			Quantity int64  `json:"quantity"`
		} `json:"variants"`
	} `json:"product"`
}

func TestHealth(t *testing.T) {
	a := newAPI(t)

	rec := a.json(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	decode(t, rec, &out)
	assert.Equal(t, "OK", out["status"])
	assert.NotEmpty(t, out["timestamp"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLogin(t *testing.T) {
	a := newAPI(t)

	rec := a.json(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.json(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := a.login(config.AdminEmail(), config.AdminPassword())

	rec = a.json(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
			Password string `json:"password_hash"`
		} `json:"user"`
	}
	decode(t, rec, &me)
	assert.Equal(t, config.AdminUsername(), me.User.Username)
	assert.Equal(t, auth.RoleAdmin, me.User.Role)
	assert.Empty(t, me.User.Password)
}

func TestRejectedTokensCauseNoWrites(t *testing.T) {
	a := newAPI(t)
	fields := map[string]string{
		"serial_number": "TS-001",
		"price":         "10",
		"variants":      `[{"color":"Black","size":"S","quantity":1}]`,
	}

	for _, token := range []string{"", "garbage"} {
		rec := a.form(http.MethodPost, "/api/products", token, fields, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	var n int64
	require.NoError(t, a.db.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAdminOnlyRoutes(t *testing.T) {
	a := newAPI(t)
	admin := a.login(config.AdminUsername(), config.AdminPassword())

	rec := a.json(http.MethodPost, "/api/auth/register", admin, map[string]string{
		"username": "clerk", "email": "clerk@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	decode(t, rec, &created)
	assert.NotZero(t, created["userId"])

	rec = a.json(http.MethodPost, "/api/auth/register", admin, map[string]string{
		"username": "clerk", "email": "other@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.json(http.MethodPost, "/api/auth/register", admin, map[string]string{
		"username": "x", "email": "not-an-email", "password": "1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var invalid struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &invalid)
	assert.Contains(t, invalid.Errors, "username")
	assert.Contains(t, invalid.Errors, "email")
	assert.Contains(t, invalid.Errors, "password")

	clerk := a.login("clerk", "secret1")
	assert.Equal(t, http.StatusForbidden, a.json(http.MethodGet, "/api/auth/users", clerk, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.json(http.MethodPost, "/api/auth/register", clerk, map[string]string{
		"username": "sneaky", "email": "sneaky@example.com", "password": "secret1",
	}).Code)

	rec = a.json(http.MethodGet, "/api/auth/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users struct {
		Users []map[string]any `json:"users"`
	}
	decode(t, rec, &users)
	require.Len(t, users.Users, 2)
	assert.Equal(t, "clerk", users.Users[0]["username"])
	assert.NotContains(t, users.Users[0], "password_hash")
}

func TestProductLifecycle(t *testing.T) {
	a := newAPI(t)
	token := a.login(config.AdminUsername(), config.AdminPassword())

	rec := a.form(http.MethodPost, "/api/products", token, map[string]string{
		"serial_number": "TS-001",
		"price":         "19.99",
		"composition":   "100% cotton",
		"variants":      `[{"color":"Black","size":"S","quantity":5},{"color":"Black","size":"M","quantity":"2"}]`,
	}, pngBytes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created productBody
	decode(t, rec, &created)
	p := created.Product
	assert.Equal(t, 19.99, p.Price)
	assert.Equal(t, int64(7), p.TotalQuantity)
	require.Len(t, p.Variants, 2)
	require.NotEmpty(t, p.ImageURL)

	img := a.do(httptest.NewRequest(http.MethodGet, p.ImageURL, nil), "")
	assert.Equal(t, http.StatusOK, img.Code)

	path := "/api/products/" + jsonID(p.ID)

	rec = a.form(http.MethodPut, path, token, map[string]string{"price": "25"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated productBody
	decode(t, rec, &updated)
	assert.Equal(t, 25.0, updated.Product.Price)
	assert.Equal(t, "TS-001", updated.Product.SerialNumber)
	assert.Len(t, updated.Product.Variants, 2)

	rec = a.form(http.MethodPut, path, token, map[string]string{
		"variants": `[{"color":"Red","size":"L","quantity":1}]`,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &updated)
	require.Len(t, updated.Product.Variants, 1)
	assert.Equal(t, "Red", updated.Product.Variants[0].Color)

	rec = a.form(http.MethodPut, path, token, map[string]string{"variants": `[]`}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.json(http.MethodGet, "/api/products/stats/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]float64
	decode(t, rec, &stats)
	assert.Equal(t, 1.0, stats["totalProducts"])
	assert.Equal(t, 1.0, stats["totalQuantity"])
	assert.Equal(t, 25.0, stats["totalValue"])

	rec = a.json(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, a.json(http.MethodGet, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.json(http.MethodDelete, path, token, nil).Code)
}

func TestProductValidationErrors(t *testing.T) {
	a := newAPI(t)
	token := a.login(config.AdminUsername(), config.AdminPassword())

	ok := map[string]string{
		"serial_number": "TS-001",
		"price":         "10",
		"variants":      `[{"color":"Black","size":"S","quantity":1}]`,
	}
	require.Equal(t, http.StatusCreated, a.form(http.MethodPost, "/api/products", token, ok, nil).Code)

	cases := map[string]struct {
		fields map[string]string
		field  string
	}{
		"duplicate serial": {ok, "serial_number"},
		"missing variants": {map[string]string{"serial_number": "TS-002", "price": "10"}, "variants"},
		"empty variants":   {map[string]string{"serial_number": "TS-002", "price": "10", "variants": "[]"}, "variants"},
		"bad quantity":     {map[string]string{"serial_number": "TS-002", "price": "10", "variants": `[{"color":"A","size":"S","quantity":-3}]`}, "variants"},
		"bad price":        {map[string]string{"serial_number": "TS-002", "price": "cheap", "variants": ok["variants"]}, "price"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := a.form(http.MethodPost, "/api/products", token, tc.fields, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var body struct {
				Errors map[string]string `json:"errors"`
			}
			decode(t, rec, &body)
			assert.Contains(t, body.Errors, tc.field)
		})
	}

	rec := a.form(http.MethodPost, "/api/products", token, map[string]string{
		"serial_number": "TS-003", "price": "10", "variants": ok["variants"],
	}, []byte("plain text is not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNotFound, a.json(http.MethodGet, "/api/products/999", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.json(http.MethodGet, "/api/products/abc", token, nil).Code)
}

func TestProductListing(t *testing.T) {
	a := newAPI(t)
	token := a.login(config.AdminUsername(), config.AdminPassword())

	for _, serial := range []string{"TS-001", "TS-002", "TS-003"} {
		rec := a.form(http.MethodPost, "/api/products", token, map[string]string{
			"serial_number": serial,
			"price":         "10",
			"variants":      `[{"color":"Black","size":"S","quantity":1},{"color":"Black","size":"M","quantity":1}]`,
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := a.json(http.MethodGet, "/api/products?page=2&limit=2&color=black", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Items []struct {
			SerialNumber      string           `json:"serial_number"`
			CreatedByUsername string           `json:"created_by_username"`
			Variants          []map[string]any `json:"variants"`
		} `json:"items"`
		Pagination struct {
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			Total      int64 `json:"total"`
			TotalPages int   `json:"totalPages"`
		} `json:"pagination"`
	}
	decode(t, rec, &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "TS-001", out.Items[0].SerialNumber)
	assert.Equal(t, config.AdminUsername(), out.Items[0].CreatedByUsername)
	assert.Len(t, out.Items[0].Variants, 2)
	assert.Equal(t, 2, out.Pagination.Page)
	assert.Equal(t, int64(3), out.Pagination.Total)
	assert.Equal(t, 2, out.Pagination.TotalPages)

	rec = a.json(http.MethodGet, "/api/products/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/vnd.openxmlformats"))
	assert.NotZero(t, rec.Body.Len())
}

func TestGenerateVariantsEndpoint(t *testing.T) {
	a := newAPI(t)
	token := a.login(config.AdminUsername(), config.AdminPassword())

	rec := a.json(http.MethodPost, "/api/products/variants/generate", token, map[string]any{
		"colors":   []string{"Black", "White"},
		"sizes":    []string{"S", "M"},
		"variants": []map[string]any{{"color": "Black", "size": "S", "quantity": 5}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Variants []struct {
			Color    string `json:"color"`
			Size     string `json:"size"`
			Quantity int64  `json:"quantity"`
		} `json:"variants"`
	}
	decode(t, rec, &out)
	require.Len(t, out.Variants, 4)
	assert.Equal(t, int64(5), out.Variants[0].Quantity)
	assert.Equal(t, "White", out.Variants[3].Color)
	assert.Equal(t, "M", out.Variants[3].Size)
}

func TestInventoryEndpoints(t *testing.T) {
	a := newAPI(t)
	token := a.login(config.AdminUsername(), config.AdminPassword())

	rec := a.form(http.MethodPost, "/api/inventory", token, map[string]string{
		"serial_number": "INV-1", "size": "M", "color": "Black", "quantity": "3", "price": "12.5",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Item struct {
			ID       uint  `json:"id"`
			Quantity int64 `json:"quantity"`
		} `json:"item"`
	}
	decode(t, rec, &created)
	path := "/api/inventory/" + jsonID(created.Item.ID)

	rec = a.form(http.MethodPost, "/api/inventory", token, map[string]string{
		"serial_number": "INV-2", "size": "M", "color": "Black", "quantity": "-1", "price": "1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.form(http.MethodPut, path, token, map[string]string{"quantity": "8"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.json(http.MethodGet, "/api/inventory?search=INV", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []struct {
			Quantity int64 `json:"quantity"`
		} `json:"items"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(8), list.Items[0].Quantity)

	assert.Equal(t, http.StatusOK, a.json(http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.json(http.MethodGet, path, token, nil).Code)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
