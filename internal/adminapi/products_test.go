package adminapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjo163/expiryexpert/internal/domain"
	"github.com/bjo163/expiryexpert/internal/store"
	"github.com/bjo163/expiryexpert/internal/webserver"
)

func newTestContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder, store.Store) {
	t.Helper()
	s, err := store.NewBoltStore(filepath.Join(t.TempDir(), "products.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.ContextStore, s)
	return c, rec, s
}

func futureDate() domain.Date {
	return domain.DateOf(time.Now().AddDate(1, 0, 0))
}

func TestCreateProduct(t *testing.T) {
	c, rec, s := newTestContext(t, http.MethodPost, "/api/v1/products",
		fmt.Sprintf(`{"name":"Milk","category":"Food","expiry_date":"%s"}`, futureDate()))

	require.NoError(t, createProduct(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	got := s.Load()
	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].Name)
	assert.Equal(t, domain.CategoryFood, got[0].Category)
	assert.NotZero(t, got[0].ID)
}

func TestCreateProductRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing category", `{"name":"Milk","expiry_date":"2030-01-01"}`},
		{"missing name", `{"category":"Food","expiry_date":"2030-01-01"}`},
		{"missing date", `{"name":"Milk","category":"Food"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec, s := newTestContext(t, http.MethodPost, "/api/v1/products", tc.body)
			require.NoError(t, createProduct(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, s.Load())
		})
	}
}

func TestCreateProductRejectsDerivedCategory(t *testing.T) {
	c, rec, _ := newTestContext(t, http.MethodPost, "/api/v1/products",
		`{"name":"Milk","category":"Expiring Soon","expiry_date":"2030-01-01"}`)

	require.NoError(t, createProduct(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductParsesDateFromExtractedText(t *testing.T) {
	c, rec, s := newTestContext(t, http.MethodPost, "/api/v1/products",
		`{"name":"Milk","category":"Food","extracted_text":"BEST BEFORE 2031-06-02"}`)

	require.NoError(t, createProduct(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	got := s.Load()
	require.Len(t, got, 1)
	assert.Equal(t, "2031-06-02", got[0].ExpiryDate.String())
}

func TestListProductsFiltersByView(t *testing.T) {
	today := domain.DateOf(time.Now())
	c, rec, s := newTestContext(t, http.MethodGet,
		"/api/v1/products?category="+strings.ReplaceAll(domain.CategoryExpiringSoon, " ", "%20"), "")
	require.NoError(t, s.Save([]domain.Product{
		{ID: 1, Name: "soon", Category: domain.CategoryFood, ExpiryDate: today.AddDays(1)},
		{ID: 2, Name: "later", Category: domain.CategoryFood, ExpiryDate: today.AddDays(800)},
	}))

	require.NoError(t, listProducts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	rows, ok := resp.Data.([]interface{})
	require.True(t, ok)
	// the day-ahead product shares this month; the +800d one cannot
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, rows, 1)
}

func TestDeleteProductUnknownIdIsNoop(t *testing.T) {
	c, rec, s := newTestContext(t, http.MethodDelete, "/api/v1/products/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, s.Save([]domain.Product{
		{ID: 1, Name: "keep", Category: domain.CategoryFood, ExpiryDate: futureDate()},
	}))

	require.NoError(t, deleteProduct(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, s.Load(), 1)
}

func TestSweepProducts(t *testing.T) {
	c, rec, s := newTestContext(t, http.MethodPost, "/api/v1/products/sweep", "")
	today := domain.DateOf(time.Now())
	require.NoError(t, s.Save([]domain.Product{
		{ID: 2, Name: "fresh", Category: domain.CategoryFood, ExpiryDate: today.AddDays(5)},
	}))

	require.NoError(t, sweepProducts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Removed int `json:"removed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.Removed)
}

func TestUpdateProductMovesToTail(t *testing.T) {
	c, rec, s := newTestContext(t, http.MethodPut, "/api/v1/products/1",
		fmt.Sprintf(`{"name":"Milk v2","category":"Food","expiry_date":"%s"}`, futureDate()))
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, s.Save([]domain.Product{
		{ID: 1, Name: "Milk", Category: domain.CategoryFood, ExpiryDate: futureDate()},
		{ID: 2, Name: "Bread", Category: domain.CategoryFood, ExpiryDate: futureDate()},
	}))

	require.NoError(t, updateProduct(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	got := s.Load()
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, "Milk v2", got[1].Name)
}

func TestExportProductsCsv(t *testing.T) {
	c, rec, s := newTestContext(t, http.MethodGet, "/api/v1/products/export", "")
	require.NoError(t, s.Save([]domain.Product{
		{ID: 1, Name: "Milk", Category: domain.CategoryFood, ExpiryDate: futureDate()},
	}))

	require.NoError(t, exportProducts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "products.csv")
	assert.Contains(t, rec.Body.String(), "Milk")
}
