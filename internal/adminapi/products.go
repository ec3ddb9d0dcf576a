package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bjo163/expiryexpert/internal/classify"
	"github.com/bjo163/expiryexpert/internal/domain"
	"github.com/bjo163/expiryexpert/internal/webserver"
	"github.com/bjo163/expiryexpert/pkg/common"
)

type productPayload struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Category      string `json:"category" validate:"required,max=64"`
	ExpiryDate    string `json:"expiry_date"`
	ExtractedText string `json:"extracted_text"`
	ImageRef      string `json:"image_ref"`
}

// registerProductRoutes registers product CRUD and view endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/views/expiring-soon", listExpiringSoon)
	webserver.ApiGET("/products/views/expired", listExpired)
	webserver.ApiGET("/products/export", exportProducts)
	webserver.ApiPOST("/products/sweep", sweepProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	ref := domain.DateOf(time.Now())
	set := GetStore(c).Load()

	// category may be a stored label or one of the derived views
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		set = classify.View(set, category, ref)
	}

	if q := strings.ToLower(strings.TrimSpace(c.QueryParam("q"))); q != "" {
		filtered := make([]domain.Product, 0, len(set))
		for _, p := range set {
			if strings.Contains(strings.ToLower(p.Name), q) {
				filtered = append(filtered, p)
			}
		}
		set = filtered
	}

	total := int64(len(set))
	start := (page - 1) * pageSize
	if start > len(set) {
		start = len(set)
	}
	end := start + pageSize
	if end > len(set) {
		end = len(set)
	}

	return paged(c, classify.WithStatus(set[start:end], ref), total, page, pageSize)
}

func listExpiringSoon(c echo.Context) error {
	ref := domain.DateOf(time.Now())
	rows := classify.ExpiringSoon(GetStore(c).Load(), ref)
	return ok(c, classify.WithStatus(rows, ref))
}

func listExpired(c echo.Context) error {
	ref := domain.DateOf(time.Now())
	rows := classify.Expired(GetStore(c).Load(), ref)
	return ok(c, classify.WithStatus(rows, ref))
}

func getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	for _, p := range GetStore(c).Load() {
		if p.ID == id {
			return ok(c, p)
		}
	}
	return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
}

// resolvePayload validates the submission and resolves the expiry date,
// falling back to the extracted OCR/speech text when the date field is
// empty.
func resolvePayload(payload *productPayload) (domain.Date, string, string) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Category = strings.TrimSpace(payload.Category)

	if payload.Category == "" {
		return domain.Date{}, "MISSING_FIELD", "Category is required"
	}
	if domain.IsDerivedCategory(payload.Category) {
		return domain.Date{}, "INVALID_REQUEST", "Category must not be a derived label"
	}
	if payload.Name == "" {
		return domain.Date{}, "MISSING_FIELD", "Product Name is required"
	}

	dateStr := strings.TrimSpace(payload.ExpiryDate)
	if dateStr == "" && payload.ExtractedText != "" {
		if t, err := common.ParseFlexibleDate(payload.ExtractedText); err == nil {
			return domain.DateOf(t), "", ""
		}
	}
	if dateStr == "" {
		return domain.Date{}, "MISSING_FIELD", "Expiry Date is required"
	}
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		// date inputs coming from OCR are rarely clean; try the lenient parser
		if t, perr := common.ParseFlexibleDate(dateStr); perr == nil {
			return domain.DateOf(t), "", ""
		}
		return domain.Date{}, "INVALID_REQUEST", "Expiry Date is not a valid date"
	}
	return date, "", ""
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	date, code, msg := resolvePayload(&payload)
	if code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	now := time.Now()
	p := domain.Product{
		ID:            common.UUIDint64(),
		Name:          payload.Name,
		Category:      payload.Category,
		ExpiryDate:    date,
		ExtractedText: strings.TrimSpace(payload.ExtractedText),
		ImageRef:      strings.TrimSpace(payload.ImageRef),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := GetStore(c).Upsert(p); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to save product", err.Error())
	}
	zap.L().Info("product added", zap.Int64("id", p.ID), zap.String("name", p.Name))
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var existing *domain.Product
	for _, p := range GetStore(c).Load() {
		if p.ID == id {
			p := p
			existing = &p
			break
		}
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	date, code, msg := resolvePayload(&payload)
	if code != "" {
		return fail(c, http.StatusBadRequest, code, msg, nil)
	}

	existing.Name = payload.Name
	existing.Category = payload.Category
	existing.ExpiryDate = date
	existing.ExtractedText = strings.TrimSpace(payload.ExtractedText)
	existing.ImageRef = strings.TrimSpace(payload.ImageRef)
	existing.UpdatedAt = time.Now()

	// upsert is filter-then-append: the edited record moves to the tail
	if err := GetStore(c).Upsert(*existing); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to update product", err.Error())
	}
	zap.L().Info("product edited", zap.Int64("id", id))
	return ok(c, existing)
}

func deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetStore(c).Remove(id); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

func sweepProducts(c echo.Context) error {
	removed, err := GetStore(c).SweepExpired(domain.DateOf(time.Now()))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to sweep products", err.Error())
	}
	return ok(c, map[string]interface{}{"removed": removed})
}
