package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/reconciler"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/remote"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/webserver"
)

type categoryPayload struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/api/categories", listCategories)
	webserver.ApiGET("/api/categories/:slug", getCategoryBySlug)

	webserver.ApiPOST("/api/admin/categories", createCategory)
	webserver.ApiPUT("/api/admin/categories/:id", updateCategory)
	webserver.ApiDELETE("/api/admin/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	items, err := loadCategories(GetApp(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to read categories", err.Error())
	}
	return ok(c, items)
}

func getCategoryBySlug(c echo.Context) error {
	items, err := loadCategories(GetApp(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to read categories", err.Error())
	}
	slug := c.Param("slug")
	for _, cat := range items {
		if cat.Slug == slug {
			return ok(c, cat)
		}
	}
	return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}

	now := time.Now()
	cat := domain.Category{
		ID:          domain.NewRecordID(),
		Name:        strings.TrimSpace(payload.Name),
		Slug:        domain.Slugify(payload.Name),
		Image:       strings.TrimSpace(payload.Image),
		Description: payload.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := cat.Validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	outcome, err := saveCategory(c, cat)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to save category", err.Error())
	}
	GetApp(c).LogOperation(adminName(c), c.RealIP(), "create", "category "+cat.ID)
	return ok(c, map[string]interface{}{"category": cat, "sync": outcome})
}

func updateCategory(c echo.Context) error {
	a := GetApp(c)
	items, err := loadCategories(a)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to read categories", err.Error())
	}
	id := c.Param("id")
	var existing *domain.Category
	for i := range items {
		if items[i].ID == id {
			existing = &items[i]
			break
		}
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}

	cat := *existing
	cat.Name = strings.TrimSpace(payload.Name)
	// slug always re-derives from the current name
	cat.Slug = domain.Slugify(payload.Name)
	cat.Image = strings.TrimSpace(payload.Image)
	cat.Description = payload.Description
	cat.UpdatedAt = time.Now()
	if err := cat.Validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	outcome, err := saveCategory(c, cat)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to save category", err.Error())
	}
	GetApp(c).LogOperation(adminName(c), c.RealIP(), "update", "category "+cat.ID)
	return ok(c, map[string]interface{}{"category": cat, "sync": outcome})
}

func deleteCategory(c echo.Context) error {
	a := GetApp(c)
	id := c.Param("id")
	res, err := a.Reconciler().Delete(c.Request().Context(), remote.DatasetCategories, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to delete category", err.Error())
	}
	GetApp(c).LogOperation(adminName(c), c.RealIP(), "delete", "category "+id)
	return ok(c, map[string]interface{}{"id": id, "sync": outcomeOf(res)})
}

func saveCategory(c echo.Context, cat domain.Category) (syncOutcome, error) {
	rec, err := reconciler.NewSyncRecord(&cat)
	if err != nil {
		return syncOutcome{}, err
	}
	res, err := GetApp(c).Reconciler().SaveLocal(c.Request().Context(), remote.DatasetCategories, rec)
	if err != nil {
		return syncOutcome{}, err
	}
	return outcomeOf(res), nil
}
