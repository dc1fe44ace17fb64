package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/reconciler"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/remote"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/webserver"
)

type productPayload struct {
	Name        string  `json:"name"`
	ProductCode string  `json:"productCode"`
	BoxQuantity int     `json:"boxQuantity"`
	PiecePrice  float64 `json:"piecePrice"`
	ImageURL    string  `json:"imageUrl"`
	IsNew       bool    `json:"isNew"`
	CategoryID  string  `json:"categoryId"`
}

// productView adds the derived prices; they are computed at render time and
// never stored.
type productView struct {
	domain.Product
	PackPrice float64 `json:"packPrice"`
	BoxPrice  float64 `json:"boxPrice"`
}

func viewOfProduct(p domain.Product) productView {
	return productView{Product: p, PackPrice: p.PackPrice(), BoxPrice: p.BoxPrice()}
}

func registerProductRoutes() {
	// storefront reads, served from the local cache so they work offline
	webserver.ApiGET("/api/products", listProducts)
	webserver.ApiGET("/api/products/new", listNewProducts)
	webserver.ApiGET("/api/products/:id", getProduct)

	// admin CRUD
	webserver.ApiPOST("/api/admin/products", createProduct)
	webserver.ApiPUT("/api/admin/products/:id", updateProduct)
	webserver.ApiDELETE("/api/admin/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	a := GetApp(c)
	items, err := loadProducts(a)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to read products", err.Error())
	}

	categoryID := strings.TrimSpace(c.QueryParam("categoryId"))
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))

	views := make([]productView, 0, len(items))
	for _, p := range items {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.ProductCode), q) {
			continue
		}
		views = append(views, viewOfProduct(p))
	}
	return ok(c, views)
}

func listNewProducts(c echo.Context) error {
	a := GetApp(c)
	items, err := loadProducts(a)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to read products", err.Error())
	}
	settings := loadSettings(a)

	now := time.Now()
	views := make([]productView, 0)
	for _, p := range items {
		if p.IsNewWithin(settings.NewProductDays, now) {
			views = append(views, viewOfProduct(p))
		}
	}
	return ok(c, views)
}

func getProduct(c echo.Context) error {
	items, err := loadProducts(GetApp(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to read products", err.Error())
	}
	id := c.Param("id")
	for _, p := range items {
		if p.ID == id {
			return ok(c, viewOfProduct(p))
		}
	}
	return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	now := time.Now()
	p := domain.Product{
		ID:          domain.NewRecordID(),
		Name:        strings.TrimSpace(payload.Name),
		ProductCode: strings.TrimSpace(payload.ProductCode),
		BoxQuantity: payload.BoxQuantity,
		PiecePrice:  payload.PiecePrice,
		ImageURL:    strings.TrimSpace(payload.ImageURL),
		IsNew:       payload.IsNew,
		CategoryID:  strings.TrimSpace(payload.CategoryID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	outcome, err := saveProduct(c, p)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to save product", err.Error())
	}
	GetApp(c).LogOperation(adminName(c), c.RealIP(), "create", "product "+p.ID)
	return ok(c, map[string]interface{}{"product": viewOfProduct(p), "sync": outcome})
}

func updateProduct(c echo.Context) error {
	a := GetApp(c)
	items, err := loadProducts(a)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to read products", err.Error())
	}
	id := c.Param("id")
	var existing *domain.Product
	for i := range items {
		if items[i].ID == id {
			existing = &items[i]
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

	p := *existing
	p.Name = strings.TrimSpace(payload.Name)
	p.ProductCode = strings.TrimSpace(payload.ProductCode)
	p.BoxQuantity = payload.BoxQuantity
	p.PiecePrice = payload.PiecePrice
	p.ImageURL = strings.TrimSpace(payload.ImageURL)
	p.IsNew = payload.IsNew
	p.CategoryID = strings.TrimSpace(payload.CategoryID)
	p.UpdatedAt = time.Now()
	if err := p.Validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	outcome, err := saveProduct(c, p)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to save product", err.Error())
	}
	GetApp(c).LogOperation(adminName(c), c.RealIP(), "update", "product "+p.ID)
	return ok(c, map[string]interface{}{"product": viewOfProduct(p), "sync": outcome})
}

func deleteProduct(c echo.Context) error {
	a := GetApp(c)
	id := c.Param("id")
	res, err := a.Reconciler().Delete(c.Request().Context(), remote.DatasetProducts, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to delete product", err.Error())
	}
	GetApp(c).LogOperation(adminName(c), c.RealIP(), "delete", "product "+id)
	return ok(c, map[string]interface{}{"id": id, "sync": outcomeOf(res)})
}

func saveProduct(c echo.Context, p domain.Product) (syncOutcome, error) {
	rec, err := reconciler.NewSyncRecord(&p)
	if err != nil {
		return syncOutcome{}, err
	}
	res, err := GetApp(c).Reconciler().SaveLocal(c.Request().Context(), remote.DatasetProducts, rec)
	if err != nil {
		return syncOutcome{}, err
	}
	return outcomeOf(res), nil
}

// outcomeOf maps the reconciler result onto the user-facing banner text. A
// failed push is a degraded success: the record is durably saved locally.
func outcomeOf(res reconciler.SaveResult) syncOutcome {
	if res.Pushed {
		return syncOutcome{SyncedRemotely: true}
	}
	switch {
	case errors.Is(res.SyncErr, reconciler.ErrOffline):
		return syncOutcome{Notice: "Saved locally; changes will sync once back online."}
	case errors.Is(res.SyncErr, reconciler.ErrCooldown),
		errors.Is(res.SyncErr, reconciler.ErrSyncInFlight):
		return syncOutcome{Notice: "Saved locally; a sync just ran, the change uploads shortly."}
	case res.SyncErr != nil:
		return syncOutcome{Notice: reconciler.Classify(res.SyncErr).UserMessage}
	default:
		return syncOutcome{Notice: "Saved locally."}
	}
}

func adminName(c echo.Context) string {
	return GetApp(c).Config().Web.AdminUsername
}
