// AngelaMos | 2026
// handler.go

package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/souk-api/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{slug}", h.GetCategory)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/featured", h.Featured)
		r.Get("/deals", h.Deals)
		r.Get("/{slug}", h.GetProduct)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/categories", h.CreateCategory)
		r.Post("/products", h.CreateProduct)
		r.Patch("/products/{productID}", h.UpdateProduct)
	})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"categories": categories})
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"category": category})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Featured: q.Get("featured") == "true",
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
		Page:     parseIntQuery(r, "page", 1),
		Limit:    parseIntQuery(r, "limit", DefaultPageLimit),
	}

	var err error
	if filter.MinPrice, err = parseDecimalQuery(r, "min_price"); err != nil {
		core.BadRequest(w, "min_price must be a number")
		return
	}
	if filter.MaxPrice, err = parseDecimalQuery(r, "max_price"); err != nil {
		core.BadRequest(w, "max_price must be a number")
		return
	}

	page, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ProductListResponse{Products: page.Products}, page.Pagination)
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Featured(r.Context(), parseIntQuery(r, "limit", DefaultFeaturedLimit))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ProductListResponse{Products: products})
}

func (h *Handler) Deals(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Deals(r.Context(), parseIntQuery(r, "limit", DefaultDealsLimit))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ProductListResponse{Products: products})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, detail)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := core.DecodeAndValidate(w, r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "category created", category)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := core.DecodeAndValidate(w, r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "product created", product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := core.DecodeAndValidate(w, r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "product updated", product)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func parseDecimalQuery(r *http.Request, key string) (*decimal.Decimal, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil //nolint:nilnil // absent bound
	}

	d, err := decimal.NewFromString(val)
	if err != nil {
		return nil, err
	}

	return &d, nil
}
