// AngelaMos | 2026
// handler.go

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/souk-api/internal/core"
	"github.com/carterperez-dev/souk-api/internal/middleware"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Get)
		r.Post("/add", h.Add)
		r.Put("/update", h.Update)
		r.Delete("/clear", h.Clear)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, CartResponse{Cart: view})
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := core.DecodeAndValidate(w, r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.service.AddItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.ProductID,
		quantity,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "added to cart", CartResponse{Cart: view})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := core.DecodeAndValidate(w, r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	view, err := h.service.UpdateItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.ProductID,
		req.Quantity,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "cart updated", CartResponse{Cart: view})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Clear(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "cart cleared", CartResponse{Cart: view})
}
