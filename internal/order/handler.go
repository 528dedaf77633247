// AngelaMos | 2026
// handler.go

package order

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

// RegisterRoutes mounts the order endpoints. placeLimiter guards checkout
// separately from the global limiter and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
	placeLimiter func(http.Handler) http.Handler,
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{orderID}", h.Get)

		if placeLimiter != nil {
			r.With(placeLimiter).Post("/", h.Create)
		} else {
			r.Post("/", h.Create)
		}

		r.With(adminOnly).Put("/{orderID}/status", h.UpdateStatus)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := core.DecodeAndValidate(w, r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	o, err := h.service.PlaceOrder(r.Context(), middleware.GetUserID(r.Context()), PlaceOrderInput{
		ShippingAddress: req.ShippingAddress.toAddress(),
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "order placed", OrderEnvelope{Order: ToOrderResponse(o)})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), actorFrom(r))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, OrderListResponse{Orders: ToOrderResponseList(orders)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), actorFrom(r), chi.URLParam(r, "orderID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, OrderEnvelope{Order: ToOrderResponse(o)})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := core.DecodeAndValidate(w, r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), actorFrom(r), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKWithMessage(w, "order status updated", OrderEnvelope{Order: ToOrderResponse(o)})
}

func actorFrom(r *http.Request) Actor {
	return Actor{
		UserID: middleware.GetUserID(r.Context()),
		Admin:  middleware.IsAdmin(r.Context()),
	}
}
