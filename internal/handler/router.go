package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	custommiddleware "github.com/mmeshcher/servicepoint/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса servicepoint.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)

		r.Get("/branding", h.Branding)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/services", h.GetServices)

			r.Route("/user", func(r chi.Router) {
				r.Get("/me", h.Me)

				r.Post("/orders", h.CreateOrder)
				r.Get("/orders", h.GetOrders)
				r.Get("/orders/{orderID}/file", h.DownloadOrderFile)

				r.Post("/balance/recharge", h.StartRecharge)
				r.Delete("/balance/recharge/{paymentID}", h.CancelRecharge)

				r.Get("/transactions", h.GetTransactions)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(h.authMiddleware.RequireAdmin)

				r.Patch("/orders/{orderID}/status", h.SetOrderStatus)
				r.Post("/orders/{orderID}/file", h.AttachOrderFile)

				r.Post("/services", h.CreateService)
				r.Put("/services/{serviceID}", h.UpdateService)

				r.Get("/users", h.GetUsers)
				r.Post("/users/{userID}/credit", h.CreditBalance)

				r.Get("/settings", h.GetSettings)
				r.Put("/settings", h.SaveSettings)

				r.Get("/summary", h.GetSummary)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
