package router

import (
	"github.com/mkamran-dev/storefront-backend/internal/analytics"
	"github.com/mkamran-dev/storefront-backend/internal/logger"
	"github.com/mkamran-dev/storefront-backend/internal/middleware"
	"github.com/mkamran-dev/storefront-backend/internal/order"
	"github.com/mkamran-dev/storefront-backend/internal/referral"
	"github.com/mkamran-dev/storefront-backend/internal/settings"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	orderH *order.Handler,
	referralH *referral.Handler,
	analyticsH *analytics.Handler,
	settingsH *settings.Handler,
	jwtSecret []byte,
) chi.Router {
	r := chi.NewRouter()

	r.Use(logger.WithLogging)
	r.Use(chiMiddleware.Recoverer)

	r.Use(middleware.GzipHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", orderH.CreateOrder)
		r.Get("/orders", orderH.ListOrders)
		r.Put("/orders/{id}", orderH.UpdateOrder)
		r.Delete("/orders/{id}", orderH.DeleteOrder)
		r.Post("/referral-verify", referralH.Verify)
		r.Get("/analytics", analyticsH.GetSales)

		r.Route("/admin", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(jwtSecret, ""))

				r.Get("/orders/export", orderH.ExportDelivered)
				r.Get("/content", settingsH.GetContent)
				r.Post("/content", settingsH.PutContent)
			})

			// referral administration needs the super_admin role
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(jwtSecret, "super_admin"))

				r.Get("/referrals", referralH.ListCodes)
				r.Post("/referrals", referralH.CreateCode)
				r.Delete("/referrals/{id}", referralH.DeleteCode)
				r.Patch("/referrals/{id}", referralH.UpdateCode)
			})
		})
	})

	return r
}
