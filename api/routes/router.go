package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercaditoapp/mercadito-backend/api/controllers"
	"github.com/mercaditoapp/mercadito-backend/api/middleware"
	"github.com/mercaditoapp/mercadito-backend/internal/addresses"
	"github.com/mercaditoapp/mercadito-backend/internal/cart"
	"github.com/mercaditoapp/mercadito-backend/internal/catalog"
	"github.com/mercaditoapp/mercadito-backend/internal/commissions"
	"github.com/mercaditoapp/mercadito-backend/internal/notify"
	"github.com/mercaditoapp/mercadito-backend/internal/pickup"
	"github.com/mercaditoapp/mercadito-backend/internal/settings"
	"github.com/mercaditoapp/mercadito-backend/pkg/config"
	"github.com/mercaditoapp/mercadito-backend/pkg/db"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
	"github.com/mercaditoapp/mercadito-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Catalog     catalog.Service
	Cart        cart.Service
	Commissions commissions.Service
	Settings    settings.Service
	Pickup      pickup.Service
	Addresses   addresses.Service
	Notify      notify.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Catalog, logg))
		r.Get("/pickup-points", controllers.ListPickupPoints(deps.Pickup, logg, false))
		r.Get("/pickup-points/{pointId}", controllers.GetPickupPoint(deps.Pickup, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/v1", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCartInfo(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
				r.Post("/items", controllers.AddToCart(deps.Cart, logg))
				r.Patch("/items/{productId}", controllers.UpdateCartQuantity(deps.Cart, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Cart, logg))
				r.Get("/business-summary/{productId}", controllers.GetBusinessSummary(deps.Cart, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.ListAddresses(deps.Addresses, logg))
				r.Post("/", controllers.CreateAddress(deps.Addresses, logg))
				r.Patch("/{addressId}", controllers.UpdateAddress(deps.Addresses, logg))
				r.Delete("/{addressId}", controllers.DeleteAddress(deps.Addresses, logg))
				r.Post("/{addressId}/default", controllers.SetDefaultAddress(deps.Addresses, logg))
			})

			r.Get("/notifications", controllers.ListNotifications(deps.Notify, logg))
			r.Post("/notifications/{notificationId}/read", controllers.MarkNotificationRead(deps.Notify, logg))
			r.Post("/notifications/read-all", controllers.MarkAllNotificationsRead(deps.Notify, logg))
		})

		r.Route("/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Post("/commissions", controllers.CreateCommissionOverride(deps.Commissions, logg))
			r.Get("/commissions", controllers.ListCommissionOverrides(deps.Commissions, logg))
			r.Post("/commissions/bulk-apply", controllers.BulkApplyCommission(deps.Commissions, logg))
			r.Get("/commissions/defaults", controllers.GetCommissionDefaults(deps.Settings, logg))
			r.Put("/commissions/defaults", controllers.UpdateCommissionDefaults(deps.Settings, logg))
			r.Get("/commissions/{overrideId}", controllers.GetCommissionOverride(deps.Commissions, logg))
			r.Patch("/commissions/{overrideId}", controllers.UpdateCommissionOverride(deps.Commissions, logg))
			r.Delete("/commissions/{overrideId}", controllers.DeleteCommissionOverride(deps.Commissions, logg))
			r.Get("/sellers/{sellerId}/commission", controllers.ResolveEffectiveCommission(deps.Commissions, logg))

			r.Post("/pickup-points", controllers.CreatePickupPoint(deps.Pickup, logg))
			r.Get("/pickup-points", controllers.ListPickupPoints(deps.Pickup, logg, true))
			r.Get("/pickup-points/{pointId}", controllers.GetPickupPoint(deps.Pickup, logg))
			r.Patch("/pickup-points/{pointId}", controllers.UpdatePickupPoint(deps.Pickup, logg))
			r.Delete("/pickup-points/{pointId}", controllers.DeactivatePickupPoint(deps.Pickup, logg))
		})
	})

	return r
}
