package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adiwidodo/tokokita-backend/api/controllers"
	"github.com/adiwidodo/tokokita-backend/api/middleware"
	"github.com/adiwidodo/tokokita-backend/internal/cart"
	checkoutsvc "github.com/adiwidodo/tokokita-backend/internal/checkout"
	"github.com/adiwidodo/tokokita-backend/internal/orders"
	"github.com/adiwidodo/tokokita-backend/internal/products"
	"github.com/adiwidodo/tokokita-backend/internal/reviews"
	"github.com/adiwidodo/tokokita-backend/internal/shipping"
	"github.com/adiwidodo/tokokita-backend/internal/wishlist"
	"github.com/adiwidodo/tokokita-backend/pkg/config"
	"github.com/adiwidodo/tokokita-backend/pkg/logger"
	"github.com/adiwidodo/tokokita-backend/pkg/metrics"
	pkgredis "github.com/adiwidodo/tokokita-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       pkgredis.IdempotencyStore
	Readiness   []controllers.ReadinessCheck
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	ProductService  products.Service
	ShippingService shipping.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrderService    orders.Service
	WishlistService wishlist.Service
	ReviewService   reviews.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Readiness, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog surface.
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.ProductService, logg))
			r.Get("/featured", controllers.FeaturedProducts(deps.ProductService, logg))
			r.Get("/{slug}", controllers.GetProductBySlug(deps.ProductService, logg))
			r.Get("/{slug}/reviews", controllers.ListProductReviews(deps.ReviewService, logg))
		})
		r.Get("/shipping-services", controllers.ListShippingServices(deps.ShippingService, logg))

		// Everything below requires a signed-in buyer.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.CartService, logg))
				r.Delete("/", controllers.ClearCart(deps.CartService, logg))
				r.Post("/items", controllers.AddCartItem(deps.CartService, logg))
				r.Put("/items/{itemId}", controllers.UpdateCartItem(deps.CartService, logg))
				r.Delete("/items/{itemId}", controllers.RemoveCartItem(deps.CartService, logg))
			})

			r.With(middleware.Idempotency(deps.Redis, cfg.Checkout.IdempotencyTTL, logg)).
				Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.OrderService, logg))
				r.Get("/{orderId}", controllers.GetOrder(deps.OrderService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.GetWishlist(deps.WishlistService, logg))
				r.Post("/", controllers.AddWishlistItem(deps.WishlistService, logg))
				r.Delete("/{productId}", controllers.RemoveWishlistItem(deps.WishlistService, logg))
			})

			r.Post("/reviews", controllers.CreateReview(deps.ReviewService, logg))
		})
	})

	return r
}
