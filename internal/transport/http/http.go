package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/amrelsaid4/Restaurant/internal/service/services/authsvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/checkoutsvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/menusvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/ordersvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/ratingsvc"
	"github.com/amrelsaid4/Restaurant/internal/service/services/statssvc"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/admin"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/auth"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/menu"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/orders"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/payments"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/ratings"
	"github.com/amrelsaid4/Restaurant/internal/transport/http/middleware/sessionkey"
	"github.com/amrelsaid4/Restaurant/pkg/http/middleware/trace"
	"github.com/amrelsaid4/Restaurant/pkg/logger"
)

// keyProvider exposes the payment processor's client-side key.
type keyProvider interface {
	PublishableKey() string
}

type Services struct {
	Auth     *authsvc.AuthService
	Menu     *menusvc.MenuService
	Orders   *ordersvc.OrderService
	Ratings  *ratingsvc.RatingService
	Checkout *checkoutsvc.CheckoutService
	Stats    *statssvc.StatsService
	Keys     keyProvider
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	services Services
}

func NewHTTPTransport(services Services) *HTTPTransport {
	router := newRouter(services.Auth)
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		services: services,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/admin/login", h.adminLogin)
			r.Post("/logout", h.logout)
			r.Get("/me", auth.Me)
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", h.menuOverview)
			r.Get("/categories", h.categories)
			r.Get("/dishes", h.dishes)
			r.Get("/dishes/{id}", h.dish)
			r.Get("/dishes/{id}/ratings", h.dishRatings)
		})
		r.Get("/restaurant", h.restaurantInfo)

		r.Route("/ratings", func(r chi.Router) {
			r.Post("/", h.addRating)
			r.Put("/{id}", h.updateRating)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
		})
		r.Get("/profile", h.profile)

		r.Post("/checkout", h.checkout)
		r.Route("/payments", func(r chi.Router) {
			r.Get("/success", h.paymentSuccess)
			r.Get("/cancel", payments.Cancel)
			r.Get("/config", h.paymentConfig)
			r.Post("/webhook", h.paymentWebhook)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/stats/dashboard", h.dashboardStats)
			r.Get("/stats/dishes", h.dishStats)
			r.Get("/stats/customers", h.customerStats)
			r.Get("/orders", h.adminOrders)
			r.Patch("/orders/{id}/status", h.updateOrderStatus)
		})
	})
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	auth.Register(w, r, h.services.Auth)
}

func (h *HTTPTransport) login(w http.ResponseWriter, r *http.Request) {
	auth.Login(w, r, h.services.Auth)
}

func (h *HTTPTransport) adminLogin(w http.ResponseWriter, r *http.Request) {
	auth.AdminLogin(w, r, h.services.Auth)
}

func (h *HTTPTransport) logout(w http.ResponseWriter, r *http.Request) {
	auth.Logout(w, r, h.services.Auth)
}

func (h *HTTPTransport) menuOverview(w http.ResponseWriter, r *http.Request) {
	menu.Overview(w, r, h.services.Menu)
}

func (h *HTTPTransport) categories(w http.ResponseWriter, r *http.Request) {
	menu.Categories(w, r, h.services.Menu)
}

func (h *HTTPTransport) dishes(w http.ResponseWriter, r *http.Request) {
	menu.Dishes(w, r, h.services.Menu)
}

func (h *HTTPTransport) dish(w http.ResponseWriter, r *http.Request) {
	menu.Dish(w, r, h.services.Menu)
}

func (h *HTTPTransport) dishRatings(w http.ResponseWriter, r *http.Request) {
	menu.DishRatings(w, r, h.services.Menu)
}

func (h *HTTPTransport) restaurantInfo(w http.ResponseWriter, r *http.Request) {
	menu.RestaurantInfo(w, r, h.services.Menu)
}

func (h *HTTPTransport) addRating(w http.ResponseWriter, r *http.Request) {
	ratings.Add(w, r, h.services.Ratings)
}

func (h *HTTPTransport) updateRating(w http.ResponseWriter, r *http.Request) {
	ratings.Update(w, r, h.services.Ratings)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	orders.List(w, r, h.services.Orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	orders.Get(w, r, h.services.Orders)
}

func (h *HTTPTransport) profile(w http.ResponseWriter, r *http.Request) {
	orders.Profile(w, r, h.services.Orders)
}

func (h *HTTPTransport) checkout(w http.ResponseWriter, r *http.Request) {
	payments.Checkout(w, r, h.services.Checkout)
}

func (h *HTTPTransport) paymentSuccess(w http.ResponseWriter, r *http.Request) {
	payments.Success(w, r, h.services.Checkout)
}

func (h *HTTPTransport) paymentConfig(w http.ResponseWriter, r *http.Request) {
	payments.Config(w, r, h.services.Keys)
}

func (h *HTTPTransport) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	payments.Webhook(w, r, h.services.Checkout)
}

func (h *HTTPTransport) dashboardStats(w http.ResponseWriter, r *http.Request) {
	admin.Dashboard(w, r, h.services.Stats)
}

func (h *HTTPTransport) dishStats(w http.ResponseWriter, r *http.Request) {
	admin.DishStats(w, r, h.services.Stats)
}

func (h *HTTPTransport) customerStats(w http.ResponseWriter, r *http.Request) {
	admin.CustomerStats(w, r, h.services.Stats)
}

func (h *HTTPTransport) adminOrders(w http.ResponseWriter, r *http.Request) {
	admin.Orders(w, r, h.services.Orders)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	admin.UpdateOrderStatus(w, r, h.services.Orders)
}

func newRouter(authService *authsvc.AuthService) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)
	router.Use(sessionkey.NewMiddleware(authService))

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
