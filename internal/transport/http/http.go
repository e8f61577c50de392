package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/intent"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	deleteorder "github.com/overwatch-coder/souppp-ecom/internal/transport/http/delete_order"
	getorder "github.com/overwatch-coder/souppp-ecom/internal/transport/http/get_order"
	listorders "github.com/overwatch-coder/souppp-ecom/internal/transport/http/list_orders"
	restaurantorders "github.com/overwatch-coder/souppp-ecom/internal/transport/http/restaurant_orders"
	stripewebhook "github.com/overwatch-coder/souppp-ecom/internal/transport/http/stripe_webhook"
	updateorder "github.com/overwatch-coder/souppp-ecom/internal/transport/http/update_order"
	"github.com/overwatch-coder/souppp-ecom/pkg/http/middleware/auth"
	"github.com/overwatch-coder/souppp-ecom/pkg/http/middleware/trace"
	"github.com/overwatch-coder/souppp-ecom/pkg/logger"
	"github.com/spf13/viper"
)

type service interface {
	CreateFromIntent(ctx context.Context, in intent.Intent) (order.Order, bool, error)
	TransitionStatus(
		ctx context.Context,
		merchantID string,
		orderID string,
		target order.Status,
		claimedRestaurantID string,
	) (order.Order, error)
	GetOrders(ctx context.Context, userID string, page, limit int) ([]order.Order, error)
	GetOrder(ctx context.Context, orderID, email string) (order.Order, error)
	GetOrdersByRestaurant(
		ctx context.Context,
		merchantID string,
		restaurantID string,
		page, limit int,
	) ([]order.Order, error)
	DeleteOrder(ctx context.Context, orderID, email string) error
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting new connections and drains in-flight
// requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport. The
// webhook endpoint stays outside the auth boundary: the provider
// authenticates with its signature header instead.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/payment/stripe-webhook", h.stripeWebhook)

		r.Route("/orders", func(r chi.Router) {
			r.Use(auth.NewAuthMiddleware())

			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
			r.Patch("/{id}", h.updateOrder)
			r.Delete("/{id}", h.deleteOrder)
			r.Get("/restaurant/{id}", h.listRestaurantOrders)
		})
	})
}

func (h *HTTPTransport) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	stripewebhook.Handle(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.service)
}

func (h *HTTPTransport) updateOrder(w http.ResponseWriter, r *http.Request) {
	updateorder.UpdateOrder(w, r, h.service)
}

func (h *HTTPTransport) deleteOrder(w http.ResponseWriter, r *http.Request) {
	deleteorder.DeleteOrder(w, r, h.service)
}

func (h *HTTPTransport) listRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	restaurantorders.ListRestaurantOrders(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

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

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
