package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/unrolled/secure"

	_ "github.com/medicare/booking-api/docs"
	"github.com/medicare/booking-api/internal/api/handler"
	"github.com/medicare/booking-api/internal/api/middleware"
	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Doctors  ports.DoctorService
	Reviews  ports.ReviewService
	Checkout ports.CheckoutService
}

// RouterConfig carries the transport settings.
type RouterConfig struct {
	AllowedOrigins []string
	// AuthRateLimit is the per-IP request budget per minute on /auth routes.
	AuthRateLimit int
	Production    bool
	// Registry receives the HTTP request metrics. Nil means the default registry.
	Registry *prometheus.Registry
	// HealthChecks are probed by /health/ready.
	HealthChecks map[string]handler.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echo.WrapMiddleware(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !cfg.Production,
	}).Handler))

	// --- Metrics ---
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "medicare",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || p == "/health" || p == "/health/ready"
		},
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(cfg.HealthChecks).Readiness)

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Authenticate(svc.Auth)
	v1 := e.Group("/api/v1")

	// --- Auth ---
	rateLimit := cfg.AuthRateLimit
	if rateLimit <= 0 {
		rateLimit = 20
	}
	authHandler := handler.NewAuthHandler(svc.Auth)
	auth := v1.Group("/auth", echo.WrapMiddleware(httprate.Limit(rateLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many requests"}`))
		}),
	)))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Users ---
	userHandler := handler.NewUserHandler(svc.Users)
	users := v1.Group("/users")
	users.GET("", userHandler.List, middleware.RequireRoles(authn, domain.RoleAdmin)...)
	users.GET("/profile/me", userHandler.Me, middleware.RequireRoles(authn, domain.RolePatient)...)
	users.GET("/appointments/my-appointments", userHandler.MyAppointments, middleware.RequireRoles(authn, domain.RolePatient)...)
	users.GET("/:id", userHandler.Get, middleware.RequireRoles(authn, domain.RolePatient, domain.RoleAdmin)...)
	users.PUT("/:id", userHandler.Update, middleware.RequireRoles(authn, domain.RolePatient)...)
	users.DELETE("/:id", userHandler.Delete, middleware.RequireRoles(authn, domain.RolePatient, domain.RoleAdmin)...)

	// --- Doctors and their reviews ---
	doctorHandler := handler.NewDoctorHandler(svc.Doctors)
	reviewHandler := handler.NewReviewHandler(svc.Reviews)
	doctors := v1.Group("/doctors")
	doctors.GET("", doctorHandler.List)
	doctors.GET("/profile/me", doctorHandler.Me, middleware.RequireRoles(authn, domain.RoleDoctor)...)
	doctors.GET("/:id", doctorHandler.Get)
	doctors.PUT("/:id", doctorHandler.Update, middleware.RequireRoles(authn, domain.RoleDoctor)...)
	doctors.DELETE("/:id", doctorHandler.Delete, middleware.RequireRoles(authn, domain.RoleDoctor)...)
	doctors.PATCH("/:id/approval", doctorHandler.SetApproval, middleware.RequireRoles(authn, domain.RoleAdmin)...)
	doctors.GET("/:id/reviews", reviewHandler.List)
	doctors.POST("/:id/reviews", reviewHandler.Create, middleware.RequireRoles(authn, domain.RolePatient)...)
	v1.GET("/reviews", reviewHandler.List)

	// --- Bookings ---
	checkoutHandler := handler.NewCheckoutHandler(svc.Checkout)
	v1.POST("/bookings/checkout-session/:doctorId", checkoutHandler.Create, authn)

	return e
}

// requestLogger emits one structured access log entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
