package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/arabemerge/helpdesk/docs"
	"github.com/arabemerge/helpdesk/internal/api/handler"
	"github.com/arabemerge/helpdesk/internal/api/middleware"
	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
	"github.com/arabemerge/helpdesk/internal/core/service"
	mongorepo "github.com/arabemerge/helpdesk/internal/infrastructure/db/mongo"
	redisinfra "github.com/arabemerge/helpdesk/internal/infrastructure/db/redis"
	"github.com/arabemerge/helpdesk/internal/realtime"
)

// Dependencies carries everything the router needs that is constructed at
// startup rather than per request.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Hub       *realtime.Hub
	Notifier  service.Notifier
	Changes   ports.ChangePublisher
	JWTSecret string
	// AdminEmailDomain is the e-mail suffix that grants the admin role.
	AdminEmailDomain string
	Log              zerolog.Logger
}

// Services bundles the constructed use-case services so the startup code can
// reach them too (the notification dispatcher records through one of them).
type Services struct {
	Tickets       ports.TicketService
	Messages      ports.MessageService
	Notifications *service.NotificationService
	Auth          ports.AuthService
}

// NewServices wires repositories and services over the shared connections.
func NewServices(deps Dependencies) Services {
	ticketRepo := mongorepo.NewTicketRepository(deps.DB)
	messageRepo := mongorepo.NewMessageRepository(deps.DB)
	notificationRepo := mongorepo.NewNotificationRepository(deps.DB)
	userRepo := mongorepo.NewUserRepository(deps.DB)
	companyCache := redisinfra.NewCompanyCache(deps.Redis)

	return Services{
		Tickets: service.NewTicketService(
			ticketRepo, userRepo, messageRepo, companyCache,
			deps.Notifier, deps.Changes, deps.Log,
		),
		Messages: service.NewMessageService(
			ticketRepo, messageRepo, deps.Notifier, deps.Changes, deps.Log,
		),
		Notifications: service.NewNotificationService(notificationRepo, deps.Changes, deps.Log),
		Auth:          service.NewAuthService(userRepo, deps.JWTSecret, deps.AdminEmailDomain, 24*time.Hour),
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, svcs Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("helpdesk"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svcs.Auth)
	ticketHandler := handler.NewTicketHandler(svcs.Tickets)
	messageHandler := handler.NewMessageHandler(svcs.Messages)
	notificationHandler := handler.NewNotificationHandler(svcs.Notifications)
	reportHandler := handler.NewReportHandler(svcs.Tickets)
	streamHandler := handler.NewStreamHandler(
		deps.Hub, svcs.Tickets, svcs.Messages, svcs.Notifications, deps.Log,
	)

	authMiddleware := middleware.Auth(deps.JWTSecret, deps.AdminEmailDomain)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes (no token required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Profile routes ---
	me := e.Group("/auth/users/me", authMiddleware)
	me.GET("", authHandler.Me)
	me.PUT("", authHandler.UpdateMe)

	// --- API v1 (token required) ---
	v1 := e.Group("/v1", authMiddleware)

	v1.POST("/tickets", ticketHandler.Create)
	v1.GET("/tickets", ticketHandler.List)
	v1.GET("/tickets/counts", ticketHandler.Counts, adminOnly)
	v1.GET("/tickets/counts/me", ticketHandler.MyCounts)
	v1.GET("/tickets/:id", ticketHandler.Get)
	v1.PUT("/tickets/:id", ticketHandler.Update, adminOnly)

	v1.GET("/tickets/:id/messages", messageHandler.Thread)
	v1.POST("/tickets/:id/messages", messageHandler.Post)

	v1.GET("/notifications", notificationHandler.List)
	v1.POST("/notifications/:id/dismiss", notificationHandler.Dismiss)

	v1.GET("/stream/tickets", streamHandler.Tickets)
	v1.GET("/stream/tickets/:id/messages", streamHandler.TicketMessages)
	v1.GET("/stream/notifications", streamHandler.Notifications)

	v1.GET("/reports/tickets", reportHandler.Tickets)
	v1.GET("/reports/summary", reportHandler.Summary)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
