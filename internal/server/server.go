package server

import (
	"context"
	"net/http"

	"github.com/ifex-stack/kickbook-sub000/internal/achievements"
	"github.com/ifex-stack/kickbook-sub000/internal/auth"
	"github.com/ifex-stack/kickbook-sub000/internal/booking"
	"github.com/ifex-stack/kickbook-sub000/internal/calendar"
	"github.com/ifex-stack/kickbook-sub000/internal/cancellation"
	"github.com/ifex-stack/kickbook-sub000/internal/config"
	"github.com/ifex-stack/kickbook-sub000/internal/credits"
	"github.com/ifex-stack/kickbook-sub000/internal/jobs"
	"github.com/ifex-stack/kickbook-sub000/internal/notification"
	"github.com/ifex-stack/kickbook-sub000/internal/stats"
	"github.com/ifex-stack/kickbook-sub000/internal/team"
	"github.com/ifex-stack/kickbook-sub000/internal/teamgen"
	"github.com/ifex-stack/kickbook-sub000/internal/user"
	"github.com/ifex-stack/kickbook-sub000/internal/weather"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router        *gin.Engine
	httpServer    *http.Server
	db            *sqlx.DB
	config        *config.Config
	notifications *notification.Service
	scheduler     *jobs.Scheduler
}

func New(db *sqlx.DB, cfg *config.Config, notifService *notification.Service, forecaster *weather.Client) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userRepo := user.NewRepository(db)
	teamRepo := team.NewRepository(db)
	creditsRepo := credits.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	cancellationRepo := cancellation.NewRepository(db, creditsRepo)
	statsRepo := stats.NewRepository(db)
	achievementsRepo := achievements.NewRepository(db)
	calendarRepo := calendar.NewRepository(db)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	teamService := team.NewService(teamRepo, userRepo)
	creditsService := credits.NewService(creditsRepo)
	achievementsService := achievements.NewService(achievementsRepo)
	bookingService := booking.NewService(bookingRepo, teamRepo, userRepo, creditsService, notifService)
	cancellationService := cancellation.NewService(cancellationRepo, bookingRepo, teamRepo, notifService)
	statsService := stats.NewService(statsRepo, bookingRepo, achievementsService)

	userHandler := user.NewHandler(userService)
	teamHandler := team.NewHandler(teamService)
	creditsHandler := credits.NewHandler(creditsService, cfg.StripeWebhookSecret)
	bookingHandler := booking.NewHandler(bookingService)
	cancellationHandler := cancellation.NewHandler(cancellationService)
	statsHandler := stats.NewHandler(statsService)
	achievementsHandler := achievements.NewHandler(achievementsService)
	teamgenHandler := teamgen.NewHandler(bookingService)
	notificationHandler := notification.NewHandler(notifService)
	calendarHandler := calendar.NewHandler(calendarRepo, bookingRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	router.POST("/webhooks/payment", creditsHandler.PaymentWebhook)
	router.GET("/calendar/:token", calendarHandler.Feed)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	api := router.Group("/api")
	api.Use(authMiddleware)
	{
		api.GET("/me", userHandler.GetMe)
		api.GET("/me/bookings", bookingHandler.ListMyBookings)
		api.GET("/me/achievements", achievementsHandler.ListMine)

		api.POST("/teams", teamHandler.CreateTeam)
		api.POST("/teams/join", teamHandler.JoinTeam)
		api.POST("/teams/leave", teamHandler.LeaveTeam)
		api.GET("/teams/:teamID", teamHandler.GetTeam)
		api.GET("/teams/:teamID/roster", teamHandler.GetRoster)
		api.DELETE("/teams/:teamID/members/:memberID", teamHandler.RemoveMember)
		api.PUT("/teams/:teamID/policy", teamHandler.UpdatePolicy)
		api.GET("/teams/:teamID/bookings", bookingHandler.ListTeamBookings)
		api.GET("/teams/:teamID/leaderboard", statsHandler.Leaderboard)

		api.POST("/credits/purchase", creditsHandler.Purchase)
		api.POST("/credits/use", creditsHandler.Use)
		api.GET("/credits", creditsHandler.GetBalance)
		api.GET("/credits/transactions", creditsHandler.ListTransactions)

		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings/:bookingID", bookingHandler.Get)
		api.POST("/bookings/:bookingID/join", bookingHandler.Join)
		api.GET("/bookings/:bookingID/players", bookingHandler.ListPlayers)
		api.DELETE("/bookings/:bookingID/players/:playerID", bookingHandler.RemovePlayer)
		api.GET("/bookings/:bookingID/can-cancel", cancellationHandler.CanCancel)
		api.POST("/bookings/:bookingID/cancel", cancellationHandler.Cancel)
		api.POST("/bookings/:bookingID/cancel-booking", cancellationHandler.CancelBooking)
		api.GET("/bookings/:bookingID/stats", statsHandler.GetReport)
		api.POST("/bookings/:bookingID/generate-teams", teamgenHandler.Generate)

		api.GET("/achievements", achievementsHandler.ListCatalog)
		api.GET("/players/:playerID/achievements", achievementsHandler.ListForPlayer)

		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications/:notificationID/read", notificationHandler.MarkRead)

		api.GET("/calendar/token", calendarHandler.GetToken)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/api/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/bookings/:bookingID/stats", statsHandler.Record)
		admin.GET("/notifications/queue", QueueStatus(notifService))
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	scheduler := jobs.New(bookingRepo, notifService, forecaster)

	return &Server{
		router:        router,
		db:            db,
		config:        cfg,
		notifications: notifService,
		scheduler:     scheduler,
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	if err := s.scheduler.Start(); err != nil {
		return err
	}
	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
