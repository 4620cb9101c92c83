package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/zeeverify/backend/config"
	"github.com/zeeverify/backend/internal/auth"
	"github.com/zeeverify/backend/internal/cache"
	"github.com/zeeverify/backend/internal/classifier"
	"github.com/zeeverify/backend/internal/database"
	"github.com/zeeverify/backend/internal/handlers"
	"github.com/zeeverify/backend/internal/middleware"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/moderation"
	"github.com/zeeverify/backend/internal/notify"
	"github.com/zeeverify/backend/internal/payments"
	"github.com/zeeverify/backend/internal/realtime"
	"github.com/zeeverify/backend/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := slog.LevelInfo
	if cfg.Server.Env == "development" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	logger.Info("running database migrations")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to Redis
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Review classifier: model-backed when a key is configured, word
	// lists otherwise.
	var cls classifier.Classifier
	if cfg.OpenAI.APIKey != "" {
		cls = classifier.NewOpenAIClassifier(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		logger.Warn("OPENAI_API_KEY not set, using keyword classifier")
		cls = classifier.NewKeywordClassifier()
	}

	// Notifications
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()
	dispatcher := notify.NewDispatcher(asynqClient, logger)

	var sender notify.Sender
	if cfg.Postmark.ServerToken != "" {
		sender = notify.NewPostmarkSender(cfg.Postmark.ServerToken, cfg.Postmark.FromEmail)
	} else {
		logger.Warn("POSTMARK_SERVER_TOKEN not set, emails will only be logged")
		sender = notify.NewLogSender(logger)
	}
	worker := notify.NewWorker(redisOpt, sender, cfg.Notify.WorkerConcurrency, logger)
	if err := worker.Start(); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}
	defer worker.Shutdown()

	// Moderation service
	moderationService := moderation.NewService(reviewRepo, brandRepo, userRepo, cls, redis, dispatcher, logger)

	// Payments
	gateway := payments.NewStripeGateway(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.BrandClaimPrice,
		cfg.Stripe.CheckoutReturnURL,
	)
	processor := payments.NewProcessor(gateway, paymentRepo, brandRepo, userRepo, dispatcher, logger)

	// Live score feed
	hub := realtime.NewHub(redis, logger)
	go hub.Run()
	feedHandler := realtime.NewHandler(hub, logger, cfg.CORS.AllowedOrigins)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	brandHandler := handlers.NewBrandHandler(brandRepo, reviewRepo)
	reviewHandler := handlers.NewReviewHandler(moderationService, reviewRepo, brandRepo, userRepo)
	adminHandler := handlers.NewAdminHandler(moderationService, reviewRepo, userRepo, statsRepo)
	claimHandler := handlers.NewClaimHandler(processor, paymentRepo)
	webhookHandler := handlers.NewWebhookHandler(processor)
	leadHandler := handlers.NewLeadHandler(leadRepo, brandRepo, userRepo, dispatcher)

	// Review submissions share one counter across instances
	reviewLimiter := middleware.NewRateLimiter(redis, "review_submit", cfg.API.RateLimitReviewsPerMin, logger)
	reviewLimiter.Cleanup()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	public := router.Group("/api/v1")
	{
		public.GET("/brands", brandHandler.ListBrands)
		public.GET("/brands/:slug", brandHandler.GetBrand)
		public.GET("/brands/:slug/reviews", brandHandler.GetBrandReviews)
		public.GET("/brand-words/:id", brandHandler.GetBrandWords)
		public.GET("/review-responses/:id", reviewHandler.GetReviewResponses)
		public.POST("/leads", leadHandler.CreateLead)
	}

	// Gateway webhooks authenticate by signature, not bearer token
	router.POST("/webhooks/stripe", webhookHandler.HandleStripeWebhook)

	// Live score feed
	router.GET("/ws/scores", feedHandler.HandleScoreFeed)

	// Protected routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		api.GET("/me", authHandler.GetMe)

		// Review routes
		api.POST("/reviews", middleware.RateLimitMiddleware(reviewLimiter), reviewHandler.CreateReview)
		api.GET("/reviews/:id", reviewHandler.GetReview)
		api.GET("/my/reviews", reviewHandler.MyReviews)
		api.POST("/reviews/:id/report", reviewHandler.ReportReview)
		api.POST("/reviews/:id/respond", reviewHandler.RespondToReview)

		// Brand claiming
		api.POST("/claim-brand/:id", claimHandler.CreateCheckout)
		api.GET("/my/payments", claimHandler.MyPayments)

		// Claim holder routes
		api.GET("/my/brands", brandHandler.MyBrands)
		api.GET("/my/leads", leadHandler.MyLeads)
		api.PATCH("/leads/:id", leadHandler.UpdateLeadStatus)

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/brands", brandHandler.CreateBrand)
			admin.GET("/reviews", adminHandler.ModerationQueue)
			admin.POST("/reviews/:id/moderate", adminHandler.ModerateReview)
			admin.GET("/reviews/:id/logs", adminHandler.ModerationLogs)
			admin.GET("/reports", adminHandler.ListReports)
			admin.PATCH("/reports/:id", adminHandler.ResolveReport)
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
		}
	}

	// Start server
	addr := ":" + cfg.Server.Port
	logger.Info("starting server", "addr", addr, "env", cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
