package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cardwise/coach_api/internal/cache"
	"github.com/cardwise/coach_api/internal/config"
	"github.com/cardwise/coach_api/internal/database"
	"github.com/cardwise/coach_api/internal/handler"
	"github.com/cardwise/coach_api/internal/middleware"
	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/predict"
	"github.com/cardwise/coach_api/internal/repository"
	"github.com/cardwise/coach_api/internal/scoring"
	"github.com/cardwise/coach_api/internal/service"
	"github.com/cardwise/coach_api/internal/worker"
)

// main is the application entrypoint for the CardWise coach API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting coach api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize performance snapshot cache
	perfCache := cache.NewPerformanceCache(redisClient, cfg.Worker.SnapshotTTL)

	// 4. Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	cardRepo := repository.NewCardRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// 5. Initialize prediction models and train from stored sales
	suite := predict.NewSuite(cfg.Predict)
	trainModels(suite, saleRepo, cardRepo)

	// 5a. Scoring engine with standard weights
	engine := scoring.Default()

	// 6. Initialize services
	authSvc := service.NewAuthService(clientRepo)
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	clientSvc := service.NewClientService(clientRepo)
	agentSvc := service.NewAgentService(agentRepo, cardRepo, saleRepo)
	cardSvc := service.NewCardService(cardRepo, agentRepo, saleRepo, engine, suite, perfCache)
	leadSvc := service.NewLeadService(cardRepo, agentRepo, saleRepo, suite)
	forecastSvc := service.NewForecastService(agentRepo, saleRepo)
	scriptSvc := service.NewScriptService(cardRepo, agentRepo, saleRepo)
	datasetSvc := service.NewDatasetService(agentRepo, cardRepo, saleRepo, suite, perfCache)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Agent:    handler.NewAgentHandler(agentSvc),
		Card:     handler.NewCardHandler(cardSvc),
		Lead:     handler.NewLeadHandler(leadSvc),
		Forecast: handler.NewForecastHandler(forecastSvc),
		Script:   handler.NewScriptHandler(scriptSvc),
		Auth:     handler.NewAuthHandler(adminAuthSvc),
		Client:   handler.NewClientHandler(clientSvc),
		Dataset:  handler.NewDatasetHandler(datasetSvc),
	}

	// 8. Initialize middleware
	authMw := middleware.NewAuthMiddleware(authSvc)
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewSnapshotWorker(cardSvc, perfCache, cfg.Worker.SnapshotInterval).Start(ctx)
	go worker.NewRetrainWorker(saleRepo, cardRepo, suite, cfg.Worker.RetrainInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Agent    *handler.AgentHandler
	Card     *handler.CardHandler
	Lead     *handler.LeadHandler
	Forecast *handler.ForecastHandler
	Script   *handler.ScriptHandler
	Auth     *handler.AuthHandler
	Client   *handler.ClientHandler
	Dataset  *handler.DatasetHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Agent analytics (protected with client API key)
	agents := router.Group("/v1/agents")
	agents.Use(authMiddleware.Handle())
	{
		agents.GET("/:agentId/performance", handlers.Agent.GetPerformance)
		agents.GET("/:agentId/dashboard", handlers.Agent.GetDashboard)
		agents.GET("/:agentId/insights", handlers.Agent.GetInsights)
	}

	// Card analytics and recommendations
	cards := router.Group("/v1/cards")
	cards.Use(authMiddleware.Handle())
	{
		cards.GET("/performance", handlers.Card.GetPerformance)
		cards.GET("/recommendations/:agentId", handlers.Card.GetRecommendations)
		cards.POST("/compare", handlers.Card.CompareCards)
	}

	// Lead recommendations and predictions
	leads := router.Group("/v1/leads")
	leads.Use(authMiddleware.Handle())
	{
		leads.GET("/recommendations/:agentId", handlers.Lead.GetRecommendations)
		leads.POST("/predict", handlers.Lead.Predict)
	}

	// Earnings forecast
	forecast := router.Group("/v1/forecast")
	forecast.Use(authMiddleware.Handle())
	{
		forecast.GET("/:agentId", handlers.Forecast.GetForecast)
		forecast.GET("/:agentId/optimization", handlers.Forecast.GetOptimization)
	}

	// Sales scripts
	scripts := router.Group("/v1/scripts")
	scripts.Use(authMiddleware.Handle())
	{
		scripts.GET("/:cardId", handlers.Script.GetScript)
		scripts.GET("/:cardId/objections", handlers.Script.GetObjections)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		// Client Management
		admin.POST("/clients", handlers.Client.CreateClient)
		admin.GET("/clients", handlers.Client.ListClients)
		admin.GET("/clients/:id", handlers.Client.GetClient)
		admin.PUT("/clients/:id", handlers.Client.UpdateClient)
		admin.POST("/clients/:id/regenerate", handlers.Client.RegenerateKey)

		// Dataset Management
		admin.POST("/dataset/generate", handlers.Dataset.Generate)
		admin.GET("/dataset/stats", handlers.Dataset.GetStats)
	}
}

// trainModels performs the initial model training from the stored sales.
// An empty or small dataset leaves the models unavailable; predictions
// then fall back to heuristics until the retrain worker picks up data.
func trainModels(suite *predict.Suite, saleRepo *repository.SaleRepository, cardRepo *repository.CardRepository) {
	sales, err := saleRepo.ListAll()
	if err != nil {
		log.Warn().Err(err).Msg("could not load sales for initial training")
		return
	}
	cards, err := cardRepo.List()
	if err != nil {
		log.Warn().Err(err).Msg("could not load cards for initial training")
		return
	}

	byID := make(map[string]*models.Card, len(cards))
	for i := range cards {
		byID[cards[i].CardID] = &cards[i]
	}

	approvalErr, commissionErr := suite.Retrain(sales, byID)
	if approvalErr != nil {
		log.Warn().Err(approvalErr).Msg("approval model unavailable at startup")
	}
	if commissionErr != nil {
		log.Warn().Err(commissionErr).Msg("commission model unavailable at startup")
	}
	log.Info().
		Int("sales", len(sales)).
		Bool("approval_ready", suite.Approval.Ready()).
		Bool("commission_ready", suite.Commission.Ready()).
		Msg("initial model training complete")
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
