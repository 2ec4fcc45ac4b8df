package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/bizhub-api/configs"
	"github.com/maheshrc27/bizhub-api/internal/api/handlers"
	"github.com/maheshrc27/bizhub-api/internal/api/middleware"
	"github.com/maheshrc27/bizhub-api/internal/gemini"
	job "github.com/maheshrc27/bizhub-api/internal/jobs"
	"github.com/maheshrc27/bizhub-api/internal/metrics"
	"github.com/maheshrc27/bizhub-api/internal/oauth"
	"github.com/maheshrc27/bizhub-api/internal/queue"
	"github.com/maheshrc27/bizhub-api/internal/repository"
	"github.com/maheshrc27/bizhub-api/internal/service"
	"github.com/maheshrc27/bizhub-api/internal/store"
	"github.com/maheshrc27/bizhub-api/migrations"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var (
		recordStore store.RecordStore
		db          *sql.DB
	)
	switch cfg.DatabaseDriver {
	case config.DriverSupabase:
		supabase, err := store.NewSupabase(cfg.Supabase.ProjectURL, cfg.Supabase.ServiceKey, httpClient)
		if err != nil {
			log.Fatalf("Invalid Supabase configuration: %v", err)
		}
		recordStore = supabase
	default:
		var err error
		db, err = sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}
		if err := migrations.Up(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		recordStore = store.NewPostgres(db)
	}

	var (
		rdb         *redis.Client
		asynqClient *asynq.Client
		redisConn   asynq.RedisConnOpt
	)
	if cfg.RedisURI != "" {
		opts, err := redis.ParseURL(cfg.RedisURI)
		if err != nil {
			log.Fatalf("Invalid REDIS_URI: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()

		redisConn, err = asynq.ParseRedisURI(cfg.RedisURI)
		if err != nil {
			log.Fatalf("Invalid REDIS_URI: %v", err)
		}
		asynqClient = asynq.NewClient(redisConn)
		defer asynqClient.Close()
	}

	states, err := oauth.NewStateCodec(cfg, rdb)
	if err != nil {
		log.Fatalf("Failed to set up OAuth state: %v", err)
	}
	providers := oauth.NewRegistryFromConfig(cfg, httpClient)
	log.Printf("OAuth providers: %v", providers.Platforms())

	var generator gemini.Generator = gemini.Disabled{}
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Endpoint, cfg.Gemini.Timeout, &http.Client{})
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		generator = client
	} else {
		log.Println("Warning: GEMINI_API_KEY is not set, generation is disabled")
	}

	var objects service.ObjectStore
	if cfg.R2.BucketName != "" {
		r2Service, err := service.NewR2Service(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("Failed to create R2 client: %v", err)
		}
		objects = r2Service
	}

	socialAccountRepo := repository.NewSocialAccountRepository(recordStore)
	businessRepo := repository.NewBusinessRepository(recordStore)

	connectorService := service.NewConnectorService(*cfg, providers, states, socialAccountRepo, businessRepo)
	contentService := service.NewContentService(generator, businessRepo)
	businessService := service.NewBusinessService(businessRepo, objects)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		BodyLimit:    4 * 1024 * 1024, // 4 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": statusMessage(code)})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedRedirectOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	oauthHandler := handlers.NewOAuthHandler(connectorService)
	app.Get("/oauth/:platform", oauthHandler.Connect)
	app.Get("/oauth/:platform/callback", oauthHandler.Callback)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)
	limiter := middleware.NewRateLimiter(cfg.GenerationRatePerMin)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	business := handlers.NewBusinessHandler(businessService)
	api.Post("/businesses", business.CreateBusiness)
	api.Get("/businesses", business.ListBusinesses)
	api.Get("/businesses/:id", business.GetBusiness)
	api.Post("/businesses/:id/logo", business.UploadLogo)

	accounts := handlers.NewAccountHandler(connectorService)
	api.Get("/businesses/:id/accounts", accounts.ListAccounts)
	api.Delete("/accounts/:id", accounts.DeleteAccount)
	api.Post("/accounts/:id/refresh", accounts.RefreshAccount)

	content := handlers.NewContentHandler(contentService)
	api.Post("/businesses/:id/generate/:type", limiter.Handler(), content.Generate)

	// cron jobs
	var enqueuer job.RefreshEnqueuer
	if asynqClient != nil {
		enqueuer = queue.NewEnqueuer(asynqClient)
	}
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, connectorService, enqueuer)

	c := cron.New()
	c.AddFunc("@every 01h00m00s", refreshTokenJob.RefreshTokens)
	c.Start()
	defer c.Stop()

	//queue
	var asynqServer *asynq.Server
	if redisConn != nil {
		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})
		queueW := queue.NewQueue(connectorService)

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeRefreshToken, queueW.HandleRefreshTokenTask)

		go func() {
			log.Println("Starting the Asynq server...")
			if err := asynqServer.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.PublicURL)

	gracefulShutdown(app, asynqServer, db)
}

func statusMessage(code int) string {
	if msg := http.StatusText(code); msg != "" {
		return msg
	}
	return "Internal Server Error"
}

func closeDB(db *sql.DB) {
	if db == nil {
		return
	}
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, asynqServer *asynq.Server, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	if asynqServer != nil {
		asynqServer.Shutdown()
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
