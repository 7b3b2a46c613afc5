package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/api/handlers"
	"github.com/publora/publora-api/internal/api/middleware"
	job "github.com/publora/publora-api/internal/jobs"
	"github.com/publora/publora-api/internal/lock"
	"github.com/publora/publora-api/internal/publisher"
	"github.com/publora/publora-api/internal/repository"
	"github.com/publora/publora-api/internal/scheduler"
	"github.com/publora/publora-api/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rest := resty.New().SetTimeout(30 * time.Second)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, x-publora-key, x-publora-user-id",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postGroupRepo := repository.NewPostGroupRepository(db)
	connectionRepo := repository.NewPlatformConnectionRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)
	workspaceUserRepo := repository.NewWorkspaceUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	groupLease := lock.NewGroupLease(rdb)
	registry := publisher.NewRegistry(*cfg, rest)

	r2Service := service.NewR2Service(*cfg)
	postService := service.NewPostService(postGroupRepo, connectionRepo, subscriptionRepo, groupLease)
	mediaService := service.NewMediaService(*cfg, postGroupRepo, mediaAssetRepo, r2Service)
	connectionService := service.NewConnectionService(connectionRepo)
	statsService := service.NewStatsService(*cfg, connectionRepo, rest)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	workspaceService := service.NewWorkspaceService(workspaceUserRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService, workspaceService)

	api := app.Group("/api/v1")
	api.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(postService, client)
	api.Post("/create-post", post.CreatePost)
	api.Get("/get-post/:id", post.GetPost)
	api.Put("/update-post/:id", post.UpdatePost)
	api.Delete("/delete-post/:id", post.DeletePost)

	connection := handlers.NewConnectionHandler(connectionService)
	api.Get("/platform-connections", connection.ListConnections)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/get-upload-url", media.GetUploadURL)
	api.Post("/confirm-upload", media.ConfirmUpload)

	stats := handlers.NewStatsHandler(statsService)
	api.Post("/linkedin-post-statistics", stats.PostStatistics)
	api.Post("/linkedin-account-statistics", stats.AccountStatistics)
	api.Post("/linkedin-reactions", stats.CreateReaction)
	api.Delete("/linkedin-reactions", stats.DeleteReaction)

	workspace := handlers.NewWorkspaceHandler(workspaceService)
	api.Post("/workspace/users", workspace.CreateUser)
	api.Get("/workspace/users", workspace.ListUsers)
	api.Delete("/workspace/users/:id", workspace.RemoveUser)

	worker := scheduler.NewWorker(postGroupRepo, connectionRepo, mediaAssetRepo, groupLease, registry, client)

	// cron jobs
	watchdogJob := job.NewWatchdogJob(postGroupRepo)
	requeueJob := job.NewRequeueJob(postGroupRepo, client)

	c := cron.New()
	c.AddFunc("@every 00h05m00s", watchdogJob.SweepStuckGroups)
	c.AddFunc("@every 00h01m00s", requeueJob.RequeueDueGroups)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(scheduler.TaskTypePublishPostGroup, worker.HandlePublishTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
