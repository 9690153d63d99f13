package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/farmnet/backend/internal/config"
	"github.com/farmnet/backend/internal/database"
	postgresrepo "github.com/farmnet/backend/internal/repository/postgres"
	"github.com/farmnet/backend/internal/service"
	"github.com/farmnet/backend/internal/transport/http/handlers"
	"github.com/farmnet/backend/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(context.Background(), pool); err != nil {
		logger.Fatal("migrating database", zap.Error(err))
	}
	logger.Info("connected to database")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("creating upload dir", zap.Error(err))
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	convRepo := postgresrepo.NewConversationRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)
	resourceRepo := postgresrepo.NewResourceRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	userService := service.NewUserService(userRepo)
	convService := service.NewConversationService(convRepo, userRepo)
	postService := service.NewPostService(postRepo)
	resourceService := service.NewResourceService(resourceRepo)
	weatherService := service.NewWeatherService(cfg.OpenWeatherKey)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	convHandler := handlers.NewConversationHandler(convService, logger)
	postHandler := handlers.NewPostHandler(postService, cfg.UploadDir, logger)
	resourceHandler := handlers.NewResourceHandler(resourceService, logger)
	weatherHandler := handlers.NewWeatherHandler(weatherService, logger)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("GET /api/assistant", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "Assistant route is active and working!"}`))
	})
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/users", userHandler.List)
	mux.HandleFunc("GET /api/users/{username}", userHandler.GetProfile)
	mux.HandleFunc("GET /api/posts", postHandler.List)
	mux.HandleFunc("GET /api/posts/{id}/comments", postHandler.ListComments)
	mux.HandleFunc("GET /api/resources", resourceHandler.List)
	mux.HandleFunc("GET /api/weather/hourly", weatherHandler.Hourly)
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Protected - Users
	mux.Handle("POST /api/users/{username}/follow", auth(http.HandlerFunc(userHandler.Follow)))
	mux.Handle("DELETE /api/users/{username}/follow", auth(http.HandlerFunc(userHandler.Unfollow)))

	// Protected - Posts
	mux.Handle("POST /api/posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("POST /api/posts/{id}/comments", auth(http.HandlerFunc(postHandler.AddComment)))

	// Protected - Resources
	mux.Handle("POST /api/resources", auth(http.HandlerFunc(resourceHandler.Create)))
	mux.Handle("PATCH /api/resources/{id}", auth(http.HandlerFunc(resourceHandler.UpdateStatus)))
	mux.Handle("DELETE /api/resources/{id}", auth(http.HandlerFunc(resourceHandler.Delete)))

	// Protected - Conversations
	mux.Handle("GET /api/conversations", auth(http.HandlerFunc(convHandler.List)))
	mux.Handle("POST /api/conversations", auth(http.HandlerFunc(convHandler.FindOrCreate)))
	mux.Handle("GET /api/conversations/{id}/messages", auth(http.HandlerFunc(convHandler.ListMessages)))
	mux.Handle("POST /api/conversations/{id}/messages", auth(http.HandlerFunc(convHandler.SendMessage)))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, middleware.CORS(mux)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
