package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-sharing-server/config"
	_ "video-sharing-server/docs"
	"video-sharing-server/internal/handler"
	"video-sharing-server/internal/repository"
	"video-sharing-server/internal/security"
	"video-sharing-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Video-sharing-server
// @version 1.0
// @description REST API видеохостинга: пользователи, сессии, каталог видео

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr, &cfg.CORS)

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.Cache)*time.Second)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	jwtService := security.NewJWTService(&cfg.JWT)
	sessionService := service.NewSessionService(userRepo, jwtService, s3Service)
	userService := service.NewUserService(userRepo, s3Service)
	videoService := service.NewVideoService(videoRepo, cacheRepo, userRepo, s3Service)

	sessionHandler := handler.NewSessionHandler(sessionService)
	userHandler := handler.NewUserHandler(userService)
	videoHandler := handler.NewVideoHandler(videoService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))

	authGuard := security.AuthMiddleware(jwtService, userRepo)

	setupUserRoutes(router, sessionHandler, userHandler, authGuard)
	setupVideoRoutes(router, videoHandler, authGuard)

	runServer(ctx, srv)
}

func setupUserRoutes(r chi.Router, sh *handler.SessionHandler, uh *handler.UserHandler, authGuard func(http.Handler) http.Handler) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", sh.Register)
		r.Post("/login", sh.Login)
		r.Post("/refresh-token", sh.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authGuard)

			r.Post("/logout", sh.Logout)
			r.Patch("/change-password", sh.ChangePassword)
			r.Get("/current-user", uh.CurrentUser)
			r.Patch("/update-accounts", uh.UpdateAccount)
			r.Patch("/avatar", uh.UpdateAvatar)
			r.Patch("/coverImage", uh.UpdateCoverImage)
			r.Get("/c/{username}", uh.ChannelProfile)
			r.Get("/history", uh.WatchHistory)
		})
	})
}

func setupVideoRoutes(r chi.Router, h *handler.VideoHandler, authGuard func(http.Handler) http.Handler) {
	r.Route("/api/v1/videos", func(r chi.Router) {
		r.Use(authGuard)

		r.Get("/", h.ListVideos)
		r.Get("/{videoId}", h.GetVideo)
		r.Post("/publish", h.PublishVideo)
		r.Put("/update/{videoId}", h.UpdateVideo)
		r.Delete("/delete/{videoId}", h.DeleteVideo)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
