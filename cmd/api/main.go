package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"academy-map-api/docs"
	"academy-map-api/internal/config"
	"academy-map-api/internal/handler"
	"academy-map-api/internal/logger"
	"academy-map-api/internal/metrics"
	"academy-map-api/internal/repository"
	"academy-map-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title			Academy Map API
// @version		1.0
// @description	Directory and map search over registered tutoring academies.
// @BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Setup(config.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	academyService := service.NewAcademyService(repo, repo, service.SearchOptions{
		FetchCap:       config.Search.FetchCap,
		ResultCap:      config.Search.ResultCap,
		ReputationMode: service.ReputationMode(config.Search.ReputationMode),
	})
	courseService := service.NewCourseService(repo)
	reviewService := service.NewReviewService(repo)
	reputationService := service.NewReputationService(repo)

	academyHandler := handler.NewAcademyHandler(academyService)
	courseHandler := handler.NewCourseHandler(courseService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	reputationHandler := handler.NewReputationHandler(reputationService)

	r := gin.New()
	r.Use(gin.Recovery(), logger.AccessMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/courses", courseHandler.Courses)
	api.GET("/academies", academyHandler.Search)
	api.GET("/academies/all", academyHandler.All)
	api.GET("/academies/reputed", academyHandler.Reputed)
	api.GET("/reviews", reviewHandler.Reviews)
	api.GET("/reputations", reputationHandler.Reputations)

	srv := &http.Server{
		Addr: config.ServerAddress,
		Handler: cors.Handler(cors.Options{
			AllowedOrigins: config.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		})(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
