package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-api/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio-api/adapters/http"
	"github.com/khoahotran/portfolio-api/adapters/media_storage"
	"github.com/khoahotran/portfolio-api/adapters/persistence"
	"github.com/khoahotran/portfolio-api/internal/application/service"
	aboutmeUC "github.com/khoahotran/portfolio-api/internal/application/usecase/aboutme"
	appUC "github.com/khoahotran/portfolio-api/internal/application/usecase/application"
	authUC "github.com/khoahotran/portfolio-api/internal/application/usecase/auth"
	certificateUC "github.com/khoahotran/portfolio-api/internal/application/usecase/certificate"
	educationUC "github.com/khoahotran/portfolio-api/internal/application/usecase/education"
	experienceUC "github.com/khoahotran/portfolio-api/internal/application/usecase/experience"
	"github.com/khoahotran/portfolio-api/internal/config"
	"github.com/khoahotran/portfolio-api/pkg/auth"
	"github.com/khoahotran/portfolio-api/pkg/logger"
	"github.com/khoahotran/portfolio-api/pkg/tracing"
)

func main() {
	fmt.Println("Start Portfolio API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Tracing
	tracerProvider, err := tracing.NewTracerProvider(cfg, appLogger, "portfolio-api")
	if err != nil {
		log.Fatalf("FATAL: cannot init tracer: %v", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			appLogger.Error("Failed to shut down tracer provider", err)
		}
	}()

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()
	cacheStore := persistence.NewRedisStore(redisClient)

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	appRepo := persistence.NewPostgresApplicationRepo(dbPool, appLogger)
	aboutMeRepo := persistence.NewPostgresAboutMeRepo(dbPool)
	educationRepo := persistence.NewPostgresEducationRepo(dbPool)
	experienceRepo := persistence.NewPostgresExperienceRepo(dbPool)
	certificateRepo := persistence.NewPostgresCertificateRepo(dbPool)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	assetStore, err := media_storage.NewAssetStore(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize asset store: %v", err)
	}
	tenants := service.NewTenantResolver(userRepo, cacheStore)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	appCrudUseCase := appUC.NewCrudUseCase(appRepo, cacheStore, kafkaClient, appLogger)
	appImageUseCase := appUC.NewImageUseCase(appRepo, tenants, assetStore, cacheStore, kafkaClient, appLogger)
	aboutMeUseCase := aboutmeUC.NewUseCase(aboutMeRepo, cacheStore, kafkaClient, appLogger)
	educationUseCase := educationUC.NewUseCase(educationRepo, tenants, cacheStore, kafkaClient, appLogger)
	experienceUseCase := experienceUC.NewUseCase(experienceRepo, tenants, cacheStore, kafkaClient, appLogger)
	certificateUseCase := certificateUC.NewUseCase(certificateRepo, educationRepo, tenants, cacheStore, kafkaClient, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase)
	applicationHandler := httpAdapter.NewApplicationHandler(appCrudUseCase, appImageUseCase, appLogger)
	aboutMeHandler := httpAdapter.NewAboutMeHandler(aboutMeUseCase)
	educationHandler := httpAdapter.NewEducationHandler(educationUseCase)
	experienceHandler := httpAdapter.NewExperienceHandler(experienceUseCase)
	certificateHandler := httpAdapter.NewCertificateHandler(certificateUseCase)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)

	// Setup Gin router
	router := gin.Default()
	router.Use(httpAdapter.ErrorHandler(appLogger))

	api := router.Group("/api")
	{

		admin := api.Group("/admin")
		{

			adminAuth := admin.Group("/auth")
			adminAuth.POST("/login", authHandler.Login)

			adminPrivate := admin.Group("/")
			adminPrivate.Use(authMiddleware)
			{

				adminPrivate.GET("/application", applicationHandler.GetMine)
				adminPrivate.PUT("/application/:id", applicationHandler.Update)
				adminPrivate.POST("/application/:id/images", applicationHandler.AddGalleryImages)
				adminPrivate.DELETE("/application/:id/images/:filename", applicationHandler.DeleteGalleryImage)
				adminPrivate.GET("/application/:id/images/:filename/path", applicationHandler.GetAssetPath)
				adminPrivate.PUT("/application/:id/profile-image", applicationHandler.SetProfileImage)
				adminPrivate.DELETE("/application/:id/profile-image", applicationHandler.DeleteProfileImage)

				adminPrivate.GET("/about-me", aboutMeHandler.GetMine)
				adminPrivate.PUT("/about-me", aboutMeHandler.Upsert)

				educations := adminPrivate.Group("/educations")
				{
					educations.POST("", educationHandler.Create)
					educations.GET("", educationHandler.List)
					educations.GET("/:id", educationHandler.Get)
					educations.PUT("/:id", educationHandler.Update)
					educations.DELETE("/:id", educationHandler.Delete)
				}

				experiences := adminPrivate.Group("/experiences")
				{
					experiences.POST("", experienceHandler.Create)
					experiences.GET("", experienceHandler.List)
					experiences.GET("/:id", experienceHandler.Get)
					experiences.PUT("/:id", experienceHandler.Update)
					experiences.DELETE("/:id", experienceHandler.Delete)
				}

				certificates := adminPrivate.Group("/certificates")
				{
					certificates.POST("", certificateHandler.Create)
					certificates.GET("", certificateHandler.List)
					certificates.GET("/:id", certificateHandler.Get)
					certificates.PUT("/:id", certificateHandler.Update)
					certificates.DELETE("/:id", certificateHandler.Delete)
					certificates.PUT("/:id/educations", certificateHandler.SetEducationLinks)
					certificates.POST("/:id/educations/:educationID", certificateHandler.LinkEducation)
					certificates.DELETE("/:id/educations/:educationID", certificateHandler.UnlinkEducation)
				}
			}
		}

		public := api.Group("/")
		{
			public.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
			public.GET("/applications/:id", applicationHandler.GetPublic)
			public.GET("/users/:userID/about-me", aboutMeHandler.GetPublic)
			public.GET("/users/:userID/educations", educationHandler.ListPublic)
			public.GET("/users/:userID/experiences", experienceHandler.ListPublic)
			public.GET("/users/:userID/certificates", certificateHandler.ListPublic)
		}
	}

	log.Printf("Server running on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
