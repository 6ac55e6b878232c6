package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/config"
	"github.com/kendall-kelly/fixnow-api/middleware"
	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/repository"
	"github.com/kendall-kelly/fixnow-api/routes"
	"github.com/kendall-kelly/fixnow-api/services"
	"gorm.io/gorm"
)

// application holds the wired router and the resources to release on shutdown
type application struct {
	router *gin.Engine
	events services.EventPublisher
}

func newApplication(ctx context.Context, cfg *config.Config, db *gorm.DB) (*application, error) {
	events, err := newEventPublisher(cfg)
	if err != nil {
		return nil, err
	}

	images, uploadDir, err := newImageService(ctx, cfg)
	if err != nil {
		closeEvents(events)
		return nil, err
	}

	policy := models.PermissiveTransitions
	if cfg.StrictTransitions {
		policy = models.StrictTransitions
	}

	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	users := services.NewUserService(userRepo, hasher, images, events)
	if cfg.AdminEmail != "" {
		admin, created, err := users.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			closeEvents(events)
			return nil, fmt.Errorf("failed to seed admin user: %w", err)
		}
		if created {
			log.Printf("Created admin user %s", admin.Email)
		}
	}

	router := routes.Setup(routes.Dependencies{
		DB:     db,
		Tokens: tokens,
		Users:  users,
		Auth:   services.NewAuthService(userRepo, hasher, tokens),
		Appointments: services.NewAppointmentService(
			repository.NewAppointmentRepository(db),
			userRepo,
			categoryRepo,
			models.NewLifecycle(policy),
			events,
		),
		Categories:     services.NewCategoryService(categoryRepo),
		Reviews:        services.NewReviewService(repository.NewReviewRepository(db), userRepo),
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		UploadDir:      uploadDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &application{router: router, events: events}, nil
}

func (a *application) close() {
	closeEvents(a.events)
}

func closeEvents(events services.EventPublisher) {
	if err := events.Close(); err != nil {
		log.Printf("warning: failed to close event publisher: %v", err)
	}
}

// newEventPublisher uses Kafka when brokers are configured and logs events otherwise
func newEventPublisher(cfg *config.Config) (services.EventPublisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("KAFKA_BROKERS not set, domain events will only be logged")
		return services.LogEventPublisher{}, nil
	}
	return services.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
}

// newImageService stores profile images in S3 when a bucket is configured and on
// local disk otherwise. The returned directory is empty for S3.
func newImageService(ctx context.Context, cfg *config.Config) (services.ImageService, string, error) {
	if cfg.UsesS3() {
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		log.Printf("Profile images stored in S3 bucket %s", cfg.AWSS3Bucket)
		return services.NewS3ImageService(s3Service), "", nil
	}

	log.Printf("Profile images stored locally in %s", cfg.UploadDir)
	return services.NewLocalImageService(cfg.UploadDir), cfg.UploadDir, nil
}
