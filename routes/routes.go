package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/controllers"
	"github.com/kendall-kelly/fixnow-api/middleware"
	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/services"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the router needs
type Dependencies struct {
	DB           *gorm.DB
	Tokens       *auth.TokenService
	Users        *services.UserService
	Auth         *services.AuthService
	Appointments *services.AppointmentService
	Categories   *services.CategoryService
	Reviews      *services.ReviewService
	RateLimiter  *middleware.RateLimiter
	// UploadDir enables GET /uploads/:filename when images are stored locally
	UploadDir      string
	AllowedOrigins []string
}

// Setup builds the gin engine with every API route
func Setup(deps Dependencies) *gin.Engine {
	// Request bodies with unknown fields are rejected
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	health := controllers.NewHealthController(deps.DB)
	users := controllers.NewUserController(deps.Users)
	sessions := controllers.NewAuthController(deps.Auth, deps.Users)
	appointments := controllers.NewAppointmentController(deps.Appointments)
	categories := controllers.NewCategoryController(deps.Categories)
	reviews := controllers.NewReviewController(deps.Reviews)

	requireAuth := middleware.RequireAuth(deps.Tokens)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	throttle := func(c *gin.Context) { c.Next() }
	if deps.RateLimiter != nil {
		throttle = middleware.RateLimit(deps.RateLimiter)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health.HealthCheck)
		v1.GET("/database/status", health.DatabaseStatus)

		v1.POST("/auth/login", throttle, sessions.Login)
		v1.GET("/auth/me", requireAuth, sessions.Me)

		v1.POST("/users", throttle, users.CreateUser)
		v1.GET("/users", users.ListUsers)
		v1.GET("/users/:id", users.GetUser)
		v1.PUT("/users/:id", requireAuth, users.UpdateUser)
		v1.DELETE("/users/:id", requireAuth, users.DeleteUser)
		v1.PUT("/users/:id/profile-image", requireAuth, users.UploadProfileImage)

		appointmentRoutes := v1.Group("/appointments", requireAuth)
		{
			appointmentRoutes.POST("", appointments.CreateAppointment)
			appointmentRoutes.GET("", appointments.ListAppointments)
			appointmentRoutes.GET("/:id", appointments.GetAppointment)
			appointmentRoutes.PUT("/:id/status", appointments.UpdateAppointmentStatus)
			appointmentRoutes.DELETE("/:id", appointments.DeleteAppointment)
		}

		v1.GET("/categories", categories.ListCategories)
		v1.POST("/categories", requireAuth, requireAdmin, categories.CreateCategory)
		v1.DELETE("/categories/:id", requireAuth, requireAdmin, categories.DeleteCategory)

		v1.POST("/reviews", requireAuth, reviews.CreateReview)
		v1.GET("/technicians/:id/reviews", reviews.ListTechnicianReviews)

		if deps.UploadDir != "" {
			v1.GET("/uploads/:filename", controllers.NewUploadController(deps.UploadDir).GetUploadedImage)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}
