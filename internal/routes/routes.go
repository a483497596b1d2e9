package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/RomanCsn/workshop-DFS/internal/audit"
	"github.com/RomanCsn/workshop-DFS/internal/auth"
	"github.com/RomanCsn/workshop-DFS/internal/config"
	"github.com/RomanCsn/workshop-DFS/internal/domain/user"
	"github.com/RomanCsn/workshop-DFS/internal/handlers"
	infraRepo "github.com/RomanCsn/workshop-DFS/internal/infra/repository"
	"github.com/RomanCsn/workshop-DFS/internal/metrics"
	"github.com/RomanCsn/workshop-DFS/internal/middleware"
	"github.com/RomanCsn/workshop-DFS/internal/storage"
	ucLesson "github.com/RomanCsn/workshop-DFS/internal/usecase/lesson"
)

// Deps are the singletons built by main. Storage and Payments stay nil
// when not configured.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Log      zerolog.Logger
	Auth     *auth.Service
	Audit    *audit.Dispatcher
	Limiter  *middleware.RateLimiter
	Storage  storage.Store
	Payments handlers.Payments
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	lessonRepo := infraRepo.NewLessonGormRepository(d.DB, d.Log)
	billingRepo := infraRepo.NewBillingGormRepository(d.DB, d.Log)
	serviceRepo := infraRepo.NewPerformedServiceGormRepository(d.DB, d.Log)
	horseRepo := infraRepo.NewHorseGormRepository(d.DB, d.Log)
	userRepo := infraRepo.NewUserGormRepository(d.DB, d.Log)

	accessor := auth.NewAccessor(d.Auth.Sessions(), userRepo, cfg.Auth.CookieName)

	// ======================================================
	// USE CASES
	// ======================================================
	bookLessonUC := ucLesson.NewBookLesson(
		ucLesson.NewGormBooker(d.DB, d.Log),
		d.Audit,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Auth, cfg.Auth, d.Audit, d.Log)
	meHandler := handlers.NewMeHandler(d.Log)
	lessonHandler := handlers.NewLessonHandler(lessonRepo, bookLessonUC, d.Audit, d.Log)
	billingHandler := handlers.NewBillingHandler(billingRepo, d.Payments, d.Audit, d.Log)
	serviceHandler := handlers.NewServiceHandler(serviceRepo, d.Audit, d.Log)
	horseHandler := handlers.NewHorseHandler(horseRepo, d.Storage, d.Audit, d.Log)
	userHandler := handlers.NewUserHandler(userRepo, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Log)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Redis)

	// ======================================================
	// OPERATIONAL
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(accessor.Attach())
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		authAPI := api.Group("/auth")
		{
			limited := authAPI.Group("/")
			if d.Limiter != nil {
				limited.Use(d.Limiter.Handler())
			}
			limited.POST("/sign-up/email", authHandler.SignUp)
			limited.POST("/sign-in/email", authHandler.SignIn)
			limited.POST("/send-verification-email", authHandler.SendVerificationEmail)

			authAPI.POST("/sign-out", authHandler.SignOut)
			authAPI.GET("/get-session", authHandler.GetSession)
			authAPI.GET("/list-sessions", authHandler.ListSessions)
			authAPI.POST("/revoke-session", authHandler.RevokeSession)
			authAPI.POST("/revoke-other-sessions", authHandler.RevokeOtherSessions)
			authAPI.POST("/change-password", authHandler.ChangePassword)
			authAPI.GET("/verify-email", authHandler.VerifyEmail)
		}

		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/billing/webhook", billingHandler.Webhook)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		if cfg.Auth.RequireSession {
			secured.Use(middleware.RequireSession())
		}
		{
			secured.GET("/user/me", meHandler.GetMe)
			secured.GET("/user", userHandler.List)

			secured.GET("/horse", horseHandler.List)
			secured.POST("/horse", horseHandler.Create)
			secured.PUT("/horse", horseHandler.Create)
			secured.PATCH("/horse", horseHandler.Update)
			secured.DELETE("/horse", horseHandler.Delete)
			secured.POST("/horse/photo", horseHandler.UploadPhoto)
			secured.GET("/horse/photo", horseHandler.Photo)

			secured.GET("/lessons", lessonHandler.List)
			secured.POST("/lessons", lessonHandler.Create)
			secured.PUT("/lessons", lessonHandler.Update)
			secured.PATCH("/lessons", lessonHandler.UpdateStatus)
			secured.DELETE("/lessons", lessonHandler.Delete)
			secured.POST("/lessons/book", lessonHandler.Book)

			secured.GET("/billing", billingHandler.List)
			secured.POST("/billing", billingHandler.Create)
			secured.PUT("/billing", billingHandler.Update)
			secured.DELETE("/billing", billingHandler.Delete)
			secured.GET("/billing/count", billingHandler.Count)
			secured.POST("/billing/checkout", billingHandler.Checkout)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PUT("/services", serviceHandler.Update)
			secured.DELETE("/services", serviceHandler.Delete)

			secured.GET(
				"/audit-logs",
				middleware.RequireRoles(user.RoleAdmin, user.RoleOwner),
				auditLogsHandler.List,
			)
		}
	}
}
