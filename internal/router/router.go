// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/vehicle-gateway/internal/backend"
	"github.com/javajoker/vehicle-gateway/internal/config"
	"github.com/javajoker/vehicle-gateway/internal/handlers"
	"github.com/javajoker/vehicle-gateway/internal/middleware"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

const version = "1.0.0"

// Initialize wires the gateway. db and rdb are optional: without a database
// the action journal only logs, and without Redis presence is kept in memory.
func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	upstream := backend.NewClient(cfg.Backend)

	// Initialize services
	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		logrus.WithError(err).Warn("Evidence archive disabled")
		storageService, _ = services.NewStorageService(config.AWSConfig{})
	}
	journalService := services.NewJournalService(db)
	presenceService := services.NewPresenceService(rdb)
	guard := services.NewActionGuard()

	appointmentService := services.NewAppointmentService(upstream, journalService, guard, cfg.Frontend.BaseURL)
	contractService := services.NewContractService(upstream, journalService, guard, storageService)
	paymentService := services.NewPaymentService(upstream, journalService, guard)
	transactionService := services.NewTransactionService(upstream, cfg.Backend)

	// Initialize handlers
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	contractHandler := handlers.NewContractHandler(contractService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	chatHandler := handlers.NewChatHandler(cfg.Realtime, cfg.Frontend.AllowedOrigins, presenceService)
	activityHandler := handlers.NewActivityHandler(journalService, storageService)
	healthHandler := handlers.NewHealthHandler(upstream, version, journalService.Enabled(), storageService.Enabled())

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(middleware.AuthRequired())
	{
		// Appointment routes
		appointments := v1.Group("/appointments")
		{
			appointments.GET("", appointmentHandler.GetAppointments)
			appointments.GET("/:id", appointmentHandler.GetAppointment)
			appointments.GET("/:id/deadline", appointmentHandler.GetDeadline)
			appointments.GET("/:id/deadline/stream", appointmentHandler.StreamDeadline)

			actions := appointments.Group("")
			actions.Use(middleware.ActionRateLimit())
			{
				actions.POST("/auction", appointmentHandler.CreateFromAuction)
				actions.PUT("/:id/confirm", appointmentHandler.ConfirmAppointment)
				actions.PUT("/:id/reject", appointmentHandler.RejectAppointment)
				actions.PUT("/:id/cancel", appointmentHandler.CancelAppointment)
				actions.POST("/:id/pay-remaining", paymentHandler.PayRemaining)
			}
		}

		// Contract routes (staff)
		contracts := v1.Group("/contracts")
		contracts.Use(middleware.StaffRequired())
		{
			contracts.GET("", contractHandler.GetContracts)
			contracts.GET("/:appointmentId", contractHandler.GetContract)
			contracts.POST("/:appointmentId/photos", middleware.UploadRateLimit(), contractHandler.UploadPhotos)
			contracts.PUT("/:appointmentId/complete", middleware.ActionRateLimit(), contractHandler.CompleteContract)
			contracts.PUT("/:appointmentId/cancel", middleware.ActionRateLimit(), contractHandler.CancelContract)
		}

		// Payment routes
		v1.POST("/deposits", middleware.ActionRateLimit(), paymentHandler.CreateDeposit)
		payments := v1.Group("/payments")
		payments.Use(middleware.ActionRateLimit())
		{
			payments.POST("/remaining-qr", paymentHandler.GenerateRemainingQR)
			payments.POST("/full-qr", paymentHandler.GenerateFullQR)
		}

		// Transaction routes
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.GetTransactions)
			transactions.GET("/:id", transactionHandler.GetTransaction)
		}

		// Chat routes
		chat := v1.Group("/chat")
		{
			chat.GET("/ws", chatHandler.Relay)
			chat.GET("/presence", chatHandler.GetPresence)
		}

		// Staff routes
		staff := v1.Group("/staff")
		staff.Use(middleware.StaffRequired())
		{
			staff.GET("/activity", activityHandler.GetActivity)
			staff.GET("/activity/:id", activityHandler.GetActivityEntry)
		}
	}

	return r
}
