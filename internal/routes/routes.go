package routes

import (
	"marketplace-server/internal/config"
	"marketplace-server/internal/handlers"
	"marketplace-server/internal/middleware"
	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"
	"marketplace-server/internal/service"
	"marketplace-server/internal/utils"
	"marketplace-server/pkg/cache"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes. participantCache may be nil.
func SetupRoutes(router *gin.Engine, db *gorm.DB, participantCache cache.Service, cfg *config.Config) {
	store := repository.NewStore(db)
	directory := service.NewDirectory(store.Identities, participantCache)

	authService := service.NewAuthService(store.Identities, utils.TokenIssuer(cfg))
	conversationService := service.NewConversationService(store, directory, service.UTCClock)
	messageService := service.NewMessageService(store, service.UTCClock)
	jobService := service.NewJobService(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	messageHandler := handlers.NewMessageHandler(messageService, conversationService)
	jobHandler := handlers.NewJobHandler(jobService)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/user/register", authHandler.RegisterUser)
			authRoutes.POST("/user/login", authHandler.LoginUser)
			authRoutes.POST("/pro/register", authHandler.RegisterPro)
			authRoutes.POST("/pro/login", authHandler.LoginPro)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		private.GET("/auth/profile", authHandler.GetProfile)

		messageRoutes := private.Group("/messages")
		{
			messageRoutes.GET("", messageHandler.GetAllMessages)
			messageRoutes.GET("/conversations", messageHandler.GetConversations)
			messageRoutes.GET("/job/:jobId", messageHandler.GetJobMessages)
			messageRoutes.POST("/job/:jobId", messageHandler.SendJobMessage)
			messageRoutes.POST("/bid/:bidId", messageHandler.SendBidMessage)
			messageRoutes.POST("/send", messageHandler.SendDirectMessage)
			messageRoutes.GET("/user/:userId", messageHandler.GetMessagesWithUser)
			messageRoutes.PUT("/:messageId/read", messageHandler.MarkMessageAsRead)
		}

		jobRoutes := private.Group("/jobs")
		{
			users := middleware.KindAuthMiddleware(models.KindUser)
			pros := middleware.KindAuthMiddleware(models.KindPro)

			jobRoutes.POST("", users, jobHandler.CreateJob)
			jobRoutes.GET("/my-jobs", users, jobHandler.GetMyJobs)
			jobRoutes.GET("/assigned", pros, jobHandler.GetAssignedJobs)
			jobRoutes.GET("/available", jobHandler.GetAvailableJobs)
			jobRoutes.GET("/:id", jobHandler.GetJobByID)
			jobRoutes.GET("/:id/bids", jobHandler.GetJobBids)
			jobRoutes.POST("/:id/bid", pros, jobHandler.SubmitBid)
			jobRoutes.POST("/:id/bids/:bidId/accept", users, jobHandler.AcceptBid)
			jobRoutes.POST("/:id/bids/:bidId/reject", users, jobHandler.RejectBid)
			jobRoutes.DELETE("/:id/bids/:bidId", pros, jobHandler.WithdrawBid)
			jobRoutes.PUT("/:id/complete", pros, jobHandler.CompleteJob)
			jobRoutes.DELETE("/:id", users, jobHandler.CancelJob)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
