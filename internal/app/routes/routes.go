package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kofiasare/susu/internal/app/controllers"
	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	communityController *controllers.CommunityController,
	walletController *controllers.WalletController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/profile", authController.GetProfile)
		authenticated.PUT("/auth/profile", authController.UpdateProfile)

		// Community routes
		communities := authenticated.Group("/communities")
		{
			communities.GET("", communityController.List)
			communities.POST("", communityController.Create)
			communities.GET("/:id", communityController.GetDetails)
			communities.PATCH("/:id", communityController.UpdateSettings)
			communities.POST("/:id/join", communityController.Join)
			communities.POST("/:id/contributions", communityController.Contribute)
			communities.POST("/:id/payouts", communityController.Payout)
			communities.POST("/:id/penalties", communityController.ApplyPenalty)
			communities.GET("/:id/activity", communityController.GetActivityLogs)
		}

		// Wallet routes
		wallet := authenticated.Group("/wallet")
		{
			wallet.GET("", walletController.GetBalance)
			wallet.POST("/deposits", walletController.Deposit)
			wallet.POST("/withdrawals", walletController.Withdraw)
			wallet.POST("/fixed-deposits", walletController.FixFunds)
			wallet.POST("/transfers", walletController.Transfer)
			wallet.GET("/transactions", walletController.GetTransactions)

			// Platform-admin-only wallet oversight routes
			walletAdminProtected := wallet.Group("")
			walletAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				walletAdminProtected.GET("/flagged", walletController.ListFlagged)
				walletAdminProtected.PUT("/:userId/status", walletController.SetWalletStatus)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
