package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/62String/devicerent-sub000/internal/auth"
	"github.com/62String/devicerent-sub000/internal/repositories"
	"github.com/62String/devicerent-sub000/internal/services"
	"github.com/62String/devicerent-sub000/internal/utils"
	"github.com/62String/devicerent-sub000/internal/validator"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	adminHandler   *AdminHandler
	deviceHandler  *DeviceHandler
	historyHandler *HistoryHandler
	authMiddleware *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	tokens *auth.TokenIssuer,
	userRepo repositories.UserRepository,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Account(), validator, logger),
		adminHandler:   NewAdminHandler(serviceManager.Account(), logger),
		deviceHandler:  NewDeviceHandler(serviceManager.Device(), serviceManager.Rental(), logger),
		historyHandler: NewHistoryHandler(serviceManager.History(), logger),
		authMiddleware: NewJWTAuthMiddleware(tokens, userRepo),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Public auth routes
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", hm.authHandler.Register)
		authGroup.POST("/check-id", hm.authHandler.CheckID)
		authGroup.POST("/login", hm.authHandler.Login)

		// Caller's own record - requires a valid token
		authGroup.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Me)
	}

	// Device routes - all authenticated users
	devices := router.Group("/devices")
	devices.Use(hm.authMiddleware.AuthMiddleware())
	{
		devices.GET("", hm.deviceHandler.List)
		devices.GET("/available", hm.deviceHandler.ListAvailable)
		devices.POST("/rent-device", hm.deviceHandler.Rent)
		devices.POST("/return-device", hm.deviceHandler.Return)

		devices.GET("/history", hm.historyHandler.List)
		devices.POST("/history/export", hm.historyHandler.Export)

		// Device pool management - Admins only
		manage := devices.Group("/manage")
		manage.Use(hm.authMiddleware.RequireAdminMiddleware())
		{
			manage.POST("/register", hm.deviceHandler.Register)
			manage.POST("/delete", hm.deviceHandler.Delete)
			manage.POST("/update-status", hm.deviceHandler.UpdateStatus)
		}
	}

	// User administration routes - Admins only
	admin := router.Group("/admin")
	admin.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireAdminMiddleware())
	{
		admin.GET("/users/pending", hm.adminHandler.ListPending)
		admin.GET("/users", hm.adminHandler.ListApproved)
		admin.POST("/users/approve", hm.adminHandler.Approve)
		admin.POST("/users/reject", hm.adminHandler.Reject)
		admin.POST("/users/delete", hm.adminHandler.Delete)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "device-rental-service",
		})
	})
}
