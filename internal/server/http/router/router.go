package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yessgo/yesspay/internal/server/http/handlers"
	"github.com/yessgo/yesspay/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.LoyaltyFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	qrHandler := handlers.NewQRHandler(facade)
	walletHandler := handlers.NewWalletHandler(facade)

	api := engine.Group("/api/v1")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired(facade))
	authorized.POST("/qr/generate", qrHandler.Generate)
	authorized.POST("/qr/validate", qrHandler.Validate)
	authorized.POST("/qr/scan", qrHandler.Scan)
	authorized.GET("/payments/balance", walletHandler.Balance)
	authorized.GET("/payments/transactions", walletHandler.History)
	authorized.POST("/wallet/topup", walletHandler.TopUp)

	return engine
}
