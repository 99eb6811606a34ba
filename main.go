// main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"go-class-pulse/controllers"
	"go-class-pulse/logger"
	"go-class-pulse/middleware"
	"go-class-pulse/services"
	"go-class-pulse/websocket"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	_ = godotenv.Load()

	env := os.Getenv("ENV")
	logger.SetLogLevel(env)
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize session store for the teacher console
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev-secret" // local testing only
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("classpulse", store))

	// Wire the core: roster + ledger + session behind the websocket messenger
	roster := services.NewRosterService()
	ledger := services.NewLedgerService()
	session := services.NewSessionService(roster, ledger, websocket.NewMessenger())
	controllers.SetSessionService(session)

	wsServer := websocket.NewServer(session)

	// Liveness endpoints
	router.GET("/", controllers.Root)
	router.GET("/health", controllers.Health)

	// Teacher console auth
	router.POST("/login", controllers.PerformLogin)
	router.GET("/logout", controllers.Logout)

	// Protected console routes
	protected := router.Group("/session", middleware.AuthRequired)
	{
		protected.GET("/history", controllers.SessionHistory)
	}

	// Student join helpers
	router.GET("/qrcode", controllers.GetQRCode)

	// Real-time endpoint
	router.GET("/ws", func(c *gin.Context) {
		wsServer.ServeWs(c.Writer, c.Request)
	})

	// Start the broadcast fan-out loop
	go websocket.HandleMessages()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info.Printf("Server running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
