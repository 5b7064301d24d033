package main

import (
	"fmt"
	"log"
	"os"

	"hybrid-sizer/internal/api/handlers"
	"hybrid-sizer/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	storageDir := handlers.DefaultStorageDir()
	log.Printf("Using storage preset directory: %s", storageDir)

	optimizeHandler := handlers.NewOptimizeHandler(storageDir)
	storageHandler := handlers.NewStorageHandler(storageDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/optimize", optimizeHandler.RunOptimize)
		api.GET("/optimize/:id/dispatch", optimizeHandler.GetDispatch)
		api.GET("/optimize/:id/windows", optimizeHandler.GetWindows)

		api.GET("/storage", storageHandler.ListStorage)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
