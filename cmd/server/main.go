package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"image-classify-bot/internal/config"
	"image-classify-bot/internal/middleware"
	pkglambda "image-classify-bot/pkg/lambda"
	"image-classify-bot/pkg/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependencies; this also starts the background model load
	container, err := server.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(container.Log))

	// Health check endpoint, reports bootstrap state
	router.GET("/health", func(c *gin.Context) {
		status := "loading"
		if s := container.Bootstrap.Snapshot(); s != nil {
			if s.Err != nil {
				status = "failed"
			} else {
				status = "ready"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
		})
	})

	// Storage notifications arrive here
	router.POST("/events", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusBadRequest, "Failed to read request body")
			return
		}

		resp := container.Handler.HandleEvent(c.Request.Context(), &pkglambda.Request{
			Headers: map[string]string{"Content-Type": c.GetHeader("Content-Type")},
			Body:    body,
		})
		c.Data(resp.StatusCode, resp.ContentType, []byte(resp.Body))
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
