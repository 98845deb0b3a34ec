// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/pdf-upload-api/internal/config"
	"github.com/yourusername/pdf-upload-api/internal/middleware"
	"github.com/yourusername/pdf-upload-api/internal/pdf"
)

const (
	serviceName    = "PDF Upload API"
	serviceVersion = "1.0.0"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(cors.New(corsConfig(cfg)))

	logger := log.Default()
	setupRoutes(router, pdf.NewExtractor(logger), logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting %s %s on %s (mode: %s)", serviceName, serviceVersion, srv.Addr, cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down (timeout: %s)", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// corsConfig は CORS_ALLOWED_ORIGINS から CORS 設定を組み立てます。
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	return corsCfg
}

// handleRoot は稼働確認用のルートエンドポイントです。
func handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": serviceName + " is running",
		"status":  "healthy",
	})
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// setupRoutes はプローブとアップロードのルーティングを行います。
func setupRoutes(router *gin.Engine, extractor pdf.MetadataExtractor, logger *log.Logger) {
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, pdf.ErrorResponse{Detail: "Not Found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, pdf.ErrorResponse{Detail: "Method Not Allowed"})
	})

	router.GET("/", handleRoot)
	router.GET("/health", handleHealth)
	router.POST("/upload", pdf.UploadHandler(extractor, pdf.DefaultRules(), logger))
}
