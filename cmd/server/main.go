package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hrkit/employee-api/internal/api"
	"github.com/hrkit/employee-api/internal/auth"
	"github.com/hrkit/employee-api/internal/db"
	"github.com/hrkit/employee-api/internal/employee"
	"github.com/hrkit/employee-api/internal/user"
	"github.com/hrkit/employee-api/internal/utils"
	"github.com/hrkit/employee-api/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger := utils.MustNewLogger(cfg.Logging)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()

	mongoStore, err := db.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		sugar.Fatalw("mongo connect failed", "error", err)
	}
	defer func() {
		if err := mongoStore.Close(context.Background()); err != nil {
			sugar.Warnw("mongo close error", "error", err)
		}
	}()

	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		sugar.Fatalw("mongo ensure indexes failed", "error", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		sugar.Fatalw("token service init failed", "error", err)
	}

	users := user.NewService(mongoStore.UserStore(), sugar)
	employees := employee.NewService(mongoStore.EmployeeStore(), sugar)

	handler := api.NewHandler(users, employees, tokens, sugar)
	handler.RequireAuth = cfg.AuthRequired
	handler.RateLimitRPS = cfg.RateLimitRPS
	handler.RateLimitBurst = cfg.RateLimitBurst

	router := setupRouter(handler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server crashed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("graceful shutdown failed", "error", err)
	}

	sugar.Info("server stopped cleanly")
}

func setupRouter(handler *api.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), api.CORS(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"status":  "false",
			"message": "Internal server error",
		})
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	handler.RegisterRoutes(router)

	mountFrontend(router)

	return router
}

func mountFrontend(router *gin.Engine) {
	static, err := fs.Sub(web.Assets, "static")
	if err != nil {
		log.Printf("frontend: assets unavailable: %v", err)
		return
	}

	router.StaticFS("/app", http.FS(static))
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/app/")
	})
}
