package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cliniqon/clinic-scheduler/internal/config"
	dbpkg "github.com/cliniqon/clinic-scheduler/internal/db"
	"github.com/cliniqon/clinic-scheduler/internal/logging"
	"github.com/cliniqon/clinic-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()

	logging.Init(cfg.IsProduction())
	logger := logging.L()
	defer logger.Sync()

	db := dbpkg.NewDB(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg)

	logger.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
