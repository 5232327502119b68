package routes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/gatewarden/gatewarden/internal/api/handlers"
	"github.com/gatewarden/gatewarden/internal/api/middleware"
	"github.com/gatewarden/gatewarden/internal/config"
	"github.com/gatewarden/gatewarden/internal/logger"
	"github.com/gatewarden/gatewarden/internal/metrics"
	"github.com/gatewarden/gatewarden/internal/models"
	"github.com/gatewarden/gatewarden/internal/patterns"
	"github.com/gatewarden/gatewarden/internal/scanner"
	"github.com/gatewarden/gatewarden/internal/services"
)

// Register wires up API routes, performs automatic migrations and starts
// the background expiry sweep.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.Requester{},
		&models.Action{},
		&models.PendingApproval{},
		&models.ApprovalRule{},
		&models.Setting{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.AuditEntry{},
		&models.User{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	applySettings(db, &cfg)

	registry, err := patterns.NewDefault()
	if err != nil {
		return fmt.Errorf("load detection patterns: %w", err)
	}

	contentScanner := scanner.New(registry, scanner.Config{
		ConfidenceFloor:   cfg.ConfidenceFloor,
		HighSeverityLimit: cfg.HighSeverityLimit,
	})

	notificationService := services.NewNotificationService(db)
	requesterService := services.NewRequesterService(db)
	ruleService := services.NewRuleService(db)
	queueService := services.NewQueueService(db, cfg.DefaultApprovalTTL)
	interceptService := services.NewInterceptService(db, contentScanner, ruleService, requesterService, queueService, cfg.HistoryRetention)
	authService := services.NewAuthService(db, cfg)

	promRegistry := prometheus.NewRegistry()
	metrics.Register(promRegistry)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	interceptHandler := handlers.NewInterceptHandler(interceptService, notificationService)
	// Interception is the agent-facing surface; agents are identified by
	// requester id, not an operator session.
	api.POST("/intercept", interceptHandler.Intercept)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		pendingHandler := handlers.NewPendingHandler(queueService, notificationService)
		protected.GET("/approvals/pending", pendingHandler.List)
		protected.POST("/approvals/:id/decide", pendingHandler.Decide)
		protected.POST("/approvals/sweep", pendingHandler.Sweep)

		ruleHandler := handlers.NewRuleHandler(ruleService, notificationService)
		protected.GET("/rules", ruleHandler.List)
		protected.POST("/rules", ruleHandler.Create)
		protected.PUT("/rules/:id", ruleHandler.Update)
		protected.DELETE("/rules/:id", ruleHandler.Delete)
		protected.GET("/rules/audit", ruleHandler.Audit)

		protected.GET("/actions/history", interceptHandler.History)

		requesterHandler := handlers.NewRequesterHandler(requesterService)
		protected.GET("/requesters", requesterHandler.List)
		protected.GET("/requesters/:id", requesterHandler.Get)
		protected.POST("/requesters", requesterHandler.Create)
		protected.PUT("/requesters/:id", requesterHandler.Update)
		protected.DELETE("/requesters/:id", requesterHandler.Delete)

		settingsHandler := handlers.NewSettingsHandler(db)
		protected.GET("/settings", settingsHandler.GetSettings)
		protected.POST("/settings", settingsHandler.UpdateSetting)

		notificationHandler := handlers.NewNotificationHandler(notificationService)
		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/providers", notificationHandler.ListProviders)
		protected.POST("/notifications/providers", notificationHandler.CreateProvider)
		protected.PUT("/notifications/providers/:id", notificationHandler.UpdateProvider)
		protected.DELETE("/notifications/providers/:id", notificationHandler.DeleteProvider)
		protected.POST("/notifications/providers/test", notificationHandler.TestProvider)
	}

	startSweeper(cfg, queueService, interceptService, notificationService)

	return nil
}

// applySettings overlays stored policy settings onto the env-sourced boot
// defaults. Unknown keys and unparsable values are ignored.
func applySettings(db *gorm.DB, cfg *config.Config) {
	var settings []models.Setting
	if err := db.Find(&settings).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to load stored settings")
		return
	}
	for _, s := range settings {
		switch s.Key {
		case "approval_ttl_seconds":
			if n, err := strconv.Atoi(s.Value); err == nil && n > 0 {
				cfg.DefaultApprovalTTL = time.Duration(n) * time.Second
			}
		case "confidence_floor":
			if n, err := strconv.Atoi(s.Value); err == nil && n > 0 && n <= 100 {
				cfg.ConfidenceFloor = n
			}
		case "high_severity_limit":
			if n, err := strconv.Atoi(s.Value); err == nil && n > 0 {
				cfg.HighSeverityLimit = n
			}
		case "history_retention":
			if n, err := strconv.Atoi(s.Value); err == nil && n > 0 {
				cfg.HistoryRetention = n
			}
		}
	}
}

// startSweeper schedules the expiry sweep. SkipIfStillRunning keeps the
// sweep single-flight: a slow pass is never overlapped by the next tick.
func startSweeper(cfg config.Config, queue *services.QueueService, intercept *services.InterceptService, notifier *services.NotificationService) {
	cronLogger := cron.PrintfLogger(logger.Log())
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))

	spec := fmt.Sprintf("@every %s", cfg.SweepInterval)
	_, err := c.AddFunc(spec, func() {
		expired, events, err := queue.ProcessExpired()
		if err != nil {
			logger.Log().WithError(err).Error("expiry sweep reported errors")
		}
		if expired > 0 {
			logger.WithFields(map[string]interface{}{"expired": expired}).Info("expiry sweep rejected overdue approvals")
		}
		notifier.Dispatch(events)

		if err := intercept.TrimHistory(); err != nil {
			logger.Log().WithError(err).Warn("history retention trim failed")
		}
	})
	if err != nil {
		logger.Log().WithError(err).Error("failed to schedule expiry sweep")
		return
	}
	c.Start()
}
