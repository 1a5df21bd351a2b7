package main

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vxronica/mechanic-shop/configs"
	"github.com/vxronica/mechanic-shop/internal/auth"
	"github.com/vxronica/mechanic-shop/internal/db"
	"github.com/vxronica/mechanic-shop/internal/handlers"
	"github.com/vxronica/mechanic-shop/internal/logger"
	"github.com/vxronica/mechanic-shop/internal/middleware"
)

func main() {

	cfg := config.LoadAppConfig()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	gdb, err := db.Init(config.LoadDatabaseConfig(cfg.Env))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Info("Database connected and migrated successfully")

	limiter := middleware.NewDailyLimiter()
	cache := middleware.NewResponseCache(60 * time.Second)
	requireAuth := auth.RequireAuth(cfg.JWTSecret)

	customerHandler := &handlers.CustomerHandler{DB: gdb, Secret: cfg.JWTSecret}
	mechanicHandler := &handlers.MechanicHandler{DB: gdb}
	inventoryHandler := &handlers.InventoryHandler{DB: gdb}
	ticketHandler := &handlers.TicketHandler{DB: gdb, Log: log, Notify: cfg.Env == "production"}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(log))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// ── customers ──
	customers := r.Group("/customers")
	{
		customers.POST("/", limiter.PerDay(5), customerHandler.Create)
		customers.GET("/", customerHandler.List)
		customers.GET("/:id", cache.Cached(), customerHandler.Get)
		customers.PUT("/:id", requireAuth, limiter.PerDay(5), customerHandler.Update)
		customers.DELETE("/:id", requireAuth, limiter.PerDay(5), customerHandler.Delete)
		customers.POST("/login", customerHandler.Login)
		customers.GET("/my-tickets", requireAuth, customerHandler.MyTickets)
	}

	// ── mechanics ──
	mechanics := r.Group("/mechanics")
	{
		mechanics.POST("/", limiter.PerDay(5), mechanicHandler.Create)
		mechanics.GET("/", cache.Cached(), mechanicHandler.List)
		mechanics.GET("/:id", cache.Cached(), mechanicHandler.Get)
		mechanics.PUT("/:id", limiter.PerDay(5), mechanicHandler.Update)
		mechanics.DELETE("/:id", limiter.PerDay(5), mechanicHandler.Delete)
	}

	// ── inventory ──
	inventory := r.Group("/inventory")
	{
		inventory.POST("/", inventoryHandler.Create)
		inventory.GET("/", inventoryHandler.List)
		inventory.GET("/:id", inventoryHandler.Get)
		inventory.PUT("/:id", inventoryHandler.Update)
		inventory.DELETE("/:id", inventoryHandler.Delete)
	}

	// ── tickets ──
	tickets := r.Group("/tickets")
	{
		tickets.POST("/", limiter.PerDay(100), ticketHandler.Create)
		tickets.GET("/", cache.Cached(), ticketHandler.List)
		tickets.GET("/:id", cache.Cached(), ticketHandler.Get)
		tickets.PUT("/:id", limiter.PerDay(100), ticketHandler.Update)
		tickets.PUT("/:id/edit", ticketHandler.EditMechanics)
		tickets.PUT("/:id/add_part", ticketHandler.AddPart)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
