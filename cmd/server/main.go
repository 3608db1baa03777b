// Package main Shop Core API
//
// Order fulfillment and inventory consistency service: catalog-priced
// checkout, voucher redemption, stock reservation and the order lifecycle.
//
//	@title			Shop Core API
//	@version		1.0
//	@description	Order fulfillment and inventory consistency service
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "shop-core/docs/swagger"
	"shop-core/internal/address"
	"shop-core/internal/cart"
	"shop-core/internal/catalog"
	"shop-core/internal/inventory"
	"shop-core/internal/notification"
	orderadapters "shop-core/internal/order/adapters"
	orderapp "shop-core/internal/order/application"
	orderhttp "shop-core/internal/order/infrastructure"
	orderports "shop-core/internal/order/ports"
	voucheradapters "shop-core/internal/voucher/adapters"
	voucherapp "shop-core/internal/voucher/application"
	voucherhttp "shop-core/internal/voucher/infrastructure"
	"shop-core/pkg/config"
	"shop-core/pkg/db"
	"shop-core/pkg/logger"
	"shop-core/pkg/middleware"
	"shop-core/pkg/rabbitmq"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	log.Info("starting shop-core service")

	// Connect to database
	dbConn, err := db.NewConnection(db.Config{
		DSN:     cfg.DSN(),
		Timeout: cfg.DBTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	log.Info("connected to database")

	// Initialize stores and repositories
	catalogStore := catalog.NewPostgresStore(dbConn)
	cartStore := cart.NewPostgresStore(dbConn)
	addressStore := address.NewPostgresStore(dbConn)
	notificationStore := notification.NewPostgresStore(dbConn)
	voucherRepo := voucheradapters.NewPostgresVoucherRepository(dbConn)
	ledger := inventory.NewLedger()
	orderRepo := orderadapters.NewPostgresOrderRepository(dbConn, ledger)

	// Run migrations. Catalog first: inventory and cart join its tables.
	for _, migrate := range []func() error{
		catalogStore.Migrate,
		cartStore.Migrate,
		addressStore.Migrate,
		voucherRepo.Migrate,
		orderRepo.Migrate,
		notificationStore.Migrate,
	} {
		if err := migrate(); err != nil {
			log.Fatal("failed to migrate database: " + err.Error())
		}
	}

	// Create context for background consumers and shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to RabbitMQ. The service runs without it: events and
	// notifications are best effort.
	var publisher orderports.EventPublisher
	if cfg.EventsEnabled {
		rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("failed to connect to RabbitMQ, events will be disabled: " + err.Error())
		} else {
			defer rabbitConn.Close()

			pub, err := orderadapters.NewRabbitMQPublisher(rabbitConn, log)
			if err != nil {
				log.Warn("failed to create publisher: " + err.Error())
			} else {
				publisher = pub
			}

			if cfg.NotifierEnabled {
				consumer := notification.NewConsumer(notificationStore, log)
				if err := consumer.Start(ctx, rabbitConn); err != nil {
					log.Warn("failed to start notification consumer: " + err.Error())
				}
			}
		}
	}

	// Initialize use cases
	voucherUseCase := voucherapp.NewVoucherUseCase(voucherRepo, log)
	orderUseCase := orderapp.NewOrderUseCase(
		orderRepo,
		orderadapters.NewCartAdapter(cartStore),
		orderadapters.NewCatalogAdapter(catalogStore),
		orderadapters.NewAddressAdapter(addressStore),
		orderadapters.NewVoucherAdapter(voucherUseCase),
		publisher,
		log,
	)

	// Initialize HTTP handlers
	orderHandler := orderhttp.NewHTTPHandler(orderUseCase)
	voucherHandler := voucherhttp.NewHTTPHandler(voucherUseCase)
	cartHandler := cart.NewHTTPHandler(cartStore, catalogStore)
	addressHandler := address.NewHTTPHandler(addressStore)
	notificationHandler := notification.NewHTTPHandler(notificationStore)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	api := router.Group("/api/v1")
	voucherHandler.RegisterRoutes(api)

	// Customer routes need the authenticated user id
	user := api.Group("", middleware.UserID())
	orderHandler.RegisterRoutes(user)
	cartHandler.RegisterRoutes(user)
	addressHandler.RegisterRoutes(user)
	notificationHandler.RegisterRoutes(user)

	// Operator routes. Role enforcement lives in the auth layer in front
	// of this service.
	admin := api.Group("/admin")
	orderHandler.RegisterAdminRoutes(admin)
	voucherHandler.RegisterAdminRoutes(admin)

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		log.Info("HTTP server listening on :" + cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}

	log.Info("server stopped")
}
