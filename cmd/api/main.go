package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/careplus/pharmacy-api/internal/account"
	"github.com/careplus/pharmacy-api/internal/auth"
	"github.com/careplus/pharmacy-api/internal/cart"
	"github.com/careplus/pharmacy-api/internal/catalog"
	"github.com/careplus/pharmacy-api/internal/chatbot"
	"github.com/careplus/pharmacy-api/internal/checkout"
	"github.com/careplus/pharmacy-api/internal/config"
	"github.com/careplus/pharmacy-api/internal/contact"
	"github.com/careplus/pharmacy-api/internal/handler"
	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/middleware"
	"github.com/careplus/pharmacy-api/internal/prescription"
	"github.com/careplus/pharmacy-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis client is shared by the redis store backend and the worker's
	// idempotency checks.
	var redisClient *redis.Client
	if cfg.Store.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("connect to Redis", "error", err)
			os.Exit(1)
		}
		log.Info("connected to Redis")
	}

	// Document store
	var store kvstore.Store
	switch cfg.Store.Backend {
	case "memory":
		store = kvstore.NewMemoryStore()
	case "redis":
		store = kvstore.NewRedisStore(redisClient)
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
		if err != nil {
			log.Error("parse db config", "error", err)
			os.Exit(1)
		}
		poolCfg.MaxConns = cfg.DB.MaxConns

		dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			log.Error("connect to database", "error", err)
			os.Exit(1)
		}

		pgStore, err := kvstore.NewPostgresStore(ctx, dbPool)
		if err != nil {
			log.Error("init document table", "error", err)
			os.Exit(1)
		}
		store = pgStore
		log.Info("connected to PostgreSQL")
	default:
		log.Error("unknown store backend", "backend", cfg.Store.Backend)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("document store ready", "backend", cfg.Store.Backend)

	// RabbitMQ is optional: without it orders simply stay pending.
	var amqpConn *amqp.Connection
	var amqpCh *amqp.Channel
	if cfg.RabbitMQ.URL != "" {
		amqpConn, err = amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			log.Error("connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpConn.Close()

		amqpCh, err = amqpConn.Channel()
		if err != nil {
			log.Error("open RabbitMQ channel", "error", err)
			os.Exit(1)
		}
		defer amqpCh.Close()

		if err := worker.SetupRabbitMQ(amqpCh); err != nil {
			log.Error("setup RabbitMQ", "error", err)
			os.Exit(1)
		}
		log.Info("connected to RabbitMQ")
	}

	nowID := func() int64 { return time.Now().UnixMilli() }

	// Services
	catalogSvc := catalog.NewService(store, log, cfg.Catalog.Seed)
	cartSvc := cart.NewService(store, catalogSvc, log)
	authSvc := auth.NewService(store, log, cfg.JWT.Secret, cfg.JWT.Expiration)
	checkoutSvc := checkout.NewService(store, cartSvc, amqpCh, log, nowID)
	accountSvc := account.NewService(store, cartSvc, log, nowID)
	prescriptionSvc := prescription.NewService(store, log, nowID)
	advisoryClient := chatbot.NewGeminiClient(cfg.Advisory, log)
	chatbotSvc := chatbot.NewService(store, advisoryClient, catalogSvc, log)
	contactSvc := contact.NewService(store, log, nowID)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(catalogSvc)
	cartH := handler.NewCartHandler(cartSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	accountH := handler.NewAccountHandler(accountSvc)
	prescriptionH := handler.NewPrescriptionHandler(prescriptionSvc)
	chatbotH := handler.NewChatbotHandler(chatbotSvc)
	contactH := handler.NewContactHandler(contactSvc)
	healthH := handler.NewHealthHandler(store, amqpConn)

	// Worker
	var fulfillment *worker.FulfillmentWorker
	if amqpCh != nil {
		fulfillment = worker.NewFulfillmentWorker(amqpCh, store, redisClient, log, cfg.Fulfillment.DeliveryDelay)
	}

	// Router
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authRequired, authH.Logout)
		authGroup.GET("/me", authRequired, authH.Me)
		authGroup.PATCH("/me", authRequired, authH.UpdateProfile)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/featured", productH.Featured)
		products.GET("/offers", productH.Offers)
		products.GET("/brands", productH.Brands)
		products.GET("/:id", productH.GetByID)

		v1.GET("/faq", productH.FAQ)

		cartGroup := v1.Group("/cart", authRequired)
		cartGroup.GET("", cartH.Get)
		cartGroup.DELETE("", cartH.Clear)
		cartGroup.POST("/items", cartH.AddItem)
		cartGroup.PUT("/items/:productId", cartH.UpdateItem)
		cartGroup.DELETE("/items/:productId", cartH.RemoveItem)
		cartGroup.POST("/discount", cartH.ApplyDiscount)
		cartGroup.DELETE("/discount", cartH.RemoveDiscount)
		cartGroup.GET("/whatsapp", cartH.WhatsAppLink)

		checkoutGroup := v1.Group("/checkout", authRequired)
		checkoutGroup.GET("", checkoutH.State)
		checkoutGroup.POST("/address", checkoutH.SubmitAddress)
		checkoutGroup.POST("/payment", checkoutH.SubmitPayment)
		checkoutGroup.POST("/back", checkoutH.Back)
		checkoutGroup.POST("/place-order", checkoutH.PlaceOrder)

		orders := v1.Group("/orders", authRequired)
		orders.GET("", accountH.ListOrders)
		orders.GET("/:id", accountH.GetOrder)
		orders.POST("/:id/reorder", accountH.Reorder)

		prescriptions := v1.Group("/prescriptions", authRequired)
		prescriptions.GET("", accountH.ListPrescriptions)
		prescriptions.GET("/:id", accountH.GetPrescription)
		prescriptions.POST("", prescriptionH.Submit)

		addresses := v1.Group("/addresses", authRequired)
		addresses.GET("", accountH.ListAddresses)
		addresses.POST("", accountH.AddAddress)
		addresses.PUT("/:id", accountH.UpdateAddress)
		addresses.DELETE("/:id", accountH.DeleteAddress)
		addresses.POST("/:id/default", accountH.SetDefaultAddress)

		settings := v1.Group("/settings", authRequired)
		settings.GET("", accountH.GetSettings)
		settings.PUT("", accountH.UpdateSettings)

		chat := v1.Group("/chat", authRequired)
		chat.POST("", chatbotH.Ask)
		chat.GET("/suggestions", chatbotH.Suggestions)

		v1.POST("/contact", contactH.Submit)
		v1.GET("/branches", contactH.Branches)
	}

	if fulfillment != nil {
		if err := fulfillment.Start(ctx); err != nil {
			log.Error("start fulfillment worker", "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	if fulfillment != nil {
		fulfillment.Stop()
		time.Sleep(500 * time.Millisecond)
	}
	cancel()
	log.Info("server stopped")
}
