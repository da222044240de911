package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"friend-service/internal/cache"
	"friend-service/internal/changefeed"
	"friend-service/internal/config"
	"friend-service/internal/db"
	"friend-service/internal/handlers"
	"friend-service/internal/middleware"
	"friend-service/internal/notify"
	"friend-service/internal/observability"
	"friend-service/internal/rabbitmq"
	"friend-service/internal/repositories"
	"friend-service/internal/social"
	"friend-service/internal/telemetry"
	"friend-service/internal/ws"
)

const profileCacheTTL = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}

	database, err := db.Connect(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	defer publisher.Close()
	log.Printf("publisher mode=%s reason=%s", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))
	auditEmitter := telemetry.NewAuditEmitter(publisher, cfg.AMQP.AuditRouting, cfg.App.Name, cfg.App.Environment)

	feed := changefeed.NewFeed()
	go func() {
		if err := changefeed.Listen(ctx, cfg.DB.DSN, db.ChangeChannel, feed); err != nil {
			log.Printf("changefeed stopped: %v", err)
		}
	}()

	profiles := newProfileCache(ctx, cfg.Redis)
	userTicks, cancelUserTicks := feed.Subscribe("users", changefeed.MaskUpdate|changefeed.MaskDelete)
	defer cancelUserTicks()
	go cache.InvalidateOnChange(ctx, userTicks, profiles)

	relationshipRepo := repositories.NewRelationshipRepo(database)
	attributeRepo := repositories.NewAttributeRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	userRepo := repositories.NewUserRepo(database)

	service := social.NewService(social.Deps{
		Relationships: relationshipRepo,
		Attributes:    attributeRepo,
		Chats:         chatRepo,
		Users:         userRepo,
		Reports:       repositories.NewReportRepo(database),
		Profiles:      profiles,
		Notifier:      notify.NewSender(userRepo, publisher, cfg.AMQP.PushRoutingKey),
		Auditor:       auditEmitter,
		AppName:       cfg.App.Name,
	})

	hub := ws.NewHub(publisher)
	hubTicks, cancelHubTicks := feed.Subscribe("", changefeed.MaskAll)
	defer cancelHubTicks()
	go hub.Run(ctx, hubTicks)

	validator := middleware.NewTokenValidator(cfg.Auth.JWTSecret)
	changeWS := ws.NewChangeWebSocketHandler(hub, validator)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(observability.RequestIDMiddleware())
	router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		if err := database.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws/changes", changeWS.Handle)

	api := router.Group("/", middleware.AuthMiddleware(validator), handlers.ProvisionUsers(service))
	handlers.RegisterRoutes(api, service)
	handlers.RegisterDebugRoutes(api, auditEmitter, cfg.App.Debug)

	srv := &http.Server{Addr: ":" + cfg.App.Port, Handler: router}
	go func() {
		log.Printf("listening port=%s app=%s env=%s", cfg.App.Port, cfg.App.Name, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}

// newProfileCache uses Redis when configured and reachable, and an
// in-process cache otherwise.
func newProfileCache(ctx context.Context, cfg config.RedisConfig) cache.ProfileCache {
	if cfg.Addr == "" {
		log.Printf("profile cache mode=memory reason=empty redis addr")
		return cache.NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("profile cache mode=memory reason=%v", err)
		_ = client.Close()
		return cache.NewMemoryCache()
	}
	log.Printf("profile cache mode=redis addr=%s", cfg.Addr)
	return cache.NewRedisCache(client, profileCacheTTL)
}
