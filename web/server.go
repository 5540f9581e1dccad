package web

import (
	"context"
	"net/http"
	"time"

	"audit-agent/backends"
	"audit-agent/config"
	"audit-agent/engine"
	"audit-agent/web/handlers"
	"audit-agent/web/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	engine  *engine.Engine
	chain   []backends.Generator
	logger  *zap.Logger
	config  *config.Config
	limiter *middleware.TenantRateLimiter
}

func NewServer(chatEngine *engine.Engine, chain []backends.Generator, logger *zap.Logger, config *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	limiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
		MessagesPerMinute: config.RateLimitMessagesPerMin,
		BurstSize:         config.RateLimitBurstSize,
	}, logger)

	server := &Server{
		router:  router,
		engine:  chatEngine,
		chain:   chain,
		logger:  logger,
		config:  config,
		limiter: limiter,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	chatHandler := handlers.NewChatHandler(s.engine, s.logger)
	healthHandler := handlers.NewHealthHandler(s.chain)

	s.router.GET("/healthz", healthHandler.Health)
	s.router.POST("/api/chat",
		middleware.RateLimitMiddleware(s.limiter, s.logger),
		chatHandler.Chat)
}

// requestLogger logs one line per request with latency and status.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	s.limiter.Stop()
	return srv.Shutdown(context.Background())
}
