package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/infrastructure/http/handler"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/http/middleware"
	"github.com/wekeepgrowing/identity-server/internal/logger"
)

// Config holds the HTTP server settings.
type Config struct {
	Port    string
	Timeout int
	Debug   bool
}

// Server wraps the echo router and its lifecycle.
type Server struct {
	router  *echo.Echo
	server  *http.Server
	logger  *zap.Logger
	address string
}

func NewServer(cfg Config, zapLogger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug

	e.Use(echomiddleware.Recover())
	e.Use(logger.NewEchoRequestLogger(zapLogger))

	address := fmt.Sprintf(":%s", cfg.Port)

	server := &http.Server{
		Addr:         address,
		ReadTimeout:  time.Duration(cfg.Timeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Timeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Timeout) * time.Second,
	}

	return &Server{
		router:  e,
		server:  server,
		logger:  zapLogger,
		address: address,
	}
}

func (s *Server) Router() *echo.Echo {
	return s.router
}

// RegisterRoutes mounts the auth and account endpoints.
func (s *Server) RegisterRoutes(
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	s.router.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/tfa/confirm", authHandler.ConfirmTFA)
	auth.POST("/refresh", authHandler.Refresh)

	protected := auth.Group("", authMiddleware.Handle())
	protected.POST("/signout", authHandler.SignOut)
	protected.GET("/me", authHandler.Me)

	account := v1.Group("/account", authMiddleware.Handle())
	account.POST("/verify", accountHandler.VerifyAccount)
	account.POST("/verify/resend", accountHandler.ResendVerification)
	account.POST("/phone", accountHandler.SetPhoneNumber)
	account.POST("/phone/verify", accountHandler.VerifyPhoneNumber)
	account.DELETE("/phone", accountHandler.RemovePhoneNumber)
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("address", s.address))

	s.server.Handler = s.router
	return s.router.StartServer(s.server)
}

func (s *Server) Stop() error {
	s.logger.Info("stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.router.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	return nil
}
