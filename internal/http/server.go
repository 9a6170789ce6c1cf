// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahats/school/internal/config"
	identityDomain "github.com/rahats/school/internal/identity/domain"
	identityHTTP "github.com/rahats/school/internal/identity/http"
	identityUseCase "github.com/rahats/school/internal/identity/usecase"
	"github.com/rahats/school/internal/metrics"
	schoolHTTP "github.com/rahats/school/internal/school/http"
)

const (
	// readinessTimeout bounds the database ping of /ready.
	readinessTimeout = 2 * time.Second

	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
)

func newHTTPServer(host string, port int) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// listenAndServe blocks until the server stops. A graceful Shutdown is not an error.
func listenAndServe(server *http.Server, logger *slog.Logger, name string) error {
	logger.Info("starting "+name, slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

// Server represents the HTTP server.
type Server struct {
	db               *sql.DB
	server           *http.Server
	router           *gin.Engine
	logger           *slog.Logger
	loginRateLimiter *identityHTTP.LoginRateLimiter
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: newHTTPServer(host, port),
	}
}

// SetupRouter registers middleware and routes.
//
// Route groups:
//   - /api/auth: login (IP rate limited), logout and me
//   - /api/student: student panel, dashboard is also open to the student's teachers
//   - /api/teacher: teacher panel, teacher role only
//
// Ownership of path ids is enforced by the use cases, not here.
func (s *Server) SetupRouter(
	cfg *config.Config,
	authHandler *identityHTTP.AuthHandler,
	schoolHandler *schoolHTTP.SchoolHandler,
	authUseCase identityUseCase.AuthUseCase,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authenticated := identityHTTP.AuthenticationMiddleware(authUseCase, s.logger)

	auth := router.Group("/api/auth")
	{
		login := []gin.HandlerFunc{}
		if cfg.RateLimitLoginEnabled {
			s.loginRateLimiter = identityHTTP.NewLoginRateLimiter(
				cfg.RateLimitLoginRequestsPerSec,
				cfg.RateLimitLoginBurst,
				s.logger,
			)
			login = append(login, s.loginRateLimiter.Middleware())
		}
		login = append(login, authHandler.LoginHandler)
		auth.POST("/login", login...)

		auth.POST("/logout", authenticated, authHandler.LogoutHandler)
		auth.GET("/me", authenticated, authHandler.MeHandler)
	}

	student := router.Group("/api/student", authenticated)
	{
		student.GET("/dashboard/:studentId", schoolHandler.DashboardHandler)
		student.GET(
			"/suggested-videos/:studentId/:courseId",
			identityHTTP.RequireRole(s.logger, identityDomain.RoleStudent),
			schoolHandler.SuggestedVideosHandler,
		)
	}

	teacher := router.Group(
		"/api/teacher",
		authenticated,
		identityHTTP.RequireRole(s.logger, identityDomain.RoleTeacher),
	)
	{
		teacher.GET("/classes/:teacherId", schoolHandler.ClassesHandler)
		teacher.GET("/students/:teacherId", schoolHandler.StudentsHandler)
		teacher.POST("/update-grades", schoolHandler.UpdateGradesHandler)
		teacher.POST("/upload-material", schoolHandler.UploadMaterialHandler)
		teacher.GET("/materials/:teacherId", schoolHandler.MaterialsHandler)
		teacher.DELETE("/materials/:id", schoolHandler.DeleteMaterialHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router
	return listenAndServe(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server and stops the login rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.loginRateLimiter != nil {
		s.loginRateLimiter.Stop()
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
