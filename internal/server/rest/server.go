// Package rest exposes the attendance service over HTTP with JSON bodies.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/attendance/internal/dbx"
	"github.com/dmitrijs2005/attendance/internal/logging"
	"github.com/dmitrijs2005/attendance/internal/server/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type userService interface {
	Signup(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type attendanceService interface {
	Today() string
	MarkNow(ctx context.Context, markedBy int64, name string) (*models.AttendanceRecord, error)
	List(ctx context.Context, date string) ([]models.AttendanceRecord, error)
}

// Options configures the HTTP server.
type Options struct {
	Address            string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
}

type Server struct {
	address    string
	engine     *gin.Engine
	users      userService
	attendance attendanceService
	tokens     TokenVerifier
	db         dbx.Pinger
	logger     logging.Logger
}

func NewServer(opts Options, l logging.Logger, us userService, as attendanceService, tv TokenVerifier, db dbx.Pinger) *Server {
	s := &Server{
		address:    opts.Address,
		users:      us,
		attendance: as,
		tokens:     tv,
		db:         db,
		logger:     l.With("module", "rest_server"),
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(s.requestLogger(), gin.CustomRecovery(s.recovered))
	if len(opts.CORSAllowedOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSAllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}))
	}
	engine.Use(requestTimeout(opts.RequestTimeout))

	s.engine = engine
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "not found")
	})
	s.engine.NoMethod(func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.engine.GET("/health", s.health)
	s.engine.POST("/signup", s.signup)
	s.engine.POST("/login", s.login)

	protected := s.engine.Group("/", s.authRequired())
	protected.POST("/mark-attendance", s.markAttendance)
	protected.GET("/attendance", s.listAttendance)
}

// recovered answers a panicking handler with the error envelope.
func (s *Server) recovered(c *gin.Context, err any) {
	s.logger.Error(c.Request.Context(), "panic recovered", "error", err, "path", c.FullPath())
	fail(c, http.StatusInternalServerError, msgInternal)
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
		case <-stop:
			return
		}
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		close(stop)
		<-done
		return err
	}
	<-done
	return nil
}
