// Package server exposes the question-answering pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"docchat/internal/config"
	"docchat/internal/domain"
)

// Service is the pipeline the HTTP layer delegates to.
type Service interface {
	Answer(ctx context.Context, query string, topK int) (*domain.Answer, error)
	ListDocuments(ctx context.Context) (*domain.DocumentList, error)
	Inspect(ctx context.Context, name string) (*domain.DocumentDetail, error)
}

// Server is the HTTP front of the backend.
type Server struct {
	app      *fiber.App
	svc      Service
	log      *zap.Logger
	validate *validator.Validate
	cache    *cache.Cache
	addr     string
}

// New builds the fiber app with its middleware and routes registered.
func New(cfg config.ServerConfig, svc Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	ttl := time.Duration(cfg.CacheTTLSecs) * time.Second
	s := &Server{
		svc:      svc,
		log:      log,
		validate: validator.New(),
		cache:    cache.New(ttl, 2*ttl),
		addr:     cfg.Addr,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: s.errorHandler,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
	}))
	app.Use(s.requestLogger)

	app.Get("/", s.health)
	app.Post("/ask", s.ask)
	app.Get("/list-cloud-pdfs", s.listPDFs)
	app.Get("/inspect/:name", s.inspect)
	app.Post("/correct-citation", s.correctCitation)

	s.app = app
	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run blocks serving requests until Shutdown is called.
func (s *Server) Run() error {
	s.log.Info("listening", zap.String("addr", s.addr))
	return s.app.Listen(s.addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders every error as the {"detail": ...} shape clients
// expect, keeping fiber's status code when the error carries one.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	reqID := uuid.NewString()
	c.Locals("request_id", reqID)

	err := c.Next()

	s.log.Info("request",
		zap.String("request_id", reqID),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)
	return err
}
