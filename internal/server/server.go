package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rana718/gridbase/internal/config"
	"github.com/Rana718/gridbase/internal/grid"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	app     *fiber.App
	service *grid.Service
	metrics *metrics
	log     *slog.Logger
	port    int
}

func NewServer(svc *grid.Service, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "gridbase",
		ReadTimeout:           cfg.Server.ReadTimeout,
		ErrorHandler:          errorHandler(logger),
		DisableStartupMessage: true,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := &Server{
		app:     app,
		service: svc,
		metrics: newMetrics(reg),
		log:     logger,
		port:    cfg.Server.Port,
	}

	app.Use(observe(logger, server.metrics))
	app.Use(recover.New())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)

	// Bases
	api.Get("/bases", s.handleListBases)
	api.Post("/bases", s.handleCreateBase)
	api.Get("/bases/:id", s.handleGetBase)
	api.Patch("/bases/:id", s.handleRenameBase)
	api.Delete("/bases/:id", s.handleDeleteBase)
	api.Get("/bases/:id/tables", s.handleListTables)
	api.Post("/bases/:id/tables", s.handleCreateTable)

	// Tables and rows
	api.Get("/tables/:id", s.handleGetTable)
	api.Post("/tables/:id/columns", s.handleAddColumn)
	api.Post("/tables/:id/rows", s.handleAddRow)
	api.Post("/tables/:id/rows/fake", s.handleFakeRows)
	api.Get("/tables/:id/rows", s.handleFetchRows)
	api.Post("/tables/:id/rows/query", s.handleQueryRows)
	api.Patch("/tables/:id/rows/:rowId/cells/:columnId", s.handleUpdateCell)

	// Views
	api.Get("/tables/:id/view", s.handleGetView)
	api.Patch("/views/:id/config", s.handleUpdateViewConfig)
	api.Delete("/views/:id/sort/:columnId", s.handleDeleteSort)
	api.Delete("/views/:id/filters/:columnId", s.handleDeleteFilter)
	api.Delete("/views/:id/hidden/:columnId", s.handleDeleteHidden)
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	s.log.Info("gridbase API listening", "port", s.port)
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.service.Store().Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(Response{Success: false, Message: "database unavailable"})
	}
	return message(c, "ok")
}
