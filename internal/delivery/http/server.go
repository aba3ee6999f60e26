package http

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/config"
	"github.com/charger-microservice/internal/delivery/http/handler"
	"github.com/charger-microservice/internal/delivery/http/middleware"
	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/pkg/metrics"
	"github.com/charger-microservice/internal/pkg/utils"
	"github.com/charger-microservice/internal/usecase/dto"
)

// HealthChecker - зависимость, состояние которой показывает /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	stationHandler *handler.StationHandler
	statsHandler   *handler.StatsHandler

	healthCheckers map[string]HealthChecker
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	stationHandler *handler.StationHandler,
	statsHandler *handler.StatsHandler,
	healthCheckers map[string]HealthChecker,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Charger Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		stationHandler: stationHandler,
		statsHandler:   statsHandler,
		healthCheckers: healthCheckers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App, используется в тестах
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.config.Metrics.Enabled {
		s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	// Charger routes; статические пути регистрируются раньше :stationId
	api.Get("/chargers", s.stationHandler.ListChargers)
	api.Get("/chargers/nearest-charger", s.stationHandler.NearestCharger)
	api.Post("/chargers/by-ids", s.stationHandler.GetChargersByIDs)
	api.Post("/chargers/nearby", s.stationHandler.SearchNearby)
	api.Get("/chargers/:stationId", s.stationHandler.GetCharger)

	// Stats
	api.Get("/stats", s.statsHandler.GetStatistics)
}

// health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.healthCheckers))
	for name := range s.healthCheckers {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{Status: "healthy", Services: make(map[string]string, len(names))}
	for _, name := range names {
		if err := s.healthCheckers[name].Health(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
			resp.Services[name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Services[name] = "healthy"
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные в handler'ах (404 маршрута, паники, fiber.Error)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			if e.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Int("status", e.Code), zap.Error(err))
			}
			return c.Status(e.Code).JSON(utils.ErrorResponse{
				Error: errors.New(httpErrorCode(e.Code), e.Message, e.Code),
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}

func httpErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "ROUTE_NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "INVALID_REQUEST"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
