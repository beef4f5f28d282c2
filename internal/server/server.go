package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shunto-ishiguro/trip-plan-app/internal/auth"
	"github.com/shunto-ishiguro/trip-plan-app/internal/authz"
	"github.com/shunto-ishiguro/trip-plan-app/internal/budget"
	"github.com/shunto-ishiguro/trip-plan-app/internal/checklist"
	"github.com/shunto-ishiguro/trip-plan-app/internal/config"
	"github.com/shunto-ishiguro/trip-plan-app/internal/reservation"
	"github.com/shunto-ishiguro/trip-plan-app/internal/share"
	"github.com/shunto-ishiguro/trip-plan-app/internal/spot"
	"github.com/shunto-ishiguro/trip-plan-app/internal/stream"
	"github.com/shunto-ishiguro/trip-plan-app/internal/trip"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Gate   *authz.Gate
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Gate:   authz.NewGate(db),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))

	trip.RegisterRoutes(s.App.Group("/trips"), trip.NewService(s.DB, s.Stream), s.Gate, jwtMiddleware)
	spot.RegisterRoutes(s.App.Group("/trips/:tripId/spots"), spot.NewService(s.DB, s.Stream), s.Gate, jwtMiddleware)
	budget.RegisterRoutes(s.App.Group("/trips/:tripId/budget-items"), budget.NewService(s.DB, s.Stream), s.Gate, jwtMiddleware)
	checklist.RegisterRoutes(s.App.Group("/trips/:tripId/checklist-items"), checklist.NewService(s.DB, s.Stream), s.Gate, jwtMiddleware)
	reservation.RegisterRoutes(s.App.Group("/trips/:tripId/reservations"), reservation.NewService(s.DB, s.Stream), s.Gate, jwtMiddleware)

	shareSvc := share.NewService(s.DB, s.Stream)
	share.RegisterTripRoutes(s.App.Group("/trips/:tripId/share"), shareSvc, s.Gate, jwtMiddleware)
	share.RegisterShareRoutes(s.App.Group("/share"), shareSvc, jwtMiddleware)

	stream.RegisterRoutes(s.App, s.Stream, s.Gate, s.Cfg.JWTSecret)
}
