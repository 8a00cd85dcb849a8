package server

import (
	"github.com/ArtemKhov/project-run/internal/athlete"
	"github.com/ArtemKhov/project-run/internal/auth"
	"github.com/ArtemKhov/project-run/internal/challenge"
	"github.com/ArtemKhov/project-run/internal/config"
	"github.com/ArtemKhov/project-run/internal/item"
	"github.com/ArtemKhov/project-run/internal/position"
	"github.com/ArtemKhov/project-run/internal/run"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.App.Get("/company_details", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"company_name": s.Cfg.CompanyName,
			"slogan":       s.Cfg.CompanySlogan,
			"contacts":     s.Cfg.CompanyContacts,
		})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	athleteOnly := auth.AthleteOnly(s.Cfg.JWTSecret)

	authSvc := auth.NewService(s.Cfg.JWTSecret, s.DB)
	itemSvc := item.NewService(s.DB, s.Redis)

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc)
	auth.RegisterUserRoutes(s.App.Group("/users"), authSvc)
	run.RegisterRoutes(s.App.Group("/runs"), run.NewService(s.DB), athleteOnly)
	position.RegisterRoutes(s.App.Group("/positions"), position.NewService(s.DB, itemSvc), athleteOnly)
	item.RegisterRoutes(s.App.Group("/items"), itemSvc, jwtMiddleware)
	challenge.RegisterRoutes(s.App.Group("/challenges"), challenge.NewService(s.DB))
	athlete.RegisterRoutes(s.App.Group("/athletes"), athlete.NewService(s.DB), athleteOnly)
}
