package position

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Position
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.RunID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "run_id required")
		}
		created, err := svc.Record(c.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, ErrRunNotFound):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			case errors.Is(err, ErrRunNotInProgress),
				errors.Is(err, ErrLatitudeOutOfRange),
				errors.Is(err, ErrLongitudeOutOfRange):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		runID := c.Query("run")
		if runID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "run required")
		}
		positions, err := svc.ListByRun(c.Context(), runID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(positions)
	})
}
