package run

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Run
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.AthleteID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "athlete_id required")
		}
		created, err := svc.CreateRun(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		runs, err := svc.ListRuns(c.Context(), c.Query("athlete"), Status(c.Query("status")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(runs)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		r, err := svc.GetRun(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrRunNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(r)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeleteRun(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, ErrRunNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/start", authMiddleware, func(c *fiber.Ctx) error {
		status, err := svc.Start(c.Context(), c.Params("id"))
		if err != nil {
			return transitionError(err)
		}
		return c.JSON(fiber.Map{"status": status})
	})

	r.Post("/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		result, err := svc.Stop(c.Context(), c.Params("id"))
		if err != nil {
			return transitionError(err)
		}
		return c.JSON(result)
	})
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, ErrRunNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyStarted),
		errors.Is(err, ErrAlreadyFinished),
		errors.Is(err, ErrNeverStarted):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
