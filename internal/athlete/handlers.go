package athlete

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Put("/:id/info", authMiddleware, func(c *fiber.Ctx) error {
		var req Profile
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.AthleteID = c.Params("id")
		profile, err := svc.UpsertProfile(c.Context(), req)
		if err != nil {
			if errors.Is(err, ErrWeightOutOfRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(profile)
	})

	r.Get("/:id/info", func(c *fiber.Ctx) error {
		profile, err := svc.GetProfile(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "athlete info not found")
		}
		return c.JSON(profile)
	})

	r.Post("/:id/subscriptions", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			CoachID string `json:"coach_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.CoachID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "coach_id required")
		}
		sub, err := svc.Subscribe(c.Context(), c.Params("id"), body.CoachID)
		if err != nil {
			return coachError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(sub)
	})

	r.Delete("/:id/subscriptions/:coach_id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Unsubscribe(c.Context(), c.Params("id"), c.Params("coach_id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id/subscriptions", func(c *fiber.Ctx) error {
		subs, err := svc.Subscriptions(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(subs)
	})

	r.Post("/:id/ratings", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			CoachID string `json:"coach_id"`
			Rating  int    `json:"rating"`
		}
		if err := c.BodyParser(&body); err != nil || body.CoachID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "coach_id required")
		}
		rating, err := svc.RateCoach(c.Context(), c.Params("id"), body.CoachID, body.Rating)
		if err != nil {
			if errors.Is(err, ErrRatingOutOfRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return coachError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(rating)
	})
}

func coachError(err error) error {
	switch {
	case errors.Is(err, ErrCoachNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotACoach):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
