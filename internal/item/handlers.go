package item

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Item
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Name == "" || req.UID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and uid required")
		}
		created, err := svc.CreateItem(c.Context(), req)
		if err != nil {
			if errors.Is(err, ErrLatitudeOutOfRange) || errors.Is(err, ErrLongitudeOutOfRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		if athleteID := c.Query("athlete"); athleteID != "" {
			items, err := svc.CollectedBy(c.Context(), athleteID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return c.JSON(items)
		}
		items, err := svc.Catalog(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(items)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		it, err := svc.GetItem(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		return c.JSON(it)
	})

	r.Get("/:id/collectors", func(c *fiber.Ctx) error {
		athleteIDs, err := svc.Collectors(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(athleteIDs)
	})
}
