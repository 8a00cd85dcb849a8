package challenge

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		athleteID := c.Query("athlete")
		if athleteID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "athlete required")
		}
		challenges, err := svc.ListByAthlete(c.Context(), athleteID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(challenges)
	})
}
