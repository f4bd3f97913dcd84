package analysis

import (
	"errors"

	"backend-runplan/internal/gpx"
	"backend-runplan/internal/race"
	"backend-runplan/internal/route"
	"backend-runplan/internal/track"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)

		detail, err := svc.Create(c.Context(), userID, req)
		if err != nil {
			return createError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(detail)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		analyses, err := svc.List(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(analyses)
	})

	r.Get("/route/:routeID", func(c *fiber.Ctx) error {
		analyses, err := svc.ListByRoute(c.Context(), c.Params("routeID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(analyses)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		detail, err := svc.GetDetail(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "analysis not found")
		}
		return c.JSON(detail)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// createError maps comparison-pipeline validation failures to 400s.
func createError(err error) error {
	switch {
	case errors.Is(err, gpx.ErrMalformedGPX),
		errors.Is(err, gpx.ErrNoTrackPoints),
		errors.Is(err, track.ErrEmptyTrack),
		errors.Is(err, track.ErrInvalidCoordinate),
		errors.Is(err, track.ErrNonMonotonicTime),
		errors.Is(err, track.ErrInvalidTolerance),
		errors.Is(err, race.ErrWaypointListEmpty),
		errors.Is(err, route.ErrTooManyPoints):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if _, ok := err.(*fiber.Error); ok {
		return err
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
