package route

import (
	"errors"

	"backend-runplan/internal/gpx"
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

		detail, err := svc.CreateFromGPX(c.Context(), userID, req)
		if err != nil {
			return uploadError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(detail)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		routes, err := svc.List(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(routes)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		detail, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.JSON(detail)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.Update(c.Context(), c.Params("id"), req); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		detail, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.JSON(detail.Route)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/waypoints", authMiddleware, func(c *fiber.Ctx) error {
		var req WaypointCreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		wp, err := svc.AddWaypoint(c.Context(), c.Params("id"), req)
		if err != nil {
			if errors.Is(err, ErrInvalidWaypointType) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(wp)
	})

	r.Get("/:id/waypoints", func(c *fiber.Ctx) error {
		waypoints, err := svc.Waypoints(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(waypoints)
	})

	r.Put("/:id/waypoints/:waypointID/notes", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Notes string `json:"notes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.UpdateWaypointNotes(c.Context(), c.Params("waypointID"), body.Notes); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "notes updated"})
	})
}

// uploadError maps engine and decoder validation failures to 400s; anything
// else is a server fault.
func uploadError(err error) error {
	switch {
	case errors.Is(err, gpx.ErrMalformedGPX),
		errors.Is(err, gpx.ErrNoTrackPoints),
		errors.Is(err, track.ErrEmptyTrack),
		errors.Is(err, track.ErrInvalidCoordinate),
		errors.Is(err, track.ErrNonMonotonicTime),
		errors.Is(err, track.ErrInvalidTolerance),
		errors.Is(err, ErrTooManyPoints):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if _, ok := err.(*fiber.Error); ok {
		return err
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
