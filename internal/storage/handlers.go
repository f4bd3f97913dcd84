package storage

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/gpx", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Filename string `json:"filename"`
			Kind     string `json:"kind"`
			Content  string `json:"content"`
		}
		_ = c.BodyParser(&body)
		if body.Filename == "" {
			body.Filename = "upload.gpx"
		}
		if body.Kind == "" {
			body.Kind = "route"
		}
		userID, _ := c.Locals("user_id").(string)

		id, url, err := svc.SaveGPX(c.Context(), userID, body.Filename, body.Kind, len(body.Content))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"id":  id,
			"url": url,
		})
	})
}
