package router

import "github.com/gofiber/fiber/v2"

// ServerRouter mounts one route group on a fiber app. The trap and admin
// servers receive different router sets at wiring time.
type ServerRouter interface {
	BuildRoutes(router *fiber.App) error
}
