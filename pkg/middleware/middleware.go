package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	PanicRecoverMiddleware Middleware
	AuthMiddleware         Middleware
	CORSMiddleware         Middleware
	StreamMiddleware       Middleware
	DecoyHeadersMiddleware Middleware
}
