package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/honeyguard/honeygate/pkg/decoy"
	handlers "github.com/honeyguard/honeygate/pkg/handlers/http"
	"github.com/honeyguard/honeygate/pkg/middleware"
)

type trapRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	registry            *decoy.Registry
}

func NewTrapRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	registry *decoy.Registry,
) ServerRouter {
	return &trapRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		registry:            registry,
	}
}

func (r *trapRouter) BuildRoutes(router *fiber.App) error {

	handlerTransport, ok := r.handlerTransport.GetTransport().(*handlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	router.Use(
		r.middlewareTransport.PanicRecoverMiddleware.Middleware(),
		r.middlewareTransport.DecoyHeadersMiddleware.Middleware(),
	)

	for _, profile := range r.registry.Profiles() {
		for _, path := range profile.MountPaths {
			router.Get(path, handlerTransport.TrapPageHandler.Handle)
			router.Post(path, handlerTransport.TrapSubmitHandler.Handle)
		}
	}

	// Anything off the decoy paths gets a bare 404.
	router.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return nil
}
