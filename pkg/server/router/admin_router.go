package router

import (
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	handlers "github.com/honeyguard/honeygate/pkg/handlers/http"
	wsHandlers "github.com/honeyguard/honeygate/pkg/handlers/websocket"
	"github.com/honeyguard/honeygate/pkg/middleware"
)

var (
	ErrInvalidHandlerTransport = errors.New("invalid handler transport")
)

type adminRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	wsHandlerTransport  wsHandlers.HandlerTransport
}

func NewAdminRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	wsHandlerTransport wsHandlers.HandlerTransport,
) ServerRouter {
	return &adminRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		wsHandlerTransport:  wsHandlerTransport,
	}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {

	handlerTransport, ok := r.handlerTransport.GetTransport().(*handlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	wsHandlerTransport, ok := r.wsHandlerTransport.GetTransport().(*wsHandlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	router.Use(r.middlewareTransport.PanicRecoverMiddleware.Middleware())

	router.Static("/swagger.json", "./docs/swagger.json")

	// Relative URL keeps the docs working on whatever port the admin
	// listener is configured with.
	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: "/swagger.json",
	}))

	router.Get("/version", handlerTransport.GetVersionHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		v1.Use(
			r.middlewareTransport.CORSMiddleware.Middleware(),
			r.middlewareTransport.AuthMiddleware.Middleware(),
		)

		events := v1.Group("/events")
		{
			events.Get("", handlerTransport.ListEventsHandler.Handle)

			// Literal segments must be registered before the id parameter.
			events.Get("/export", handlerTransport.ExportEventsHandler.Handle)
			events.Post("/archive", handlerTransport.ArchiveEventsHandler.Handle)
			events.Get("/stream",
				r.middlewareTransport.StreamMiddleware.Middleware(),
				websocket.New(
					wsHandlerTransport.StreamHandler.Handle,
					websocket.Config{
						HandshakeTimeout: 15 * time.Second,
						ReadBufferSize:   1024,
						WriteBufferSize:  1024,
					},
				),
			)

			events.Get("/:event_id", handlerTransport.GetEventHandler.Handle)
			events.Delete("/:event_id", handlerTransport.DeleteEventHandler.Handle)
		}

		v1.Get("/stats", handlerTransport.GetStatsHandler.Handle)
	}
	return nil
}
