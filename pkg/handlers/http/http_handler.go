package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport interface {
	GetTransport() HandlerTransport
}

type HandlerTransportDTO struct {
	// Trap
	TrapPageHandler   Handler
	TrapSubmitHandler Handler

	// Events
	ListEventsHandler    Handler
	GetEventHandler      Handler
	DeleteEventHandler   Handler
	ExportEventsHandler  Handler
	ArchiveEventsHandler Handler

	// Stats
	GetStatsHandler Handler

	// Version
	GetVersionHandler Handler
}

func (t *HandlerTransportDTO) GetTransport() HandlerTransport {
	return t
}
