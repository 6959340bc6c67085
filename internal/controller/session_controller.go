package controller

import (
	"discharge-assist-be/internal/pkg/serverutils"
	"discharge-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
}

type sessionController struct {
	assistantService service.IAssistantService
}

func NewSessionController(assistantService service.IAssistantService) ISessionController {
	return &sessionController{
		assistantService: assistantService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("/start", c.Start)
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	res, err := c.assistantService.StartSession(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session started", res))
}
