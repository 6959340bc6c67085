package controller

import (
	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/pkg/serverutils"
	"discharge-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Receptionist(ctx *fiber.Ctx) error
	Clinical(ctx *fiber.Ctx) error
}

type agentController struct {
	assistantService service.IAssistantService
}

func NewAgentController(assistantService service.IAssistantService) IAgentController {
	return &agentController{
		assistantService: assistantService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Post("/receptionist", c.Receptionist)
	h.Post("/clinical", c.Clinical)
}

func (c *agentController) Receptionist(ctx *fiber.Ctx) error {
	var req dto.AgentTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.HandleReceptionistTurn(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn routed", res))
}

func (c *agentController) Clinical(ctx *fiber.Ctx) error {
	var req dto.AgentTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.HandleClinicalTurn(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Clinical answer", res))
}
