package controller

import (
	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/pkg/serverutils"
	"discharge-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Web(ctx *fiber.Ctx) error
}

type searchController struct {
	assistantService service.IAssistantService
}

func NewSearchController(assistantService service.IAssistantService) ISearchController {
	return &searchController{
		assistantService: assistantService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Post("/web", c.Web)
}

func (c *searchController) Web(ctx *fiber.Ctx) error {
	var req dto.WebSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.SearchWeb(ctx.Context(), req.Query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Web results", res))
}
