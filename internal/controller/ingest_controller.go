package controller

import (
	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/pkg/serverutils"
	"discharge-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIngestController interface {
	RegisterRoutes(r fiber.Router)
	IngestPage(ctx *fiber.Ctx) error
}

type ingestController struct {
	ingestionService service.IIngestionService
}

func NewIngestController(ingestionService service.IIngestionService) IIngestController {
	return &ingestController{
		ingestionService: ingestionService,
	}
}

func (c *ingestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ingest/v1")
	h.Post("/page", c.IngestPage)
}

// IngestPage accepts one page of reference text. Indexing is
// asynchronous: the page is chunked and published here, the embedding
// consumer picks it up in the background.
func (c *ingestController) IngestPage(ctx *fiber.Ctx) error {
	var req dto.IngestPageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	chunks, err := c.ingestionService.IngestPage(ctx.Context(), req.Source, req.Page, req.Text)
	if err != nil {
		return err
	}

	res := &dto.IngestPageResponse{
		Source: req.Source,
		Page:   req.Page,
		Chunks: chunks,
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Page queued for indexing", res))
}
