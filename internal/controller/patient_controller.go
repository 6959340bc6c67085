package controller

import (
	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/pkg/serverutils"
	"discharge-assist-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPatientController interface {
	RegisterRoutes(r fiber.Router)
	Find(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type patientController struct {
	patientService service.IPatientService
}

func NewPatientController(patientService service.IPatientService) IPatientController {
	return &patientController{
		patientService: patientService,
	}
}

func (c *patientController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/patient/v1")
	h.Get("", c.Find)
	h.Post("", c.Create)
}

func (c *patientController) Find(ctx *fiber.Ctx) error {
	name := ctx.Query("name")
	if name == "" {
		return serverutils.BadRequestError("query parameter 'name' is required")
	}

	res, err := c.patientService.FindByName(ctx.Context(), name)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Patients found", res))
}

func (c *patientController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePatientRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.patientService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Patient created", res))
}
