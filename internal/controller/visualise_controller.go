package controller

import (
	"github.com/gofiber/fiber/v2"

	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/pkg/serverutils"
	"nexus-rag-be/internal/service"
)

type IVisualiseController interface {
	RegisterRoutes(r fiber.Router)
	UploadToGithub(ctx *fiber.Ctx) error
	GetResults(ctx *fiber.Ctx) error
}

type visualiseController struct {
	visualiseService service.IVisualiseService
}

func NewVisualiseController(visualiseService service.IVisualiseService) IVisualiseController {
	return &visualiseController{
		visualiseService: visualiseService,
	}
}

func (c *visualiseController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload_to_github", c.UploadToGithub)
	r.Post("/get_results", c.GetResults)
}

func (c *visualiseController) UploadToGithub(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewHttpError(fiber.StatusBadRequest, "No file part")
	}
	if file.Filename == "" {
		return serverutils.NewHttpError(fiber.StatusBadRequest, "No selected file")
	}

	res, err := c.visualiseService.UploadToGithub(ctx.Context(), file)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *visualiseController) GetResults(ctx *fiber.Ctx) error {
	var req dto.GetResultsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewHttpError(fiber.StatusBadRequest, "Missing prompt or dataset URL")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.NewHttpErrorWithDetails(fiber.StatusBadRequest, "Missing prompt or dataset URL", err.Error())
	}

	res, err := c.visualiseService.GetResults(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
