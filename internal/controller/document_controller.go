package controller

import (
	"github.com/gofiber/fiber/v2"

	"nexus-rag-be/internal/pkg/serverutils"
	"nexus-rag-be/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	ProcessFile(ctx *fiber.Ctx) error
	UploadProgress(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Post("/process_file", c.ProcessFile)
	r.Get("/upload_progress/:file_id", c.UploadProgress)
}

func (c *documentController) ProcessFile(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewHttpError(fiber.StatusBadRequest, "No file part")
	}
	if file.Filename == "" {
		return serverutils.NewHttpError(fiber.StatusBadRequest, "No selected file")
	}

	res, err := c.documentService.ProcessFile(ctx.Context(), file)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *documentController) UploadProgress(ctx *fiber.Ctx) error {
	res, err := c.documentService.Progress(ctx.Params("file_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
