package controller

import (
	"github.com/gofiber/fiber/v2"

	"nexus-rag-be/internal/constant"
	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/pkg/serverutils"
	"nexus-rag-be/internal/service"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
}

type queryController struct {
	answerService service.IAnswerService
}

func NewQueryController(answerService service.IAnswerService) IQueryController {
	return &queryController{
		answerService: answerService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	r.Post("/query", c.Query)
}

func (c *queryController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewHttpError(fiber.StatusBadRequest, "No query provided")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.NewHttpErrorWithDetails(fiber.StatusBadRequest, "No query provided", err.Error())
	}

	res, err := c.answerService.Answer(ctx.Context(), &req)
	if err != nil {
		return err
	}

	if res.Status == constant.AnswerStatusError {
		return serverutils.NewHttpErrorWithDetails(
			fiber.StatusInternalServerError,
			"An error occurred while processing your request",
			res.Answer,
		)
	}

	return ctx.JSON(res)
}
