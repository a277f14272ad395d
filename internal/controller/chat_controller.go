// FILE: internal/controller/chat_controller.go
package controller

import (
	"marketmind-be/internal/dto"
	"marketmind-be/internal/pkg/apperr"
	"marketmind-be/internal/pkg/serverutils"
	"marketmind-be/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, session fiber.Handler)
	ProcessAiRequest(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	GenerateInitialRecommendations(ctx *fiber.Ctx) error
}

type chatController struct {
	service  service.IChatService
	validate *validator.Validate
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, session fiber.Handler) {
	h := r.Group("/chat", session)
	h.Post("/ai-request", c.ProcessAiRequest)
	h.Get("/history", c.GetChatHistory)
	h.Post("/generateInitialRecommendations", c.GenerateInitialRecommendations)
}

func (c *chatController) ProcessAiRequest(ctx *fiber.Ctx) error {
	var req dto.AiRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Query is required.", err)
	}
	if err := c.validate.Struct(&req); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Query is required.", err)
	}

	res, err := c.service.ProcessAiRequest(ctx.Context(), serverutils.UserId(ctx), req.Query)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) GetChatHistory(ctx *fiber.Ctx) error {
	res, err := c.service.GetChatHistory(ctx.Context(), serverutils.UserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) GenerateInitialRecommendations(ctx *fiber.Ctx) error {
	var req dto.InitialRecommendationsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Missing required onboarding fields.", err)
	}
	if err := c.validate.Struct(&req); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Missing required onboarding fields.", err)
	}

	res, err := c.service.GenerateInitialRecommendations(ctx.Context(), serverutils.UserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
