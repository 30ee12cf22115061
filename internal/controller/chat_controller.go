package controller

import (
	"accio-playground-be/internal/dto"
	"accio-playground-be/internal/pkg/serverutils"
	"accio-playground-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetModels(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService  service.IChatService
	modelService service.IModelService
	jwtSecret    string
}

func NewChatController(chatService service.IChatService, modelService service.IModelService, jwtSecret string) IChatController {
	return &chatController{
		chatService:  chatService,
		modelService: modelService,
		jwtSecret:    jwtSecret,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("", c.SendChat)
	h.Get("/models", c.GetModels)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionId, err := uuid.Parse(req.SessionId)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "sessionId must be a valid id")
	}

	res, err := c.chatService.SendChat(ctx.UserContext(), dto.SendChatCommand{
		UserId:    userId,
		SessionId: sessionId,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) GetModels(ctx *fiber.Ctx) error {
	res, err := c.modelService.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get models", res))
}
