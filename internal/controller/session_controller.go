package controller

import (
	"fmt"

	"accio-playground-be/internal/dto"
	"accio-playground-be/internal/pkg/serverutils"
	"accio-playground-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	AppendMessage(ctx *fiber.Ctx) error
	ReplaceCode(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type sessionController struct {
	service   service.ISessionService
	jwtSecret string
}

func NewSessionController(service service.ISessionService, jwtSecret string) ISessionController {
	return &sessionController{service: service, jwtSecret: jwtSecret}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Rename)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/messages", c.AppendMessage)
	h.Put("/:id/code", c.ReplaceCode)
	h.Get("/:id/export", c.Export)
}

// caller returns the authenticated user and the :id route param.
func caller(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return userId, id, nil
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(out)
}

func (c *sessionController) GetAll(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAll(ctx.UserContext(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	body := serverutils.SuccessResponse("Success create session", res)
	body.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(body)
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId, id, err := caller(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Rename(ctx *fiber.Ctx) error {
	userId, id, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.RenameSessionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Rename(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rename session", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userId, id, err := caller(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) AppendMessage(ctx *fiber.Ctx) error {
	userId, id, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.AppendMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.SessionId = id

	res, err := c.service.AppendMessage(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	body := serverutils.SuccessResponse("Success append message", res)
	body.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(body)
}

func (c *sessionController) ReplaceCode(ctx *fiber.Ctx) error {
	userId, id, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.ReplaceCodeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.SessionId = id

	res, err := c.service.ReplaceCode(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success replace code", res))
}

func (c *sessionController) Export(ctx *fiber.Ctx) error {
	userId, id, err := caller(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Export(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/zip")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.FileName))
	return ctx.Send(res.Content)
}
