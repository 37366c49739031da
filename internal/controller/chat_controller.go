package controller

import (
	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	ChatWithKb(ctx *fiber.Ctx) error
	ChatGlobal(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{chatService: chatService}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	kb := r.Group("/kb/v1")
	kb.Post(":name/chat", c.ChatWithKb)
	kb.Delete(":name/sessions/:sessionId", c.ClearHistory)

	chat := r.Group("/chat/v1")
	chat.Post("global", c.ChatGlobal)
}

func (c *chatController) ChatWithKb(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.ChatWithKb(ctx.Context(), ctx.Params("name"), req.Query, req.SessionId, req.TopK)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat with knowledge base", res))
}

func (c *chatController) ChatGlobal(ctx *fiber.Ctx) error {
	var req dto.GlobalChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.ChatGlobal(ctx.Context(), req.Query, req.SessionId, req.TopK)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success global chat", res))
}

func (c *chatController) ClearHistory(ctx *fiber.Ctx) error {
	res, err := c.chatService.ClearHistory(ctx.Context(), ctx.Params("name"), ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear chat history", res))
}
