package controller

import (
	"hybrid-chatbot-be/internal/dto"
	"hybrid-chatbot-be/internal/pkg/serverutils"
	"hybrid-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Turn(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("turn", c.Turn)
	h.Post("reset", c.Reset)
	h.Get(":session_id/history", c.History)
}

// Turn returns the chat envelope directly, not the shared API wrapper:
// clients branch on its status field for every outcome of a turn.
func (c *chatController) Turn(ctx *fiber.Ctx) error {
	var req dto.ChatTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res := c.chatService.HandleTurn(ctx.Context(), &req)
	return ctx.JSON(res)
}

func (c *chatController) Reset(ctx *fiber.Ctx) error {
	var req dto.ResetSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res := c.chatService.Reset(ctx.Context(), &req)
	return ctx.JSON(res)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	res := c.chatService.History(ctx.Context(), sessionID)
	return ctx.JSON(serverutils.SuccessResponse("Session history", res))
}
