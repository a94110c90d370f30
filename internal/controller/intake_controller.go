package controller

import (
	"hybrid-chatbot-be/internal/pkg/serverutils"
	"hybrid-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIntakeController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
}

type intakeController struct {
	intakeService service.IIntakeService
}

func NewIntakeController(intakeService service.IIntakeService) IIntakeController {
	return &intakeController{
		intakeService: intakeService,
	}
}

func (c *intakeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/intake/v1")
	h.Get("", c.List)
}

func (c *intakeController) List(ctx *fiber.Ctx) error {
	if sessionID := ctx.Query("session_id"); sessionID != "" {
		res, err := c.intakeService.ListBySession(ctx.Context(), sessionID)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Intake submissions", res))
	}

	res, err := c.intakeService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Intake submissions", res))
}
