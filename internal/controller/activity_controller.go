package controller

import (
	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/pkg/serverutils"
	"ai-crm-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router)
}

type activityController struct {
	service service.IActivityService
}

func NewActivityController(service service.IActivityService) IActivityController {
	return &activityController{service: service}
}

func (c *activityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/activity/v1")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Delete(":id", c.Delete)
}

func (c *activityController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateActivityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return serverutils.RespondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create activity", res))
}

func (c *activityController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid activity ID"))
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return serverutils.RespondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete activity", nil))
}

func (c *activityController) List(ctx *fiber.Ctx) error {
	var req dto.ListActivitiesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	res, err := c.service.List(ctx.Context(), &req)
	if err != nil {
		return serverutils.RespondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list activities", res))
}
