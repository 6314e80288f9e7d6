package controller

import (
	"redis-copilot-be/internal/dto"
	"redis-copilot-be/internal/pkg/serverutils"
	"redis-copilot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDatabaseController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
}

type databaseController struct {
	databaseService service.IDatabaseService
}

func NewDatabaseController(databaseService service.IDatabaseService) IDatabaseController {
	return &databaseController{
		databaseService: databaseService,
	}
}

func (c *databaseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1/databases")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *databaseController) Create(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateDatabaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.databaseService.Create(ctx.Context(), accountId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create database", res))
}

func (c *databaseController) Update(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid database id")
	}

	var req dto.UpdateDatabaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.databaseService.Update(ctx.Context(), accountId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update database", res))
}

func (c *databaseController) Delete(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid database id")
	}

	if err := c.databaseService.Delete(ctx.Context(), accountId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete database", nil))
}

func (c *databaseController) Show(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid database id")
	}

	res, err := c.databaseService.Show(ctx.Context(), accountId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show database", res))
}

func (c *databaseController) GetAll(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}

	res, err := c.databaseService.GetAll(ctx.Context(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get databases", res))
}
