package controller

import (
	"redis-copilot-be/internal/dto"
	"redis-copilot-be/internal/pkg/serverutils"
	"redis-copilot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAgreementController interface {
	RegisterRoutes(r fiber.Router)
	GetAgreement(ctx *fiber.Ctx) error
	UpdateAgreement(ctx *fiber.Ctx) error
	GetDatabaseAgreement(ctx *fiber.Ctx) error
	UpdateDatabaseAgreement(ctx *fiber.Ctx) error
}

type agreementController struct {
	agreementService service.IAgreementService
}

func NewAgreementController(agreementService service.IAgreementService) IAgreementController {
	return &agreementController{
		agreementService: agreementService,
	}
}

func (c *agreementController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/agreement", c.GetAgreement)
	h.Put("/agreement", c.UpdateAgreement)
	h.Get("/databases/:databaseId/agreement", c.GetDatabaseAgreement)
	h.Put("/databases/:databaseId/agreement", c.UpdateDatabaseAgreement)
}

func (c *agreementController) GetAgreement(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}

	res, err := c.agreementService.GetAgreement(ctx.Context(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get agreement", res))
}

func (c *agreementController) UpdateAgreement(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateAgreementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agreementService.UpdateAgreement(ctx.Context(), accountId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update agreement", res))
}

func (c *agreementController) GetDatabaseAgreement(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}
	databaseId, err := uuid.Parse(ctx.Params("databaseId"))
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid database id")
	}

	res, err := c.agreementService.GetDatabaseAgreement(ctx.Context(), accountId, databaseId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get database agreement", res))
}

func (c *agreementController) UpdateDatabaseAgreement(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}
	databaseId, err := uuid.Parse(ctx.Params("databaseId"))
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid database id")
	}

	var req dto.UpdateDatabaseAgreementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.DatabaseId = databaseId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agreementService.UpdateDatabaseAgreement(ctx.Context(), accountId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update database agreement", res))
}
