package controller

import (
	"bufio"
	"context"

	"redis-copilot-be/internal/dto"
	"redis-copilot-be/internal/pkg/serverutils"
	"redis-copilot-be/internal/service"
	"redis-copilot-be/pkg/assistant/socket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	StreamGeneralMessage(ctx *fiber.Ctx) error
	StreamMessage(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/messages", c.StreamGeneralMessage)
	h.Post("/:databaseId/messages", c.StreamMessage)
	h.Get("/messages", c.GetHistory)
	h.Delete("/messages", c.ClearHistory)
}

func (c *assistantController) StreamGeneralMessage(ctx *fiber.Ctx) error {
	auth, err := authFromLocals(ctx)
	if err != nil {
		return err
	}

	var req dto.StreamMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return c.streamTurn(ctx, func(turnCtx context.Context, out service.StreamWriter) error {
		return c.assistantService.StreamGeneralMessage(turnCtx, auth, &req, out)
	})
}

func (c *assistantController) StreamMessage(ctx *fiber.Ctx) error {
	auth, err := authFromLocals(ctx)
	if err != nil {
		return err
	}

	databaseId, err := uuid.Parse(ctx.Params("databaseId"))
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid database id")
	}

	var req dto.StreamMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return c.streamTurn(ctx, func(turnCtx context.Context, out service.StreamWriter) error {
		return c.assistantService.StreamMessage(turnCtx, auth, databaseId, &req, out)
	})
}

// streamTurn bridges the orchestrator to a chunked response body. The turn
// runs concurrently; the handler holds the response open until either the
// first chunk arrives (open the body, stream the rest, report any later
// abort as a trailing status line) or the turn ends without output (plain
// status mapping via the error middleware).
func (c *assistantController) streamTurn(ctx *fiber.Ctx, turn func(context.Context, service.StreamWriter) error) error {
	chunks := make(chan string)
	written := make(chan error)
	done := make(chan error, 1)

	// The fiber context is not valid once the body writer runs, so the turn
	// gets a detached context.
	turnCtx := context.Background()

	go func() {
		done <- turn(turnCtx, func(chunk string) error {
			chunks <- chunk
			return <-written
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
		return ctx.SendString("")
	case first := <-chunks:
		ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		ctx.Set(fiber.HeaderCacheControl, "no-cache")
		ctx.Set("X-Accel-Buffering", "no")
		ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			written <- writeChunk(w, first)
			for {
				select {
				case chunk := <-chunks:
					written <- writeChunk(w, chunk)
				case err := <-done:
					if err != nil {
						w.WriteString("\n[error] " + err.Error())
						w.Flush()
					}
					return
				}
			}
		}))
		return nil
	}
}

func writeChunk(w *bufio.Writer, chunk string) error {
	if _, err := w.WriteString(chunk); err != nil {
		return err
	}
	return w.Flush()
}

func (c *assistantController) GetHistory(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}
	databaseId, err := optionalDatabaseId(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.assistantService.GetHistory(ctx.Context(), accountId, databaseId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *assistantController) ClearHistory(ctx *fiber.Ctx) error {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return err
	}
	databaseId, err := optionalDatabaseId(ctx)
	if err != nil {
		return err
	}

	if err := c.assistantService.ClearHistory(ctx.Context(), accountId, databaseId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clear history", nil))
}

func accountFromLocals(ctx *fiber.Ctx) (uuid.UUID, error) {
	accountIdStr, _ := ctx.Locals("account_id").(string)
	accountId, err := uuid.Parse(accountIdStr)
	if err != nil {
		return uuid.Nil, serverutils.NewAppError(fiber.StatusUnauthorized, "Invalid session")
	}
	return accountId, nil
}

// authFromLocals assembles the turn-scoped credential set from the verified
// session. Values live only for this request.
func authFromLocals(ctx *fiber.Ctx) (*socket.Auth, error) {
	accountId, err := accountFromLocals(ctx)
	if err != nil {
		return nil, err
	}
	sessionToken, _ := ctx.Locals("session_token").(string)
	csrfToken, _ := ctx.Locals("csrf_token").(string)
	return &socket.Auth{
		AccountID:    accountId,
		SessionToken: sessionToken,
		CSRFToken:    csrfToken,
	}, nil
}

func optionalDatabaseId(ctx *fiber.Ctx) (*uuid.UUID, error) {
	raw := ctx.Query("databaseId")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, serverutils.NewAppError(fiber.StatusBadRequest, "Invalid database id")
	}
	return &id, nil
}
