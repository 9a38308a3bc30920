package controller

import (
	"tree-editor-be/internal/dto"
	"tree-editor-be/internal/pkg/serverutils"
	"tree-editor-be/internal/service"
	"tree-editor-be/internal/tree"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INodeController interface {
	RegisterRoutes(r fiber.Router)
	GetTree(ctx *fiber.Ctx) error
	StartCreateSession(ctx *fiber.Ctx) error
	StartEditSession(ctx *fiber.Ctx) error
	ChangeReference(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type nodeController struct {
	nodeService service.INodeService
	editService service.INodeEditService
}

func NewNodeController(nodeService service.INodeService, editService service.INodeEditService) INodeController {
	return &nodeController{
		nodeService: nodeService,
		editService: editService,
	}
}

func (c *nodeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/node/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetTree)
	h.Get("/edit/new", c.StartCreateSession)
	h.Get("/:id/edit", c.StartEditSession)
	h.Post("/session/:sid/reference", c.ChangeReference)
	h.Post("/session/:sid/submit", c.Submit)
	h.Delete("/:id", c.Delete)
}

func (c *nodeController) GetTree(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.nodeService.GetTree(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tree", res))
}

func (c *nodeController) StartCreateSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.editService.StartSession(ctx.Context(), userId, nil)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start create session", res))
}

func (c *nodeController) StartEditSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return tree.ErrNodeNotFound
	}

	res, err := c.editService.StartSession(ctx.Context(), userId, &id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start edit session", res))
}

func (c *nodeController) ChangeReference(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	sessionId, err := uuid.Parse(ctx.Params("sid"))
	if err != nil {
		return service.ErrSessionNotFound
	}

	var req dto.ChangeReferenceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.editService.ChangeReference(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve positions", res))
}

func (c *nodeController) Submit(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	sessionId, err := uuid.Parse(ctx.Params("sid"))
	if err != nil {
		return service.ErrSessionNotFound
	}

	var req dto.SubmitEditRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.editService.Submit(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save node", res))
}

func (c *nodeController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return tree.ErrNodeNotFound
	}

	if err := c.nodeService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete node", nil))
}
