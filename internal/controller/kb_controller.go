package controller

import (
	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKbController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	UploadDocument(ctx *fiber.Ctx) error
}

type kbController struct {
	registryService  service.IRegistryService
	ingestionService service.IIngestionService
}

func NewKbController(
	registryService service.IRegistryService,
	ingestionService service.IIngestionService,
) IKbController {
	return &kbController{
		registryService:  registryService,
		ingestionService: ingestionService,
	}
}

func (c *kbController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/kb/v1")
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":name", c.Show)
	h.Delete(":name", c.Delete)
	h.Post(":name/documents", c.UploadDocument)
}

func (c *kbController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateKbRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, _, err := c.registryService.Create(ctx.Context(), req.Name, req.Description, true)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).
		JSON(serverutils.SuccessResponse("Success create knowledge base", res))
}

func (c *kbController) List(ctx *fiber.Ctx) error {
	res, err := c.registryService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list knowledge bases", res))
}

func (c *kbController) Show(ctx *fiber.Ctx) error {
	res, err := c.registryService.GetInfo(ctx.Context(), ctx.Params("name"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge base info", res))
}

func (c *kbController) Delete(ctx *fiber.Ctx) error {
	res, err := c.registryService.Delete(ctx.Context(), ctx.Params("name"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete knowledge base", res))
}

func (c *kbController) UploadDocument(ctx *fiber.Ctx) error {
	var req dto.UploadDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.KbName = ctx.Params("name")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestionService.Upload(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).
		JSON(serverutils.SuccessResponse("Success upload document", res))
}
