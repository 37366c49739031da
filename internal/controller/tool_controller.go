package controller

import (
	"encoding/json"
	"fmt"

	"multikb-rag-be/internal/dto"
	"multikb-rag-be/internal/pkg/serverutils"
	"multikb-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Tool names form a closed set; unknown names are rejected before any
// service call.
const (
	ToolCreateCollection  = "create_collection"
	ToolListCollections   = "list_collections"
	ToolGetCollectionInfo = "get_collection_info"
	ToolUploadDocument    = "upload_document_to_kb"
	ToolChatWithKb        = "chat_with_kb"
	ToolChatGlobal        = "chat_global"
	ToolClearChatHistory  = "clear_chat_history"
	ToolDeleteCollection  = "delete_collection"
)

type IToolController interface {
	RegisterRoutes(r fiber.Router)
	ListTools(ctx *fiber.Ctx) error
	CallTool(ctx *fiber.Ctx) error
}

type toolHandler struct {
	description string
	handle      func(ctx *fiber.Ctx, args json.RawMessage) (interface{}, error)
}

type toolController struct {
	registryService  service.IRegistryService
	ingestionService service.IIngestionService
	chatService      service.IChatService
	dispatch         map[string]toolHandler
	order            []string
}

func NewToolController(
	registryService service.IRegistryService,
	ingestionService service.IIngestionService,
	chatService service.IChatService,
) IToolController {
	c := &toolController{
		registryService:  registryService,
		ingestionService: ingestionService,
		chatService:      chatService,
	}
	c.buildDispatchTable()
	return c
}

// decodeArgs unmarshals and validates one tool's typed argument struct.
func decodeArgs[T any](raw json.RawMessage) (*T, error) {
	var args T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, serverutils.NewValidationError(fmt.Sprintf("invalid tool arguments: %v", err))
		}
	}
	if err := serverutils.ValidateRequest(args); err != nil {
		return nil, err
	}
	return &args, nil
}

func (c *toolController) buildDispatchTable() {
	c.dispatch = map[string]toolHandler{
		ToolCreateCollection: {
			description: "Create a new knowledge base collection with an optional routing description",
			handle: func(ctx *fiber.Ctx, raw json.RawMessage) (interface{}, error) {
				args, err := decodeArgs[dto.CreateCollectionArgs](raw)
				if err != nil {
					return nil, err
				}
				res, _, err := c.registryService.Create(ctx.Context(), args.Name, args.Description, true)
				return res, err
			},
		},
		ToolListCollections: {
			description: "List all knowledge bases with their document counts",
			handle: func(ctx *fiber.Ctx, raw json.RawMessage) (interface{}, error) {
				return c.registryService.List(ctx.Context())
			},
		},
		ToolGetCollectionInfo: {
			description: "Get details of one knowledge base",
			handle: func(ctx *fiber.Ctx, raw json.RawMessage) (interface{}, error) {
				args, err := decodeArgs[dto.GetCollectionInfoArgs](raw)
				if err != nil {
					return nil, err
				}
				return c.registryService.GetInfo(ctx.Context(), args.Name)
			},
		},
		ToolUploadDocument: {
			description: "Upload a base64-encoded document into a knowledge base",
			handle: func(ctx *fiber.Ctx, raw json.RawMessage) (interface{}, error) {
				args, err := decodeArgs[dto.UploadDocumentArgs](raw)
				if err != nil {
					return nil, err
				}
				return c.ingestionService.Upload(ctx.Context(), &dto.UploadDocumentRequest{
					KbName:        args.KbName,
					FileName:      args.FileName,
					Content:       args.Content,
					ContentType:   args.ContentType,
					ExtraMetadata: args.ExtraMetadata,
					AutoCreate:    args.AutoCreate,
				})
			},
		},
		ToolChatWithKb: {
			description: "Ask a question against one knowledge base within a session",
			handle: func(ctx *fiber.Ctx, raw json.RawMessage) (interface{}, error) {
				args, err := decodeArgs[dto.ChatWithKbArgs](raw)
				if err != nil {
					return nil, err
				}
				return c.chatService.ChatWithKb(ctx.Context(), args.KbName, args.Query, args.SessionId, args.TopK)
			},
		},
		ToolChatGlobal: {
			description: "Ask a question routed automatically to the best-matching knowledge base",
			handle: func(ctx *fiber.Ctx, raw json.RawMessage) (interface{}, error) {
				args, err := decodeArgs[dto.ChatGlobalArgs](raw)
				if err != nil {
					return nil, err
				}
				return c.chatService.ChatGlobal(ctx.Context(), args.Query, args.SessionId, args.TopK)
			},
		},
		ToolClearChatHistory: {
			description: "Clear one session's conversation history for a knowledge base",
			handle: func(ctx *fiber.Ctx, raw json.RawMessage) (interface{}, error) {
				args, err := decodeArgs[dto.ClearChatHistoryArgs](raw)
				if err != nil {
					return nil, err
				}
				return c.chatService.ClearHistory(ctx.Context(), args.KbName, args.SessionId)
			},
		},
		ToolDeleteCollection: {
			description: "Delete a knowledge base and all of its documents",
			handle: func(ctx *fiber.Ctx, raw json.RawMessage) (interface{}, error) {
				args, err := decodeArgs[dto.DeleteCollectionArgs](raw)
				if err != nil {
					return nil, err
				}
				return c.registryService.Delete(ctx.Context(), args.Name)
			},
		},
	}
	c.order = []string{
		ToolCreateCollection,
		ToolListCollections,
		ToolGetCollectionInfo,
		ToolUploadDocument,
		ToolChatWithKb,
		ToolChatGlobal,
		ToolClearChatHistory,
		ToolDeleteCollection,
	}
}

func (c *toolController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tools/v1")
	h.Get("", c.ListTools)
	h.Post("call", c.CallTool)
}

func (c *toolController) ListTools(ctx *fiber.Ctx) error {
	res := dto.ListToolsResponse{
		Tools: make([]dto.ToolDescriptor, 0, len(c.order)),
	}
	for _, name := range c.order {
		res.Tools = append(res.Tools, dto.ToolDescriptor{
			Name:        name,
			Description: c.dispatch[name].description,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list tools", res))
}

func (c *toolController) CallTool(ctx *fiber.Ctx) error {
	var req dto.ToolCallRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	handler, ok := c.dispatch[req.Name]
	if !ok {
		return serverutils.NewValidationError(fmt.Sprintf("unknown tool '%s'", req.Name))
	}

	res, err := handler.handle(ctx, req.Arguments)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse(fmt.Sprintf("Success call tool '%s'", req.Name), res))
}
