package dto

import "encoding/json"

// ToolCallRequest is the generic envelope of POST /api/tools/v1/call.
// Arguments stay raw until the dispatch table picks the typed handler.
type ToolCallRequest struct {
	Name      string          `json:"name" validate:"required"`
	Arguments json.RawMessage `json:"arguments"`
}

type ToolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListToolsResponse struct {
	Tools []ToolDescriptor `json:"tools"`
}

// Typed argument structs, one per tool in the dispatch table.

type CreateCollectionArgs struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type GetCollectionInfoArgs struct {
	Name string `json:"name" validate:"required"`
}

type DeleteCollectionArgs struct {
	Name string `json:"name" validate:"required"`
}

type UploadDocumentArgs struct {
	KbName        string                 `json:"kb_name" validate:"required"`
	FileName      string                 `json:"file_name" validate:"required"`
	Content       string                 `json:"content" validate:"required"`
	ContentType   string                 `json:"content_type"`
	ExtraMetadata map[string]interface{} `json:"extra_metadata,omitempty"`
	AutoCreate    *bool                  `json:"auto_create,omitempty"`
}

type ChatWithKbArgs struct {
	KbName    string `json:"kb_name" validate:"required"`
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id" validate:"required"`
	TopK      int    `json:"top_k" validate:"omitempty,min=1,max=50"`
}

type ChatGlobalArgs struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id" validate:"required"`
	TopK      int    `json:"top_k" validate:"omitempty,min=1,max=50"`
}

type ClearChatHistoryArgs struct {
	KbName    string `json:"kb_name" validate:"required"`
	SessionId string `json:"session_id" validate:"required"`
}
