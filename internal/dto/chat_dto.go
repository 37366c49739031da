package dto

type ChatRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id" validate:"required"`
	TopK      int    `json:"top_k" validate:"omitempty,min=1,max=50"`
}

// SourceDTO cites one retrieved chunk backing an answer.
type SourceDTO struct {
	Snippet    string  `json:"snippet"`
	FileName   string  `json:"file_name"`
	PageNumber int     `json:"page_number"`
	Similarity float64 `json:"similarity"`
}

// RoutingDTO is attached when the answer came through the semantic router.
type RoutingDTO struct {
	Method     string  `json:"method"`
	KbName     string  `json:"kb_name"`
	Confidence float64 `json:"confidence"`
}

type ChatResponse struct {
	KbName    string      `json:"kb_name"`
	Answer    string      `json:"answer"`
	Sources   []SourceDTO `json:"sources"`
	SessionId string      `json:"session_id"`
	Routing   *RoutingDTO `json:"routing,omitempty"`
}

type GlobalChatRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id" validate:"required"`
	TopK      int    `json:"top_k" validate:"omitempty,min=1,max=50"`
}

// GlobalChatResponse is a routed answer or, when no knowledge base matched,
// an unrouted listing of what is available. Both are success outcomes.
type GlobalChatResponse struct {
	Routed       bool        `json:"routed"`
	Answer       string      `json:"answer,omitempty"`
	Sources      []SourceDTO `json:"sources,omitempty"`
	SessionId    string      `json:"session_id"`
	Routing      *RoutingDTO `json:"routing,omitempty"`
	Message      string      `json:"message,omitempty"`
	AvailableKbs []string    `json:"available_kbs,omitempty"`
}

type ClearHistoryResponse struct {
	KbName    string `json:"kb_name"`
	SessionId string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}
