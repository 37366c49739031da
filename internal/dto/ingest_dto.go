package dto

// UploadDocumentRequest carries one document into a knowledge base.
// Content is base64-encoded file bytes. KbName is taken from the route.
type UploadDocumentRequest struct {
	KbName        string                 `json:"-"`
	FileName      string                 `json:"file_name" validate:"required"`
	Content       string                 `json:"content" validate:"required"`
	ContentType   string                 `json:"content_type"`
	ExtraMetadata map[string]interface{} `json:"extra_metadata,omitempty"`
	AutoCreate    *bool                  `json:"auto_create,omitempty"` // defaults to true
}

type DocumentMetadataDTO struct {
	DocType  string `json:"doc_type"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Title    string `json:"title"`
}

type UploadDocumentResponse struct {
	KbName         string              `json:"kb_name"`
	CollectionName string              `json:"collection_name"`
	FileName       string              `json:"file_name"`
	PageCount      int                 `json:"page_count"`
	ChunksStored   int                 `json:"chunks_stored"`
	Metadata       DocumentMetadataDTO `json:"metadata"`
	Description    string              `json:"description"`
	KbCreated      bool                `json:"kb_created"` // true when the upload auto-created the knowledge base
}
