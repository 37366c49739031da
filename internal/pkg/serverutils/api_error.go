package serverutils

import "github.com/gofiber/fiber/v2"

// Error kinds surfaced by the retrieval engine. Every failing operation maps to
// exactly one of these; a routing miss is a normal result and never an ApiError.
const (
	ErrTypeNotFound           = "NOT_FOUND"
	ErrTypeAlreadyExists      = "ALREADY_EXISTS"
	ErrTypeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	ErrTypeMetadataExtraction = "METADATA_EXTRACTION_ERROR"
	ErrTypeEmbeddingService   = "EMBEDDING_SERVICE_ERROR"
	ErrTypeVectorStoreWrite   = "VECTOR_STORE_WRITE_ERROR"
	ErrTypeVectorStoreRead    = "VECTOR_STORE_READ_ERROR"
	ErrTypeValidation         = "VALIDATION_ERROR"
	ErrTypeInternal           = "INTERNAL_ERROR"
)

// ApiError is the typed failure carried from services up to the HTTP layer.
type ApiError struct {
	Code    int    `json:"code"`
	ErrType string `json:"error_type"`
	Message string `json:"message"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(code int, errType, message string) *ApiError {
	return &ApiError{Code: code, ErrType: errType, Message: message}
}

func NewNotFoundError(message string) *ApiError {
	return NewApiError(fiber.StatusNotFound, ErrTypeNotFound, message)
}

func NewAlreadyExistsError(message string) *ApiError {
	return NewApiError(fiber.StatusConflict, ErrTypeAlreadyExists, message)
}

func NewUnsupportedFormatError(message string) *ApiError {
	return NewApiError(fiber.StatusUnprocessableEntity, ErrTypeUnsupportedFormat, message)
}

func NewMetadataExtractionError(message string) *ApiError {
	return NewApiError(fiber.StatusBadGateway, ErrTypeMetadataExtraction, message)
}

func NewEmbeddingServiceError(message string) *ApiError {
	return NewApiError(fiber.StatusBadGateway, ErrTypeEmbeddingService, message)
}

func NewVectorStoreWriteError(message string) *ApiError {
	return NewApiError(fiber.StatusBadGateway, ErrTypeVectorStoreWrite, message)
}

func NewVectorStoreReadError(message string) *ApiError {
	return NewApiError(fiber.StatusBadGateway, ErrTypeVectorStoreRead, message)
}

func NewValidationError(message string) *ApiError {
	return NewApiError(fiber.StatusBadRequest, ErrTypeValidation, message)
}
