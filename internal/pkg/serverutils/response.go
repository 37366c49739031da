package serverutils

// Response is the uniform envelope for every API result. Success is always
// explicit so agents never have to infer the outcome from HTTP codes alone.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrorBody struct {
	Success   bool   `json:"success"`
	Code      int    `json:"code"`
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err *ApiError) ErrorBody {
	return ErrorBody{
		Success:   false,
		Code:      err.Code,
		ErrorType: err.ErrType,
		Message:   err.Message,
	}
}
