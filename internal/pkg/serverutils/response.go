package serverutils

type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type BaseResponse[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{Message: message, Data: data}
}

func PaginatedResponse[T any](data T, page, limit int, total int64) BaseResponse[T] {
	return BaseResponse[T]{
		Data: data,
		Meta: &Meta{Page: page, Limit: limit, Total: total},
	}
}

func ErrorResponse(code int, message string) ErrorBody {
	return ErrorBody{Error: ErrorDetail{Code: code, Message: message}}
}
