package model

import "net/http"

// ApiError : типизированная ошибка со статус-кодом.
// Хендлеры не форматируют ответы сами — это делает util.RespondError.
type ApiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(statusCode int, message string, errs ...string) *ApiError {
	if errs == nil {
		errs = []string{}
	}
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}

func NewValidationError(message string, errs ...string) *ApiError {
	return NewApiError(http.StatusBadRequest, message, errs...)
}

func NewUnauthorizedError(message string) *ApiError {
	return NewApiError(http.StatusUnauthorized, message)
}

func NewNotFoundError(message string) *ApiError {
	return NewApiError(http.StatusNotFound, message)
}

func NewConflictError(message string) *ApiError {
	return NewApiError(http.StatusConflict, message)
}

func NewUploadError(message string) *ApiError {
	return NewApiError(http.StatusInternalServerError, message)
}
