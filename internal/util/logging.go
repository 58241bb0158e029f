package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"video-sharing-server/internal/model"
	"video-sharing-server/internal/model/requestresponse"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

// WriteData : пишет успешный ответ в стандартном конверте
func WriteData(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := requestresponse.ApiResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("ошибка кодирования ответа: %v", err)
	}
}

// HandleError : пишет ошибку в стандартном конверте
func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := requestresponse.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("ошибка кодирования ответа: %v", err)
	}
}

// RespondError : единая граница преобразования ошибок сервисов в HTTP-ответ.
// Всё, что не является *model.ApiError, считается внутренней ошибкой.
func RespondError(w http.ResponseWriter, err error) {
	var apiErr *model.ApiError
	if errors.As(err, &apiErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.StatusCode)

		resp := requestresponse.ErrorResponse{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Success:    false,
			Errors:     apiErr.Errors,
		}
		if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
			log.Printf("ошибка кодирования ответа: %v", encErr)
		}
		return
	}

	log.Printf("внутренняя ошибка: %v", err)
	HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
}
