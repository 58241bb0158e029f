package requestresponse

// ApiResponse : стандартный конверт успешного ответа
type ApiResponse struct {
	StatusCode int         `json:"statusCode" example:"200"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message" example:"выполнено успешно"`
	Success    bool        `json:"success" example:"true"`
}

// ErrorResponse : стандартный конверт ошибки
type ErrorResponse struct {
	StatusCode int      `json:"statusCode" example:"400"`
	Message    string   `json:"message" example:"описание ошибки"`
	Success    bool     `json:"success" example:"false"`
	Errors     []string `json:"errors"`
}
