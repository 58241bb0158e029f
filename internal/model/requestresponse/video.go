package requestresponse

// UpdateVideoRequest : частичное обновление видео.
// Thumbnail приходит отдельным файлом в multipart, здесь только текстовые поля.
type UpdateVideoRequest struct {
	Title       string `json:"title" example:"Новое название"`
	Description string `json:"description" example:"Новое описание"`
}
