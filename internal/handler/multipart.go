package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"video-sharing-server/internal/util"
)

const maxMultipartMemory = 32 << 20

// formFileToTemp сохраняет файл из multipart-формы во временную директорию.
// Отсутствие поля не является ошибкой: возвращаются пустые строки.
func formFileToTemp(r *http.Request, field string) (localPath string, filename string, err error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", "", nil
	}
	if err != nil {
		return "", "", util.LogError("ошибка чтения файла из формы", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", util.LogError("ошибка чтения файла", err)
	}

	localPath, err = util.SaveTempFile(data, header.Filename)
	if err != nil {
		return "", "", err
	}

	return localPath, header.Filename, nil
}

// removeTempFiles убирает временные файлы после ответа хендлера.
// Файл, уже удалённый шлюзом после успешной загрузки, пропускается молча.
func removeTempFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("не удалось удалить временный файл %s: %v", path, err)
		}
	}
}
