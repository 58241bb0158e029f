package util

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SaveTempFile : сохраняет байты файла во временную директорию.
// Файл удаляется после успешной загрузки в хранилище (best effort).
func SaveTempFile(data []byte, filename string) (string, error) {
	uploadDir := filepath.Join(os.TempDir(), "uploads")

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории: %w", err)
	}

	uniqueName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(filename))
	tmpFile := filepath.Join(uploadDir, uniqueName)

	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи файла: %w", err)
	}

	return tmpFile, nil
}
