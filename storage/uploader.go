package storage

import (
	"context"
	"io"
)

// UploadResult — итог успешной загрузки объекта.
type UploadResult struct {
	// Key — ключ объекта в бакете; сохраняется в колонке logo_key.
	Key string
	// Location — публичный URL объекта, если задан S3_PUBLIC_BASE_URL.
	Location string
	// ETag без обрамляющих кавычек.
	ETag string
}

// FileUploader — абстракция над S3-совместимым хранилищем логотипов
// (Cloudflare R2, MinIO). Сервисы хранят только ключ объекта и собирают
// публичный URL при отдаче.
type FileUploader interface {
	// Upload кладёт объект по ключу, перезаписывая существующий.
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	// Delete удаляет объект; отсутствие объекта не считается ошибкой.
	Delete(ctx context.Context, key string) error

	// GetPublicURL возвращает публичный URL ключа или пустую строку,
	// если публичная раздача не настроена.
	GetPublicURL(key string) string
}
