package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"solarforyou/config"
	"solarforyou/pkg/constants"
)

// ValidateUpload проверяет размер, расширение и сигнатуру файла по правилам контекста загрузки
// и возвращает эти правила. Тексты ошибок уходят клиенту как есть.
func ValidateUpload(header *multipart.FileHeader, file io.ReadSeeker, uploadContext constants.UploadContext) (config.UploadConfig, error) {
	rules, ok := config.UploadContexts[uploadContext.String()]
	if !ok {
		return config.UploadConfig{}, fmt.Errorf("Nieznany kontekst przesyłania: %s", uploadContext)
	}

	if limit := rules.MaxSizeMB << 20; rules.MaxSizeMB > 0 && header.Size > limit {
		return rules, fmt.Errorf("Plik %s (%d KB) przekracza limit %d MB", header.Filename, header.Size>>10, rules.MaxSizeMB)
	}

	if len(rules.AllowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !slices.Contains(rules.AllowedExtensions, ext) {
			return rules, fmt.Errorf("Niedozwolone rozszerzenie pliku: %q, dozwolone: %s", ext, strings.Join(rules.AllowedExtensions, ", "))
		}
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return rules, fmt.Errorf("Nie udało się odczytać pliku %s", header.Filename)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return rules, fmt.Errorf("Nie udało się odczytać pliku %s", header.Filename)
	}

	mimeType := http.DetectContentType(head[:n])
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return rules, fmt.Errorf("Niedozwolony typ pliku: %s", mimeType)
	}
	return rules, nil
}
