// pkg/filestorage/local_filestorage.go

package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileStorageInterface interface {
	// Save сохраняет загруженный файл под уникальным именем в prefix/YYYY/MM/DD.
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	// Put записывает файл по фиксированному относительному пути, перезаписывая старый.
	Put(relativePath string, data []byte) error
	Read(relativePath string) ([]byte, error)
	Delete(filePath string) error
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию: %w", err)
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName)), nil
}

func (s *LocalFileStorage) Put(relativePath string, data []byte) error {
	fullPath, err := s.resolve(relativePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, fullPath)
}

func (s *LocalFileStorage) Read(relativePath string) ([]byte, error) {
	fullPath, err := s.resolve(relativePath)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(fullPath)
}

// Delete принимает путь вида "/uploads/prefix/2024/08/21/file.jpg" или относительный.
func (s *LocalFileStorage) Delete(fileURL string) error {
	fullPath, err := s.resolve(strings.TrimPrefix(fileURL, "/uploads/"))
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(fullPath)
}

func (s *LocalFileStorage) resolve(relativePath string) (string, error) {
	clean := filepath.Clean("/" + relativePath)
	if clean == "/" {
		return "", fmt.Errorf("пустой путь к файлу")
	}
	return filepath.Join(s.basePath, clean), nil
}
