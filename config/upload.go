package config

type UploadConfig struct {
	AllowedMimeTypes  []string
	AllowedExtensions []string // пусто - любое расширение
	MaxSizeMB         int64
	PathPrefix        string
}

var UploadContexts = map[string]UploadConfig{
	"quarter_image": {
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		MaxSizeMB:        15,
		PathPrefix:       "quarter_images",
	},
	"report_image": {
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp"},
		MaxSizeMB:        15,
		PathPrefix:       "progress_reports",
	},
	// .xlsx определяется как zip-архив
	"activity_workbook": {
		AllowedMimeTypes:  []string{"application/zip", "application/octet-stream"},
		AllowedExtensions: []string{".xlsx"},
		MaxSizeMB:         10,
		PathPrefix:        "activity_workbooks",
	},
}
