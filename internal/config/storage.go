package config

type Storage struct {
	// BasePath is the root directory uploaded files are written under.
	BasePath string `env:"STORAGE_BASE_PATH" envDefault:"./storage"`

	// AttachmentsDir is the directory below BasePath that holds product images.
	AttachmentsDir string `env:"STORAGE_ATTACHMENTS_DIR" envDefault:"form-attachments"`

	MaxFileSize int `env:"STORAGE_MAX_FILE_SIZE" envDefault:"5242880" validate:"gt=0"`
}
