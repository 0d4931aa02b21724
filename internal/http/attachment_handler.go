package http

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/files"
)

const attachmentsRoute = "/attachments/"

type attachmentHandler struct {
	fileStorage    files.Storage
	attachmentsDir string
}

func newAttachmentHandler(fileStorage files.Storage, storageCfg config.Storage) *attachmentHandler {
	return &attachmentHandler{
		fileStorage:    fileStorage,
		attachmentsDir: storageCfg.AttachmentsDir,
	}
}

// GetAttachment serves a file from the attachments directory by name.
func (h *attachmentHandler) GetAttachment(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	if name == "" || name != path.Base(name) || name == ".." {
		return apperr.AttachmentNotFoundErr
	}

	f, err := h.fileStorage.Open(path.Join(h.attachmentsDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, files.ErrInvalidPath) {
			return apperr.AttachmentNotFoundErr.WrapParent(err)
		}
		return fmt.Errorf("file storage open: %w", err)
	}
	//nolint:errcheck
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat attachment: %w", err)
	}
	if st.IsDir() {
		return apperr.AttachmentNotFoundErr
	}

	http.ServeContent(w, r, name, st.ModTime(), f)
	return nil
}
