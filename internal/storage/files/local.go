package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

var (
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	ErrInvalidPath  = errors.New("path escapes storage root")
)

// Storage persists uploaded files under relative paths.
type Storage interface {
	Save(path string, contents io.Reader) (int64, error)
	Stage(path string, contents io.Reader) (Pending, error)
	Open(path string) (*os.File, error)
}

// Pending is a fully written upload that is not visible at its path yet.
// Discard after a successful Commit is a no-op.
type Pending interface {
	Size() int64
	Commit() error
	Discard() error
}

var _ Storage = (*Local)(nil)

// Local stores files on the local filesystem below a base directory.
type Local struct {
	basePath    string
	maxFileSize int64
}

func NewLocal(cfg config.Storage) (*Local, error) {
	p, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base path: %w", err)
	}

	return &Local{basePath: p, maxFileSize: int64(cfg.MaxFileSize)}, nil
}

// Save writes contents to path through a temporary file so a failed or
// oversized upload never replaces an existing file.
func (l *Local) Save(path string, contents io.Reader) (int64, error) {
	p, err := l.Stage(path, contents)
	if err != nil {
		return 0, err
	}
	defer p.Discard() //nolint:errcheck

	if err := p.Commit(); err != nil {
		return 0, err
	}

	return p.Size(), nil
}

// Stage writes contents next to path and leaves it there until the returned
// upload is committed or discarded.
func (l *Local) Stage(path string, contents io.Reader) (Pending, error) {
	fp, err := l.fullPath(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(fp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temporary file: %w", err)
	}
	staged := &localPending{tmpPath: tmp.Name(), dst: fp}

	// one extra byte tells an exact-size file from an oversized one
	written, err := io.Copy(tmp, io.LimitReader(contents, l.maxFileSize+1))
	if err != nil {
		tmp.Close()
		staged.Discard() //nolint:errcheck
		return nil, fmt.Errorf("write file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		staged.Discard() //nolint:errcheck
		return nil, fmt.Errorf("close temporary file: %w", err)
	}

	if written > l.maxFileSize {
		staged.Discard() //nolint:errcheck
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, l.maxFileSize)
	}

	staged.size = written
	return staged, nil
}

type localPending struct {
	tmpPath   string
	dst       string
	size      int64
	committed bool
}

func (p *localPending) Size() int64 { return p.size }

func (p *localPending) Commit() error {
	if err := os.Rename(p.tmpPath, p.dst); err != nil {
		return fmt.Errorf("move file into place: %w", err)
	}
	p.committed = true
	return nil
}

func (p *localPending) Discard() error {
	if p.committed {
		return nil
	}
	if err := os.Remove(p.tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove temporary file: %w", err)
	}
	return nil
}

func (l *Local) Open(path string) (*os.File, error) {
	fp, err := l.fullPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return f, nil
}

func (l *Local) fullPath(path string) (string, error) {
	fp := filepath.Join(l.basePath, filepath.FromSlash(path))
	if fp != l.basePath && !strings.HasPrefix(fp, l.basePath+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return fp, nil
}
