package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// Storage serves blobs from a directory tree: one subdirectory per
// container, blob names mapped to relative paths. Meant for local
// development and tests; production runs against the S3 backend.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/blobs"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: filepath.Clean(basePath)}, nil
}

func (s *Storage) Fetch(_ context.Context, ref domain.FileReference) ([]byte, domain.FileProperties, error) {
	path := filepath.Join(s.basePath, ref.Container, filepath.FromSlash(ref.BlobName))
	if !strings.HasPrefix(path, s.basePath+string(os.PathSeparator)) {
		return nil, domain.FileProperties{}, domain.WrapError(domain.ErrInvalidPath, "resolve blob path",
			fmt.Errorf("%s/%s escapes the storage root", ref.Container, ref.BlobName))
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.FileProperties{}, domain.WrapError(domain.ErrBlobNotFound, "fetch blob",
			fmt.Errorf("%s/%s", ref.Container, ref.BlobName))
	}
	if err != nil {
		return nil, domain.FileProperties{}, domain.WrapError(domain.ErrStoreUnavailable, "fetch blob", err)
	}
	if info.IsDir() {
		return nil, domain.FileProperties{}, domain.WrapError(domain.ErrBlobNotFound, "fetch blob",
			fmt.Errorf("%s/%s is a directory", ref.Container, ref.BlobName))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.FileProperties{}, domain.WrapError(domain.ErrStoreUnavailable, "read blob", err)
	}

	props := domain.FileProperties{
		Name:         ref.BlobName,
		Size:         info.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(ref.BlobName)),
		LastModified: info.ModTime().UTC(),
	}
	return content, props, nil
}
