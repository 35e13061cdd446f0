package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/interfaces"
	"github.com/bi-al1/stock-dashboard/internal/models"
)

// FileStore implements DocumentStore on the local filesystem. Document paths
// are slash-separated keys resolved under the base directory, and the
// revision token is the SHA-256 of the stored bytes. Change messages are
// logged rather than recorded, which keeps the interface symmetric with the
// GitHub backend.
type FileStore struct {
	basePath string
	logger   *common.Logger
}

// NewFileStore creates a store rooted at basePath, creating it if needed.
func NewFileStore(basePath string, logger *common.Logger) (*FileStore, error) {
	if basePath == "" {
		return nil, models.NotConfiguredf("file store requires a data path")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger.Debug().Str("path", basePath).Msg("File document store opened")
	return &FileStore{basePath: basePath, logger: logger}, nil
}

// resolve maps a document path to a location under basePath, rejecting
// traversal outside it.
func (s *FileStore) resolve(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", models.InvalidInputf("invalid document path '%s'", path)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

func contentRevision(data []byte) interfaces.Revision {
	sum := sha256.Sum256(data)
	return interfaces.Revision(hex.EncodeToString(sum[:]))
}

// Get reads the document at path.
func (s *FileStore) Get(ctx context.Context, path string) (json.RawMessage, interfaces.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", models.NotFoundf("document '%s' not found", path)
		}
		return nil, "", fmt.Errorf("failed to read document '%s': %w", path, err)
	}

	return data, contentRevision(data), nil
}

// Put writes doc at path. An empty rev creates the file and conflicts if it
// already exists; a non-empty rev must match the current content hash.
func (s *FileStore) Put(ctx context.Context, path string, doc json.RawMessage, rev interfaces.Revision, message string) (interfaces.Revision, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	current, readErr := os.ReadFile(fullPath)
	switch {
	case readErr == nil:
		if rev == "" {
			return "", models.Conflictf("document '%s' already exists", path)
		}
		if contentRevision(current) != rev {
			return "", models.Conflictf("concurrent update of '%s': revision no longer current", path)
		}
	case os.IsNotExist(readErr):
		if rev != "" {
			return "", models.NotFoundf("document '%s' not found for update", path)
		}
	default:
		return "", fmt.Errorf("failed to read document '%s': %w", path, readErr)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}
	if err := atomicWrite(fullPath, doc); err != nil {
		return "", fmt.Errorf("failed to write document '%s': %w", path, err)
	}

	s.logger.Debug().Str("path", path).Str("message", message).Msg("Document written")
	return contentRevision(doc), nil
}

// Delete removes the document at path. rev must match the current content hash.
func (s *FileStore) Delete(ctx context.Context, path string, rev interfaces.Revision, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	current, readErr := os.ReadFile(fullPath)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return models.NotFoundf("document '%s' not found", path)
		}
		return fmt.Errorf("failed to read document '%s': %w", path, readErr)
	}
	if contentRevision(current) != rev {
		return models.Conflictf("concurrent update of '%s': revision no longer current", path)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete document '%s': %w", path, err)
	}

	s.logger.Debug().Str("path", path).Str("message", message).Msg("Document deleted")
	return nil
}

// atomicWrite writes to a temp file in the target directory and renames it
// into place so readers never observe a partial document.
func atomicWrite(fullPath string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".doc-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Ensure FileStore implements DocumentStore
var _ interfaces.DocumentStore = (*FileStore)(nil)
