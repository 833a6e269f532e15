package collection

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/thywilljoshua/pdf2notes/internal/errors"
	"github.com/thywilljoshua/pdf2notes/internal/logging"
)

// MediaDir stores imported media files in a flat directory.
type MediaDir struct {
	dir string
	mx  sync.Mutex
}

// NewMediaDir returns a media store in the given directory.
func NewMediaDir(dir string) *MediaDir {
	return &MediaDir{dir: dir}
}

// Dir is the directory media files are stored in.
func (m *MediaDir) Dir() string {
	return m.dir
}

// AddMedia copies the file at path into the media directory. A file with the
// same name and content is reused; a different file with the same name is
// stored under the name with a checksum suffix.
func (m *MediaDir) AddMedia(path string) (string, error) {
	m.mx.Lock()
	defer m.mx.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read media %q", path)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create media directory %q", m.dir)
	}

	name := filepath.Base(path)
	for _, candidate := range []string{name, withChecksum(name, data)} {
		existing, err := os.ReadFile(filepath.Join(m.dir, candidate))
		if os.IsNotExist(err) {
			if err := os.WriteFile(filepath.Join(m.dir, candidate), data, 0o644); err != nil {
				return "", errors.Wrap(err, "write media %q", candidate)
			}
			logging.Debug("Added media %q", candidate)
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "read media %q", candidate)
		}
		if bytes.Equal(existing, data) {
			logging.Debug("Reuse media %q", candidate)
			return candidate, nil
		}
	}
	return "", fmt.Errorf("media name conflict for %q", name)
}

func withChecksum(name string, data []byte) string {
	sum := sha1.Sum(data)
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + hex.EncodeToString(sum[:])[:8] + ext
}
