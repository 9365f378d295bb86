// Package download fetches report files and bundles over the authenticated
// API and hands the payload to a Saver.
package download

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/josselin06/Borobo-stage-2025/internal/filex"
)

// Saver persists a downloaded payload under the given filename and returns
// the resulting location. It is the console's "save as" capability, kept
// separate from the fetch logic so tests and other frontends can substitute
// their own sink.
type Saver interface {
	Save(filename string, payload []byte) (string, error)
}

// DirSaver writes payloads into a fixed directory, creating it on first use.
type DirSaver struct {
	dir string
}

func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{dir: dir}
}

func (s *DirSaver) Save(filename string, payload []byte) (string, error) {
	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}

	// filepath.Base keeps a hostile filename from escaping the directory.
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, payload, 0o660); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
