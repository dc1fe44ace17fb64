package cache

import (
	"os"
	"path/filepath"
	"strings"
)

// FileTier mirrors cache values into per-key files. It backs the
// session-scoped mirror: the directory is wiped on startup so entries only
// outlive the fast tier within one service session.
type FileTier struct {
	dir string
}

func NewFileTier(dir string) (*FileTier, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileTier{dir: dir}, nil
}

func (t *FileTier) Name() string { return "file" }

// keyPath flattens the key into a safe file name.
func (t *FileTier) keyPath(key string) string {
	name := strings.NewReplacer("/", "_", ":", "_", "..", "_").Replace(key)
	return filepath.Join(t.dir, name+".json")
}

func (t *FileTier) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(t.keyPath(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (t *FileTier) Put(key string, value []byte) error {
	return os.WriteFile(t.keyPath(key), value, 0o644)
}

func (t *FileTier) Remove(key string) error {
	err := os.Remove(t.keyPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (t *FileTier) Has(key string) (bool, error) {
	_, err := os.Stat(t.keyPath(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
