package documents

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/filex"
)

const (
	fileExt   = ".json"
	lockCount = 64
)

// FileStore keeps every document as <root>/<collection>/<key>.json.
//
// Create writes a temp file and hard-links it into place. The link fails
// when the key exists, so two concurrent creates of the same key cannot
// both succeed, even across processes. Update writes a sibling temp file and
// renames it over the original, so readers see either the old or the new
// document. Writers to one key are serialized inside the process by a
// striped lock.
type FileStore struct {
	root  string
	locks [lockCount]sync.Mutex
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Root returns the absolute data directory.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) dir(collection string) string {
	return filepath.Join(s.root, collection)
}

func (s *FileStore) path(collection, key string) string {
	return filepath.Join(s.root, collection, key+fileExt)
}

func (s *FileStore) lock(collection, key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(collection + "/" + key))
	m := &s.locks[h.Sum32()%lockCount]
	m.Lock()
	return m.Unlock
}

func (s *FileStore) Create(ctx context.Context, collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}
	if _, err := filex.EnsureDir(s.dir(collection)); err != nil {
		return fmt.Errorf("file store: %w", err)
	}

	defer s.lock(collection, key)()

	tmp, err := s.writeTemp(collection, key, b)
	if err != nil {
		return fmt.Errorf("file store: create %s/%s: %w", collection, key, err)
	}
	defer os.Remove(tmp)

	// Link fails if the target exists, and readers never see a partial file.
	if err := os.Link(tmp, s.path(collection, key)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("file store: create %s/%s: %w", collection, key, err)
	}
	return nil
}

// writeTemp writes b to a hidden temp file next to the document and
// returns its path.
func (s *FileStore) writeTemp(collection, key string, b []byte) (string, error) {
	tmp, err := os.CreateTemp(s.dir(collection), "."+key+"-*.tmp")
	if err != nil {
		return "", err
	}
	if err := writeAndClose(tmp, b); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (s *FileStore) Read(ctx context.Context, collection, key string, out any) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	b, err := os.ReadFile(s.path(collection, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("file store: read %s/%s: %w", collection, key, err)
	}
	return decode(b, out)
}

func (s *FileStore) Update(ctx context.Context, collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}

	defer s.lock(collection, key)()

	p := s.path(collection, key)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("file store: stat %s/%s: %w", collection, key, err)
	}

	tmp, err := s.writeTemp(collection, key, b)
	if err != nil {
		return fmt.Errorf("file store: update %s/%s: %w", collection, key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file store: update %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, collection, key string) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	defer s.lock(collection, key)()

	if err := os.Remove(s.path(collection, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("file store: delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context, collection string) ([]string, error) {
	if err := ValidateKey(collection); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("file store: list %s: %w", collection, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	return keys, nil
}

func (s *FileStore) Close() error {
	return nil
}

func writeAndClose(f *os.File, b []byte) error {
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
