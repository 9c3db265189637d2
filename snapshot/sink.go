package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/broady/pocotype/internal/errors"
)

// Sink receives encoded snapshot files. Implementations must be safe for
// concurrent use: Export writes every format in parallel.
type Sink interface {
	// WriteFile stores content under the relative slash-separated path.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// DirSink writes snapshot files below a directory.
type DirSink struct {
	// Root is the base directory. It is created on first write.
	Root string

	// Mode is the permission of written files. Zero means 0644.
	Mode os.FileMode

	// NoClobber makes a write fail when the file already exists.
	NoClobber bool
}

// NewDirSink returns a DirSink that replaces existing files under root.
func NewDirSink(root string) *DirSink {
	return &DirSink{Root: root, Mode: 0o644}
}

// WriteFile writes content through a temporary file in the target
// directory and renames it into place.
func (s *DirSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return errors.Wrap(err, "resolve root")
	}
	full := filepath.Join(root, filepath.FromSlash(path))
	if !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return errors.Newf("path %q escapes %s", path, root)
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	tmp, err := os.CreateTemp(dir, ".pocotype-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()
	discard := func() { _ = os.Remove(tmpPath) }

	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	if werr != nil {
		discard()
		return errors.Wrapf(werr, "write %s", path)
	}
	if cerr != nil {
		discard()
		return errors.Wrapf(cerr, "close %s", path)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		discard()
		return errors.Wrap(err, "set file mode")
	}
	if err := ctx.Err(); err != nil {
		discard()
		return err
	}

	if !s.NoClobber {
		if err := os.Rename(tmpPath, full); err != nil {
			discard()
			return errors.Wrapf(err, "rename into %s", path)
		}
		return nil
	}

	// Link fails with EEXIST instead of replacing the target.
	err = os.Link(tmpPath, full)
	discard()
	if errors.Is(err, os.ErrExist) {
		return errors.WithHint(errors.Newf("%s already exists", path), "remove it or drop --no-clobber")
	}
	return errors.Wrapf(err, "create %s", path)
}

// MemorySink keeps snapshot files in memory. It is used by tests and by
// callers that post-process the encoded output.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), content...)
	return nil
}

// Paths returns the stored paths in no particular order.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	return paths
}

// Get returns a copy of the content stored at path, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), content...)
}

// ValidatePath reports whether path is a clean relative slash path that
// stays below the sink root.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New("path is empty")
	case filepath.IsAbs(path) || strings.HasPrefix(path, "/"):
		return errors.New("absolute paths not allowed")
	case len(path) >= 2 && path[1] == ':' && isLetter(path[0]):
		return errors.New("absolute paths not allowed")
	}
	for _, elem := range strings.Split(path, "/") {
		if elem == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return errors.Newf("path is not clean (expected %q)", cleaned)
	}
	return nil
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
