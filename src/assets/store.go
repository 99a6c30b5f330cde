package assets

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"gerace.dev/zipfs"
)

// Store locates the bytes of content root entries. Implementations are
// read-only and safe for concurrent use. Names are clean slash-separated
// paths relative to the store root, never absolute and never containing
// "." or ".." elements; anything else is reported as not existing, as
// are directories. Missing entries return an error satisfying
// errors.Is(err, fs.ErrNotExist).
type Store interface {
	ReadFile(name string) ([]byte, error)
	String() string
}

// DirStore serves a content root straight from a directory on disk,
// which is the unpackaged development layout.
type DirStore struct {
	dir string
}

// NewDirStore returns a store rooted at the given directory.
func NewDirStore(dir string) (*DirStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content root %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %q: not a directory", dir)
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("read %q: %w", name, fs.ErrNotExist)
	}
	full := filepath.Join(s.dir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %q: %w", name, fs.ErrNotExist)
	}
	return os.ReadFile(full)
}

func (s *DirStore) String() string {
	return "dir " + s.dir
}

// PakStore serves a content root from a .pak archive produced by the
// genpak tool, which is the packaged distribution layout. The archive
// format is a plain zip.
type PakStore struct {
	path   string
	reader *zip.ReadCloser
	fsys   http.FileSystem
}

// OpenPakStore opens the archive at the given path. The returned store
// holds the archive open until Close is called.
func OpenPakStore(path string) (*PakStore, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("content pak %q: %w", path, err)
	}
	fsys, err := zipfs.NewZipFileSystem(&reader.Reader)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("content pak %q: %w", path, err)
	}
	return &PakStore{path: path, reader: reader, fsys: fsys}, nil
}

func (s *PakStore) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("read %q: %w", name, fs.ErrNotExist)
	}
	f, err := s.fsys.Open("/" + name)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, fs.ErrNotExist)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %q: %w", name, fs.ErrNotExist)
	}
	return io.ReadAll(f)
}

func (s *PakStore) String() string {
	return "pak " + s.path
}

// Close releases the archive.
func (s *PakStore) Close() error {
	return s.reader.Close()
}

// FSStore serves a content root from any fs.FS, such as an embedded
// filesystem or a test fixture.
type FSStore struct {
	fsys fs.FS
	desc string
}

// NewFSStore returns a store over the given filesystem, described by
// desc in diagnostics.
func NewFSStore(fsys fs.FS, desc string) *FSStore {
	return &FSStore{fsys: fsys, desc: desc}
}

func (s *FSStore) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("read %q: %w", name, fs.ErrNotExist)
	}
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %q: %w", name, fs.ErrNotExist)
	}
	return fs.ReadFile(s.fsys, name)
}

func (s *FSStore) String() string {
	return s.desc
}

// OpenContentStore opens the content root at the given path, detecting
// whether it is a .pak archive or a plain directory. An empty path
// selects the built-in placeholder content.
func OpenContentStore(path string) (Store, error) {
	if path == "" {
		return Placeholder(), nil
	}
	pak, err := OpenPakStore(path)
	if err == nil {
		return pak, nil
	}
	// Not an archive. Serve straight from the directory.
	return NewDirStore(path)
}
