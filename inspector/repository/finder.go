package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Finder lists source files of a project tree
type Finder struct {
	root       string
	extensions []string
	excluded   []string
	ignore     *ignore.GitIgnore
	fs         afs.Service
}

// FinderOption configures a Finder
type FinderOption func(*Finder)

// WithExtensions sets the source file extensions to collect
func WithExtensions(extensions ...string) FinderOption {
	return func(f *Finder) {
		f.extensions = extensions
	}
}

// WithExcluded sets path fragments; any path containing one is skipped
func WithExcluded(fragments ...string) FinderOption {
	return func(f *Finder) {
		f.excluded = fragments
	}
}

// WithGitignore honours the .gitignore file at the project root when present
func WithGitignore() FinderOption {
	return func(f *Finder) {
		location := filepath.Join(f.root, ".gitignore")
		if _, err := os.Stat(location); err != nil {
			return
		}
		if compiled, err := ignore.CompileIgnoreFile(location); err == nil {
			f.ignore = compiled
		}
	}
}

// NewFinder creates a finder rooted at the project root
func NewFinder(root string, opts ...FinderOption) *Finder {
	ret := &Finder{root: root, extensions: []string{".js", ".jsx", ".ts", ".tsx"}, fs: afs.New()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Side walks the root-relative dir and returns its source files
func (f *Finder) Side(ctx context.Context, name, dir string) (*Side, error) {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	base := filepath.Join(f.root, filepath.FromSlash(dir))
	if object, err := f.fs.Object(ctx, base); err != nil || !object.IsDir() {
		return nil, fmt.Errorf("%s tree %s: %w", name, dir, ErrSideNotFound)
	}
	ret := &Side{Name: name, Dir: dir}
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		relative := path.Join(dir, parent, info.Name())
		if info.IsDir() {
			return !f.isExcluded(relative) && !f.isIgnored(relative+"/"), nil
		}
		if f.hasExtension(relative) && !f.isExcluded(relative) && !f.isIgnored(relative) {
			ret.Files = append(ret.Files, relative)
		}
		return true, nil
	}
	if err := f.fs.Walk(ctx, base, visitor); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", base, err)
	}
	sort.Strings(ret.Files)
	return ret, nil
}

func (f *Finder) hasExtension(relative string) bool {
	ext := path.Ext(relative)
	for _, candidate := range f.extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func (f *Finder) isExcluded(relative string) bool {
	for _, fragment := range f.excluded {
		if strings.Contains(relative, fragment) {
			return true
		}
	}
	return false
}

func (f *Finder) isIgnored(relative string) bool {
	return f.ignore != nil && f.ignore.MatchesPath(relative)
}
