package resolver

import (
	"context"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
)

// Resolver maps raw import specifiers to canonical, root-relative module paths
type Resolver struct {
	root    string
	probes  []string
	aliases []alias
	fs      afs.Service
}

type alias struct {
	prefix string
	target string
}

// Option configures a Resolver
type Option func(*Resolver)

// WithProbes sets the ordered suffixes tried when a path does not exist verbatim
func WithProbes(probes ...string) Option {
	return func(r *Resolver) {
		r.probes = probes
	}
}

// WithAliases maps specifier prefixes (e.g. "@/") to root-relative directories
func WithAliases(aliases map[string]string) Option {
	return func(r *Resolver) {
		for prefix, target := range aliases {
			r.aliases = append(r.aliases, alias{prefix: prefix, target: target})
		}
		// longest prefix wins
		sort.Slice(r.aliases, func(i, j int) bool {
			if len(r.aliases[i].prefix) != len(r.aliases[j].prefix) {
				return len(r.aliases[i].prefix) > len(r.aliases[j].prefix)
			}
			return r.aliases[i].prefix < r.aliases[j].prefix
		})
	}
}

// WithFS sets the file system used for probing
func WithFS(fs afs.Service) Option {
	return func(r *Resolver) {
		r.fs = fs
	}
}

// New creates a Resolver for the project rooted at root
func New(root string, opts ...Option) *Resolver {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	ret := &Resolver{
		root:   filepath.ToSlash(root),
		probes: []string{".js", ".jsx", ".ts", ".tsx", "/index.js", "/index.ts"},
		fs:     afs.New(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Resolve returns the canonical module for specifier imported from importer (a root-relative path).
// External packages and paths escaping the root resolve to false.
func (r *Resolver) Resolve(ctx context.Context, specifier, importer string) (string, bool) {
	specifier = strings.Trim(strings.TrimSpace(specifier), "'\"")
	if specifier == "" {
		return "", false
	}
	relative := strings.HasPrefix(specifier, ".")
	if !relative && !strings.Contains(specifier, "/") {
		return "", false
	}

	var candidate string
	if relative {
		candidate = path.Join(path.Dir(filepath.ToSlash(importer)), specifier)
	} else {
		target, ok := r.expandAlias(specifier)
		if !ok {
			return "", false
		}
		candidate = target
	}
	candidate = path.Clean(candidate)
	if candidate == ".." || strings.HasPrefix(candidate, "../") || path.IsAbs(candidate) {
		return "", false
	}
	return r.probe(ctx, candidate), true
}

func (r *Resolver) expandAlias(specifier string) (string, bool) {
	for _, a := range r.aliases {
		if strings.HasPrefix(specifier, a.prefix) {
			return path.Join(a.target, strings.TrimPrefix(specifier, a.prefix)), true
		}
	}
	return "", false
}

// probe returns the first existing file among candidate and its suffixed variants, or candidate itself
func (r *Resolver) probe(ctx context.Context, candidate string) string {
	if r.isFile(ctx, candidate) {
		return candidate
	}
	for _, suffix := range r.probes {
		if probed := candidate + suffix; r.isFile(ctx, probed) {
			return probed
		}
	}
	return candidate
}

func (r *Resolver) isFile(ctx context.Context, relative string) bool {
	object, err := r.fs.Object(ctx, path.Join(r.root, relative))
	if err != nil || object == nil {
		return false
	}
	return !object.IsDir()
}
