// Package resolve maps a module reference onto one of the files under analysis.
package resolve

import (
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/hannajonsd/structural-analysis/model"
)

const DefaultCacheSize = 4096

// SourceExtensions are stripped when comparing paths by stem
var SourceExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts", ".py"}

// indexStems are the files that stand for their directory
var indexStems = []string{"index", "__init__"}

var knownExtension = func() map[string]bool {
	m := make(map[string]bool, len(SourceExtensions))
	for _, ext := range SourceExtensions {
		m[ext] = true
	}
	return m
}()

type lookup struct {
	path string
	ok   bool
}

// Resolver answers reference lookups against a fixed file set.
// It is built once per analysis run and is not safe for concurrent use.
type Resolver struct {
	exact    map[string]string
	stripped map[string]string
	cache    *lru.Cache[string, lookup]
}

type Option func(*resolverConfig)

type resolverConfig struct {
	cacheSize int
}

// WithCacheSize bounds the lookup memo; zero or less disables it
func WithCacheSize(n int) Option {
	return func(c *resolverConfig) {
		c.cacheSize = n
	}
}

func New(paths []string, opts ...Option) *Resolver {
	cfg := resolverConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	r := &Resolver{
		exact:    make(map[string]string, len(sorted)),
		stripped: make(map[string]string, len(sorted)),
	}
	for _, p := range sorted {
		key := normalize(p)
		if _, exists := r.exact[key]; !exists {
			r.exact[key] = p
		}
		// sorted input means the lexicographically first file keeps a shared stem
		stem := stripExtension(key)
		if _, exists := r.stripped[stem]; !exists {
			r.stripped[stem] = p
		}
	}

	if cfg.cacheSize > 0 {
		if cache, err := lru.New[string, lookup](cfg.cacheSize); err == nil {
			r.cache = cache
		}
	}
	return r
}

// Resolve returns the analyzed file a relative reference points at.
// Non-relative references never resolve.
func (r *Resolver) Resolve(fromFile string, ref model.DependencyReference) (string, bool) {
	if !ref.Relative {
		return "", false
	}
	modulePath := ref.Path
	if modulePath == "" {
		modulePath = ref.Source
	}
	return r.ResolvePath(fromFile, modulePath)
}

// ResolvePath tries, in order, an exact match, a match ignoring source
// extensions, and a directory index file.
func (r *Resolver) ResolvePath(fromFile, modulePath string) (string, bool) {
	dir := filepath.Dir(fromFile)
	key := dir + "\x00" + modulePath

	if r.cache != nil {
		if hit, ok := r.cache.Get(key); ok {
			return hit.path, hit.ok
		}
	}

	path, ok := r.lookup(dir, modulePath)
	if r.cache != nil {
		r.cache.Add(key, lookup{path: path, ok: ok})
	}
	return path, ok
}

func (r *Resolver) lookup(dir, modulePath string) (string, bool) {
	candidate := normalize(filepath.Join(dir, filepath.FromSlash(modulePath)))

	if p, ok := r.exact[candidate]; ok {
		return p, true
	}
	if p, ok := r.stripped[stripExtension(candidate)]; ok {
		return p, true
	}
	for _, stem := range indexStems {
		if p, ok := r.stripped[normalize(filepath.Join(candidate, stem))]; ok {
			return p, true
		}
	}
	return "", false
}

func normalize(p string) string {
	return norm.NFC.String(filepath.Clean(p))
}

func stripExtension(p string) string {
	ext := filepath.Ext(p)
	if knownExtension[strings.ToLower(ext)] {
		return strings.TrimSuffix(p, ext)
	}
	return p
}
