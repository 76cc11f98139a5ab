package wildcards

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-promptgen/pkg/generators"
)

// Option configures a Manager.
type Option func(*Manager)

// WithWrap overrides the marker placed around wildcard names.
func WithWrap(wrap string) Option {
	return func(m *Manager) {
		if wrap = strings.TrimSpace(wrap); wrap != "" {
			m.wrap = wrap
		}
	}
}

// WithLogger sets the logger used for warnings and watcher events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithChangeHook registers fn to run after Watch invalidates the cache.
func WithChangeHook(fn func(path string)) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

type cachedFile struct {
	modTime time.Time
	size    int64
	values  map[string][]string
}

// Manager resolves wildcard names against a directory tree of wildcard files.
// Parsed files are cached and reparsed when their size or modification time
// changes.
type Manager struct {
	root     string
	wrap     string
	logger   *slog.Logger
	onChange func(path string)

	mu    sync.RWMutex
	cache map[string]cachedFile
}

var _ generators.WildcardResolver = (*Manager)(nil)

// New returns a manager rooted at root. An empty root yields a manager that
// matches nothing.
func New(root string, opts ...Option) *Manager {
	root = strings.TrimSpace(root)
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	m := &Manager{
		root:   root,
		wrap:   DefaultWrap,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:  make(map[string]cachedFile),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Root returns the absolute wildcard directory, or "" when unset.
func (m *Manager) Root() string { return m.root }

// WildcardWrap returns the marker placed around wildcard names.
func (m *Manager) WildcardWrap() string { return m.wrap }

// Wrap adds the wrap marker to either end of name where it is missing.
func (m *Manager) Wrap(name string) string {
	if !strings.HasPrefix(name, m.wrap) {
		name = m.wrap + name
	}
	if !strings.HasSuffix(name, m.wrap) {
		name += m.wrap
	}
	return name
}

// IsWildcard reports whether text is wrapped on both ends.
func (m *Manager) IsWildcard(text string) bool {
	return len(text) >= 2*len(m.wrap) && strings.HasPrefix(text, m.wrap) && strings.HasSuffix(text, m.wrap)
}

// ToWildcard implements generators.WildcardResolver.
func (m *Manager) ToWildcard(name string) (generators.WildcardDefinition, error) {
	cleaned, err := Clean(name, m.wrap)
	if err != nil {
		return generators.WildcardDefinition{}, err
	}
	return generators.WildcardDefinition{Name: cleaned, Ref: m.Wrap(cleaned)}, nil
}

// EnsureDirectory creates the root directory and its parents.
func (m *Manager) EnsureDirectory() error {
	if m.root == "" {
		return nil
	}
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		m.logger.Error("create wildcard directory", slog.String("path", m.root), slog.Any("error", err))
		return err
	}
	return nil
}

// Files lists the wildcard files under the root as slash separated paths
// relative to it. Symlinked files and directories are followed.
func (m *Manager) Files() ([]string, error) {
	found, err := m.walk()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.rel
	}
	return out, nil
}

// MatchFiles returns the wildcards whose names end with the segments of the
// given glob, searching every depth of the tree. Invalid wildcards are logged
// and match nothing.
func (m *Manager) MatchFiles(wildcard string) []File {
	if m.root == "" {
		return nil
	}
	pattern, err := Clean(wildcard, m.wrap)
	if err != nil {
		m.logger.Warn("invalid wildcard", slog.String("wildcard", wildcard), slog.Any("error", err))
		return nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		m.logger.Warn("invalid wildcard pattern", slog.String("wildcard", wildcard), slog.Any("error", err))
		return nil
	}

	var out []File
	for _, file := range m.entries() {
		if matchTail(pattern, file.Name) {
			out = append(out, file)
		}
	}
	return out
}

// AllValues returns the sorted, de-duplicated values of every wildcard
// matching the given glob.
func (m *Manager) AllValues(wildcard string) []string {
	seen := map[string]struct{}{}
	for _, file := range m.MatchFiles(wildcard) {
		for _, value := range file.Values {
			seen[value] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for value := range seen {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// Wildcards lists every wildcard under the root, wrapped and sorted.
func (m *Manager) Wildcards() []string {
	files := m.entries()
	out := make([]string, len(files))
	for i, file := range files {
		out[i] = m.Wrap(file.Name)
	}
	sort.Strings(out)
	return out
}

// WildcardToPath maps a wildcard name to the text file that would hold it.
func (m *Manager) WildcardToPath(wildcard string) (string, error) {
	if m.root == "" {
		return "", ErrNoRoot
	}
	name, err := Clean(wildcard, m.wrap)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.root, filepath.FromSlash(name)) + ".txt", nil
}

// PathToWildcardWithoutSeparators returns the slash separated name of the
// wildcard stored at p, without wrap markers.
func (m *Manager) PathToWildcardWithoutSeparators(p string) (string, error) {
	if m.root == "" {
		return "", ErrNoRoot
	}
	rel, err := filepath.Rel(m.root, p)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrInvalidWildcard
	}
	return trimExt(rel), nil
}

// PathToWildcard is PathToWildcardWithoutSeparators with wrap markers added.
func (m *Manager) PathToWildcard(p string) (string, error) {
	name, err := m.PathToWildcardWithoutSeparators(p)
	if err != nil {
		return "", err
	}
	return m.wrap + name + m.wrap, nil
}

// Hierarchy is the wildcard tree of one directory: the wrapped wildcards of
// its own files and one child per subdirectory.
type Hierarchy struct {
	Wildcards []string
	Children  map[string]Hierarchy
}

// Hierarchy returns the wildcard tree under the root.
func (m *Manager) Hierarchy() (Hierarchy, error) {
	if m.root == "" {
		return Hierarchy{Wildcards: []string{}, Children: map[string]Hierarchy{}}, nil
	}
	return m.hierarchy(m.root, map[string]bool{})
}

func (m *Manager) hierarchy(dir string, visited map[string]bool) (Hierarchy, error) {
	out := Hierarchy{Wildcards: []string{}, Children: map[string]Hierarchy{}}
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		if visited[real] {
			return out, nil
		}
		visited[real] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return out, err
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.IsDir() {
			child, err := m.hierarchy(p, visited)
			if err != nil {
				return out, err
			}
			out.Children[entry.Name()] = child
			continue
		}
		if !supportedExt(p) {
			continue
		}
		name, err := m.PathToWildcard(p)
		if err != nil {
			continue
		}
		out.Wildcards = append(out.Wildcards, name)
	}
	sort.Strings(out.Wildcards)
	return out, nil
}

// CollectionPath is the "collections" directory next to the root.
func (m *Manager) CollectionPath() (string, error) {
	if m.root == "" {
		return "", ErrNoRoot
	}
	return filepath.Join(filepath.Dir(m.root), "collections"), nil
}

// CollectionDirs maps collection names to their directories. A missing
// collections directory yields an empty map.
func (m *Manager) CollectionDirs() (map[string]string, error) {
	base, err := m.CollectionPath()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(base)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		p := filepath.Join(base, entry.Name())
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			out[entry.Name()] = p
		}
	}
	return out, nil
}

// Collections returns the sorted collection names.
func (m *Manager) Collections() ([]string, error) {
	dirs, err := m.CollectionDirs()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(dirs))
	for name := range dirs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Invalidate drops every parsed file from the cache.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.cache = make(map[string]cachedFile)
	m.mu.Unlock()
}

type foundFile struct {
	rel string
	abs string
}

// walk lists wildcard files under the root, following symlinks. Directories
// already visited through another link are skipped.
func (m *Manager) walk() ([]foundFile, error) {
	if m.root == "" {
		return nil, nil
	}
	info, err := os.Stat(m.root)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []foundFile
	visited := map[string]bool{}
	var visit func(dir, rel string) error
	visit = func(dir, rel string) error {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			if visited[real] {
				return nil
			}
			visited[real] = true
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			p := filepath.Join(dir, entry.Name())
			childRel := path.Join(rel, entry.Name())
			info, err := os.Stat(p)
			if err != nil {
				m.logger.Warn("skip unreadable wildcard entry", slog.String("path", p), slog.Any("error", err))
				continue
			}
			if info.IsDir() {
				if err := visit(p, childRel); err != nil {
					return err
				}
				continue
			}
			if supportedExt(p) {
				out = append(out, foundFile{rel: childRel, abs: p})
			}
		}
		return nil
	}
	if err := visit(m.root, ""); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].rel < out[j].rel })
	return out, nil
}

// entries parses every wildcard file, sorted by name.
func (m *Manager) entries() []File {
	found, err := m.walk()
	if err != nil {
		m.logger.Warn("list wildcard files", slog.String("root", m.root), slog.Any("error", err))
		return nil
	}

	var out []File
	for _, f := range found {
		values, err := m.load(f.abs, trimExt(f.rel))
		if err != nil {
			m.logger.Warn("read wildcard file", slog.String("path", f.abs), slog.Any("error", err))
			continue
		}
		for name, vals := range values {
			out = append(out, File{Name: name, Path: f.abs, Values: vals})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *Manager) load(p, base string) (map[string][]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	cached, ok := m.cache[p]
	m.mu.RUnlock()
	if ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.values, nil
	}

	values, err := parseFile(p, base)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[p] = cachedFile{modTime: info.ModTime(), size: info.Size(), values: values}
	m.mu.Unlock()
	return values, nil
}

// matchTail matches the pattern segments against the trailing segments of
// name, so "flavors/*" finds "food/flavors/sweet" as well as "flavors/sweet".
func matchTail(pattern, name string) bool {
	patternParts := strings.Split(pattern, "/")
	nameParts := strings.Split(name, "/")
	if len(nameParts) < len(patternParts) {
		return false
	}
	offset := len(nameParts) - len(patternParts)
	for i, part := range patternParts {
		ok, err := path.Match(part, nameParts[offset+i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}
