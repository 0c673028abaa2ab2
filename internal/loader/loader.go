// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader discovers and parses the modular CV source tree:
//
//	<base>/modular_cv/cv_items/<kind dir>/*.yaml
//	<base>/modular_cv/profiles/<name>.yaml
//	<base>/modular_cv/base/<file>
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-builder/internal/charcount"
	"github.com/pdiddy/cv-builder/pkg/types"
)

const (
	rootDir     = "modular_cv"
	itemsDir    = "cv_items"
	profilesDir = "profiles"
	baseDir     = "base"
)

// DefaultItemsGlob matches item files in the four kind directories.
const DefaultItemsGlob = "{work_experience,projects,education,additional_info}/*.yaml"

// Loader reads records from one project root.
type Loader struct {
	base      string
	itemsGlob string
	logger    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithItemsGlob overrides DefaultItemsGlob. The pattern is relative to the
// cv_items directory and uses doublestar syntax.
func WithItemsGlob(pattern string) Option {
	return func(l *Loader) {
		if pattern != "" {
			l.itemsGlob = pattern
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns a Loader rooted at base.
func New(base string, opts ...Option) *Loader {
	l := &Loader{
		base:      base,
		itemsGlob: DefaultItemsGlob,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ItemsDir returns the directory item globs are resolved against.
func (l *Loader) ItemsDir() string {
	return filepath.Join(l.base, rootDir, itemsDir)
}

// ProfilesDir returns the directory holding profile files.
func (l *Loader) ProfilesDir() string {
	return filepath.Join(l.base, rootDir, profilesDir)
}

// BaseDir returns the directory holding base documents.
func (l *Loader) BaseDir() string {
	return filepath.Join(l.base, rootDir, baseDir)
}

// Root returns the modular_cv directory.
func (l *Loader) Root() string {
	return filepath.Join(l.base, rootDir)
}

// ItemPaths returns every item file matching the glob, sorted, with sidecar
// files under .metadata excluded. A missing items directory yields no paths.
func (l *Loader) ItemPaths() ([]string, error) {
	dir := l.ItemsDir()
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("items directory missing", "dir", dir)
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), l.itemsGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching items with %q: %w", l.itemsGlob, err)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if isSidecar(m) {
			continue
		}
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return paths, nil
}

func isSidecar(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == charcount.MetadataDir {
			return true
		}
	}
	return false
}

// LoadItems parses every item file in discovery order. Duplicate IDs are
// kept so the validator can report them. Cached metadata from the item's
// sidecar, when present, replaces any inline metadata block.
//
// Malformed YAML and missing required keys are fatal; the *types.SchemaError
// carries the offending file.
func (l *Loader) LoadItems() ([]*types.Item, error) {
	paths, err := l.ItemPaths()
	if err != nil {
		return nil, err
	}

	items := make([]*types.Item, 0, len(paths))
	for _, p := range paths {
		item, err := l.loadItem(p)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	l.logger.Debug("loaded items", "count", len(items), "dir", l.ItemsDir())
	return items, nil
}

func (l *Loader) loadItem(path string) (*types.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item %s: %w", path, err)
	}
	item, err := types.ParseItem(data)
	if err != nil {
		return nil, withSource(err, l.rel(path))
	}
	item.Source = l.rel(path)

	md, err := charcount.Load(path)
	if err != nil {
		return nil, err
	}
	if md.CharCount != nil {
		item.Metadata = md
	}
	return item, nil
}

// LoadProfile reads profiles/<name>.yaml.
func (l *Loader) LoadProfile(name string) (*types.Profile, error) {
	path := filepath.Join(l.ProfilesDir(), name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.NotFoundError{What: "profile", Path: path}
		}
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}
	profile, err := types.ParseProfile(data)
	if err != nil {
		return nil, withSource(err, l.rel(path))
	}
	profile.Source = l.rel(path)
	return profile, nil
}

// ProfileNames lists the profiles available under profiles/, sorted.
func (l *Loader) ProfileNames() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(l.ProfilesDir()), "*.yaml", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// LoadBase reads a base document from base/<file> as a YAML node tree.
func (l *Loader) LoadBase(file string) (*yaml.Node, error) {
	path := filepath.Join(l.BaseDir(), file)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.NotFoundError{What: "base file", Path: path}
		}
		return nil, fmt.Errorf("reading base file %s: %w", path, err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing base file %s: %w", path, err)
	}
	return &node, nil
}

func (l *Loader) rel(path string) string {
	if r, err := filepath.Rel(l.base, path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}

func withSource(err error, source string) error {
	var schemaErr *types.SchemaError
	if errors.As(err, &schemaErr) {
		schemaErr.Source = source
		return schemaErr
	}
	return fmt.Errorf("%s: %w", source, err)
}
