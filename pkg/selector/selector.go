// Package selector discovers the YAML and JSON files to combine.
package selector

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Format is the document format of a source file, derived from its extension.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatOf returns the format for path. Only the exact, case-sensitive
// extensions ".yaml" and ".json" are recognised.
func FormatOf(path string) (Format, bool) {
	switch filepath.Ext(path) {
	case ".yaml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return 0, false
}

// SourceFile is a selected file and its format.
type SourceFile struct {
	Path   string
	Format Format
}

// Options configures Select. The zero value apart from MaxDepth walks
// every entry.
type Options struct {
	MaxDepth       int      // Levels below each root to descend into; a root file is depth 0.
	SkipHidden     bool     // Skip dot files and dot directories below a root.
	IgnoreFiles    []string // Names of ignore files read from every walked directory and its parents, e.g. ".gitignore".
	IgnorePatterns []string // Extra patterns relative to each root directory; they override ignore files.
}

// Select walks roots in order and returns every matching file once, in
// first-seen order. Entries that cannot be read are skipped.
func Select(roots []string, opts Options, logger *zap.Logger) []SourceFile {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &selection{opts: opts, logger: logger, seen: map[string]bool{}}
	for _, root := range roots {
		s.root(root)
	}

	logger.Debug("Completed file selection", zap.Int("roots", len(roots)), zap.Int("files", len(s.files)))
	return s.files
}

type selection struct {
	opts   Options
	logger *zap.Logger
	seen   map[string]bool // resolved paths already selected
	files  []SourceFile
}

func (s *selection) root(root string) {
	info, err := os.Stat(root)
	if err != nil {
		s.logger.Warn("Path does not exist or cannot be accessed", zap.String("path", root), zap.Error(err))
		return
	}

	if !info.IsDir() {
		// Explicitly named files bypass hidden and ignore filtering.
		if info.Mode().IsRegular() {
			s.add(root)
		}
		return
	}

	walkRoot := root
	if linfo, err := os.Lstat(root); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			walkRoot = resolved
		}
	}

	rules := newRules(walkRoot, s.opts, s.logger)
	s.logger.Debug("Processing directory", zap.String("dir", walkRoot), zap.Int("maxDepth", s.opts.MaxDepth))

	_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Debug("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == walkRoot {
			if s.opts.MaxDepth <= 0 {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return nil
		}
		depth := strings.Count(filepath.ToSlash(rel), "/") + 1

		if s.opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			return skip(d)
		}
		if rules.ignored(rel, d.IsDir()) {
			s.logger.Debug("Skipping ignored path", zap.String("path", path))
			return skip(d)
		}
		if d.IsDir() {
			if depth >= s.opts.MaxDepth {
				return filepath.SkipDir
			}
			rules.enter(rel)
			return nil
		}
		if !s.isRegular(path, d) {
			return nil
		}
		s.add(path)
		return nil
	})
}

func (s *selection) isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Debug("Skipping broken symlink", zap.String("path", path), zap.Error(err))
		return false
	}
	return info.Mode().IsRegular()
}

func (s *selection) add(path string) {
	format, ok := FormatOf(path)
	if !ok {
		return
	}

	key := resolve(path)
	if s.seen[key] {
		s.logger.Debug("Skipping duplicate file", zap.String("path", path))
		return
	}
	s.seen[key] = true
	s.files = append(s.files, SourceFile{Path: path, Format: format})
}

// resolve returns the absolute path of p with symlinks evaluated when possible.
func resolve(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func skip(d fs.DirEntry) error {
	if d.IsDir() {
		return filepath.SkipDir
	}
	return nil
}
