package selector

import (
	"os"
	"path/filepath"
	"strings"

	"yamine/pkg/ignore"

	"go.uber.org/zap"
)

const gitignore = ".gitignore"

// rules holds the ignore rules in effect while walking one root directory.
// Ignore files are read from the root, from every directory the walk enters
// and from the parents of the root. .gitignore only counts inside a git
// work tree.
type rules struct {
	root     string                     // absolute walk root
	names    []string                   // ignore file names
	patterns *ignore.Matcher            // command line patterns, relative to root
	dirs     map[string]*ignore.Matcher // absolute directory -> rules read from it
	gitTops  []string                   // work trees found so far
	logger   *zap.Logger
}

func newRules(walkRoot string, opts Options, logger *zap.Logger) *rules {
	abs, err := filepath.Abs(walkRoot)
	if err != nil {
		abs = filepath.Clean(walkRoot)
	}
	r := &rules{
		root:   abs,
		names:  opts.IgnoreFiles,
		dirs:   map[string]*ignore.Matcher{},
		logger: logger,
	}
	if len(opts.IgnorePatterns) > 0 {
		r.patterns = ignore.New(logger)
		r.patterns.AddLines("command line", opts.IgnorePatterns...)
	}
	if len(r.names) == 0 {
		return r
	}

	if top := gitWorkTree(abs); top != "" {
		r.gitTops = append(r.gitTops, top)
	}
	for dir := abs; ; {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		r.load(parent)
		dir = parent
	}
	r.load(abs)
	return r
}

// enter reads the ignore files of a directory the walk is about to descend
// into. rel is relative to the walk root.
func (r *rules) enter(rel string) {
	if len(r.names) == 0 {
		return
	}
	dir := filepath.Join(r.root, rel)
	if isGitWorkTree(dir) {
		r.gitTops = append(r.gitTops, dir)
	}
	r.load(dir)
}

func (r *rules) load(dir string) {
	m := ignore.New(r.logger)
	for _, name := range r.names {
		if name == gitignore && !r.inGit(dir) {
			continue
		}
		if err := m.AddFile(filepath.Join(dir, name)); err != nil {
			r.logger.Warn("Ignoring unreadable ignore file", zap.String("file", filepath.Join(dir, name)), zap.Error(err))
		}
	}
	if m.Len() > 0 {
		r.dirs[dir] = m
	}
}

// ignored reports whether the entry at rel, relative to the walk root, is
// ignored. Command line patterns decide first; after them the closest
// directory whose ignore files match the entry decides.
func (r *rules) ignored(rel string, isDir bool) bool {
	if ignored, matched := r.patterns.Decide(rel, isDir); matched {
		return ignored
	}
	if len(r.dirs) == 0 {
		return false
	}

	abs := filepath.Join(r.root, rel)
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if m, ok := r.dirs[dir]; ok {
			if sub, err := filepath.Rel(dir, abs); err == nil {
				if ignored, matched := m.Decide(sub, isDir); matched {
					return ignored
				}
			}
		}
		if dir == filepath.Dir(dir) {
			return false
		}
	}
}

func (r *rules) inGit(dir string) bool {
	for _, top := range r.gitTops {
		if dir == top || strings.HasPrefix(dir, strings.TrimSuffix(top, string(filepath.Separator))+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// gitWorkTree returns the closest directory at or above dir that holds a
// .git entry, or "" when there is none.
func gitWorkTree(dir string) string {
	for {
		if isGitWorkTree(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// isGitWorkTree accepts a .git directory or, for linked work trees, a .git file.
func isGitWorkTree(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
