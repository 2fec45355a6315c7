// Package ignore compiles gitignore-style pattern files and matches
// slash-separated paths, relative to a walk root, against them.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern encapsulates a compiled pattern line and metadata about its origin.
type Pattern struct {
	Regexp  *regexp.Regexp // Compiled regular expression for the pattern.
	Negate  bool           // Pattern started with '!'.
	DirOnly bool           // Pattern ended with '/', it only matches directories.
	Line    string         // Original pattern line.
	LineNo  int            // Line number in the source (1-based).
	Source  string         // File the pattern was read from, or a label.
}

// Matcher holds patterns in the order they were added; the last matching
// pattern decides.
type Matcher struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New returns an empty Matcher.
func New(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int { return len(m.patterns) }

// AddLines compiles pattern lines. Empty lines and comments are skipped.
func (m *Matcher) AddLines(source string, lines ...string) {
	for i, line := range lines {
		p := parseLine(line)
		if p == nil {
			continue
		}
		p.LineNo = i + 1
		p.Source = source
		m.patterns = append(m.patterns, p)
		m.logger.Debug("Compiled ignore pattern",
			zap.String("source", source),
			zap.Int("lineNo", p.LineNo),
			zap.String("pattern", p.Line),
			zap.Bool("negate", p.Negate))
	}
}

// AddFile reads an ignore file and compiles its lines. A missing file is not an error.
func (m *Matcher) AddFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		m.logger.Warn("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		return err
	}

	before := len(m.patterns)
	m.AddLines(path, strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")...)
	m.logger.Debug("Loaded ignore file", zap.String("filePath", path), zap.Int("patternCount", len(m.patterns)-before))
	return nil
}

// Match reports whether relPath is ignored. A path below an ignored
// directory is ignored too, whatever later patterns say about it.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	relPath, ok := m.normalize(relPath)
	if !ok {
		return false
	}

	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		if ignored, _ := m.matchOne(strings.Join(parts[:i], "/"), true); ignored {
			return true
		}
	}
	ignored, _ := m.matchOne(relPath, isDir)
	return ignored
}

// Decide reports whether relPath itself is ignored, and whether any pattern
// matched it at all. Parent directories are not consulted; a walker that
// skips ignored directories never asks about their contents.
func (m *Matcher) Decide(relPath string, isDir bool) (ignored, matched bool) {
	relPath, ok := m.normalize(relPath)
	if !ok {
		return false, false
	}
	return m.matchOne(relPath, isDir)
}

func (m *Matcher) normalize(relPath string) (string, bool) {
	if m == nil || len(m.patterns) == 0 {
		return "", false
	}
	relPath = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(relPath)), "./")
	if relPath == "." || relPath == "" || relPath == ".." || strings.HasPrefix(relPath, "../") {
		return "", false
	}
	return relPath, true
}

func (m *Matcher) matchOne(path string, isDir bool) (ignored, matched bool) {
	for _, p := range m.patterns {
		if p.DirOnly && !isDir {
			continue
		}
		if p.Regexp.MatchString(path) {
			ignored = !p.Negate
			matched = true
		}
	}
	return ignored, matched
}

// parseLine turns one pattern line into a Pattern, or nil for blanks and comments.
func parseLine(line string) *Pattern {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	p := &Pattern{Line: line}
	if strings.HasPrefix(trimmed, "!") {
		p.Negate = true
		trimmed = trimmed[1:]
	}
	// \# and \! escape a literal leading character.
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}
	if strings.HasSuffix(trimmed, "/") {
		p.DirOnly = true
		trimmed = strings.TrimRight(trimmed, "/")
	}

	// A slash anywhere but the end anchors the pattern to the root.
	anchored := strings.Contains(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil
	}

	expr := "^" + globToRegex(trimmed) + "$"
	if !anchored {
		expr = "^(?:.*/)?" + globToRegex(trimmed) + "$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	p.Regexp = re
	return p
}

// globToRegex converts '**', '*' and '?' wildcards; everything else is literal.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); {
		switch {
		case strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case strings.HasPrefix(glob[i:], "**"):
			b.WriteString(".*")
			i += 2
		case glob[i] == '*':
			b.WriteString("[^/]*")
			i++
		case glob[i] == '?':
			b.WriteString("[^/]")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(glob[i : i+1]))
			i++
		}
	}
	return b.String()
}
