// File: pkg/combine/config.go
package combine

import (
	"fmt"
	"strings"

	"yamine/pkg/encoder"
	"yamine/pkg/loader"
)

// Mode selects what a run does with the combined documents.
type Mode int

const (
	ModePreview Mode = iota // describe the run without reading or writing documents
	ModeWrite               // write the combined output to Arguments.Output
	ModeStdout              // write the combined output to standard output
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeStdout:
		return "std-out"
	default:
		return "dry-run"
	}
}

// ParseMode parses "dry-run", "write" or "std-out".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dry-run", "preview":
		return ModePreview, nil
	case "write":
		return ModeWrite, nil
	case "std-out", "stdout":
		return ModeStdout, nil
	}
	return ModePreview, fmt.Errorf("unknown mode %q (must be dry-run, write or std-out)", s)
}

// DefaultIgnoreFiles are read from every root directory unless disabled.
var DefaultIgnoreFiles = []string{".gitignore", ".ignore", ".yamineignore"}

// Arguments holds the configuration options for one combination run.
type Arguments struct {
	Paths          []string         // Files or folders to combine, in order.
	Stdin          bool             // Read a single YAML stream from standard input instead of Paths.
	Depth          int              // Folder levels to descend into below each path.
	Output         string           // Destination file for ModeWrite.
	Mode           Mode             // What to do with the result.
	Encoding       encoder.Encoding // Shape of the combined output.
	Workers        int              // Files parsed concurrently; 1 parses sequentially.
	Split          loader.Split     // How YAML files are cut into documents.
	CoerceKeys     bool             // Stringify non-string mapping keys for JSON output.
	SkipHidden     bool             // Skip dot files and folders below each path.
	IgnoreFiles    []string         // Ignore files read from each folder path.
	IgnorePatterns []string         // Additional ignore patterns.
	FailOnError    bool             // Report a failed run through the exit status.
	Color          bool             // Colour the dry-run preview.
}

// DefaultArguments returns the defaults of the command line.
func DefaultArguments() Arguments {
	return Arguments{
		Depth:       1,
		Output:      "combined.yaml",
		Mode:        ModePreview,
		Encoding:    encoder.YAMLStream,
		Workers:     1,
		Split:       loader.SplitMarker,
		SkipHidden:  true,
		IgnoreFiles: append([]string(nil), DefaultIgnoreFiles...),
	}
}

// Validate checks the arguments for errors.
func (a Arguments) Validate() error {
	if a.Stdin && len(a.Paths) > 0 {
		return fmt.Errorf("standard input cannot be combined with file or folder paths")
	}
	if !a.Stdin && len(a.Paths) == 0 {
		return fmt.Errorf("no input: pass files or folders, or read standard input")
	}
	if a.Depth < 0 {
		return fmt.Errorf("depth must not be negative: %d", a.Depth)
	}
	if a.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", a.Workers)
	}
	if a.Mode == ModeWrite && a.Output == "" {
		return fmt.Errorf("an output file is required to write")
	}
	return nil
}
