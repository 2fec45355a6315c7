package loader

import "fmt"

// ErrorKind classifies a LoadError.
type ErrorKind int

const (
	IOFailure    ErrorKind = iota // the source could not be read
	ParseFailure                  // the content is not valid YAML or JSON
)

func (k ErrorKind) String() string {
	if k == ParseFailure {
		return "parse failure"
	}
	return "io failure"
}

// LoadError is returned by every loader operation. Any LoadError aborts the run.
type LoadError struct {
	Kind     ErrorKind
	Path     string
	Document int // 0-based segment index for YAML parse failures, -1 otherwise
	Err      error
}

func (e *LoadError) Error() string {
	if e.Document >= 0 {
		return fmt.Sprintf("%s in %s (document %d): %v", e.Kind, e.Path, e.Document+1, e.Err)
	}
	return fmt.Sprintf("%s in %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func ioError(path string, err error) *LoadError {
	return &LoadError{Kind: IOFailure, Path: path, Document: -1, Err: err}
}

func parseError(path string, doc int, err error) *LoadError {
	return &LoadError{Kind: ParseFailure, Path: path, Document: doc, Err: err}
}
