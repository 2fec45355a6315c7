// File: pkg/combine/helpers.go
package combine

import (
	"bufio"
	"io"

	"yamine/pkg/encoder"

	"go.uber.org/multierr"
)

// sink buffers writes to the run destination.
type sink struct {
	*bufio.Writer
	name   string
	closer io.Closer // nil for streams the run does not own
}

func newSink(name string, w io.Writer, closer io.Closer) *sink {
	return &sink{Writer: bufio.NewWriter(w), name: name, closer: closer}
}

// Close flushes buffered output and closes the destination if the run owns it.
func (s *sink) Close() error {
	var err error
	if ferr := s.Flush(); ferr != nil {
		err = &encoder.EncodeError{Kind: encoder.WriteFailure, Index: -1, Err: ferr}
	}
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil {
			err = multierr.Append(err, &encoder.EncodeError{Kind: encoder.WriteFailure, Index: -1, Err: cerr})
		}
	}
	return err
}
