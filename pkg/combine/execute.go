// File: pkg/combine/execute.go
package combine

import (
	"os"
	"path/filepath"

	"yamine/pkg/document"
	"yamine/pkg/encoder"
	"yamine/pkg/loader"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// write encodes the batch into the destination chosen by args.Mode. The sink
// is flushed and closed whether or not encoding succeeds; a failed run may
// leave a partially written output file behind.
func (r *Runner) write(args Arguments, batch loader.Batch) (err error) {
	logger := r.logger()

	out, err := r.openSink(args)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	opts := encoder.Options{
		CoerceKeys: args.CoerceKeys,
		OnCoerce: func(index int, path string, key document.Document) {
			logger.Warn("Coerced non-string mapping key to a string",
				zap.Int("document", index+1),
				zap.String("path", path),
				zap.Stringer("keyKind", key.Kind()),
				zap.String("key", key.Node().Value))
		},
	}

	logger.Debug("Encoding documents",
		zap.String("destination", out.name),
		zap.Stringer("format", args.Encoding),
		zap.Int("documents", len(batch)))
	return encoder.Encode(batch, args.Encoding, out, opts)
}

func (r *Runner) openSink(args Arguments) (*sink, error) {
	if args.Mode == ModeStdout {
		return newSink("<stdout>", r.Stdout, nil), nil
	}

	if err := ensureDirectory(filepath.Dir(args.Output), r.logger()); err != nil {
		return nil, &encoder.EncodeError{Kind: encoder.WriteFailure, Index: -1, Err: err}
	}
	file, err := os.Create(args.Output)
	if err != nil {
		r.logger().Error("Failed to create output file", zap.String("file", args.Output), zap.Error(err))
		return nil, &encoder.EncodeError{Kind: encoder.WriteFailure, Index: -1, Err: err}
	}
	return newSink(args.Output, file, file), nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
