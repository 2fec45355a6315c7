package combine

import (
	"fmt"
	"io"
	"os"
	"time"

	"yamine/pkg/loader"
	"yamine/pkg/preview"
	"yamine/pkg/selector"

	"go.uber.org/zap"
)

// Runner executes combination runs against injected streams.
type Runner struct {
	Stdin   io.Reader   // source of the YAML stream when Arguments.Stdin is set
	Stdout  io.Writer   // destination for ModeStdout
	Preview io.Writer   // destination of the dry-run plan
	Logger  *zap.Logger // diagnostics
}

// NewRunner returns a Runner bound to the process streams.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Preview: os.Stdout,
		Logger:  logger,
	}
}

// Execute runs the combination and returns the process exit status. A failed
// run is reported through the logger only and still exits 0, unless
// FailOnError is set.
func Execute(args Arguments, r *Runner) int {
	logger := r.logger()
	if err := r.Run(args); err != nil {
		logger.Error("Unable to combine files", zap.Error(err))
		if args.FailOnError {
			return 1
		}
		return 0
	}
	logger.Info("Ran successfully", zap.Stringer("mode", args.Mode))
	return 0
}

// Run selects the input files, then previews or combines them according to args.Mode.
func (r *Runner) Run(args Arguments) error {
	startTime := time.Now()
	logger := r.logger()

	if err := args.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	var files []selector.SourceFile
	if !args.Stdin {
		files = selector.Select(args.Paths, selector.Options{
			MaxDepth:       args.Depth,
			SkipHidden:     args.SkipHidden,
			IgnoreFiles:    args.IgnoreFiles,
			IgnorePatterns: args.IgnorePatterns,
		}, logger)
		logger.Debug("Selected input files", zap.Int("count", len(files)), zap.Int("depth", args.Depth))
	}

	if args.Mode == ModePreview {
		return r.preview(args, files)
	}

	batch, err := r.load(args, files)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	if err := r.write(args, batch); err != nil {
		return fmt.Errorf("failed to write combined output: %w", err)
	}

	logger.Info("Combination process completed",
		zap.Int("files", len(files)),
		zap.Int("documents", len(batch)),
		zap.Stringer("format", args.Encoding),
		zap.Duration("elapsed", time.Since(startTime)))
	return nil
}

func (r *Runner) preview(args Arguments, files []selector.SourceFile) error {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}

	plan := preview.Plan{
		Files:    paths,
		Stdin:    args.Stdin,
		Output:   args.Output,
		Encoding: args.Encoding.String(),
	}
	if err := preview.Render(r.Preview, plan, args.Color); err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	return nil
}

func (r *Runner) load(args Arguments, files []selector.SourceFile) (loader.Batch, error) {
	opts := loader.Options{Split: args.Split, Workers: args.Workers}
	if args.Stdin {
		docs, err := loader.LoadStream("<stdin>", r.Stdin, opts)
		return loader.Batch(docs), err
	}
	return loader.LoadAll(files, opts, r.logger())
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
	return r.Logger
}
