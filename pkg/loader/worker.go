package loader

import (
	"sort"
	"sync"

	"yamine/pkg/document"
	"yamine/pkg/selector"

	"go.uber.org/zap"
)

// Batch is every document of a run, in file order then in-file order.
type Batch []document.Document

type job struct {
	index int
	file  selector.SourceFile
}

type result struct {
	index int
	docs  []document.Document
	err   error
}

// LoadAll loads files and concatenates their documents in file order. The
// first failing file, by position in files, aborts the whole batch.
func LoadAll(files []selector.SourceFile, opts Options, logger *zap.Logger) (Batch, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []result
	if opts.Workers > 1 && len(files) > 1 {
		results = loadConcurrently(files, opts, logger)
	} else {
		results = make([]result, 0, len(files))
		for i, file := range files {
			docs, err := loadOne(file, opts, logger)
			results = append(results, result{index: i, docs: docs, err: err})
			if err != nil {
				break
			}
		}
	}

	var batch Batch
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		batch = append(batch, r.docs...)
	}
	logger.Debug("Loaded documents", zap.Int("files", len(files)), zap.Int("documents", len(batch)))
	return batch, nil
}

func loadOne(file selector.SourceFile, opts Options, logger *zap.Logger) ([]document.Document, error) {
	docs, err := Load(file, opts)
	if err != nil {
		logger.Debug("Failed to load file", zap.String("filePath", file.Path), zap.Error(err))
		return nil, err
	}
	logger.Debug("Loaded file",
		zap.String("filePath", file.Path),
		zap.Stringer("format", file.Format),
		zap.Int("documents", len(docs)))
	return docs, nil
}

// loadConcurrently loads files with a pool of opts.Workers goroutines and
// returns the results sorted back into selection order.
func loadConcurrently(files []selector.SourceFile, opts Options, logger *zap.Logger) []result {
	workers := opts.Workers
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan job, len(files))
	results := make(chan result, len(files))
	var wg sync.WaitGroup

	logger.Debug("Initializing worker pool", zap.Int("workers", workers))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go worker(jobs, results, opts, &wg, logger.With(zap.Int("workerID", w)))
	}

	for i, file := range files {
		jobs <- job{index: i, file: file}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]result, 0, len(files))
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})
	return collected
}

func worker(jobs <-chan job, results chan<- result, opts Options, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()
	for j := range jobs {
		docs, err := loadOne(j.file, opts, logger)
		results <- result{index: j.index, docs: docs, err: err}
	}
}
