package digipin

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
)

// EncodeResult is the outcome of encoding one coordinate in a batch.
// Exactly one of Code and Err is set.
type EncodeResult struct {
	Code string
	Err  error
}

// OK reports whether the item was encoded.
func (r EncodeResult) OK() bool { return r.Err == nil }

// DecodeResult is the outcome of decoding one code in a batch.
// Location is nil when Err is set.
type DecodeResult struct {
	Location *Location
	Err      error
}

// OK reports whether the item was decoded.
func (r DecodeResult) OK() bool { return r.Err == nil }

// BatchOptions controls batch encoding and decoding.
type BatchOptions struct {
	// Parallel enables concurrent processing.
	// Items are independent, so results are identical either way.
	Parallel bool

	// Workers specifies the number of worker goroutines.
	// If 0, defaults to runtime.NumCPU(). Only used when Parallel is true.
	Workers int

	// Progress is an optional callback for tracking batch progress.
	// Parameters: (done, total) where done counts items processed so far.
	// It is always called from a single goroutine.
	Progress func(done, total int)

	// ErrorLog is an optional writer for per-item failures.
	ErrorLog io.Writer
}

// DefaultBatchOptions returns batch options with sensible defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Parallel: false,
		Workers:  runtime.NumCPU(),
	}
}

// EncodeBatch encodes every coordinate at the given precision.
//
// A failing item never aborts the batch: its result carries the error and
// processing continues with the next item.
//
// Example:
//
//	results := digipin.EncodeBatch([]digipin.Coordinate{
//	    {Lat: 28.6139, Lon: 77.2090},
//	    {Lat: 0, Lon: 50}, // outside the region
//	}, 10)
//	// results[0].Code == "39J-438-TJC7", results[1].Err is a *RangeError
func EncodeBatch(coords []Coordinate, precision int) []EncodeResult {
	results, _ := EncodeBatchWithOptions(context.Background(), coords, precision, DefaultBatchOptions())
	return results
}

// EncodeBatchWithOptions is EncodeBatch with cancellation, progress and
// optional parallelism.
//
// When ctx is cancelled, items not yet processed carry ctx.Err() and the
// same error is returned alongside the partial results.
func EncodeBatchWithOptions(ctx context.Context, coords []Coordinate, precision int, opts BatchOptions) ([]EncodeResult, error) {
	results := make([]EncodeResult, len(coords))
	err := runBatch(ctx, len(coords), opts,
		func(i int) error {
			code, err := Encode(coords[i].Lat, coords[i].Lon, precision)
			results[i] = EncodeResult{Code: code, Err: err}
			if err != nil {
				return fmt.Errorf("encode item %d (%v, %v): %w", i, coords[i].Lat, coords[i].Lon, err)
			}
			return nil
		},
		func(i int, err error) { results[i] = EncodeResult{Err: err} },
	)
	return results, err
}

// DecodeBatch decodes every code, isolating per-item failures.
func DecodeBatch(codes []string) []DecodeResult {
	results, _ := DecodeBatchWithOptions(context.Background(), codes, DefaultBatchOptions())
	return results
}

// DecodeBatchWithOptions is DecodeBatch with cancellation, progress and
// optional parallelism.
func DecodeBatchWithOptions(ctx context.Context, codes []string, opts BatchOptions) ([]DecodeResult, error) {
	results := make([]DecodeResult, len(codes))
	err := runBatch(ctx, len(codes), opts,
		func(i int) error {
			loc, err := Decode(codes[i])
			if err != nil {
				results[i] = DecodeResult{Err: err}
				return fmt.Errorf("decode item %d (%q): %w", i, codes[i], err)
			}
			results[i] = DecodeResult{Location: &loc}
			return nil
		},
		func(i int, err error) { results[i] = DecodeResult{Err: err} },
	)
	return results, err
}

// runBatch calls process for every index in [0, n). Each call writes only
// its own result slot. Indexes skipped because ctx was cancelled are handed
// to skip with ctx.Err().
func runBatch(ctx context.Context, n int, opts BatchOptions, process func(i int) error, skip func(i int, err error)) error {
	if n == 0 {
		return nil
	}
	if !opts.Parallel {
		return runBatchSerial(ctx, n, opts, process, skip)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	type itemResult struct {
		index   int
		err     error
		skipped error
	}

	jobs := make(chan int, n)
	results := make(chan itemResult, n)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					skip(i, err)
					results <- itemResult{index: i, skipped: err}
					continue
				}
				results <- itemResult{index: i, err: process(i)}
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	var cancelled error
	for res := range results {
		done++
		if res.skipped != nil {
			cancelled = res.skipped
		}
		if res.err != nil && opts.ErrorLog != nil {
			fmt.Fprintf(opts.ErrorLog, "batch: %v\n", res.err)
		}
		if opts.Progress != nil {
			opts.Progress(done, n)
		}
	}

	return cancelled
}

func runBatchSerial(ctx context.Context, n int, opts BatchOptions, process func(i int) error, skip func(i int, err error)) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			for j := i; j < n; j++ {
				skip(j, err)
			}
			return err
		}

		if err := process(i); err != nil && opts.ErrorLog != nil {
			fmt.Fprintf(opts.ErrorLog, "batch: %v\n", err)
		}
		if opts.Progress != nil {
			opts.Progress(i+1, n)
		}
	}
	return nil
}
