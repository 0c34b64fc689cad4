package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	x12 "github.com/gox12/claims"
)

// BatchParser provides a simple interface for batch parsing.
type BatchParser struct {
	parse   BatchParseFunc
	workers int
}

// BatchParseFunc is the function signature for parsing a single
// transaction.
type BatchParseFunc func(ctx context.Context, data []byte) (*x12.Result, error)

// NewBatchParser creates a new batch parser.
func NewBatchParser(parseFunc BatchParseFunc, workers int) *BatchParser {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchParser{
		parse:   parseFunc,
		workers: workers,
	}
}

// ParseBatch parses multiple transactions in parallel, returning results
// in input order.
func (bp *BatchParser) ParseBatch(ctx context.Context, transactions [][]byte) *BatchResult {
	if len(transactions) == 0 {
		return &BatchResult{
			Results:       make([]*JobResult, 0),
			TotalJobs:     0,
			CompletedJobs: 0,
		}
	}

	// For small batches, don't use parallelism
	if len(transactions) <= 2 {
		return bp.parseSequential(ctx, transactions)
	}

	return bp.parseParallel(ctx, transactions)
}

func (bp *BatchParser) parseSequential(ctx context.Context, transactions [][]byte) *BatchResult {
	results := make([]*JobResult, 0, len(transactions))
	failed := 0

	for i, tx := range transactions {
		select {
		case <-ctx.Done():
			return &BatchResult{
				Results:       results,
				TotalJobs:     len(transactions),
				CompletedJobs: len(results),
				FailedJobs:    failed,
			}
		default:
		}

		result, err := bp.parse(ctx, tx)
		if err != nil {
			failed++
		}
		results = append(results, &JobResult{
			ID:     strconv.Itoa(i),
			Result: result,
			Error:  err,
		})
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(transactions),
		CompletedJobs: len(results),
		FailedJobs:    failed,
	}
}

func (bp *BatchParser) parseParallel(ctx context.Context, transactions [][]byte) *BatchResult {
	numWorkers := bp.workers
	if numWorkers > len(transactions) {
		numWorkers = len(transactions)
	}

	jobs := make(chan indexedTransaction, len(transactions))
	resultsChan := make(chan *indexedResult, len(transactions))

	// Start workers
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				result, err := bp.parse(ctx, job.data)
				resultsChan <- &indexedResult{
					index:  job.index,
					result: result,
					err:    err,
				}
			}
		}()
	}

	// Submit jobs
	go func() {
		for i, tx := range transactions {
			select {
			case <-ctx.Done():
				break
			case jobs <- indexedTransaction{index: i, data: tx}:
			}
		}
		close(jobs)
	}()

	// Wait for workers and close results channel
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results in order
	results := make([]*JobResult, len(transactions))
	completed := 0
	failed := 0

	for ir := range resultsChan {
		results[ir.index] = &JobResult{
			ID:     strconv.Itoa(ir.index),
			Result: ir.result,
			Error:  ir.err,
		}
		completed++
		if ir.err != nil {
			failed++
		}
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(transactions),
		CompletedJobs: completed,
		FailedJobs:    failed,
	}
}

type indexedTransaction struct {
	index int
	data  []byte
}

type indexedResult struct {
	index  int
	result *x12.Result
	err    error
}

// ParseBatchSimple is a convenience function for batch parsing with
// default worker count.
func ParseBatchSimple(ctx context.Context, parseFunc BatchParseFunc, transactions [][]byte) *BatchResult {
	bp := NewBatchParser(parseFunc, runtime.NumCPU())
	return bp.ParseBatch(ctx, transactions)
}
