package worker

import x12 "github.com/gox12/claims"

// Job represents one transaction to be parsed by a worker.
type Job struct {
	// ID is a unique identifier for this job. Left empty, the pool
	// assigns a UUID on submission.
	ID string

	// Source names where the transaction came from (a file path, a queue
	// message ID). It is carried through to the result.
	Source string

	// Data is the raw transaction text.
	Data []byte
}

// JobResult represents the outcome of one parse job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Source matches the Job.Source.
	Source string

	// Result contains the parse result. Nil when the transaction was
	// unparseable; Error holds the cause.
	Result *x12.Result

	// Error contains the fatal error for unparseable transactions.
	Error error

	// Duration is the time taken to parse (in nanoseconds).
	Duration int64
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// FailedJobs is the number of jobs that failed as unparseable.
	FailedJobs int

	// TotalDuration is the total parse time across all jobs (nanoseconds).
	TotalDuration int64
}

// HasErrors returns true if any job was unparseable or any result carries
// error findings.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
		if r.Result != nil && r.Result.HasErrors() {
			return true
		}
	}
	return false
}

// ErrorCount returns the total number of error findings across all results.
func (br *BatchResult) ErrorCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Result != nil {
			count += r.Result.ErrorCount()
		}
	}
	return count
}

// ClaimCount returns the total number of claims extracted across all
// results.
func (br *BatchResult) ClaimCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Result != nil {
			count += len(r.Result.Claims)
		}
	}
	return count
}
