// Package worker provides parallel batch parsing of independent X12
// transactions.
//
// Transactions share no state, so jobs need no coordination beyond a
// bounded pool of goroutines. Two entry points are offered:
//
//   - Pool: a long-lived worker pool with explicit job submission and a
//     results channel, for streaming many files through one process.
//   - BatchParser: a convenience wrapper that parses a slice of inputs
//     and returns results in input order.
package worker
