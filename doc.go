// Package x12claims provides parsing and hierarchical extraction for X12
// 837P professional healthcare claim transactions.
//
// The engine turns a raw delimited transaction into an ordered sequence of
// typed segments and a nested business model of claims and service lines.
// It is built from small, composable stages:
//
//   - token: delimiter discovery and segment tokenization
//   - envelope: ISA/GS/ST header-trailer consistency checks
//   - loop: positional claim and service-line loop boundary detection
//   - extract: claim projection and the flat debugging projection
//   - engine: the linear pipeline tying the stages together
//
// # Quick Start
//
//	import (
//	    x12 "github.com/gox12/claims"
//	    "github.com/gox12/claims/engine"
//	)
//
//	parser, err := engine.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := parser.Parse(ctx, raw)
//	if err != nil {
//	    // transaction unparseable: malformed envelope or input
//	}
//	for _, claim := range result.Claims {
//	    fmt.Println(claim.ClaimID, claim.TotalCharge)
//	}
//	result.Release() // Return to pool for better performance
//
// Structural failures that make tokenization impossible are returned as
// errors; everything downstream degrades gracefully into findings, so batch
// callers can distinguish "transaction unparseable" from "transaction
// parsed with data-quality findings".
//
// # Functional Options
//
//	parser, err := engine.New(
//	    x12.WithStrictMode(true),
//	    x12.WithChargeAudit(true),
//	    x12.WithWorkerCount(runtime.NumCPU()),
//	)
//
// # Loop Detection
//
// X12's loop structure is positional: no end-of-loop marker exists, so
// boundaries are inferred from the next occurrence of a same-or-higher
// level trigger segment. The loop package implements this as an explicit
// finite-state walker over trigger segments (CLM, LX, HL), keeping the
// engine schema-agnostic and easy to extend to sibling loop kinds.
package x12claims
