// Package loop identifies claim and service-line loop boundaries in an X12
// segment sequence.
//
// X12 loops are positional, not bracketed: no end-of-loop marker exists,
// so a loop ends where the next same-or-higher-level trigger segment
// begins. The walker is an explicit finite-state machine over the trigger
// segments named by an immutable Profile, which keeps it schema-agnostic:
// sibling transaction-set shapes are supported by supplying a different
// profile, not by teaching the walker new grammar.
//
// The walker is total: it never fails, and segments matching no trigger
// are simply left un-spanned.
package loop
