// Package token splits raw X12 transaction text into an ordered sequence
// of immutable segments.
//
// X12 is self-describing: the three delimiters (element separator,
// component separator, segment terminator) are discovered from fixed byte
// offsets within the leading ISA segment and never change for the rest of
// the transaction. The tokenizer does not escape embedded delimiters; a
// delimiter character appearing as literal data is indistinguishable from
// structural use. This is a documented limitation of the format, not of
// the tokenizer.
package token
