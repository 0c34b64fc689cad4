// Package engine provides the main X12 claim parsing pipeline.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	x12 "github.com/gox12/claims"
	"github.com/gox12/claims/envelope"
	"github.com/gox12/claims/extract"
	"github.com/gox12/claims/loop"
	"github.com/gox12/claims/token"
)

// Stage names used in findings and metrics.
const (
	stageTokenize = "tokenize"
	stageWalk     = "walk"
)

// Parser is the main X12 transaction parser. It runs the linear pipeline
// tokenize → envelope validate → loop walk → claim extract over one
// transaction at a time. A Parser is safe for concurrent use: every parse
// works on its own owned data.
type Parser struct {
	// Configuration
	options *x12.Options
	profile loop.Profile

	// Stages
	walker    *loop.Walker
	extractor *extract.Extractor

	// Metrics
	metrics *x12.Metrics

	// Worker pool for batch parsing
	workerPool     chan struct{}
	workerPoolOnce sync.Once
}

// New creates a Parser for the 837P professional claim shape.
func New(opts ...x12.Option) (*Parser, error) {
	return NewWithProfile(loop.Default837P(), opts...)
}

// NewWithProfile creates a Parser for a custom trigger profile, so sibling
// transaction-set shapes can coexist in one process.
func NewWithProfile(profile loop.Profile, opts ...x12.Option) (*Parser, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	options := x12.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Parser{
		options:   options,
		profile:   profile,
		walker:    loop.NewWalker(profile),
		extractor: extract.NewExtractor(profile, options.StrictMode),
		metrics:   x12.NewMetrics(),
	}, nil
}

// Parse runs the full pipeline over one transaction. Structural failures
// that make tokenization impossible (malformed envelope, no terminator)
// return an error; test with errors.Is against token.ErrMalformedEnvelope
// and token.ErrMalformedInput. Everything downstream degrades into
// findings on the result, preferring partial output over aborting.
func (p *Parser) Parse(ctx context.Context, data []byte) (*x12.Result, error) {
	start := time.Now()

	segments, _, err := p.tokenize(string(data))
	if err != nil {
		p.metrics.RecordParse(time.Since(start), false)
		return nil, err
	}

	result := p.acquireResult()
	result.TransactionControl = envelope.TransactionControl(segments)

	if p.options.ValidateEnvelope {
		stageStart := time.Now()
		findings := envelope.Validate(segments)
		p.metrics.RecordStage(envelope.StageName, time.Since(stageStart), len(findings))
		p.addFindings(result, findings)
	}

	if cancelled(ctx) {
		result.AddWarning(x12.TypeProcessing, "parse cancelled: "+ctx.Err().Error(), "", -1)
		p.metrics.RecordParse(time.Since(start), result.Valid)
		return result, nil
	}

	// Walk the transaction body only: envelope segments cannot open loops.
	txStart, txEnd, _ := envelope.TransactionRange(segments)
	stageStart := time.Now()
	spans := p.walker.Walk(segments[txStart:txEnd])

	var hierarchyFindings []x12.Finding
	if p.options.HierarchyDiagnostics {
		_, hierarchyFindings = loop.BuildForest(segments[txStart:txEnd], p.profile.HierarchyTrigger)
	}
	p.metrics.RecordStage(stageWalk, time.Since(stageStart), len(hierarchyFindings))
	p.addFindings(result, hierarchyFindings)

	if cancelled(ctx) {
		result.AddWarning(x12.TypeProcessing, "parse cancelled: "+ctx.Err().Error(), "", -1)
		p.metrics.RecordParse(time.Since(start), result.Valid)
		return result, nil
	}

	stageStart = time.Now()
	claims, extractFindings := p.extractor.Claims(segments, spans)
	if p.options.ChargeAudit {
		extractFindings = append(extractFindings, extract.AuditCharges(claims)...)
	}
	p.metrics.RecordStage(extract.StageName, time.Since(stageStart), len(extractFindings))
	p.addFindings(result, extractFindings)
	result.Claims = claims

	for _, f := range result.Findings {
		p.metrics.RecordFinding(f.Severity)
	}
	p.metrics.RecordParse(time.Since(start), result.Valid)
	return result, nil
}

// Flatten tokenizes the transaction and returns the structure-free
// projection of every segment, envelope included. The file argument is a
// caller-supplied source identifier, carried through opaquely.
func (p *Parser) Flatten(data []byte, file string) (x12.FlatTransaction, error) {
	segments, _, err := p.tokenize(string(data))
	if err != nil {
		return x12.FlatTransaction{}, err
	}
	return extract.Flatten(segments, file), nil
}

// tokenize runs the tokenizer under stage timing.
func (p *Parser) tokenize(text string) ([]token.Segment, token.DelimiterSet, error) {
	stageStart := time.Now()
	segments, delims, err := token.Tokenize(text)
	p.metrics.RecordStage(stageTokenize, time.Since(stageStart), 0)
	return segments, delims, err
}

// ParseBatch parses multiple independent transactions in parallel.
// Transactions share no state, so no coordination beyond a bounded worker
// pool is needed. Unparseable inputs yield a result carrying a single
// fatal finding so positions stay aligned with the input slice.
func (p *Parser) ParseBatch(ctx context.Context, transactions [][]byte) []*x12.Result {
	results := make([]*x12.Result, len(transactions))

	// Initialize worker pool if needed
	p.workerPoolOnce.Do(func() {
		workers := p.options.WorkerCount
		if workers <= 0 {
			workers = 4
		}
		p.workerPool = make(chan struct{}, workers)
	})

	var wg sync.WaitGroup
	for i, tx := range transactions {
		wg.Add(1)
		go func(idx int, data []byte) {
			defer wg.Done()

			// Acquire worker slot
			p.workerPool <- struct{}{}
			defer func() { <-p.workerPool }()

			result, err := p.Parse(ctx, data)
			if err != nil {
				result = p.acquireResult()
				result.AddFinding(FatalFinding(err))
			}
			results[idx] = result
		}(i, tx)
	}

	wg.Wait()
	return results
}

// FatalFinding converts a fatal tokenization error into a finding, for
// callers that aggregate parseable and unparseable inputs in one report.
func FatalFinding(err error) x12.Finding {
	code := x12.TypeProcessing
	switch {
	case errors.Is(err, token.ErrMalformedEnvelope):
		code = x12.TypeMalformedEnvelope
	case errors.Is(err, token.ErrMalformedInput):
		code = x12.TypeMalformedInput
	}
	return x12.NewFinding(x12.SeverityFatal, code).
		Diagnostics(err.Error()).
		Stage(stageTokenize).
		Build()
}

// acquireResult returns a pooled or fresh result per the pooling option.
func (p *Parser) acquireResult() *x12.Result {
	if p.options.EnablePooling {
		p.metrics.RecordPoolAcquire()
		return x12.AcquireResult()
	}
	return x12.NewResult()
}

// addFindings appends findings, honoring the MaxFindings cap.
func (p *Parser) addFindings(result *x12.Result, findings []x12.Finding) {
	if max := p.options.MaxFindings; max > 0 {
		room := max - len(result.Findings)
		if room <= 0 {
			return
		}
		if len(findings) > room {
			findings = findings[:room]
		}
	}
	result.AddFindings(findings)
}

// Metrics returns the parser's metrics.
func (p *Parser) Metrics() *x12.Metrics {
	return p.metrics
}

// Options returns the parser's options.
func (p *Parser) Options() *x12.Options {
	return p.options
}

// Profile returns the parser's trigger profile.
func (p *Parser) Profile() loop.Profile {
	return p.profile
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
