// Package fact_extractor finds structured facts — dates, times, money
// amounts, physical measurements — in plain UTF-8 text, including ranges
// ("10-15%", "$1-5 million", "March 15-18, 2024") and negated scalars
// ("loss of $500", "-20°F").  Matching runs over an immutable five-tier
// pattern table, widest context first, with a greedy span allocator that
// guarantees the returned entities never overlap.
package fact_extractor

import (
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/DocFacts/pkg/errors"
)

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// ExtractionResult is the output of a single ExtractWithStats call.
type ExtractionResult struct {
	Entities         []Entity `json:"entities"`
	EntityCount      int      `json:"entity_count"`
	DroppedCount     int      `json:"dropped_count"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
	TextLength       int      `json:"text_length"`
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// ExtractorConfig holds tuneable parameters for the extraction pipeline.
type ExtractorConfig struct {
	// MaxTextLength truncates input beyond this many bytes; 0 disables the cap.
	MaxTextLength int `json:"max_text_length" yaml:"max_text_length"`
}

// DefaultExtractorConfig returns production-ready defaults.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxTextLength: 500000,
	}
}

// ---------------------------------------------------------------------------
// Dependency interfaces
// ---------------------------------------------------------------------------

// Metrics records operational telemetry.
type Metrics interface {
	RecordExtraction(entityCount int, durationMs float64)
	RecordDroppedCandidate(category string)
}

// Logger is a minimal structured logger.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ---------------------------------------------------------------------------
// FactExtractor interface
// ---------------------------------------------------------------------------

// FactExtractor is the top-level API for fact extraction.  Extract is pure,
// synchronous, and re-entrant: each call allocates its own working state and
// shares only the read-only pattern library, so concurrent calls need no
// locking.  It never fails — the contract is to always return a (possibly
// empty) position-sorted list.
type FactExtractor interface {
	Extract(text string) []Entity
	ExtractWithStats(text string) *ExtractionResult
}

type factExtractorImpl struct {
	library *Library
	config  ExtractorConfig
	metrics Metrics
	logger  Logger
}

var _ FactExtractor = (*factExtractorImpl)(nil)

// NewFactExtractor constructs an extractor over an already-built pattern
// library.  Pattern compile errors are surfaced by NewLibrary at startup, not
// here, so a broken table is caught before the first call.
func NewFactExtractor(library *Library, config ExtractorConfig, metrics Metrics, logger Logger) (FactExtractor, error) {
	if library == nil {
		return nil, errors.InvalidParam("pattern library is required")
	}
	if library.Size() == 0 {
		return nil, errors.New(errors.ErrCodePatternCompile, "pattern library is empty")
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &factExtractorImpl{
		library: library,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// ---------------------------------------------------------------------------
// Extract
// ---------------------------------------------------------------------------

func (e *factExtractorImpl) Extract(text string) []Entity {
	return e.ExtractWithStats(text).Entities
}

func (e *factExtractorImpl) ExtractWithStats(text string) *ExtractionResult {
	start := time.Now()

	if text == "" {
		return &ExtractionResult{Entities: []Entity{}}
	}

	// 1. Unicode NFC normalisation.  Entity spans are codepoint offsets into
	// the normalised text; for already-normalised input (the overwhelmingly
	// common case) they coincide with offsets into the original.
	cleaned := norm.NFC.String(text)
	if e.config.MaxTextLength > 0 && len(cleaned) > e.config.MaxTextLength {
		cut := e.config.MaxTextLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
	}

	// 2. Tier sweep: commit non-overlapping spans, widest tier first.
	spans := allocate(e.library, cleaned)

	// 3. Parse each committed span into a typed entity.  Candidates whose
	// numeric groups cannot be parsed are dropped silently; extraction
	// continues.
	entities := make([]Entity, 0, len(spans))
	dropped := 0
	for _, cs := range spans {
		ent, ok := parseEntity(cleaned, cs)
		if !ok {
			dropped++
			e.metrics.RecordDroppedCandidate(string(cs.pattern.Category))
			e.logger.Debug("dropped unparseable candidate",
				"pattern", cs.pattern.Name, "text", cleaned[cs.start:cs.end])
			continue
		}
		entities = append(entities, ent)
	}

	// 4. Convert byte spans to codepoint spans.  Committed spans are sorted
	// and non-overlapping, so their offsets are monotonic and a single pass
	// over the text suffices.
	conv := newRuneOffsetConverter(cleaned)
	for i := range entities {
		entities[i].Span.Start = conv.toRune(entities[i].Span.Start)
		entities[i].Span.End = conv.toRune(entities[i].Span.End)
	}

	// 5. Stable-sort by start position for deterministic output.
	sortEntities(entities)

	elapsed := time.Since(start).Milliseconds()
	e.metrics.RecordExtraction(len(entities), float64(elapsed))

	return &ExtractionResult{
		Entities:         entities,
		EntityCount:      len(entities),
		DroppedCount:     dropped,
		ProcessingTimeMs: elapsed,
		TextLength:       utf8.RuneCountInString(cleaned),
	}
}

// ---------------------------------------------------------------------------
// Byte-offset → rune-offset conversion
// ---------------------------------------------------------------------------

// runeOffsetConverter translates monotonically increasing byte offsets into
// codepoint offsets with one sequential scan.
type runeOffsetConverter struct {
	text    string
	byteIdx int
	runeIdx int
}

func newRuneOffsetConverter(text string) *runeOffsetConverter {
	return &runeOffsetConverter{text: text}
}

func (c *runeOffsetConverter) toRune(byteOff int) int {
	for c.byteIdx < byteOff && c.byteIdx < len(c.text) {
		_, size := utf8.DecodeRuneInString(c.text[c.byteIdx:])
		c.byteIdx += size
		c.runeIdx++
	}
	return c.runeIdx
}

// ---------------------------------------------------------------------------
// Noop implementations for optional dependencies
// ---------------------------------------------------------------------------

type noopLogger struct{}

func (n *noopLogger) Debug(msg string, kv ...interface{}) {}
func (n *noopLogger) Info(msg string, kv ...interface{})  {}
func (n *noopLogger) Warn(msg string, kv ...interface{})  {}
func (n *noopLogger) Error(msg string, kv ...interface{}) {}

type noopMetrics struct{}

func (n *noopMetrics) RecordExtraction(entityCount int, durationMs float64) {}
func (n *noopMetrics) RecordDroppedCandidate(category string)               {}
