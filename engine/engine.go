// Package engine implements the CollegeBot query router: the decision
// logic that answers each student question from the cheapest capable
// tier (canned table, memoized cache, retrieval-grounded generation or
// plain conversational generation) while keeping metered model calls
// to a minimum.
package engine

import (
	"fmt"

	"github.com/campusbot/collegebot/cache"
	"github.com/campusbot/collegebot/ingest"
	"github.com/campusbot/collegebot/log"
	"github.com/campusbot/collegebot/memory"
	"github.com/campusbot/collegebot/rag"
	"github.com/campusbot/collegebot/stats"
)

// Config tunes the router. The zero value is usable; every field has a
// calibrated default.
type Config struct {
	// RelevanceThreshold is the boundary between retrieval-grounded and
	// general-chat routing, on the index's distance scale (0 = identical
	// meaning, larger = less related). Distances strictly below the
	// threshold are treated as relevant enough.
	RelevanceThreshold float64

	// TopK is the number of chunks handed to the generation chain.
	TopK int

	// ProbeK is the number of neighbors fetched by the relevance probe.
	ProbeK int

	// GeneralMaxTokens caps general-chat replies.
	GeneralMaxTokens int

	// AnswerMaxTokens caps retrieval-grounded answers.
	AnswerMaxTokens int

	// MemoryLimit bounds the conversation transcript, in turns.
	MemoryLimit int

	// CacheSize bounds the memoized answer cache, in entries.
	CacheSize int

	// ChunkSize and ChunkOverlap configure the ingestion splitter.
	ChunkSize    int
	ChunkOverlap int

	// Logger receives routing decisions and failures. Defaults to a
	// no-op logger.
	Logger log.Logger
}

// Calibrated defaults.
const (
	DefaultRelevanceThreshold = 1.2
	DefaultTopK               = 5
	DefaultProbeK             = 1
	DefaultGeneralMaxTokens   = 60
	DefaultAnswerMaxTokens    = 1024
)

func (c *Config) applyDefaults() {
	if c.RelevanceThreshold <= 0 {
		c.RelevanceThreshold = DefaultRelevanceThreshold
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.ProbeK <= 0 {
		c.ProbeK = DefaultProbeK
	}
	if c.GeneralMaxTokens <= 0 {
		c.GeneralMaxTokens = DefaultGeneralMaxTokens
	}
	if c.AnswerMaxTokens <= 0 {
		c.AnswerMaxTokens = DefaultAnswerMaxTokens
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = ingest.DefaultChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = ingest.DefaultChunkOverlap
	}
	if c.Logger == nil {
		c.Logger = log.NopLogger{}
	}
}

// Engine owns the caches, the conversation memory and the usage counter,
// and routes every question through them. All shared state is engine
// instance scoped and guarded, so concurrent requests against one
// engine are safe.
type Engine struct {
	index    rag.VectorIndex
	chainLLM rag.TextLLM
	chatLLM  rag.TextLLM
	pipeline *ingest.Pipeline
	cache    *cache.ResponseCache
	memory   *memory.ConversationMemory
	counter  *stats.Counter
	cfg      Config
	logger   log.Logger
}

// New creates an engine over the given capabilities. chainLLM drives
// retrieval-grounded generation; chatLLM drives the short direct
// generations (general chat, intent, summaries) and may be nil to reuse
// chainLLM.
func New(index rag.VectorIndex, chainLLM, chatLLM rag.TextLLM, counter *stats.Counter, cfg Config) (*Engine, error) {
	if index == nil {
		return nil, fmt.Errorf("vector index is required")
	}
	if chainLLM == nil {
		return nil, fmt.Errorf("language model is required")
	}
	if counter == nil {
		return nil, fmt.Errorf("usage counter is required")
	}
	if chatLLM == nil {
		chatLLM = chainLLM
	}

	cfg.applyDefaults()

	return &Engine{
		index:    index,
		chainLLM: chainLLM,
		chatLLM:  chatLLM,
		pipeline: ingest.NewPipeline(index,
			ingest.WithChunking(cfg.ChunkSize, cfg.ChunkOverlap),
			ingest.WithLogger(cfg.Logger)),
		cache:   cache.NewResponseCache(cfg.CacheSize),
		memory:  memory.New(cfg.MemoryLimit),
		counter: counter,
		cfg:     cfg,
		logger:  cfg.Logger,
	}, nil
}

// Memory exposes the conversation memory, mainly for inspection in
// callers and tests.
func (e *Engine) Memory() *memory.ConversationMemory {
	return e.memory
}
