package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Paintersrp/mixsearch/internal/logger"
	"github.com/Paintersrp/mixsearch/internal/metrics"
)

// State is the phase of a search session.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateResults
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateResults:
		return "results"
	default:
		return "idle"
	}
}

// Searcher runs one bounded search.
type Searcher interface {
	Search(ctx context.Context, keyword Keyword) (Results, error)
}

// Request is a search issued by Begin. It carries its own context and the
// generation it was issued under.
type Request struct {
	Keyword    Keyword
	Generation uint64

	ctx context.Context
}

// Context returns the request's cancellation context.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Outcome is what Execute produced for a request.
type Outcome struct {
	Request Request
	Results Results
	Err     error
	Elapsed time.Duration
}

// Session owns the results of the search screen.
//
// Begin, Publish and Reset mutate session state and must be called from the
// goroutine that owns the UI. Execute is safe to call from any goroutine and
// runs at most one search at a time.
type Session struct {
	searcher Searcher
	sem      *semaphore.Weighted
	log      *zap.Logger
	metrics  *metrics.Metrics

	state      State
	generation uint64
	cancel     context.CancelFunc
	pending    Keyword
	results    *Results
}

func NewSession(searcher Searcher, log *zap.Logger, m *metrics.Metrics) *Session {
	return &Session{
		searcher: searcher,
		sem:      semaphore.NewWeighted(1),
		log:      logger.WithComponent(log, "session"),
		metrics:  m,
	}
}

func (s *Session) State() State {
	return s.state
}

// Generation is the id of the most recent request.
func (s *Session) Generation() uint64 {
	return s.generation
}

// Results returns the published results, if any.
func (s *Session) Results() (Results, bool) {
	if s.results == nil {
		return Results{}, false
	}
	return *s.results, true
}

// Keyword is the keyword being searched or, once published, shown.
func (s *Session) Keyword() Keyword {
	if s.state == StateResults && s.results != nil {
		return s.results.Keyword
	}
	return s.pending
}

// Begin starts a search for raw. An empty keyword resets the session. A
// keyword equal to the one pending or shown is ignored and ok is false.
func (s *Session) Begin(raw string) (req Request, ok bool) {
	keyword := NewKeyword(raw)
	if keyword.IsEmpty() {
		s.Reset()
		return Request{}, false
	}

	switch s.state {
	case StateSearching:
		if s.pending.Equal(keyword) {
			return Request{}, false
		}
	case StateResults:
		if s.results != nil && s.results.Keyword.Equal(keyword) {
			return Request{}, false
		}
	}

	s.cancelInFlight()
	s.generation++
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.pending = keyword
	s.state = StateSearching

	s.log.Debug("search started", zap.String("keyword", keyword.Trimmed), zap.Uint64("generation", s.generation))
	return Request{Keyword: keyword, Generation: s.generation, ctx: ctx}, true
}

// Execute waits for the worker slot and runs the request. A request
// superseded while waiting never reaches the searcher.
func (s *Session) Execute(req Request) Outcome {
	ctx := req.Context()
	start := time.Now()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return Outcome{Request: req, Err: err}
	}
	defer s.sem.Release(1)

	if err := ctx.Err(); err != nil {
		return Outcome{Request: req, Err: err}
	}

	results, err := s.searcher.Search(ctx, req.Keyword)
	return Outcome{Request: req, Results: results, Err: err, Elapsed: time.Since(start)}
}

// Publish installs an outcome's results if its request is still current.
// Stale or cancelled outcomes are dropped and false is returned.
func (s *Session) Publish(o Outcome) bool {
	if o.Request.Generation != s.generation || s.state != StateSearching {
		s.metrics.ObserveSearch(metrics.OutcomeSuperseded, o.Elapsed)
		s.log.Debug("dropped stale search",
			zap.String("keyword", o.Request.Keyword.Trimmed),
			zap.Uint64("generation", o.Request.Generation),
			zap.Uint64("current", s.generation))
		return false
	}
	if o.Request.Context().Err() != nil {
		s.metrics.ObserveSearch(metrics.OutcomeCancelled, o.Elapsed)
		s.log.Debug("dropped cancelled search", zap.String("keyword", o.Request.Keyword.Trimmed), zap.Error(o.Err))
		return false
	}

	results := o.Results
	if o.Err != nil {
		// A failed search shows as no results.
		s.log.Warn("search failed", zap.String("keyword", o.Request.Keyword.Trimmed), zap.Error(o.Err))
		results = Results{}
	}
	results.Keyword = o.Request.Keyword
	s.results = &results
	s.state = StateResults
	s.cancelInFlight()

	s.metrics.ObserveSearch(metrics.OutcomePublished, o.Elapsed)
	s.log.Debug("search published",
		zap.String("keyword", results.Keyword.Trimmed),
		zap.Int("users", len(results.Users)),
		zap.Int("assets", len(results.Assets)),
		zap.Int("conversations_by_name", len(results.ConversationsByName)),
		zap.Int("conversations_by_message", len(results.ConversationsByMessage)),
		zap.Duration("elapsed", o.Elapsed))
	return true
}

// Reset returns to Idle, dropping results and cancelling in-flight work.
func (s *Session) Reset() {
	s.cancelInFlight()
	s.generation++
	s.state = StateIdle
	s.pending = Keyword{}
	s.results = nil
}

func (s *Session) cancelInFlight() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
