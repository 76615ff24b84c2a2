// Package lookup runs the remote "search by number" request behind the
// number row of the search screen.
package lookup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/Paintersrp/mixsearch/internal/apperr"
	"github.com/Paintersrp/mixsearch/internal/logger"
	"github.com/Paintersrp/mixsearch/internal/metrics"
	"github.com/Paintersrp/mixsearch/internal/model"
)

// NotFoundNotice is shown when the directory has no such user.
const NotFoundNotice = "Contact not found"

// Directory resolves an identity number or phone to a user.
type Directory interface {
	SearchUser(ctx context.Context, keyword string) (model.User, error)
}

// UserWriter persists users found remotely.
type UserWriter interface {
	UpsertUsers(ctx context.Context, users ...model.User) error
}

// Request is a lookup issued by Start.
type Request struct {
	ID         string
	Keyword    string
	Generation uint64

	ctx context.Context
}

func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Outcome is what Execute produced.
type Outcome struct {
	Request Request
	User    model.User
	Err     error
	Cached  bool
	Elapsed time.Duration
}

// Result is a finished, current lookup. Exactly one of User and Notice is
// set.
type Result struct {
	User   *model.User
	Notice string
}

// Options tunes a Lookup.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// Lookup keeps at most one remote request outstanding.
//
// Start, Finish and Cancel must be called from the goroutine that owns the
// UI. Execute may run anywhere.
type Lookup struct {
	directory Directory
	users     UserWriter
	cache     *expirable.LRU[string, model.User]
	log       *zap.Logger
	metrics   *metrics.Metrics

	generation uint64
	cancel     context.CancelFunc
	busy       bool
}

func New(directory Directory, users UserWriter, opts Options) *Lookup {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Lookup{
		directory: directory,
		users:     users,
		cache:     expirable.NewLRU[string, model.User](opts.CacheSize, nil, opts.CacheTTL),
		log:       logger.WithComponent(opts.Logger, "lookup"),
		metrics:   opts.Metrics,
	}
}

// Busy reports whether a lookup is outstanding.
func (l *Lookup) Busy() bool {
	return l.busy
}

// Start cancels any outstanding lookup and issues a new one.
func (l *Lookup) Start(keyword string) Request {
	l.cancelInFlight()
	l.generation++
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.busy = true

	req := Request{ID: uuid.NewString(), Keyword: keyword, Generation: l.generation, ctx: ctx}
	l.log.Debug("lookup started", zap.String("request_id", req.ID), zap.String("keyword", keyword))
	return req
}

// Execute performs the request. Found users are cached and stored locally.
func (l *Lookup) Execute(req Request) Outcome {
	if user, ok := l.cache.Get(req.Keyword); ok {
		return Outcome{Request: req, User: user, Cached: true}
	}

	ctx := req.Context()
	start := time.Now()
	user, err := l.directory.SearchUser(ctx, req.Keyword)
	elapsed := time.Since(start)
	if err != nil {
		return Outcome{Request: req, Err: err, Elapsed: elapsed}
	}

	if l.users != nil {
		if err := l.users.UpsertUsers(ctx, user); err != nil {
			l.log.Warn("failed to store looked up user", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	l.cache.Add(req.Keyword, user)
	return Outcome{Request: req, User: user, Elapsed: elapsed}
}

// Finish clears the busy state and classifies the outcome. Outcomes of
// superseded or cancelled requests are dropped and ok is false.
func (l *Lookup) Finish(o Outcome) (res Result, ok bool) {
	if o.Request.Generation != l.generation || o.Request.Context().Err() != nil {
		l.metrics.ObserveLookup(metrics.LookupCancelled, o.Elapsed)
		return Result{}, false
	}
	l.busy = false
	l.cancelInFlight()

	switch {
	case o.Err == nil:
		user := o.User
		if o.Cached {
			l.metrics.ObserveLookup(metrics.LookupCached, 0)
		} else {
			l.metrics.ObserveLookup(metrics.LookupFound, o.Elapsed)
		}
		return Result{User: &user}, true
	case errors.Is(o.Err, context.Canceled):
		l.metrics.ObserveLookup(metrics.LookupCancelled, o.Elapsed)
		return Result{}, false
	case apperr.IsNotFound(o.Err):
		l.metrics.ObserveLookup(metrics.LookupNotFound, o.Elapsed)
		return Result{Notice: NotFoundNotice}, true
	default:
		l.metrics.ObserveLookup(metrics.LookupError, o.Elapsed)
		l.log.Warn("lookup failed", zap.String("request_id", o.Request.ID), zap.Error(o.Err))
		return Result{Notice: o.Err.Error()}, true
	}
}

// Cancel abandons the outstanding lookup, if any, and clears busy.
func (l *Lookup) Cancel() {
	l.cancelInFlight()
	l.generation++
	l.busy = false
}

func (l *Lookup) cancelInFlight() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
