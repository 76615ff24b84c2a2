package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Paintersrp/mixsearch/internal/constants"
	"github.com/Paintersrp/mixsearch/internal/logger"
	"github.com/Paintersrp/mixsearch/internal/metrics"
	"github.com/Paintersrp/mixsearch/internal/model"
)

// UserSource finds contacts by name, identity number or phone.
type UserSource interface {
	SearchUsers(ctx context.Context, keyword string, limit int) ([]model.User, error)
}

// ConversationSource finds conversations by name and by message content.
type ConversationSource interface {
	SearchConversationsByName(ctx context.Context, keyword string, limit int) ([]model.Conversation, error)
	SearchConversationsByMessage(ctx context.Context, keyword string, limit int) ([]model.ConversationMessageMatch, error)
	SearchMessages(ctx context.Context, conversationID, keyword string, limit int) ([]model.MessageMatch, error)
}

// AssetSource finds wallet assets by symbol or name.
type AssetSource interface {
	SearchAssets(ctx context.Context, keyword string, limit int) ([]model.Asset, error)
}

// Category is one of the independently fetched result sets.
type Category int

const (
	CategoryAsset Category = iota
	CategoryUser
	CategoryConversationByName
	CategoryConversationByMessage
)

// Categories lists every category in fetch order.
var Categories = []Category{
	CategoryAsset,
	CategoryUser,
	CategoryConversationByName,
	CategoryConversationByMessage,
}

func (c Category) String() string {
	switch c {
	case CategoryAsset:
		return "assets"
	case CategoryUser:
		return "users"
	case CategoryConversationByName:
		return "conversations_by_name"
	case CategoryConversationByMessage:
		return "conversations_by_message"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Results holds every category fetched for one keyword.
type Results struct {
	Keyword                Keyword
	Assets                 []AssetResult
	Users                  []Result
	ConversationsByName    []Result
	ConversationsByMessage []Result
}

// Count returns the number of fetched entries in a category.
func (r Results) Count(c Category) int {
	switch c {
	case CategoryAsset:
		return len(r.Assets)
	case CategoryUser:
		return len(r.Users)
	case CategoryConversationByName:
		return len(r.ConversationsByName)
	case CategoryConversationByMessage:
		return len(r.ConversationsByMessage)
	default:
		return 0
	}
}

// Rows returns the formatted rows of a non-asset category.
func (r Results) Rows(c Category) []Result {
	switch c {
	case CategoryUser:
		return r.Users
	case CategoryConversationByName:
		return r.ConversationsByName
	case CategoryConversationByMessage:
		return r.ConversationsByMessage
	default:
		return nil
	}
}

// Options tunes an Aggregator. Zero values fall back to defaults.
type Options struct {
	ResultLimit   int
	CategoryLimit int
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Now           func() time.Time
}

// Aggregator fans a keyword out to the local sources.
type Aggregator struct {
	users         UserSource
	conversations ConversationSource
	assets        AssetSource

	resultLimit   int
	categoryLimit int
	log           *zap.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewAggregator(users UserSource, conversations ConversationSource, assets AssetSource, opts Options) *Aggregator {
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = constants.ResultLimit
	}
	if opts.CategoryLimit <= 0 {
		opts.CategoryLimit = constants.CategoryLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{
		users:         users,
		conversations: conversations,
		assets:        assets,
		resultLimit:   opts.ResultLimit,
		categoryLimit: opts.CategoryLimit,
		log:           logger.WithComponent(opts.Logger, "aggregator"),
		metrics:       opts.Metrics,
		now:           opts.Now,
	}
}

// ResultLimit is the number of rows a section shows.
func (a *Aggregator) ResultLimit() int {
	return a.resultLimit
}

// Limit is the per-category query bound: one extra row tells whether more
// results exist.
func (a *Aggregator) Limit() int {
	return a.resultLimit + 1
}

// Search fetches all categories in parallel. A failing category is logged
// and comes back empty; only cancellation is returned as an error.
func (a *Aggregator) Search(ctx context.Context, keyword Keyword) (Results, error) {
	results := Results{Keyword: keyword}
	limit := a.Limit()

	g, gctx := errgroup.WithContext(ctx)
	for _, category := range Categories {
		category := category
		g.Go(func() error {
			err := a.fetch(gctx, &results, category, keyword.Trimmed, limit)
			if err == nil {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			a.log.Warn("category search failed",
				zap.Stringer("category", category),
				zap.String("keyword", keyword.Trimmed),
				zap.Error(err))
			a.metrics.ObserveCategoryFailure(category.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}
	if err := ctx.Err(); err != nil {
		return Results{}, err
	}
	return results, nil
}

// SearchCategory fetches one category with the larger category bound, for
// the "more" page.
func (a *Aggregator) SearchCategory(ctx context.Context, keyword Keyword, category Category) (Results, error) {
	results := Results{Keyword: keyword}
	if err := a.fetch(ctx, &results, category, keyword.Trimmed, a.categoryLimit); err != nil {
		return Results{}, fmt.Errorf("failed to search %s: %w", category, err)
	}
	return results, nil
}

// SearchConversation lists the messages of one conversation matching
// keyword.
func (a *Aggregator) SearchConversation(ctx context.Context, conversationID string, keyword Keyword) ([]Result, error) {
	matches, err := a.conversations.SearchMessages(ctx, conversationID, keyword.Trimmed, a.categoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search conversation %s: %w", conversationID, err)
	}
	now := a.now()
	rows := make([]Result, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, NewMessageResult(m, keyword.Trimmed, now))
	}
	return rows, nil
}

// fetch writes only the field that belongs to category, so concurrent
// calls for different categories don't race.
func (a *Aggregator) fetch(ctx context.Context, out *Results, category Category, keyword string, limit int) error {
	switch category {
	case CategoryAsset:
		assets, err := a.assets.SearchAssets(ctx, keyword, limit)
		if err != nil {
			return err
		}
		rows := make([]AssetResult, 0, len(assets))
		for _, asset := range assets {
			rows = append(rows, NewAssetResult(asset, keyword))
		}
		out.Assets = rows
	case CategoryUser:
		users, err := a.users.SearchUsers(ctx, keyword, limit)
		if err != nil {
			return err
		}
		rows := make([]Result, 0, len(users))
		for _, u := range users {
			rows = append(rows, NewUserResult(u, keyword))
		}
		out.Users = rows
	case CategoryConversationByName:
		conversations, err := a.conversations.SearchConversationsByName(ctx, keyword, limit)
		if err != nil {
			return err
		}
		rows := make([]Result, 0, len(conversations))
		for _, c := range conversations {
			rows = append(rows, NewConversationResult(c, keyword))
		}
		out.ConversationsByName = rows
	case CategoryConversationByMessage:
		matches, err := a.conversations.SearchConversationsByMessage(ctx, keyword, limit)
		if err != nil {
			return err
		}
		rows := make([]Result, 0, len(matches))
		for _, m := range matches {
			rows = append(rows, NewConversationMessageResult(m, keyword))
		}
		out.ConversationsByMessage = rows
	default:
		return errUnknownCategory(category)
	}
	return nil
}

var ErrUnknownCategory = errors.New("unknown search category")

func errUnknownCategory(c Category) error {
	return fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
}
