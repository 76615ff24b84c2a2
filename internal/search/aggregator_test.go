package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Paintersrp/mixsearch/internal/metrics"
	"github.com/Paintersrp/mixsearch/internal/model"
)

func newTestAggregator(src *fakeSources, m *metrics.Metrics) *Aggregator {
	return NewAggregator(src, src, src, Options{
		ResultLimit:   3,
		CategoryLimit: 50,
		Logger:        zap.NewNop(),
		Metrics:       m,
		Now:           func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func TestAggregatorQueriesOneMoreThanLimit(t *testing.T) {
	src := &fakeSources{users: numberedUsers(10)}
	agg := newTestAggregator(src, nil)

	results, err := agg.Search(context.Background(), NewKeyword("8610"))
	require.NoError(t, err)

	assert.Equal(t, 4, agg.Limit())
	for _, name := range []string{"users", "assets", "by_name", "by_message"} {
		assert.Equal(t, 4, src.limit(name), name)
	}
	assert.Len(t, results.Users, 4)
	assert.Equal(t, "8610", results.Keyword.Trimmed)
}

func TestAggregatorDegradesFailedCategory(t *testing.T) {
	m := metrics.New()
	src := &fakeSources{
		users:  []model.User{{ID: "u1", FullName: "Anna"}},
		assets: []model.Asset{{ID: "a1", Symbol: "ANN"}},
		errs:   map[Category]error{CategoryConversationByMessage: errors.New("disk I/O error")},
	}
	agg := newTestAggregator(src, m)

	results, err := agg.Search(context.Background(), NewKeyword("ann"))
	require.NoError(t, err)

	assert.Len(t, results.Users, 1)
	assert.Len(t, results.Assets, 1)
	assert.Empty(t, results.ConversationsByMessage)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CategoryFailures.WithLabelValues(CategoryConversationByMessage.String())))
}

func TestAggregatorReturnsCancellation(t *testing.T) {
	src := &fakeSources{users: numberedUsers(2)}
	agg := newTestAggregator(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.Search(ctx, NewKeyword("user"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregatorSearchCategoryUsesCategoryLimit(t *testing.T) {
	src := &fakeSources{users: numberedUsers(60)}
	agg := newTestAggregator(src, nil)

	results, err := agg.SearchCategory(context.Background(), NewKeyword("8610"), CategoryUser)
	require.NoError(t, err)
	assert.Len(t, results.Users, 50)
	assert.Equal(t, 50, src.limit("users"))
	assert.Empty(t, results.Assets)

	src.errs = map[Category]error{CategoryAsset: errors.New("boom")}
	_, err = agg.SearchCategory(context.Background(), NewKeyword("x"), CategoryAsset)
	assert.Error(t, err)

	_, err = agg.SearchCategory(context.Background(), NewKeyword("x"), Category(42))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestAggregatorSearchConversation(t *testing.T) {
	src := &fakeSources{messages: []model.MessageMatch{
		{ConversationID: "c1", MessageID: "m1", Category: "PLAIN_TEXT", Content: "annual", CreatedAt: "2024-02-29T00:00:00Z", UserFullName: "Anna"},
		{ConversationID: "c2", MessageID: "m2", Category: "PLAIN_TEXT", Content: "annual"},
		{ConversationID: "c1", MessageID: "m3", Category: "PLAIN_DATA", Content: "annual.pdf"},
	}}
	agg := newTestAggregator(src, nil)

	rows, err := agg.SearchConversation(context.Background(), "c1", NewKeyword(" annual "))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "m1", rows[0].Target.(MessageHitTarget).MessageID)
	require.NotNil(t, rows[0].Superscript)
	assert.Equal(t, "1 day ago", *rows[0].Superscript)
	assert.True(t, rows[1].Target.(MessageHitTarget).IsData)
	assert.Equal(t, 50, src.limit("messages"))
}
