package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/mixsearch/internal/model"
)

func presenterFor(t *testing.T, src *fakeSources, raw string) *Presenter {
	t.Helper()
	agg := newTestAggregator(src, nil)
	keyword := NewKeyword(raw)
	results, err := agg.Search(context.Background(), keyword)
	require.NoError(t, err)
	return NewPresenter(results, keyword.MaybeIDOrPhone("US"), agg.ResultLimit())
}

func TestScenarioAnnShowsOnlyUsers(t *testing.T) {
	src := &fakeSources{users: []model.User{{ID: "u1", IdentityNumber: "7000101", FullName: "Anna"}}}
	p := presenterFor(t, src, "ann")

	assert.Equal(t, []Section{SectionUser}, p.Visible())
	assert.Equal(t, 1, p.RowCount(SectionUser))
	assert.True(t, p.IsFirst(SectionUser))
	assert.False(t, p.ShowsNumberLookup())

	header, ok := p.Header(SectionUser)
	require.True(t, ok)
	assert.Equal(t, Header{Title: "Contacts", IsFirst: true, ShowsMore: false}, header)

	for _, s := range []Section{SectionNumberLookup, SectionAsset, SectionGroup, SectionConversationByMessage} {
		assert.True(t, p.IsHidden(s), s.String())
		_, ok := p.Header(s)
		assert.False(t, ok, s.String())
	}

	row, err := p.Row(SectionUser, 0)
	require.NoError(t, err)
	rr := row.(ResultRow)
	assert.Equal(t, "Anna", rr.Result.Title.String())
	assert.Equal(t, []string{"Ann"}, rr.Result.Title.Highlights())
	assert.Nil(t, rr.Result.Description)
}

func TestScenario8610CapsUsersAndShowsMore(t *testing.T) {
	src := &fakeSources{users: numberedUsers(10)}
	p := presenterFor(t, src, "8610")

	assert.Equal(t, 3, p.RowCount(SectionUser))
	header, ok := p.Header(SectionUser)
	require.True(t, ok)
	assert.True(t, header.ShowsMore)
	assert.True(t, header.IsFirst)

	assert.False(t, p.ShowsNumberLookup(), "contacts matched, no remote lookup")

	category, err := p.More(SectionUser)
	require.NoError(t, err)
	assert.Equal(t, CategoryUser, category)
}

func TestBoundingAndMoreFlag(t *testing.T) {
	for count := 0; count <= 6; count++ {
		src := &fakeSources{assets: make([]model.Asset, count)}
		p := presenterFor(t, src, "btc")

		assert.LessOrEqual(t, p.RowCount(SectionAsset), min(3, count))
		assert.Equal(t, min(3, count), p.RowCount(SectionAsset))

		header, ok := p.Header(SectionAsset)
		if count == 0 {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)
		assert.Equal(t, count > 3, header.ShowsMore, "count %d", count)
	}
}

func TestNumberLookupGating(t *testing.T) {
	tests := []struct {
		keyword string
		users   int
		want    bool
	}{
		{"123", 0, false},
		{"12345", 0, true},
		{"12345", 1, false},
		{"+1800", 0, false},
		{"+8613800000001", 0, true},
		{"ann", 0, false},
	}

	for _, tt := range tests {
		src := &fakeSources{users: numberedUsers(tt.users)}
		p := presenterFor(t, src, tt.keyword)

		assert.Equal(t, tt.want, p.ShowsNumberLookup(), tt.keyword)
		assert.Equal(t, tt.want, !p.IsHidden(SectionNumberLookup), tt.keyword)
		if tt.want {
			assert.True(t, p.IsFirst(SectionNumberLookup))
			action, err := p.Select(SectionNumberLookup, 0)
			require.NoError(t, err)
			assert.Equal(t, LookupNumber{Keyword: NewKeyword(tt.keyword)}, action)
		}
	}
}

func TestIsFirstSkipsHiddenSections(t *testing.T) {
	src := &fakeSources{
		byName:    []model.Conversation{{ID: "c1", Category: model.CategoryGroup, Name: "Ann's group"}},
		byMessage: []model.ConversationMessageMatch{{ConversationID: "c2", Category: model.CategoryGroup, Name: "Team"}},
	}
	p := presenterFor(t, src, "ann")

	assert.True(t, p.IsFirst(SectionGroup))
	assert.False(t, p.IsFirst(SectionConversationByMessage))
	assert.False(t, p.IsFirst(SectionAsset))
	assert.Equal(t, []Section{SectionGroup, SectionConversationByMessage}, p.Visible())
}

func TestSelectResolvesDestinations(t *testing.T) {
	src := &fakeSources{
		assets: []model.Asset{{ID: "a1", Symbol: "ANN"}},
		users:  []model.User{{ID: "u1", FullName: "Anna"}},
		byName: []model.Conversation{{ID: "c1", Category: model.CategoryGroup, Name: "Annex"}},
		byMessage: []model.ConversationMessageMatch{
			{ConversationID: "c2", Category: model.CategoryContact, Name: "Bob", UserID: "u-bob"},
			{ConversationID: "c3", Category: model.CategoryGroup, Name: "Team"},
		},
	}
	p := presenterFor(t, src, "ann")
	keyword := NewKeyword("ann")

	tests := []struct {
		section Section
		row     int
		want    Destination
	}{
		{SectionAsset, 0, AssetDestination{AssetID: "a1"}},
		{SectionUser, 0, ContactDestination{UserID: "u1"}},
		{SectionGroup, 0, ConversationDestination{ConversationID: "c1"}},
		{SectionConversationByMessage, 0, ConversationSearchDestination{ConversationID: "c2", UserID: "u-bob", Keyword: keyword}},
		{SectionConversationByMessage, 1, ConversationSearchDestination{ConversationID: "c3", Keyword: keyword}},
	}
	for _, tt := range tests {
		action, err := p.Select(tt.section, tt.row)
		require.NoError(t, err)
		assert.Equal(t, Navigate{Destination: tt.want}, action, tt.section.String())
	}

	_, err := p.Select(SectionUser, 3)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	_, err = p.Select(SectionNumberLookup, 0)
	assert.ErrorIs(t, err, ErrRowOutOfRange)

	_, err = p.More(SectionUser)
	assert.ErrorIs(t, err, ErrNoMore)
	_, err = p.More(SectionNumberLookup)
	assert.ErrorIs(t, err, ErrNoMore)
}

func TestMessageHitDestination(t *testing.T) {
	dest, err := DestinationFor(MessageHitTarget{ConversationID: "c1", MessageID: "m1", IsData: true}, NewKeyword("x"))
	require.NoError(t, err)
	assert.Equal(t, MessageDestination{ConversationID: "c1", MessageID: "m1", IsData: true}, dest)

	_, err = DestinationFor(nil, NewKeyword("x"))
	assert.Error(t, err)

	_, err = ActionForRow(nil, NewKeyword("x"))
	assert.Error(t, err)
}
