package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves fixture feeds keyed by URL.
type fakeFetcher struct {
	feeds map[string]*Feed
	errs  map[string]error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		feeds: map[string]*Feed{},
		errs:  map[string]error{},
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, feedURL string) (*Feed, error) {
	f.calls = append(f.calls, feedURL)
	if err, ok := f.errs[feedURL]; ok {
		return nil, err
	}
	if feed, ok := f.feeds[feedURL]; ok {
		return feed, nil
	}
	return nil, fmt.Errorf("unexpected status: %d", 404)
}

func entryWithBody(title string, n int) FeedEntry {
	return FeedEntry{
		Title:   title,
		Link:    "https://example.com/" + title,
		Content: []ContentBlock{{Value: strings.Repeat("a", n)}},
	}
}

func TestSelectBest_PicksLongest(t *testing.T) {
	ff := newFakeFetcher()
	ff.feeds["https://example.com/feed"] = &Feed{
		Title: "Example",
		Entries: []FeedEntry{
			entryWithBody("short", 100),
			entryWithBody("long", 500),
			entryWithBody("medium", 300),
		},
	}

	rec, err := SelectBest(context.Background(), ff, "https://example.com/feed", 3)
	require.NoError(t, err)
	assert.Equal(t, "long", rec.Title)
	assert.Equal(t, "Example", rec.Source)
	assert.Len(t, rec.BodyText, 500)
}

func TestSelectBest_TieKeepsFeedOrder(t *testing.T) {
	ff := newFakeFetcher()
	ff.feeds["u"] = &Feed{
		Entries: []FeedEntry{
			entryWithBody("first", 10),
			entryWithBody("second", 200),
			entryWithBody("third", 200),
		},
	}

	rec, err := SelectBest(context.Background(), ff, "u", 3)
	require.NoError(t, err)
	assert.Equal(t, "second", rec.Title)
}

func TestSelectBest_OnlyFirstWindowConsidered(t *testing.T) {
	ff := newFakeFetcher()
	ff.feeds["u"] = &Feed{
		Entries: []FeedEntry{
			entryWithBody("a", 10),
			entryWithBody("b", 20),
			entryWithBody("c", 30),
			entryWithBody("d", 10000),
		},
	}

	rec, err := SelectBest(context.Background(), ff, "u", 3)
	require.NoError(t, err)
	assert.Equal(t, "c", rec.Title)
}

func TestSelectBest_ContentPreferredOverSummary(t *testing.T) {
	ff := newFakeFetcher()
	ff.feeds["u"] = &Feed{
		Entries: []FeedEntry{
			{
				Title:   "teaser-with-content",
				Content: []ContentBlock{{Value: "tiny"}},
				Summary: strings.Repeat("s", 1000),
			},
			{
				Title:   "summary-only",
				Summary: strings.Repeat("s", 50),
			},
		},
	}

	rec, err := SelectBest(context.Background(), ff, "u", 3)
	require.NoError(t, err)
	assert.Equal(t, "summary-only", rec.Title)
	assert.Equal(t, strings.Repeat("s", 50), rec.BodyText)
}

func TestSelectBest_ScoresCharactersNotBytes(t *testing.T) {
	ff := newFakeFetcher()
	ff.feeds["u"] = &Feed{
		Entries: []FeedEntry{
			{Title: "multibyte", Content: []ContentBlock{{Value: strings.Repeat("日", 10)}}},
			{Title: "ascii", Content: []ContentBlock{{Value: strings.Repeat("a", 20)}}},
		},
	}

	rec, err := SelectBest(context.Background(), ff, "u", 3)
	require.NoError(t, err)
	assert.Equal(t, "ascii", rec.Title)
}

func TestSelectBest_Defaults(t *testing.T) {
	ff := newFakeFetcher()
	ff.feeds["u"] = &Feed{
		Entries: []FeedEntry{
			{Title: "No Author"},
		},
	}

	rec, err := SelectBest(context.Background(), ff, "u", 3)
	require.NoError(t, err)
	assert.Equal(t, "Source", rec.Source)
	assert.Equal(t, "Unknown", rec.Author)
	assert.Equal(t, "", rec.BodyText)
	assert.Equal(t, PlaceholderImage, rec.Image)
}

func TestSelectBest_BuildsRecord(t *testing.T) {
	ff := newFakeFetcher()
	ff.feeds["u"] = &Feed{
		Title: "User Mag",
		Entries: []FeedEntry{
			{
				Title:   "The Big One",
				Author:  "Taylor",
				Content: []ContentBlock{{Value: `<p>Hi</p><img src="//cdn.example.com/a.jpg" style="x"><div class="subscription-widget">Subscribe</div>`}},
			},
		},
	}

	rec, err := SelectBest(context.Background(), ff, "u", 3)
	require.NoError(t, err)
	assert.Equal(t, ArticleRecord{
		Source:   "User Mag",
		Title:    "The Big One",
		Author:   "Taylor",
		BodyText: `<p>Hi</p><img src="https://cdn.example.com/a.jpg" class="article-image"/>`,
		Image:    "//cdn.example.com/a.jpg",
	}, rec)
}

func TestSelectBest_NoEntries(t *testing.T) {
	ff := newFakeFetcher()
	ff.feeds["u"] = &Feed{Title: "Empty"}

	_, err := SelectBest(context.Background(), ff, "u", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEntries))
}

func TestSelectBest_FetchError(t *testing.T) {
	ff := newFakeFetcher()
	ff.errs["u"] = errors.New("request failed: connection refused")

	_, err := SelectBest(context.Background(), ff, "u", 3)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoEntries))
	assert.Contains(t, err.Error(), "u")
}

func TestPickLongest_WindowBounds(t *testing.T) {
	entries := []FeedEntry{entryWithBody("a", 1), entryWithBody("b", 2)}

	best, _, ok := pickLongest(entries, 10)
	require.True(t, ok)
	assert.Equal(t, "b", best.Title)

	best, _, ok = pickLongest(entries, 0)
	require.True(t, ok)
	assert.Equal(t, "b", best.Title)

	_, _, ok = pickLongest(nil, 3)
	assert.False(t, ok)
}
