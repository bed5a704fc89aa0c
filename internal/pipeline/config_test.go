package pipeline

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("weekly-issue", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeSources(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSourcesFile(t *testing.T) {
	path := writeSources(t, `{
		"cover_story": "https://cover.example/feed",
		"secondary_features": ["https://a.example/feed", "https://b.example/feed"],
		"daily_briefing": ["https://news.example/rss"],
		"art_feeds": []
	}`)

	sc, err := LoadSourcesFile(path)
	require.NoError(t, err)
	assert.Equal(t, SourceConfig{
		CoverStory:        "https://cover.example/feed",
		SecondaryFeatures: []string{"https://a.example/feed", "https://b.example/feed"},
		DailyBriefing:     []string{"https://news.example/rss"},
		ArtFeeds:          []string{},
	}, sc)
}

func TestLoadSourcesFile_Errors(t *testing.T) {
	_, err := LoadSourcesFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	_, err = LoadSourcesFile(writeSources(t, `{}`))
	assert.ErrorContains(t, err, "no feeds configured")

	_, err = LoadSourcesFile(writeSources(t, `[1, 2]`))
	assert.Error(t, err)
}

func TestParseFlagSet_Defaults(t *testing.T) {
	cfg, err := parseFlagSet(newTestFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSources(), cfg.Sources)
	assert.Equal(t, DefaultIssueConfig(), cfg.Issue)
	assert.Equal(t, DefaultFetchConfig(), cfg.Fetch)
	assert.Equal(t, DefaultOutFile, cfg.Output.OutFile)
	assert.Empty(t, cfg.Output.LogFile)
	assert.Len(t, cfg.Sources.SecondaryFeatures, 12)
	assert.Len(t, cfg.Sources.DailyBriefing, 3)
	assert.Len(t, cfg.Sources.ArtFeeds, 9)
}

func TestParseFlagSet_Overrides(t *testing.T) {
	path := writeSources(t, `{"cover_story": "https://only.example/feed"}`)

	cfg, err := parseFlagSet(newTestFlagSet(), []string{
		"-sources", path,
		"-out", "issue.json",
		"-seed", "7",
		"-location", "Silver Lake",
		"-timeout", "5s",
		"-minInterval", "0",
		"-logLevel", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://only.example/feed", cfg.Sources.CoverStory)
	assert.Empty(t, cfg.Sources.SecondaryFeatures)
	assert.Equal(t, "issue.json", cfg.Output.OutFile)
	assert.Equal(t, uint64(7), cfg.Issue.Seed)
	assert.Equal(t, "Silver Lake", cfg.Issue.Location)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Zero(t, cfg.Fetch.MinInterval)
	assert.Equal(t, "debug", cfg.Output.LogLevel)
}

func TestParseFlagSet_BadInput(t *testing.T) {
	_, err := parseFlagSet(newTestFlagSet(), []string{"-seed", "minus-one"})
	assert.Error(t, err)

	_, err = parseFlagSet(newTestFlagSet(), []string{"-sources", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestDefaultSources_ReturnsFreshSlices(t *testing.T) {
	a := DefaultSources()
	a.SecondaryFeatures[0] = "mutated"
	assert.NotEqual(t, "mutated", DefaultSources().SecondaryFeatures[0])
}

func TestSeedOr(t *testing.T) {
	now := time.Unix(0, 12345)
	assert.Equal(t, uint64(9), IssueConfig{Seed: 9}.SeedOr(now))
	assert.Equal(t, uint64(12345), IssueConfig{}.SeedOr(now))
}
