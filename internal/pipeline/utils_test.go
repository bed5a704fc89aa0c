package pipeline

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalIssueJSON_KeepsHTML(t *testing.T) {
	b, err := marshalIssueJSON(BriefingItem{
		Headline: "Tom & Jerry <3",
		Source:   "Kottke",
		Link:     "https://kottke.org/?a=1&b=2",
	})
	require.NoError(t, err)
	assert.Equal(t, "{\n"+
		"  \"headline\": \"Tom & Jerry <3\",\n"+
		"  \"source\": \"Kottke\",\n"+
		"  \"link\": \"https://kottke.org/?a=1&b=2\"\n"+
		"}", string(b))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "hello world", normalizeWhitespace("  hello \t\n  world  "))
	assert.Equal(t, "", normalizeWhitespace(" \n "))
}

func TestSetLogLevel(t *testing.T) {
	defer logger.SetLevel(logrus.InfoLevel)

	require.NoError(t, SetLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	assert.Error(t, SetLogLevel("loud"))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestFeedWarnf(t *testing.T) {
	var buf bytes.Buffer
	l := logger
	logger = newLogger(&buf)
	defer func() { logger = l }()

	feedWarnf("https://feed.example/rss", assert.AnError, "error parsing feed, skipping")

	out := buf.String()
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "url=\"https://feed.example/rss\"")
	assert.Contains(t, out, "error parsing feed, skipping")
}
