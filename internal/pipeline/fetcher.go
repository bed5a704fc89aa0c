// =============================================================================
// fetcher.go - フィード取得
// =============================================================================
//
// RSS/Atom/JSON Feed を取得して Feed / FeedEntry に変換します。
// gofeed ライブラリでパースし、media:content / media:thumbnail は
// 拡張要素（Extensions["media"]）から読み取ります。
//
// 【失敗時の扱い】
//   ネットワークエラー・HTTPステータス異常・パース失敗はすべて error として返す。
//   呼び出し側（issue.go）はURL付きでログを出し、そのフィードをスキップする。
//   エントリ0件は正常な空フィードとして返す。
//
// =============================================================================
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// FeedFetcher はURLからフィードを取得する
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (*Feed, error)
}

// FetchConfig はフィード取得時の設定を保持
type FetchConfig struct {
	UserAgent   string        // HTTPリクエスト時のUser-Agentヘッダー
	Timeout     time.Duration // HTTPリクエストのタイムアウト時間
	MinInterval time.Duration // リクエスト間の最小間隔（0で無制限）
	Client      *http.Client  // 共有HTTPクライアント（nilなら Timeout から生成）
}

// DefaultFetchConfig はデフォルトの取得設定を返す
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		UserAgent:   "Mozilla/5.0 (compatible; weekly-issue/1.0; +https://example.invalid)",
		Timeout:     30 * time.Second, // 一部のフィードは遅い
		MinInterval: 250 * time.Millisecond,
	}
}

// Fetcher は FeedFetcher の HTTP 実装
//
// 1回の実行の間だけ成功したフィードをURL単位でキャッシュする。
// 同じURLが複数カテゴリに登録されていても取得は1回になる。
type Fetcher struct {
	cfg     FetchConfig
	client  *http.Client
	parser  *gofeed.Parser
	limiter *rate.Limiter
	memo    *cache.Cache
}

// NewFetcher は新しい Fetcher を作成する
func NewFetcher(cfg FetchConfig) *Fetcher {
	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Fetcher{
		cfg:     cfg,
		client:  client,
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(limit, 1),
		memo:    cache.New(cache.NoExpiration, 0),
	}
}

// Fetch は指定URLからフィードを取得してパースする
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (*Feed, error) {
	if cached, ok := f.memo.Get(feedURL); ok {
		return cached.(*Feed), nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}

	feed := convertFeed(parsed)
	f.memo.Set(feedURL, feed, cache.DefaultExpiration)
	logger.WithField("url", feedURL).Debugf("fetched %d entries", len(feed.Entries))
	return feed, nil
}

// -----------------------------------------------------------------------------
// gofeed → Feed 変換
// -----------------------------------------------------------------------------

func convertFeed(parsed *gofeed.Feed) *Feed {
	feed := &Feed{
		Title:   strings.TrimSpace(parsed.Title),
		Entries: make([]FeedEntry, 0, len(parsed.Items)),
	}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		feed.Entries = append(feed.Entries, convertItem(item))
	}
	return feed
}

// convertItem は gofeed.Item を FeedEntry に変換する
//
// Content は content:encoded（RSS）/ content（Atom）、
// Summary は description（RSS）/ summary（Atom）。
func convertItem(item *gofeed.Item) FeedEntry {
	entry := FeedEntry{
		Title:          strings.TrimSpace(item.Title),
		Author:         itemAuthor(item),
		Link:           strings.TrimSpace(item.Link),
		Summary:        item.Description,
		MediaContent:   mediaFromExtensions(item.Extensions, "content"),
		MediaThumbnail: mediaFromExtensions(item.Extensions, "thumbnail"),
	}
	if item.Content != "" {
		entry.Content = []ContentBlock{{Value: item.Content}}
	}
	return entry
}

func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil {
		if name := strings.TrimSpace(item.Author.Name); name != "" {
			return name
		}
	}
	for _, p := range item.Authors {
		if p == nil {
			continue
		}
		if name := strings.TrimSpace(p.Name); name != "" {
			return name
		}
	}
	return ""
}

// mediaFromExtensions は media:<name> の url 属性を集める
//
// media:group の中にネストされた要素も対象（Mastodon / YouTube 形式）。
// url 属性のない要素は無視する。
func mediaFromExtensions(exts ext.Extensions, name string) []Media {
	media, ok := exts["media"]
	if !ok {
		return nil
	}

	var out []Media
	add := func(elems []ext.Extension) {
		for _, m := range elems {
			if u := strings.TrimSpace(m.Attrs["url"]); u != "" {
				out = append(out, Media{URL: u})
			}
		}
	}

	add(media[name])
	for _, group := range media["group"] {
		add(group.Children[name])
	}
	return out
}
