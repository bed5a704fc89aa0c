// =============================================================================
// selector.go - ベスト記事選定
// =============================================================================
//
// フィードの先頭数件（デフォルト3件）から本文が最も長いエントリを選び、
// ArticleRecord に変換します。
//
// 【選定基準】
//   有料記事のフィードは本文を短いティーザーに切り詰めて配信する。
//   全文を配信しているエントリほどスコアが高い。
//
// =============================================================================
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// ErrNoEntries はフィードにエントリが1件もないことを示す
var ErrNoEntries = errors.New("feed has no entries")

const (
	unknownAuthor = "Unknown"
	unknownSource = "Source"
)

// candidate はスコアリング対象のエントリ
type candidate struct {
	entry FeedEntry
	body  string
	score int
}

// SelectBest はフィードを取得してベスト記事を返す
//
// 戻り値のエラー:
//   - ErrNoEntries: エントリ0件（errors.Is で判定）
//   - それ以外:     取得・パースの失敗（URL付きでラップ済み）
func SelectBest(ctx context.Context, fetcher FeedFetcher, feedURL string, window int) (ArticleRecord, error) {
	feed, err := fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return ArticleRecord{}, fmt.Errorf("fetching %s: %w", feedURL, err)
	}

	best, body, ok := pickLongest(feed.Entries, window)
	if !ok {
		return ArticleRecord{}, fmt.Errorf("%s: %w", feedURL, ErrNoEntries)
	}

	author := best.Author
	if author == "" {
		author = unknownAuthor
	}

	return ArticleRecord{
		Source:   sourceName(feed),
		Title:    best.Title,
		Author:   author,
		BodyText: SanitizeHTML(body),
		Image:    ExtractImage(best),
	}, nil
}

// pickLongest は先頭 window 件のうち本文が最長のエントリを返す
//
// スコアは未サニタイズ本文の文字数。同点の場合はフィード内で先に出現した方。
// window <= 0 の場合は全エントリを対象にする。
func pickLongest(entries []FeedEntry, window int) (FeedEntry, string, bool) {
	if window <= 0 || window > len(entries) {
		window = len(entries)
	}
	if window == 0 {
		return FeedEntry{}, "", false
	}

	cands := make([]candidate, 0, window)
	for _, e := range entries[:window] {
		body, _ := e.RawBody()
		cands = append(cands, candidate{
			entry: e,
			body:  body,
			score: utf8.RuneCountInString(body),
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})
	return cands[0].entry, cands[0].body, true
}

// sourceName はフィードのタイトル（なければ "Source"）
func sourceName(feed *Feed) string {
	if feed.Title != "" {
		return feed.Title
	}
	return unknownSource
}
