// =============================================================================
// issue.go - 週刊イシューの組版
// =============================================================================
//
// 4つのカテゴリのフィードから IssueDocument を組み立てます。
//
// 【処理フロー】
//   1. カバーストーリー: カバーフィード1本からベスト記事を選定
//   2. 特集:             特集フィードをシャッフルして先頭5本からベスト記事を選定
//   3. ブリーフィング:   各フィードの先頭5件を集めてシャッフルし10件に絞る
//   4. アート:           各フィードの先頭3件の画像を集め、プレースホルダーを除外して5件に絞る
//
// 【エラー処理】
//   フィード単位の失敗はログに出して IssueReport.Errors に記録し、
//   そのフィードは何も寄与しない。処理全体は継続する。
//
// 乱数（*rand.Rand）と時計を注入できるので、同じシード・同じフィード内容なら
// 同じ IssueDocument が得られる。
//
// =============================================================================
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Assembler は IssueDocument を組み立てる
type Assembler struct {
	fetcher FeedFetcher
	cfg     IssueConfig
	rng     *rand.Rand
	now     func() time.Time
}

// IssueReport は組版結果と失敗したフィードの一覧
type IssueReport struct {
	Issue  *IssueDocument
	Errors []string
}

func (r *IssueReport) addError(feedURL string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("[ERROR] %s: %v", feedURL, err))
}

// NewAssembler は新しい Assembler を作成する
func NewAssembler(fetcher FeedFetcher, cfg IssueConfig, rng *rand.Rand) *Assembler {
	return &Assembler{
		fetcher: fetcher,
		cfg:     cfg,
		rng:     rng,
		now:     time.Now,
	}
}

// WithClock は日付の取得に使う時計を差し替える（テスト用）
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Build はイシューを組み立てる
func (a *Assembler) Build(ctx context.Context, sources SourceConfig) *IssueReport {
	report := &IssueReport{}
	doc := newIssueDocument(buildMeta(a.now(), a.cfg.Location))

	infof("🗞️  Starting the presses (%s)...", doc.Meta.IssueNo)

	// --- 1) Cover story ---
	infof("Fetching deepest story from cover feed...")
	if sources.CoverStory == "" {
		warnf("no cover feed configured")
	} else if rec, ok := a.selectArticle(ctx, sources.CoverStory, report); ok {
		doc.CoverStory = &rec
	}

	// --- 2) Secondary features ---
	infof("Selecting %d deep reads from %d feature feeds...", a.cfg.SecondaryCount, len(sources.SecondaryFeatures))
	for _, u := range Sample(sources.SecondaryFeatures, a.cfg.SecondaryCount, a.rng) {
		if rec, ok := a.selectArticle(ctx, u, report); ok {
			doc.SecondaryFeatures = append(doc.SecondaryFeatures, rec)
		}
	}

	// --- 3) Daily briefing ---
	infof("Compiling daily briefing...")
	pool := a.briefingPool(ctx, sources.DailyBriefing, report)
	doc.DailyBriefing = Sample(pool, a.cfg.BriefingSize, a.rng)

	// --- 4) Art interstitials ---
	infof("Curating art gallery...")
	art := a.artPool(ctx, sources.ArtFeeds, report)
	doc.ArtInterstitials = Sample(art, a.cfg.ArtSize, a.rng)

	if len(report.Errors) > 0 {
		warnf("%d feed(s) failed:", len(report.Errors))
		for _, e := range report.Errors {
			warnf("  %s", e)
		}
	}
	infof("Issue assembled: cover=%t features=%d briefing=%d (pool %d) art=%d (pool %d)",
		doc.CoverStory != nil, len(doc.SecondaryFeatures),
		len(doc.DailyBriefing), len(pool), len(doc.ArtInterstitials), len(art))

	report.Issue = doc
	return report
}

// selectArticle は SelectBest の結果を振り分ける
func (a *Assembler) selectArticle(ctx context.Context, feedURL string, report *IssueReport) (ArticleRecord, bool) {
	rec, err := SelectBest(ctx, a.fetcher, feedURL, a.cfg.CandidateWindow)
	switch {
	case err == nil:
		return rec, true
	case errors.Is(err, ErrNoEntries):
		feedWarnf(feedURL, err, "feed has no entries, skipping")
	default:
		feedWarnf(feedURL, err, "error parsing feed, skipping")
	}
	report.addError(feedURL, err)
	return ArticleRecord{}, false
}

// fetchFeed は取得に失敗したフィードを記録して nil を返す
func (a *Assembler) fetchFeed(ctx context.Context, feedURL string, report *IssueReport) *Feed {
	feed, err := a.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		feedWarnf(feedURL, err, "error fetching feed, skipping")
		report.addError(feedURL, err)
		return nil
	}
	return feed
}

// briefingPool は各フィードの先頭 BriefingPerFeed 件を見出しにする
//
// タイトルが空のエントリも1件として数える。
func (a *Assembler) briefingPool(ctx context.Context, urls []string, report *IssueReport) []BriefingItem {
	var pool []BriefingItem
	for _, u := range urls {
		feed := a.fetchFeed(ctx, u, report)
		if feed == nil {
			continue
		}
		src := sourceName(feed)
		for _, e := range headEntries(feed.Entries, a.cfg.BriefingPerFeed) {
			pool = append(pool, BriefingItem{
				Headline: normalizeWhitespace(e.Title),
				Source:   src,
				Link:     e.Link,
			})
		}
	}
	return pool
}

// artPool は各フィードの先頭 ArtPerFeed 件から画像URLを集める
//
// プレースホルダーに落ちたエントリは除外する。
func (a *Assembler) artPool(ctx context.Context, urls []string, report *IssueReport) []string {
	var pool []string
	for _, u := range urls {
		feed := a.fetchFeed(ctx, u, report)
		if feed == nil {
			continue
		}
		for _, e := range headEntries(feed.Entries, a.cfg.ArtPerFeed) {
			if img := ExtractImage(e); !IsPlaceholder(img) {
				pool = append(pool, img)
			}
		}
	}
	return pool
}

// headEntries は先頭 n 件を返す
func headEntries(entries []FeedEntry, n int) []FeedEntry {
	if n < 0 {
		n = 0
	}
	return entries[:min(n, len(entries))]
}

// buildMeta はイシューのメタデータを作る
//
//	issueNo: "Vol. {ISO年}.{ISO週番号}"
//	date:    "Sunday, October 18"
func buildMeta(now time.Time, location string) IssueMeta {
	if location == "" {
		location = DefaultLocation
	}
	year, week := now.ISOWeek()
	return IssueMeta{
		IssueNo:  fmt.Sprintf("Vol. %d.%d", year, week),
		Date:     now.Format("Monday, January 02"),
		Location: location,
	}
}

// WriteIssue はイシューを2スペースインデントのJSONでファイルに書き出す
//
// 既存ファイルは上書きする。
func WriteIssue(path string, doc *IssueDocument) error {
	if err := writeJSONFile(path, doc); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
