// =============================================================================
// types.go - データ構造定義
// =============================================================================
//
// このファイルは週刊イシュー生成で使用するデータ構造（型）を定義します。
//
// 【このファイルで定義している型】
//   - Feed / FeedEntry: パース済みフィードとエントリ（取得元の順序を保持）
//   - ArticleRecord:    カバーストーリー・特集記事
//   - BriefingItem:     デイリーブリーフィングの見出し
//   - IssueDocument:    出力JSON（weeklyIssue.json）全体
//
// =============================================================================
package pipeline

// -----------------------------------------------------------------------------
// Feed / FeedEntry - フィードとエントリ
// -----------------------------------------------------------------------------

// Feed はパース済みのフィード
type Feed struct {
	Title   string      // フィードのタイトル（空 = 不明）
	Entries []FeedEntry // 配信元の順序のまま
}

// ContentBlock は構造化コンテンツの1ブロック（content:encoded / atom:content）
type ContentBlock struct {
	Value string
}

// Media は media:content / media:thumbnail 要素
type Media struct {
	URL string
}

// FeedEntry はフィードの1エントリ
//
// 任意フィールドは空値で「存在しない」を表す。
// 存在判定はアクセサ（PrimaryContent, RawBody）経由で行うこと。
type FeedEntry struct {
	Title          string
	Author         string // 空 = 著者なし
	Link           string
	Content        []ContentBlock
	Summary        string
	MediaContent   []Media
	MediaThumbnail []Media
}

// PrimaryContent は最初のコンテンツブロックの値を返す
func (e FeedEntry) PrimaryContent() (string, bool) {
	if len(e.Content) == 0 {
		return "", false
	}
	return e.Content[0].Value, true
}

// RawBody はスコアリング用の本文を返す
//
// 優先順位: 構造化コンテンツ → summary → なし
func (e FeedEntry) RawBody() (string, bool) {
	if body, ok := e.PrimaryContent(); ok {
		return body, true
	}
	if e.Summary != "" {
		return e.Summary, true
	}
	return "", false
}

// -----------------------------------------------------------------------------
// 出力レコード
// -----------------------------------------------------------------------------

// ArticleRecord はフィードから選ばれた1記事
type ArticleRecord struct {
	Source   string `json:"source"`   // フィードのタイトル
	Title    string `json:"title"`    // 記事タイトル
	Author   string `json:"author"`   // 著者（不明なら "Unknown"）
	BodyText string `json:"bodyText"` // サニタイズ済みHTML
	Image    string `json:"image"`    // 代表画像URL
}

// BriefingItem はデイリーブリーフィングの見出し
type BriefingItem struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Link     string `json:"link"`
}

// IssueMeta はイシューのメタデータ
type IssueMeta struct {
	IssueNo  string `json:"issueNo"`  // 例: "Vol. 2026.42"
	Date     string `json:"date"`     // 例: "Sunday, October 18"
	Location string `json:"location"` // 例: "West Hollywood"
}

// IssueDocument は weeklyIssue.json の全体
//
// CoverStory はカバーフィードが失敗した場合 nil（JSONでは null）。
// スライスは空でも [] として出力されるよう必ず非nilで初期化する。
type IssueDocument struct {
	Meta              IssueMeta       `json:"meta"`
	CoverStory        *ArticleRecord  `json:"coverStory"`
	SecondaryFeatures []ArticleRecord `json:"secondaryFeatures"`
	DailyBriefing     []BriefingItem  `json:"dailyBriefing"`
	ArtInterstitials  []string        `json:"artInterstitials"`
}

// newIssueDocument は空のスライスで初期化したドキュメントを返す
func newIssueDocument(meta IssueMeta) *IssueDocument {
	return &IssueDocument{
		Meta:              meta,
		SecondaryFeatures: []ArticleRecord{},
		DailyBriefing:     []BriefingItem{},
		ArtInterstitials:  []string{},
	}
}
