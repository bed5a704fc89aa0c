// =============================================================================
// config.go - パイプライン設定
// =============================================================================
//
// このファイルはCLIフラグの解析と設定管理を行います。
//
// 【設定グループ】
//   - SourceConfig: フィードURL（4カテゴリ）
//   - FetchConfig:  HTTP取得設定（fetcher.go）
//   - IssueConfig:  イシュー組版の件数・ロケーション・シード
//   - OutputConfig: 出力設定
//
// =============================================================================
package pipeline

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// =============================================================================
// 設定構造体
// =============================================================================

// PipelineConfig はパイプラインの全設定を保持する
type PipelineConfig struct {
	Sources     SourceConfig
	SourcesFile string
	Fetch       FetchConfig
	Issue       IssueConfig
	Output      OutputConfig
}

// SourceConfig はカテゴリ別のフィードURL
//
// JSONキーは -sources ファイルの形式と一致する。
type SourceConfig struct {
	CoverStory        string   `json:"cover_story"`
	SecondaryFeatures []string `json:"secondary_features"`
	DailyBriefing     []string `json:"daily_briefing"`
	ArtFeeds          []string `json:"art_feeds"`
}

// IssueConfig はイシュー組版に関する設定
type IssueConfig struct {
	// Location はメタデータに載せる発行地
	Location string

	// Seed は乱数シード（0 の場合は現在時刻から生成）
	Seed uint64

	// CandidateWindow はベスト記事選定で比較する先頭エントリ数
	CandidateWindow int

	// SecondaryCount は特集記事の最大数
	SecondaryCount int

	// BriefingPerFeed / BriefingSize はブリーフィングのフィード毎件数と総数
	BriefingPerFeed int
	BriefingSize    int

	// ArtPerFeed / ArtSize はアート画像のフィード毎件数と総数
	ArtPerFeed int
	ArtSize    int
}

// OutputConfig は出力に関する設定
type OutputConfig struct {
	// OutFile は出力JSONのパス（毎回上書き）
	OutFile string

	// LogFile が指定された場合、ログをローテーション付きでファイルにも書く
	LogFile string

	// LogLevel は logrus のレベル名
	LogLevel string
}

// DefaultLocation はメタデータの既定の発行地
const DefaultLocation = "West Hollywood"

// DefaultOutFile は出力ファイル名
const DefaultOutFile = "weeklyIssue.json"

// DefaultIssueConfig はデフォルトの組版設定を返す
func DefaultIssueConfig() IssueConfig {
	return IssueConfig{
		Location:        DefaultLocation,
		CandidateWindow: 3,
		SecondaryCount:  5,
		BriefingPerFeed: 5,
		BriefingSize:    10,
		ArtPerFeed:      3,
		ArtSize:         5,
	}
}

// DefaultSources はデフォルトのフィード一覧を返す
//
// 呼び出し毎に新しいスライスを返すので、呼び出し側で変更しても安全。
func DefaultSources() SourceConfig {
	return SourceConfig{
		CoverStory: "https://taylorlorenz.substack.com/feed",
		SecondaryFeatures: []string{
			"https://mtdeco.substack.com/feed",
			"https://1234kyle5678.substack.com/feed",
			"https://embedded.substack.com/feed",
			"https://zine.kleinkleinklein.com/feed",
			"https://newsletter.danhon.com/rss",
			"https://afterschool.substack.com/feed",
			"https://louderback.com/blog/feed",
			"https://coolshinyculture.substack.com/feed",
			"https://melzog.substack.com/feed",
			"https://www.readtpa.com/feed",
			"https://www.phonetime.news/rss",
			"https://www.hardresetmedia.com/rss",
		},
		DailyBriefing: []string{
			"https://www.wired.com/feed/rss",
			"http://www.theverge.com/rss/index.xml",
			"https://feeds.kottke.org/main",
		},
		ArtFeeds: []string{
			"https://openrss.org/bsky.app/profile/ranaroth.bsky.social",
			"https://openrss.org/bsky.app/profile/scifiart.bsky.social",
			"https://mastodon.world/@librarianRA.rss",
			"https://openrss.org/bsky.app/profile/thatsgoodweb.bsky.social",
			"https://obsoletesony.com/feed",
			"https://openrss.org/bsky.app/profile/tommysiegel.bsky.social",
			"https://openrss.org/bsky.app/profile/ellisjrosen.bsky.social",
			"https://mastodon.world/@exocomics.rss",
			"https://mastodon.social/@warandpeas.rss",
		},
	}
}

// LoadSourcesFile はJSONファイルからフィード一覧を読み込む
//
// ファイル形式:
//
//	{
//	  "cover_story": "https://...",
//	  "secondary_features": ["https://..."],
//	  "daily_briefing": ["https://..."],
//	  "art_feeds": ["https://..."]
//	}
func LoadSourcesFile(path string) (SourceConfig, error) {
	var sc SourceConfig
	if err := readJSONFile(path, &sc); err != nil {
		return SourceConfig{}, fmt.Errorf("reading sources file %s: %w", path, err)
	}
	if sc.CoverStory == "" && len(sc.SecondaryFeatures) == 0 &&
		len(sc.DailyBriefing) == 0 && len(sc.ArtFeeds) == 0 {
		return SourceConfig{}, fmt.Errorf("sources file %s: no feeds configured", path)
	}
	return sc, nil
}

// =============================================================================
// フラグ解析
// =============================================================================

// ParseFlags はCLIフラグを解析してPipelineConfigを返す
//
// -sources が指定された場合はファイルの内容でデフォルトを置き換える。
func ParseFlags() (*PipelineConfig, error) {
	return parseFlagSet(flag.CommandLine, os.Args[1:])
}

func parseFlagSet(fs *flag.FlagSet, args []string) (*PipelineConfig, error) {
	cfg := &PipelineConfig{
		Sources: DefaultSources(),
		Fetch:   DefaultFetchConfig(),
		Issue:   DefaultIssueConfig(),
	}

	// Input flags
	fs.StringVar(&cfg.SourcesFile, "sources", "", "optional: JSON file with cover_story/secondary_features/daily_briefing/art_feeds")

	// Fetch flags
	fs.DurationVar(&cfg.Fetch.Timeout, "timeout", cfg.Fetch.Timeout, "HTTP timeout per feed")
	fs.StringVar(&cfg.Fetch.UserAgent, "userAgent", cfg.Fetch.UserAgent, "User-Agent header for feed requests")
	fs.DurationVar(&cfg.Fetch.MinInterval, "minInterval", cfg.Fetch.MinInterval, "minimum interval between feed requests (0 disables)")

	// Issue flags
	fs.StringVar(&cfg.Issue.Location, "location", cfg.Issue.Location, "location label in issue metadata")
	fs.Uint64Var(&cfg.Issue.Seed, "seed", 0, "random seed for sampling (0 = from clock)")

	// Output flags
	fs.StringVar(&cfg.Output.OutFile, "out", DefaultOutFile, "output JSON path (overwritten)")
	fs.StringVar(&cfg.Output.LogFile, "logFile", "", "optional: also write logs to this rotating file")
	fs.StringVar(&cfg.Output.LogLevel, "logLevel", "", "log level: debug|info|warn|error (default from LOG_LEVEL or info)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.SourcesFile != "" {
		sc, err := LoadSourcesFile(cfg.SourcesFile)
		if err != nil {
			return nil, err
		}
		cfg.Sources = sc
	}
	return cfg, nil
}

// SeedOr は設定のシードを返す（0 なら now から生成）
func (c IssueConfig) SeedOr(now time.Time) uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(now.UnixNano())
}
