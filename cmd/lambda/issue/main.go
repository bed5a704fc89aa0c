// =============================================================================
// Lambda: build-issue
// =============================================================================
//
// フィードから週刊イシューを組み立て、レスポンスとして返すLambda関数
//
// 環境変数:
//   - SOURCES_FILE:   フィード一覧のJSONファイル (任意、デフォルト: 組み込みの一覧)
//   - ISSUE_LOCATION: メタデータの発行地 (任意、デフォルト: West Hollywood)
//   - ISSUE_SEED:     乱数シード (任意、0 または未設定で現在時刻)
//   - OUT_FILE:       イシューJSONの書き出し先 (任意、例: /tmp/weeklyIssue.json)
//   - LOG_LEVEL:      ログレベル (任意)
//
// =============================================================================
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"weekly-issue/internal/pipeline"
)

// LambdaConfig は環境変数から読み込む設定
type LambdaConfig struct {
	SourcesFile string
	Location    string
	Seed        uint64
	OutFile     string
	LogLevel    string
}

// Response はLambdaレスポンス
type Response struct {
	StatusCode int                     `json:"statusCode"`
	Message    string                  `json:"message"`
	Issue      *pipeline.IssueDocument `json:"issue,omitempty"`
	Errors     []string                `json:"errors,omitempty"`
}

// Handler はLambdaのメインハンドラー
func Handler(ctx context.Context, event interface{}) (Response, error) {
	log := pipeline.Logger()
	log.Info("Starting build-issue Lambda...")

	cfg := loadConfig()
	if err := pipeline.SetLogLevel(cfg.LogLevel); err != nil {
		log.Warnf("ignoring LOG_LEVEL: %v", err)
	}

	sources := pipeline.DefaultSources()
	if cfg.SourcesFile != "" {
		sc, err := pipeline.LoadSourcesFile(cfg.SourcesFile)
		if err != nil {
			return Response{StatusCode: 400, Message: err.Error()}, err
		}
		sources = sc
	}

	issueCfg := pipeline.DefaultIssueConfig()
	if cfg.Location != "" {
		issueCfg.Location = cfg.Location
	}
	issueCfg.Seed = cfg.Seed
	seed := issueCfg.SeedOr(time.Now())
	log.Infof("Config: sourcesFile=%q location=%q seed=%d", cfg.SourcesFile, issueCfg.Location, seed)

	rng := rand.New(rand.NewPCG(seed, seed))
	assembler := pipeline.NewAssembler(pipeline.NewFetcher(pipeline.DefaultFetchConfig()), issueCfg, rng)
	report := assembler.Build(ctx, sources)

	if cfg.OutFile != "" {
		if err := pipeline.WriteIssue(cfg.OutFile, report.Issue); err != nil {
			log.Errorf("Error writing issue: %v", err)
			return Response{StatusCode: 500, Message: err.Error(), Errors: report.Errors}, err
		}
	}

	return Response{
		StatusCode: 200,
		Message: fmt.Sprintf("Built %s: %d features, %d briefing items, %d art images (%d feed errors)",
			report.Issue.Meta.IssueNo, len(report.Issue.SecondaryFeatures),
			len(report.Issue.DailyBriefing), len(report.Issue.ArtInterstitials), len(report.Errors)),
		Issue:  report.Issue,
		Errors: report.Errors,
	}, nil
}

// loadConfig は環境変数から設定を読み込む
func loadConfig() LambdaConfig {
	var seed uint64
	if s := os.Getenv("ISSUE_SEED"); s != "" {
		if val, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = val
		}
	}

	return LambdaConfig{
		SourcesFile: os.Getenv("SOURCES_FILE"),
		Location:    os.Getenv("ISSUE_LOCATION"),
		Seed:        seed,
		OutFile:     os.Getenv("OUT_FILE"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}
}

func main() {
	lambda.Start(Handler)
}
