// =============================================================================
// main.go - 週刊イシュー生成パイプラインのエントリーポイント
// =============================================================================
//
// RSS/Atomフィードから1号分の「新聞」を組み立て、weeklyIssue.json に書き出す
// CLIツールです。1回の実行で1ファイル、サービスループはありません。
//
// =============================================================================
// 【処理フロー】
// =============================================================================
//
//   ┌─────────────┐    ┌─────────────┐    ┌─────────────┐
//   │  1. 設定    │ -> │  2. 組版    │ -> │  3. 出力    │
//   │  読み込み   │    │  Assembler  │    │  JSON保存   │
//   └─────────────┘    └─────────────┘    └─────────────┘
//          │                  │                  │
//          v                  v                  v
//   .env読み込み        カバー/特集/        weeklyIssue.json
//   CLIフラグ解析       ブリーフィング/     （毎回上書き）
//                       アート
//
// =============================================================================
// 【CLIフラグ一覧】
// =============================================================================
//
//   -out          出力JSONファイルパス（デフォルト: weeklyIssue.json）
//   -sources      フィード一覧のJSONファイル（省略時: 組み込みの一覧）
//   -seed         乱数シード（0 = 現在時刻）
//   -location     メタデータの発行地（デフォルト: West Hollywood）
//   -timeout      フィードごとのHTTPタイムアウト（デフォルト: 30s）
//   -userAgent    User-Agentヘッダー
//   -minInterval  リクエスト間の最小間隔（デフォルト: 250ms）
//   -logFile      ログをローテーション付きでファイルにも出力
//   -logLevel     ログレベル（環境変数 LOG_LEVEL でも指定可）
//
// =============================================================================
package main

import (
	"context"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv" // .env ファイル読み込み
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"weekly-issue/internal/pipeline"
)

func main() {
	log := pipeline.Logger()

	// .env ファイルから環境変数を読み込み
	// ファイルが存在しない場合は警告を出力するが、処理は続行する
	if err := godotenv.Load(); err != nil {
		log.Warnf(".env file not loaded: %v (using environment variables only)", err)
	}

	cfg, err := pipeline.ParseFlags()
	if err != nil {
		fatalf("parsing flags: %v", err)
	}

	level := cfg.Output.LogLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if err := pipeline.SetLogLevel(level); err != nil {
		fatalf("%v", err)
	}

	if cfg.Output.LogFile != "" {
		logFile := openLogFile(cfg.Output.LogFile)
		defer logFile.Close()
		// fatalf は os.Exit するため defer が走らない
		logrus.RegisterExitHandler(func() { logFile.Close() })
		pipeline.SetLogOutput(io.MultiWriter(os.Stdout, logFile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seed := cfg.Issue.SeedOr(time.Now())
	log.Infof("Random seed: %d (pass -seed=%d to reproduce)", seed, seed)

	rng := rand.New(rand.NewPCG(seed, seed))
	assembler := pipeline.NewAssembler(pipeline.NewFetcher(cfg.Fetch), cfg.Issue, rng)
	report := assembler.Build(ctx, cfg.Sources)

	if err := pipeline.WriteIssue(cfg.Output.OutFile, report.Issue); err != nil {
		fatalf("writing output: %v", err)
	}

	log.Infof("✅ DONE! '%s' has been generated.", cfg.Output.OutFile)
}

// openLogFile はローテーション付きのログファイルを返す（呼び出し側で Close する）
func openLogFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

// fatalf はエラーメッセージを出力してプログラムを終了する（exit 1）
func fatalf(format string, args ...any) {
	pipeline.Logger().Fatalf(format, args...)
}
