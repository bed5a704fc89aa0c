// =============================================================================
// utils.go - ユーティリティ関数
// =============================================================================
//
// このファイルはパイプライン全体で使用する汎用的なヘルパー関数を提供します。
//
// 【このファイルで提供する機能】
//   - ログ出力: 情報・警告メッセージ（logrus）
//   - JSON操作: ファイル読み書き（json-iterator）
//   - 文字列操作: 空白正規化
//
// =============================================================================
package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// -----------------------------------------------------------------------------
// ログ出力
// -----------------------------------------------------------------------------

// logger はパッケージ共通のロガー
//
// 進捗は標準出力へ（出力JSONはファイルに書くため stdout は空いている）。
var logger = newLogger(os.Stdout)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Logger はパッケージのロガーを返す（cmd 側で出力先やレベルを変更する用途）
func Logger() *logrus.Logger {
	return logger
}

// SetLogOutput はログの出力先を変更する
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLogLevel はレベル名（"debug", "info", "warn" ...）でログレベルを設定する
func SetLogLevel(level string) error {
	if level == "" {
		return nil
	}
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lv)
	return nil
}

// infof は情報メッセージを出力する
func infof(format string, args ...any) {
	logger.Infof(format, args...)
}

// warnf は警告メッセージを出力する
func warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

// feedWarnf はフィード単位の失敗をURL付きで出力する
func feedWarnf(feedURL string, err error, format string, args ...any) {
	logger.WithFields(logrus.Fields{
		"url":   feedURL,
		"error": err,
	}).Warnf(format, args...)
}

// -----------------------------------------------------------------------------
// JSON操作関数
// -----------------------------------------------------------------------------

// issueJSON はJSON入出力の設定
//
// bodyText にHTMLを含むため、< > & はエスケープしない。
var issueJSON = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// marshalIssueJSON は2スペースインデントでJSON化する
func marshalIssueJSON(v any) ([]byte, error) {
	return issueJSON.MarshalIndent(v, "", "  ")
}

// writeJSONFile は任意のデータをJSON形式でファイルに保存する
//
// 既存ファイルは上書きされる。
// 【ファイル権限】0o644 = 所有者は読み書き可、他は読み取りのみ
func writeJSONFile(path string, v any) error {
	b, err := marshalIssueJSON(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// readJSONFile はJSONファイルを読み込んで指定した型に変換する
func readJSONFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return issueJSON.Unmarshal(b, out)
}

// -----------------------------------------------------------------------------
// 文字列操作関数
// -----------------------------------------------------------------------------

// normalizeWhitespace は文字列内の連続する空白を単一スペースに正規化する
//
//	normalizeWhitespace("  hello   world  ")  // "hello world"
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
