// =============================================================================
// sampling.go - ランダムサンプリング
// =============================================================================
//
// 特集フィード・ブリーフィング・アート画像の抽選に使う汎用ヘルパーです。
// 乱数（*rand.Rand）は呼び出し側から注入するので、同じシードなら同じ結果になる。
//
// =============================================================================
package pipeline

import "math/rand/v2"

// Sample は items をシャッフルしたコピーを先頭 n 件に切り詰めて返す
//
// items 自体は変更しない。戻り値は nil にならない。
// rng が nil の場合はグローバルな乱数源を使う。
func Sample[T any](items []T, n int, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng != nil {
		rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}

	if n < 0 {
		n = 0
	}
	if n < len(out) {
		out = out[:n]
	}
	return out
}
