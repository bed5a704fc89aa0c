// =============================================================================
// images.go - 代表画像の抽出
// =============================================================================
//
// エントリから代表画像のURLを1つ選びます。失敗することはありません。
//
// 【優先順位】
//   1. media:content の最初のURL
//   2. media:thumbnail の最初のURL
//   3. 本文（構造化コンテンツ）内の最初の <img src>
//   4. プレースホルダー画像
//
// =============================================================================
package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlaceholderImage は画像が見つからない場合のURL
const PlaceholderImage = "https://placehold.co/800x600/111/333?text=No+Image"

// placeholderMarker はアートギャラリーでプレースホルダーを除外する目印
const placeholderMarker = "placehold"

// ExtractImage はエントリの代表画像URLを返す
//
// URLは正規化しない（"//" で始まるURLもそのまま返す）。
func ExtractImage(entry FeedEntry) string {
	if u := firstMediaURL(entry.MediaContent); u != "" {
		return u
	}
	if u := firstMediaURL(entry.MediaThumbnail); u != "" {
		return u
	}
	if body, ok := entry.PrimaryContent(); ok {
		if u := firstImageSrc(body); u != "" {
			return u
		}
	}
	return PlaceholderImage
}

// IsPlaceholder はURLがプレースホルダー画像かどうかを判定する
func IsPlaceholder(u string) bool {
	return strings.Contains(u, placeholderMarker)
}

func firstMediaURL(media []Media) string {
	for _, m := range media {
		if u := strings.TrimSpace(m.URL); u != "" {
			return u
		}
	}
	return ""
}

// firstImageSrc はHTML断片内で最初の空でない <img src> を返す
func firstImageSrc(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src = strings.TrimSpace(img.AttrOr("src", ""))
		return src == ""
	})
	return src
}
