// =============================================================================
// sanitize.go - 本文HTMLのクリーンアップ
// =============================================================================
//
// 記事本文（HTML断片）から購読ウィジェットを取り除き、画像タグを正規化します。
//
// 【処理内容】
//   1. HTML断片として寛容にパース（壊れたHTMLでもエラーにしない）
//   2. .subscription-widget を持つ要素を削除
//   3. <img> の style 属性を削除し、class を "article-image" に統一
//   4. "//" で始まる src を "https://" に書き換え
//
// 出力を再度通しても結果は変わらない（冪等）。
//
// =============================================================================
package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// subscriptionWidgetSelector は削除対象の購読ウィジェット
	subscriptionWidgetSelector = ".subscription-widget"

	// ArticleImageClass はサニタイズ後の <img> に付与するクラス
	ArticleImageClass = "article-image"
)

// SanitizeHTML は本文HTMLをクリーンアップして返す
//
// パースに失敗した場合は入力をそのまま返す。
func SanitizeHTML(raw string) string {
	root, err := parseFragment(raw)
	if err != nil {
		return raw
	}

	doc := goquery.NewDocumentFromNode(root)

	// Remove "Subscribe" blocks often found in newsletter footers
	doc.Find(subscriptionWidgetSelector).Remove()

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		img.RemoveAttr("style")
		img.SetAttr("class", ArticleImageClass)
		if src, ok := img.Attr("src"); ok && strings.HasPrefix(src, "//") {
			img.SetAttr("src", "https:"+src)
		}
	})

	out, err := doc.Html()
	if err != nil {
		return raw
	}
	return out
}

// parseFragment は <body> 内の断片としてパースし、ダミーの <body> 要素の子として返す
//
// html.Parse だと <html><head><body> が補完されるため ParseFragment を使う。
func parseFragment(raw string) (*html.Node, error) {
	root := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(raw), root)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}
