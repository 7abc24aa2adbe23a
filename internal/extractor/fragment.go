package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment 在指定上下文元素中解析HTML片段
// 表格行与SVG子元素脱离父元素时会被HTML5解析器丢弃,因此需要上下文
func parseFragment(fragment string, context *html.Node) (*goquery.Document, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("解析HTML片段失败: %w", err)
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// parseTableFragment 解析表格片段,兼容完整<table>与仅含行的innerHTML
func parseTableFragment(fragment string) (*goquery.Document, error) {
	if hasLeadingTag(fragment, "table") {
		return parseFragment(fragment, bodyContext())
	}
	return parseFragment(fragment, &html.Node{Type: html.ElementNode, Data: "table", DataAtom: atom.Table})
}

// parseSVGFragment 解析SVG片段,兼容完整<svg>与<g>子树
func parseSVGFragment(fragment string) (*goquery.Document, error) {
	if hasLeadingTag(fragment, "svg") {
		return parseFragment(fragment, bodyContext())
	}
	return parseFragment(fragment, &html.Node{Type: html.ElementNode, Data: "svg", DataAtom: atom.Svg, Namespace: "svg"})
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// hasLeadingTag 片段是否以指定标签开头
func hasLeadingTag(fragment, tag string) bool {
	s := strings.ToLower(strings.TrimSpace(fragment))
	if !strings.HasPrefix(s, "<"+tag) {
		return false
	}
	rest := s[len(tag)+1:]
	return rest == "" || strings.IndexAny(rest[:1], " \t\r\n>/") == 0
}

// hrefs 按文档顺序收集所有a[href]
func hrefs(doc *goquery.Document) []string {
	links := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, href)
	})
	return links
}
