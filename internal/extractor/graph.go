package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// EdgeDelimiter 图边标题中的节点分隔符
const EdgeDelimiter = "->"

// ErrMalformedEdge 图边标题缺少分隔符或包含多个分隔符
var ErrMalformedEdge = fmt.Errorf("图边标题格式错误: %w", models.ErrExtractionMalformed)

// Graph 提取祖先图的所有边
// 任意一条边的标题格式错误都会使整个页面提取失败,不会返回残缺的图
func Graph(fragment string) ([]models.GraphEdge, error) {
	doc, err := parseSVGFragment(fragment)
	if err != nil {
		return nil, err
	}

	edges := make([]models.GraphEdge, 0)
	var firstErr error
	doc.Find("g.edge").EachWithBreak(func(i int, g *goquery.Selection) bool {
		edge, err := parseEdgeTitle(g.Find("title").First())
		if err != nil {
			firstErr = fmt.Errorf("第%d条边: %w", i+1, err)
			return false
		}
		edges = append(edges, edge)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}

	return edges, nil
}

// parseEdgeTitle 解析 "from->to" 形式的边标题
func parseEdgeTitle(title *goquery.Selection) (models.GraphEdge, error) {
	if title.Length() == 0 {
		return models.GraphEdge{}, fmt.Errorf("%w: 缺少<title>", ErrMalformedEdge)
	}

	text := strings.TrimSpace(title.Text())
	parts := strings.Split(text, EdgeDelimiter)
	if len(parts) != 2 {
		return models.GraphEdge{}, fmt.Errorf("%w: %q", ErrMalformedEdge, text)
	}

	return models.GraphEdge{
		From: strings.TrimSpace(parts[0]),
		To:   strings.TrimSpace(parts[1]),
	}, nil
}
