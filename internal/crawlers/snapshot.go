package crawlers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// XPath形式的元素定位,对应fetcher.go中的选择器
const (
	statusXPath      = "//*[@id='dtld']"
	tableXPath       = "//*[@id='tb']"
	descendantsXPath = "//*[@id='or']"
	graphFrameXPath  = "//iframe[@id='pi']"
	graphXPath       = "//*[@id='graph0']"
)

// FrameLoader 加载iframe文档,返回其HTML
type FrameLoader func(src string) (string, error)

// SnapshotFromHTML 从原始HTML构造页面快照
// 祖先图位于iframe #pi 内,通过loadFrame单独获取; loadFrame为nil时不获取
func SnapshotFromHTML(pageURL string, pageHTML string, loadFrame FrameLoader) (*models.PageSnapshot, error) {
	doc, err := htmlquery.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("解析页面HTML失败: %w", err)
	}

	snap := &models.PageSnapshot{
		URL:         pageURL,
		Status:      findElement(doc, statusXPath),
		Definition:  findElement(doc, DefinitionXPath),
		Table:       findElement(doc, tableXPath),
		Descendants: findElement(doc, descendantsXPath),
	}

	frame := htmlquery.FindOne(doc, graphFrameXPath)
	if frame == nil || loadFrame == nil {
		return snap, nil
	}

	src := htmlquery.SelectAttr(frame, "src")
	if src == "" {
		utils.Debugf("iframe缺少src属性: %s", pageURL)
		return snap, nil
	}
	frameURL, err := resolveReference(pageURL, src)
	if err != nil {
		utils.Warnf("iframe地址无效 [%s]: %v", src, err)
		return snap, nil
	}

	frameHTML, err := loadFrame(frameURL)
	if err != nil {
		utils.Warnf("获取祖先图iframe失败 [%s]: %v", frameURL, err)
		return snap, nil
	}

	frameDoc, err := htmlquery.Parse(strings.NewReader(frameHTML))
	if err != nil {
		utils.Warnf("解析祖先图iframe失败 [%s]: %v", frameURL, err)
		return snap, nil
	}
	snap.Graph = findElement(frameDoc, graphXPath)

	return snap, nil
}

// findElement 按XPath查找第一个匹配元素,不存在时返回nil
func findElement(doc *html.Node, expr string) *models.Element {
	node := htmlquery.FindOne(doc, expr)
	if node == nil {
		return nil
	}
	return &models.Element{
		Text: strings.TrimSpace(htmlquery.InnerText(node)),
		HTML: htmlquery.OutputHTML(node, true),
	}
}

// resolveReference 将相对地址解析为绝对地址
func resolveReference(base string, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
