package models

import (
	"net/url"
	"strings"
)

// WordQuery 待爬取的词条 (单词 + 语言代码)
type WordQuery struct {
	Word     string `json:"word"`
	Language string `json:"language"`
}

// Key 词条标识: language/word
func (q WordQuery) Key() string {
	return q.Language + "/" + q.Word
}

// String 实现fmt.Stringer
func (q WordQuery) String() string {
	return q.Key()
}

// BuildURL 按 {base}/{language}/{word} 模板构造页面URL
// word中的'/'作为路径分隔符保留,各段分别转义
func (q WordQuery) BuildURL(baseURL string) string {
	segments := strings.Split(q.Word, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(q.Language) + "/" + strings.Join(segments, "/")
}

// HomonymCandidate 多义页面中发现的同形词引用
type HomonymCandidate struct {
	Href string `json:"href"` // 原始链接
	ID   string `json:"id"`   // 最后两个路径段, 例如 Bank/31959820
}

// Identifier 规范化标识: 链接最后两个路径段
func (c HomonymCandidate) Identifier() string {
	return c.ID
}

// Query 转换为新的待爬词条
// 标识整体作为词条,语言使用本次运行的语言
func (c HomonymCandidate) Query(language string) WordQuery {
	return WordQuery{Word: c.ID, Language: language}
}

// ParseHomonymHref 将链接规范化为同形词引用
// 丢弃主机、查询参数和片段,仅保留最后两个路径段
func ParseHomonymHref(href string) (HomonymCandidate, bool) {
	path := href
	if parsed, err := url.Parse(href); err == nil {
		path = parsed.Path
	}

	segments := make([]string, 0, 4)
	for _, seg := range strings.Split(path, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) < 2 {
		return HomonymCandidate{}, false
	}

	return HomonymCandidate{
		Href: href,
		ID:   segments[len(segments)-2] + "/" + segments[len(segments)-1],
	}, true
}
