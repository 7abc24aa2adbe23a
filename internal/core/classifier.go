package core

import (
	"fmt"
	"strings"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// 页面判定标记
const (
	NotFoundMarker = "Page Not Found"
	MultipleMarker = "We have found multiple words"
)

// PageKind 页面类别
type PageKind int

const (
	PageResolved PageKind = iota // 单个词条,可提取
	PageMultiple                 // 多个同形词,需扩展队列
	PageNotFound                 // 页面不存在
)

// String 实现fmt.Stringer
func (k PageKind) String() string {
	switch k {
	case PageResolved:
		return "resolved"
	case PageMultiple:
		return "multiple"
	case PageNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("PageKind(%d)", int(k))
	}
}

// Classification 页面分类结果及后续提取所需的片段
type Classification struct {
	Kind PageKind

	Definition      string // 去除首尾空白的释义 (Resolved)
	TableHTML       string // 祖先表 (Resolved) 或候选表 (Multiple)
	DescendantsHTML string // 后代列表,页面没有时为空
	GraphHTML       string // 祖先图
}

// Classify 按页面元素判定页面类别
// 状态元素文本为 "Page Not Found" 时为NotFound; 释义包含多义提示时为Multiple; 否则为Resolved
func Classify(snap *models.PageSnapshot) (Classification, error) {
	if snap == nil {
		return Classification{}, fmt.Errorf("%w: 页面快照为空", models.ErrExtractionMalformed)
	}

	if snap.Status != nil && snap.Status.Text == NotFoundMarker {
		return Classification{Kind: PageNotFound}, nil
	}

	if snap.Definition == nil {
		return Classification{}, fmt.Errorf("%w: 缺少释义段落 [%s]", models.ErrExtractionMalformed, snap.URL)
	}
	definition := strings.TrimSpace(snap.Definition.Text)

	if strings.Contains(definition, MultipleMarker) {
		if snap.Table == nil {
			return Classification{}, fmt.Errorf("%w: 多义页面缺少候选表 [%s]", models.ErrExtractionMalformed, snap.URL)
		}
		return Classification{Kind: PageMultiple, TableHTML: snap.Table.HTML}, nil
	}

	if snap.Table == nil {
		return Classification{}, fmt.Errorf("%w: 缺少祖先表 [%s]", models.ErrExtractionMalformed, snap.URL)
	}
	if snap.Graph == nil {
		return Classification{}, fmt.Errorf("%w: 缺少祖先图 [%s]", models.ErrExtractionMalformed, snap.URL)
	}

	c := Classification{
		Kind:       PageResolved,
		Definition: definition,
		TableHTML:  snap.Table.HTML,
		GraphHTML:  snap.Graph.HTML,
	}
	if snap.Descendants != nil {
		c.DescendantsHTML = snap.Descendants.HTML
	}
	return c, nil
}
