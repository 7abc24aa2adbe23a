package crawlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// 页面元素定位
// 浏览器获取器和静态快照共用同一组定位
const (
	StatusSelector      = "#dtld"
	DefinitionXPath     = "/html/body/section/div[1]/p"
	TableSelector       = "#tb"
	DescendantsSelector = "#or"
	GraphFrameSelector  = "#pi"
	GraphSelector       = "#graph0"
)

// Fetcher 页面获取器
// 每次Fetch返回渲染后页面的元素快照,Close释放底层资源
type Fetcher interface {
	Fetch(ctx context.Context, query models.WordQuery) (*models.PageSnapshot, error)
	Close() error
}

// NewFetcher 按配置的模式创建获取器
func NewFetcher(ctx context.Context, config models.CrawlConfig, headers http.Header) (Fetcher, error) {
	switch config.Mode {
	case models.ModeDynamic, "":
		return NewDynamicFetcher(ctx, config, headers)
	case models.ModeStatic:
		return NewStaticFetcher(config, headers)
	default:
		return nil, fmt.Errorf("无效的获取模式: %s", config.Mode)
	}
}

// fetchError 包装获取失败
func fetchError(query models.WordQuery, step string, err error) error {
	return fmt.Errorf("%w [%s] %s: %v", models.ErrFetchFailure, query, step, err)
}
