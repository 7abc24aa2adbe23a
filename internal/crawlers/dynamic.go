package crawlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// DynamicFetcher 基于go-rod的浏览器获取器
// 整个运行期间复用同一个浏览器和标签页,逐个词条串行导航
type DynamicFetcher struct {
	config  models.CrawlConfig
	headers http.Header

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	// 撤销额外头部的回调
	cleanupHeaders func()

	closed bool
}

// NewDynamicFetcher 启动浏览器并打开工作标签页
func NewDynamicFetcher(ctx context.Context, config models.CrawlConfig, headers http.Header) (*DynamicFetcher, error) {
	df := &DynamicFetcher{
		config:  config,
		headers: headers,
	}

	if err := df.launchBrowser(ctx); err != nil {
		df.Close()
		return nil, err
	}
	if err := df.openPage(); err != nil {
		df.Close()
		return nil, err
	}

	return df, nil
}

// launchBrowser 启动浏览器
func (df *DynamicFetcher) launchBrowser(ctx context.Context) error {
	// 配置launcher
	l := launcher.New().Context(ctx).Headless(df.config.Headless)
	if df.config.BrowserBin != "" {
		l = l.Bin(df.config.BrowserBin)
	}
	if df.config.WindowWidth > 0 && df.config.WindowHeight > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", df.config.WindowWidth, df.config.WindowHeight))
	}
	df.launcher = l

	// 启动浏览器
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	// 连接到浏览器
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("连接浏览器失败: %w", err)
	}
	df.browser = browser

	utils.Debugf("浏览器已启动: %s (headless=%v)", controlURL, df.config.Headless)
	return nil
}

// openPage 创建工作标签页并应用视口、User-Agent和额外头部
func (df *DynamicFetcher) openPage() error {
	page, err := df.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("创建标签页失败: %w", err)
	}
	df.page = page

	if df.config.WindowWidth > 0 && df.config.WindowHeight > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             df.config.WindowWidth,
			Height:            df.config.WindowHeight,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			return fmt.Errorf("设置视口失败: %w", err)
		}
	}

	if df.config.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: df.config.UserAgent}); err != nil {
			return fmt.Errorf("设置User-Agent失败: %w", err)
		}
	}

	if len(df.headers) > 0 {
		dict := make([]string, 0, len(df.headers)*2)
		for name := range df.headers {
			dict = append(dict, name, df.headers.Get(name))
		}
		cleanup, err := page.SetExtraHeaders(dict)
		if err != nil {
			return fmt.Errorf("设置额外头部失败: %w", err)
		}
		df.cleanupHeaders = cleanup
		utils.Debugf("浏览器额外头部: %s", utils.RedactHeaders(df.headers))
	}

	return nil
}

// Fetch 导航到词条页面,等待渲染后采集元素快照
func (df *DynamicFetcher) Fetch(ctx context.Context, query models.WordQuery) (*models.PageSnapshot, error) {
	if df.closed {
		return nil, fetchError(query, "获取器已关闭", errors.New("closed"))
	}

	pageURL := query.BuildURL(df.config.BaseURL)
	page := df.page.Context(ctx)
	if df.config.PageTimeout > 0 {
		page = page.Timeout(df.config.PageTimeout)
		defer page.CancelTimeout()
	}

	utils.Debugf("访问页面: %s", pageURL)

	// 导航到目标URL
	if err := page.Navigate(pageURL); err != nil {
		return nil, fetchError(query, "导航失败", err)
	}

	// 等待页面加载
	if err := page.WaitLoad(); err != nil {
		return nil, fetchError(query, "等待页面加载失败", err)
	}

	// 额外等待时间(等待祖先图iframe渲染)
	if err := settle(ctx, df.config.SettleDelay); err != nil {
		return nil, err
	}

	snap := &models.PageSnapshot{URL: pageURL}
	var err error

	if snap.Status, err = lookup(page.Has(StatusSelector)); err != nil {
		return nil, fetchError(query, StatusSelector, err)
	}
	if snap.Definition, err = lookup(page.HasX(DefinitionXPath)); err != nil {
		return nil, fetchError(query, "释义", err)
	}
	if snap.Table, err = lookup(page.Has(TableSelector)); err != nil {
		return nil, fetchError(query, TableSelector, err)
	}
	if snap.Descendants, err = lookup(page.Has(DescendantsSelector)); err != nil {
		return nil, fetchError(query, DescendantsSelector, err)
	}
	if snap.Graph, err = df.graph(page); err != nil {
		return nil, fetchError(query, GraphSelector, err)
	}

	return snap, nil
}

// graph 切换到iframe #pi 内读取 #graph0
func (df *DynamicFetcher) graph(page *rod.Page) (*models.Element, error) {
	has, iframe, err := page.Has(GraphFrameSelector)
	if err != nil || !has {
		return nil, err
	}

	frame, err := iframe.Frame()
	if err != nil {
		return nil, fmt.Errorf("进入iframe失败: %w", err)
	}
	if err := frame.WaitLoad(); err != nil {
		return nil, fmt.Errorf("等待iframe加载失败: %w", err)
	}

	return lookup(frame.Has(GraphSelector))
}

// lookup 将rod的Has结果转换为元素快照,元素不存在时返回nil
func lookup(has bool, el *rod.Element, err error) (*models.Element, error) {
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}

	text, err := el.Text()
	if err != nil {
		return nil, fmt.Errorf("读取元素文本失败: %w", err)
	}
	outer, err := el.HTML()
	if err != nil {
		return nil, fmt.Errorf("读取元素HTML失败: %w", err)
	}

	return &models.Element{
		Text: strings.TrimSpace(text),
		HTML: outer,
	}, nil
}

// settle 等待固定时间,可被context取消
func settle(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close 关闭浏览器,可重复调用
func (df *DynamicFetcher) Close() error {
	if df.closed {
		return nil
	}
	df.closed = true

	if df.cleanupHeaders != nil {
		df.cleanupHeaders()
	}

	var closeErr error
	if df.browser != nil {
		if err := df.browser.Close(); err != nil {
			closeErr = fmt.Errorf("关闭浏览器失败: %w", err)
		}
	}
	if df.launcher != nil {
		df.launcher.Kill()
		df.launcher.Cleanup()
	}

	utils.Debugf("浏览器已关闭")
	return closeErr
}
