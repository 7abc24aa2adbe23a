package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html/charset"

	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// StaticFetcher 基于Colly的静态获取器
// 不执行JavaScript,直接解析服务端返回的HTML,祖先图iframe单独请求
type StaticFetcher struct {
	collector *colly.Collector
	config    models.CrawlConfig
	headers   http.Header

	// 同步模式下每次Visit的响应
	mu       sync.Mutex
	lastBody []byte
	lastErr  error
}

// NewStaticFetcher 创建静态获取器
func NewStaticFetcher(config models.CrawlConfig, headers http.Header) (*StaticFetcher, error) {
	// 创建Colly collector
	// 同一词条可能在不同运行中重复访问,允许重复访问
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.IgnoreRobotsTxt(),
	)

	if config.UserAgent != "" {
		c.UserAgent = config.UserAgent
	}
	if config.PageTimeout > 0 {
		c.SetRequestTimeout(config.PageTimeout)
	}

	// 串行获取,请求间隔由调用方的渲染等待时间控制
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
	}); err != nil {
		return nil, fmt.Errorf("设置并发限制失败: %w", err)
	}

	sf := &StaticFetcher{
		collector: c,
		config:    config,
		headers:   headers,
	}
	sf.setupCallbacks()

	if len(headers) > 0 {
		utils.Debugf("静态获取器额外头部: %s", utils.RedactHeaders(headers))
	}
	return sf, nil
}

// setupCallbacks 设置Colly回调
func (sf *StaticFetcher) setupCallbacks() {
	// 访问前: 应用自定义HTTP头部
	sf.collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Encoding", "gzip, deflate, br")
		for name := range sf.headers {
			r.Headers.Set(name, sf.headers.Get(name))
		}
		utils.Debugf("访问: %s", r.URL.String())
	})

	// 处理响应
	sf.collector.OnResponse(func(r *colly.Response) {
		body := r.Body
		contentEncoding := r.Headers.Get("Content-Encoding")

		// 解压响应体(如果有压缩)
		if contentEncoding != "" {
			decompressed, err := decompressResponse(contentEncoding, r.Body)
			if err != nil {
				// 解压失败,仍然尝试使用原始body
				utils.Warnf("解压响应失败 [%s] (编码=%s): %v", r.Request.URL, contentEncoding, err)
			} else {
				body = decompressed
			}
		}

		// 非UTF-8页面按Content-Type或<meta charset>转码
		if converted, err := toUTF8(body, r.Headers.Get("Content-Type")); err == nil {
			body = converted
		} else {
			utils.Debugf("转码失败,使用原始响应 [%s]: %v", r.Request.URL, err)
		}

		sf.lastBody = body
		if r.StatusCode >= 400 {
			utils.Debugf("HTTP状态码%d [%s],继续解析页面内容", r.StatusCode, r.Request.URL)
		}
	})

	// 错误处理
	sf.collector.OnError(func(r *colly.Response, err error) {
		sf.lastErr = err
	})
}

// visit 同步请求一个地址并返回响应体
func (sf *StaticFetcher) visit(ctx context.Context, target string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sf.lastBody, sf.lastErr = nil, nil
	if err := sf.collector.Visit(target); err != nil {
		return nil, err
	}
	if sf.lastErr != nil {
		return nil, sf.lastErr
	}
	if sf.lastBody == nil {
		return nil, errors.New("响应为空")
	}
	return sf.lastBody, nil
}

// Fetch 获取词条页面HTML并构造快照
func (sf *StaticFetcher) Fetch(ctx context.Context, query models.WordQuery) (*models.PageSnapshot, error) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	pageURL := query.BuildURL(sf.config.BaseURL)

	body, err := sf.visit(ctx, pageURL)
	if err != nil {
		return nil, fetchError(query, "请求失败", err)
	}

	// 请求间隔,与浏览器模式的渲染等待保持一致
	if err := settle(ctx, sf.config.SettleDelay); err != nil {
		return nil, err
	}

	loadFrame := func(src string) (string, error) {
		frameBody, err := sf.visit(ctx, src)
		if err != nil {
			return "", err
		}
		return string(frameBody), nil
	}

	snap, err := SnapshotFromHTML(pageURL, string(body), loadFrame)
	if err != nil {
		return nil, fetchError(query, "解析失败", err)
	}
	return snap, nil
}

// Close 静态获取器无需释放资源
func (sf *StaticFetcher) Close() error {
	return nil
}

// toUTF8 将响应体转换为UTF-8
// 编码只是猜测且内容本身是合法UTF-8时保持原样
func toUTF8(body []byte, contentType string) ([]byte, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(body)) {
		return body, nil
	}
	return enc.NewDecoder().Bytes(body)
}

// decompressResponse 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate, br (Brotli) 三种压缩格式
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		// Colly已自行解压gzip时直接返回
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		reader := brotli.NewReader(bytes.NewReader(body))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "identity":
		return body, nil

	default:
		// 未知编码,返回警告但仍然返回原始内容
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
