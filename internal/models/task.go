package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Outcome 单个词条的处理结果
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"  // 已解析并组装记录
	OutcomeMultiple Outcome = "multiple"  // 多个同形词,已扩展队列
	OutcomeNotFound Outcome = "not_found" // 页面不存在
	OutcomeFailed   Outcome = "failed"    // 获取或提取失败
)

// AppendResult 持久化结果
type AppendResult string

const (
	AppendInserted      AppendResult = "inserted"       // 新写入
	AppendAlreadyExists AppendResult = "already_exists" // 唯一键冲突,视为已完成
)

// CrawlMode 页面获取模式
type CrawlMode string

const (
	ModeDynamic CrawlMode = "dynamic" // 无头浏览器渲染
	ModeStatic  CrawlMode = "static"  // 仅HTTP获取原始HTML
)

// RunStats 运行统计
type RunStats struct {
	Processed      int     `json:"processed"`       // 已处理词条数
	Resolved       int     `json:"resolved"`        // 解析成功
	Multiple       int     `json:"multiple"`        // 多义页面
	NotFound       int     `json:"not_found"`       // 页面不存在
	Failed         int     `json:"failed"`          // 获取/提取失败
	Enqueued       int     `json:"enqueued"`        // 扩展入队的同形词数
	SkippedSeen    int     `json:"skipped_seen"`    // 去重跳过的同形词数
	Inserted       int     `json:"inserted"`        // 新写入的记录组
	Duplicates     int     `json:"duplicates"`      // 已存在的记录组
	PersistFailed  int     `json:"persist_failed"`  // 持久化失败
	Duration       float64 `json:"duration"`        // 总耗时(秒)
	LowMemoryWarns int     `json:"low_memory_warns"` // 内存不足告警次数
}

// WordResult 单个词条的处理记录(用于运行报告)
type WordResult struct {
	Query     WordQuery    `json:"query"`
	Outcome   Outcome      `json:"outcome"`
	Persisted AppendResult `json:"persisted,omitempty"`
	SetID     string       `json:"set_id,omitempty"`
	Expanded  int          `json:"expanded,omitempty"` // 新入队的同形词数
	Skipped   int          `json:"skipped,omitempty"`  // 去重跳过的同形词数
	Error     string       `json:"error,omitempty"`
}

// CrawlConfig 爬取配置
type CrawlConfig struct {
	Language     string            `json:"language" mapstructure:"language"`           // 语言代码 (默认:deu)
	BaseURL      string            `json:"base_url" mapstructure:"base_url"`           // 站点根地址
	Mode         CrawlMode         `json:"mode" mapstructure:"mode"`                   // dynamic|static (默认:dynamic)
	SettleDelay  time.Duration     `json:"settle_delay" mapstructure:"settle_delay"`   // 导航后等待渲染时间 (默认:1s)
	PageTimeout  time.Duration     `json:"page_timeout" mapstructure:"page_timeout"`   // 单页导航超时 (默认:30s)
	Headless     bool              `json:"headless" mapstructure:"headless"`           // 无头模式 (默认:true)
	BrowserBin   string            `json:"browser_bin" mapstructure:"browser_bin"`     // 浏览器可执行文件(可选)
	UserAgent    string            `json:"user_agent" mapstructure:"user_agent"`       // 自定义User-Agent
	Headers      map[string]string `json:"headers" mapstructure:"headers"`             // 额外HTTP头部
	WindowWidth  int               `json:"window_width" mapstructure:"window_width"`   // 视口宽度 (默认:1920)
	WindowHeight int               `json:"window_height" mapstructure:"window_height"` // 视口高度 (默认:1080)
	Dedupe       bool              `json:"dedupe" mapstructure:"dedupe"`               // 同形词入队去重 (默认:true)
	Progress     bool              `json:"progress" mapstructure:"progress"`           // 显示进度条
	MonitorEvery int               `json:"monitor_every" mapstructure:"monitor_every"` // 每N个词条检查一次内存, 0为关闭
	MinFreeMB    int               `json:"min_free_mb" mapstructure:"min_free_mb"`     // 可用内存告警阈值(MB)
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("语言代码不能为空")
	}
	if err := ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("站点地址无效: %w", err)
	}
	if c.Mode != ModeDynamic && c.Mode != ModeStatic {
		return fmt.Errorf("无效的获取模式: %s (有效值: dynamic, static)", c.Mode)
	}
	if c.SettleDelay < 0 || c.SettleDelay > time.Minute {
		return fmt.Errorf("渲染等待时间必须在0-60秒之间")
	}
	if c.PageTimeout < 0 {
		return fmt.Errorf("页面超时不能为负数")
	}
	if c.WindowWidth < 0 || c.WindowHeight < 0 {
		return fmt.Errorf("视口尺寸不能为负数")
	}
	if c.MonitorEvery < 0 {
		return fmt.Errorf("内存检查间隔不能为负数")
	}
	return nil
}

// Record 按单个词条的处理记录累加统计
func (s *RunStats) Record(res WordResult) {
	s.Processed++
	s.Enqueued += res.Expanded
	s.SkippedSeen += res.Skipped

	switch res.Outcome {
	case OutcomeResolved:
		s.Resolved++
		switch {
		case res.Persisted == AppendInserted:
			s.Inserted++
		case res.Persisted == AppendAlreadyExists:
			s.Duplicates++
		case res.Error != "":
			s.PersistFailed++
		}
	case OutcomeMultiple:
		s.Multiple++
	case OutcomeNotFound:
		s.NotFound++
	case OutcomeFailed:
		s.Failed++
	}
}

// ToJSON 序列化为JSON
func (s *RunStats) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
