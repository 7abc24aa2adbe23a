package core

import (
	"fmt"
	"net/http"

	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// DefaultAcceptLanguage 默认Accept-Language
const DefaultAcceptLanguage = "en-US,en;q=0.9"

// BuildHeaders 合并请求头部
// 优先级: 默认值 < 配置文件 crawl.headers < 命令行 -H
// crawl.user_agent 非空时作为User-Agent默认值
func BuildHeaders(config models.CrawlConfig, cli models.CliHeaders) (http.Header, error) {
	cliHeaders, err := cli.Parse()
	if err != nil {
		return nil, err
	}

	defaults := map[string]string{
		"Accept-Language": DefaultAcceptLanguage,
	}
	if config.UserAgent != "" {
		defaults["User-Agent"] = config.UserAgent
	}

	merged := models.MergeHeaders(defaults, models.MergeHeaders(config.Headers, cliHeaders))
	if err := utils.ValidateHeaders(merged); err != nil {
		return nil, fmt.Errorf("请求头部无效: %w", err)
	}

	utils.Debugf("请求头部: %s", utils.RedactHeaders(merged))
	return merged, nil
}
