package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rymp/etymologeek-parse/internal/core"
	"github.com/rymp/etymologeek-parse/internal/crawlers"
	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/store"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// 爬取参数
var (
	seedFile   string
	resumeFile string
	language   string
	mode       string
	headless   bool
	dedupe     bool
)

var runCmd = &cobra.Command{
	Use:   "run [words...]",
	Short: "爬取词条词源并写入数据库",
	Long: `按顺序爬取种子词条,多义页面的候选词条追加到队列末尾,直到队列耗尽。

种子来源 (可同时使用):
  • 位置参数: word 或 lang/word
  • --seed 文件: 每行一个词条,取CSV第一列,忽略空行和 # 注释行
  • --resume 检查点: 上次中断时写出的 checkpoint.json

Ctrl+C 会在当前词条处理完成后停止并关闭浏览器,运行报告和检查点写入报告目录。`,
	RunE: runCrawl,
}

func init() {
	runCmd.Flags().StringVarP(&seedFile, "seed", "s", "", "种子词条文件路径")
	runCmd.Flags().StringVar(&resumeFile, "resume", "", "从检查点继续未处理的词条")
	runCmd.Flags().StringVarP(&language, "language", "l", "", "默认语言代码 (默认取配置 crawl.language)")
	runCmd.Flags().StringVarP(&mode, "mode", "m", "", "获取模式 (dynamic|static)")
	runCmd.Flags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	runCmd.Flags().BoolVar(&dedupe, "dedupe", true, "同形词入队去重")
}

func runCrawl(cmd *cobra.Command, args []string) error {
	var headlessFlag *bool
	if cmd.Flags().Changed("headless") {
		headlessFlag = &headless
	}
	appConfig.MergeCLIFlags(language, mode, headlessFlag, seedFile)
	if cmd.Flags().Changed("dedupe") {
		appConfig.Crawl.Dedupe = dedupe
	}

	if err := ValidateFlags(appConfig.Crawl.Language, string(appConfig.Crawl.Mode)); err != nil {
		return err
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	requestHeaders, err := core.BuildHeaders(appConfig.Crawl, models.CliHeaders(headers))
	if err != nil {
		return fmt.Errorf("加载HTTP头部失败: %w", err)
	}

	if validateConfig {
		printEffectiveConfig(cmd.OutOrStdout(), appConfig, requestHeaders)
		return nil
	}

	seeds, err := loadSeeds(args, appConfig.Output.SeedFile, resumeFile, appConfig.Crawl.Language)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := store.Open(ctx, appConfig.Database)
	if err != nil {
		return fmt.Errorf("打开数据库失败: %w", err)
	}
	defer sink.Close()

	crawlConfig := appConfig.Crawl
	pipeline := core.NewPipeline(crawlConfig, func(ctx context.Context) (crawlers.Fetcher, error) {
		return crawlers.NewFetcher(ctx, crawlConfig, requestHeaders)
	}, sink)
	pipeline.SetProgressOutput(cmd.ErrOrStderr())

	report, err := pipeline.Run(ctx, seeds)
	if err != nil {
		return fmt.Errorf("爬取失败: %w", err)
	}

	if dir, err := utils.NewReporter(appConfig.Output.ReportDir).GenerateReport(report); err != nil {
		utils.Errorf("保存运行报告失败: %v", err)
	} else {
		utils.Infof("运行报告已保存: %s", dir)
	}

	printStats(cmd.OutOrStdout(), report)

	if report.Interrupted {
		utils.Warnf("运行被中断,%d个未处理的词条已保存到检查点,可通过 --resume 继续", len(report.Pending))
		return nil
	}
	utils.Info("✨ 爬取任务完成!")
	return nil
}

// loadSeeds 合并位置参数、种子文件和检查点中的词条
func loadSeeds(args []string, path string, resume string, lang string) ([]models.WordQuery, error) {
	seeds := utils.ParseSeeds(args, lang)

	if path != "" {
		if err := ValidateSeedFile(path); err != nil {
			return nil, err
		}
		fromFile, err := utils.ReadWordsFromFile(path, lang)
		if err != nil {
			return nil, fmt.Errorf("读取种子文件失败: %w", err)
		}
		seeds = append(seeds, fromFile...)
	}

	if resume != "" {
		cp, err := models.LoadCheckpointFromFile(resume)
		if err != nil {
			return nil, err
		}
		if cp.Language != "" && cp.Language != lang {
			utils.Warnf("检查点语言 %s 与当前语言 %s 不一致", cp.Language, lang)
		}
		utils.Infof("从检查点 %s 恢复%d个词条", cp.RunID, len(cp.Pending))
		seeds = append(seeds, cp.Pending...)
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("没有种子词条: 请通过位置参数或 --seed 指定")
	}
	return seeds, nil
}

// printStats 输出运行统计
func printStats(w io.Writer, report *models.RunReport) {
	stats := report.Stats
	fmt.Fprintln(w, "\n==================================================")
	fmt.Fprintln(w, "📊 爬取统计")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "✅ 处理词条数: %d (种子 %d, 扩展 %d)\n", stats.Processed, report.Seeds, stats.Enqueued)
	fmt.Fprintf(w, "✅ 解析成功: %d\n", stats.Resolved)
	fmt.Fprintf(w, "🔀 多义页面: %d (去重跳过 %d)\n", stats.Multiple, stats.SkippedSeen)
	fmt.Fprintf(w, "➖ 页面不存在: %d\n", stats.NotFound)
	fmt.Fprintf(w, "💾 新写入: %d, 已存在: %d\n", stats.Inserted, stats.Duplicates)
	fmt.Fprintf(w, "❌ 失败: %d, 持久化失败: %d\n", stats.Failed, stats.PersistFailed)
	if stats.LowMemoryWarns > 0 {
		fmt.Fprintf(w, "⚠️  内存不足告警: %d\n", stats.LowMemoryWarns)
	}
	fmt.Fprintf(w, "⏱️  总耗时: %.2f秒\n", stats.Duration)
	fmt.Fprintln(w, "==================================================")
}

// printEffectiveConfig 输出生效的配置 (敏感信息已脱敏)
func printEffectiveConfig(w io.Writer, config *core.Config, requestHeaders http.Header) {
	utils.Info("✅ 配置验证通过!")
	fmt.Fprintf(w, "语言: %s\n", config.Crawl.Language)
	fmt.Fprintf(w, "站点: %s\n", config.Crawl.BaseURL)
	fmt.Fprintf(w, "模式: %s (无头: %v)\n", config.Crawl.Mode, config.Crawl.Headless)
	fmt.Fprintf(w, "去重: %v\n", config.Crawl.Dedupe)
	fmt.Fprintf(w, "数据库: %s\n", config.Database.Driver)
	fmt.Fprintf(w, "HTTP头部 (%d个): %s\n", len(requestHeaders), utils.RedactHeaders(requestHeaders))
}
