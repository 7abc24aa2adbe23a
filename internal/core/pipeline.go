package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/rymp/etymologeek-parse/internal/crawlers"
	"github.com/rymp/etymologeek-parse/internal/extractor"
	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/store"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// FetcherFactory 创建页面获取器
// 由Pipeline.Run在运行开始时调用一次,运行结束时关闭
type FetcherFactory func(ctx context.Context) (crawlers.Fetcher, error)

// memoryChecker 资源检查接口
type memoryChecker interface {
	Check() (crawlers.MemoryStatus, bool)
}

// Pipeline 爬取流水线
// 职责: 顺序处理工作队列中的词条,完成 获取 -> 分类 -> 提取/扩展 -> 持久化
type Pipeline struct {
	config  models.CrawlConfig
	factory FetcherFactory
	sink    store.Sink

	monitor  memoryChecker
	now      func() time.Time
	progress io.Writer
}

// NewPipeline 创建爬取流水线
func NewPipeline(config models.CrawlConfig, factory FetcherFactory, sink store.Sink) *Pipeline {
	p := &Pipeline{
		config:  config,
		factory: factory,
		sink:    sink,
		now:     time.Now,
	}
	if config.MonitorEvery > 0 {
		p.monitor = crawlers.NewResourceMonitor(config.MinFreeMB)
	}
	return p
}

// SetProgressOutput 设置进度条输出目标 (默认:os.Stdout)
func (p *Pipeline) SetProgressOutput(out io.Writer) {
	p.progress = out
}

// Run 处理种子词条直到队列耗尽或ctx被取消
// 只有获取器创建失败会返回错误,单个词条的失败记录在报告中
func (p *Pipeline) Run(ctx context.Context, seeds []models.WordQuery) (*models.RunReport, error) {
	report := &models.RunReport{
		RunID:     uuid.NewString(),
		Language:  p.config.Language,
		Mode:      p.config.Mode,
		Seeds:     len(seeds),
		StartTime: p.now(),
		Results:   make([]models.WordResult, 0, len(seeds)),
	}

	fetcher, err := p.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("创建页面获取器失败: %w", err)
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			utils.Logger.Warn().Err(err).Msg("关闭页面获取器失败")
		}
	}()

	queue := crawlers.NewWordQueue(seeds, p.config.Dedupe)
	utils.Infof("开始爬取: %d个种子词条 (模式: %s, 去重: %v)", queue.Len(), p.config.Mode, p.config.Dedupe)

	var bar *progressbar.ProgressBar
	if p.config.Progress {
		bar = utils.NewProgressBar(queue.Total(), "爬取词条", p.progress)
	}

	for {
		if ctx.Err() != nil {
			report.Interrupted = true
			report.Pending = queue.Pending()
			utils.Warnf("运行已取消,剩余%d个词条未处理", len(report.Pending))
			break
		}

		query, ok := queue.Pop()
		if !ok {
			break
		}

		result := p.process(ctx, fetcher, queue, query)
		report.Results = append(report.Results, result)
		report.Stats.Record(result)

		if bar != nil {
			bar.ChangeMax(queue.Total())
			_ = bar.Add(1)
		}

		if p.monitor != nil && p.config.MonitorEvery > 0 && report.Stats.Processed%p.config.MonitorEvery == 0 {
			if _, ok := p.monitor.Check(); !ok {
				report.Stats.LowMemoryWarns++
			}
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	report.EndTime = p.now()
	report.Stats.Duration = report.EndTime.Sub(report.StartTime).Seconds()

	utils.Logger.Info().
		Int("processed", report.Stats.Processed).
		Int("resolved", report.Stats.Resolved).
		Int("inserted", report.Stats.Inserted).
		Int("duplicates", report.Stats.Duplicates).
		Int("failed", report.Stats.Failed).
		Float64("duration", report.Stats.Duration).
		Msg("爬取完成")

	return report, nil
}

// process 处理单个词条
// panic被恢复并记为失败,不影响队列中的其它词条
func (p *Pipeline) process(ctx context.Context, fetcher crawlers.Fetcher, queue *crawlers.WordQueue, query models.WordQuery) (result models.WordResult) {
	result = models.WordResult{Query: query}
	logger := utils.Logger.With().
		Str("word", query.Word).
		Str("language", query.Language).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = models.OutcomeFailed
			result.Error = fmt.Sprintf("处理词条时发生panic: %v", r)
			logger.Error().Str("outcome", "failed").Interface("panic", r).Msg("处理词条时发生panic")
		}
	}()

	snap, err := fetcher.Fetch(ctx, query)
	if err != nil {
		return failed(logger, result, err)
	}

	class, err := Classify(snap)
	if err != nil {
		return failed(logger, result, err)
	}

	switch class.Kind {
	case PageNotFound:
		result.Outcome = models.OutcomeNotFound
		logger.Info().Str("outcome", "absence").Msg(models.ErrPageNotFound.Error())

	case PageMultiple:
		candidates, err := extractor.Homonyms(class.TableHTML)
		if err != nil {
			return failed(logger, result, err)
		}
		for _, c := range candidates {
			if queue.Push(c.Query(p.config.Language)) {
				result.Expanded++
			} else {
				result.Skipped++
			}
		}
		result.Outcome = models.OutcomeMultiple
		logger.Info().
			Str("outcome", "multiple").
			Int("enqueued", result.Expanded).
			Int("skipped", result.Skipped).
			Msgf("%v,候选词条已入队", models.ErrAmbiguousPage)

	case PageResolved:
		record, err := p.assemble(query, class)
		if err != nil {
			return failed(logger, result, err)
		}
		result.Outcome = models.OutcomeResolved
		result.SetID = record.SetID.String()
		logger.Info().
			Str("outcome", "ok").
			Int("ancestors", len(record.Ancestors)).
			Int("edges", len(record.Graph)).
			Int("descendants", len(record.Descendants)).
			Msg("词条解析成功")

		appended, err := p.sink.Append(ctx, record.Rows())
		if err != nil {
			result.Error = err.Error()
			logger.Error().Err(err).Str("outcome", "persist_failed").Msg("保存词条失败")
			return result
		}
		result.Persisted = appended
		if appended == models.AppendAlreadyExists {
			logger.Info().Str("outcome", "duplicate").Msg("词条已存在")
		} else {
			logger.Info().Str("outcome", "saved").Str("set_id", result.SetID).Msg("词条已保存")
		}
	}

	return result
}

// assemble 从已分类页面提取三类结构并组装记录
func (p *Pipeline) assemble(query models.WordQuery, class Classification) (*models.EtymologyRecord, error) {
	ancestors, err := extractor.Table(class.TableHTML)
	if err != nil {
		return nil, fmt.Errorf("提取祖先表失败: %w", err)
	}

	descendants := models.DescendantList{}
	if class.DescendantsHTML != "" {
		descendants, err = extractor.Descendants(class.DescendantsHTML)
		if err != nil {
			return nil, fmt.Errorf("提取后代列表失败: %w", err)
		}
	}

	graph, err := extractor.Graph(class.GraphHTML)
	if err != nil {
		return nil, fmt.Errorf("提取祖先图失败: %w", err)
	}

	return models.NewEtymologyRecord(query, class.Definition, ancestors, graph, descendants, p.now()), nil
}

// failed 记录获取或提取失败
func failed(logger zerolog.Logger, result models.WordResult, err error) models.WordResult {
	result.Outcome = models.OutcomeFailed
	result.Error = err.Error()
	logger.Error().Err(err).Str("outcome", "failed").Msg("处理词条失败")
	return result
}
