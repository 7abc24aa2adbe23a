package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/schollz/progressbar/v3"
)

// 报告文件名
const (
	RunReportFile    = "run_report.json"
	FailedWordsFile  = "failed_words.json"
	ReportTimeFormat = "20060102_150405"
)

// Reporter 报告生成器
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{
		outputDir: outputDir,
	}
}

// GenerateReport 生成运行报告
// 报告写入 {outputDir}/{开始时间}/ 目录,返回该目录路径
func (r *Reporter) GenerateReport(report *models.RunReport) (string, error) {
	reportsDir := filepath.Join(r.outputDir, report.StartTime.Format(ReportTimeFormat))
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	// 保存主报告
	data, err := report.ToJSON()
	if err != nil {
		return "", fmt.Errorf("序列化JSON失败: %w", err)
	}
	if err := r.writeFile(reportsDir, RunReportFile, data); err != nil {
		return "", err
	}

	// 失败词条单独保存,便于下次作为种子重跑
	if failed := report.Failed(); len(failed) > 0 {
		failedReport := &models.RunReport{Results: failed}
		data, err := failedReport.ToJSON()
		if err != nil {
			return "", fmt.Errorf("序列化JSON失败: %w", err)
		}
		if err := r.writeFile(reportsDir, FailedWordsFile, data); err != nil {
			return "", err
		}
	}

	// 中断时保存待处理词条,供 --resume 继续
	if report.Interrupted {
		if err := models.NewCheckpoint(report).SaveToFile(filepath.Join(reportsDir, models.CheckpointFile)); err != nil {
			return "", err
		}
		Debugf("保存检查点: %d个待处理词条", len(report.Pending))
	}

	Infof("报告已生成: %s", reportsDir)
	return reportsDir, nil
}

// writeFile 保存报告文件
func (r *Reporter) writeFile(dir string, filename string, data []byte) error {
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}
	Debugf("保存报告: %s", path)
	return nil
}

// NewProgressBar 创建进度条
// 最大值随队列增长通过ChangeMax调整
func NewProgressBar(max int, description string, out io.Writer) *progressbar.ProgressBar {
	if out == nil {
		out = os.Stdout
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(out) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
