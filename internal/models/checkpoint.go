package models

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// CheckpointFile 中断时写出的检查点文件名
const CheckpointFile = "checkpoint.json"

// Checkpoint 检查点
// 运行被中断时保存队列中尚未处理的词条,可通过 run --resume 继续
type Checkpoint struct {
	// 运行信息
	RunID    string `json:"run_id"`   // 关联的运行ID
	Language string `json:"language"` // 运行语言

	// 进度信息
	Pending []WordQuery `json:"pending"` // 待处理词条,按队列顺序

	// 统计信息
	Stats RunStats `json:"stats"` // 中断时的统计

	CreatedAt time.Time `json:"created_at"` // 检查点创建时间
}

// NewCheckpoint 从运行报告创建检查点
func NewCheckpoint(report *RunReport) *Checkpoint {
	pending := make([]WordQuery, len(report.Pending))
	copy(pending, report.Pending)
	return &Checkpoint{
		RunID:     report.RunID,
		Language:  report.Language,
		Pending:   pending,
		Stats:     report.Stats,
		CreatedAt: report.EndTime,
	}
}

// ToJSON 序列化为JSON
func (c *Checkpoint) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// FromJSON 从JSON反序列化
func (c *Checkpoint) FromJSON(data []byte) error {
	return json.Unmarshal(data, c)
}

// SaveToFile 保存到文件
func (c *Checkpoint) SaveToFile(filepath string) error {
	data, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化检查点失败: %w", err)
	}
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("写入检查点失败: %w", err)
	}
	return nil
}

// LoadCheckpointFromFile 从文件加载
func LoadCheckpointFromFile(filepath string) (*Checkpoint, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("读取检查点失败: %w", err)
	}

	var cp Checkpoint
	if err := cp.FromJSON(data); err != nil {
		return nil, fmt.Errorf("解析检查点失败: %w", err)
	}

	return &cp, nil
}
