package models

import (
	"encoding/json"
	"time"
)

// RunReport 一次批量运行的报告
type RunReport struct {
	// 运行信息
	RunID    string    `json:"run_id"`
	Language string    `json:"language"`
	Mode     CrawlMode `json:"mode"`
	Seeds    int       `json:"seeds"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// 因取消信号提前结束
	Interrupted bool `json:"interrupted,omitempty"`

	// 中断时队列中尚未处理的词条
	Pending []WordQuery `json:"pending,omitempty"`

	// 统计信息
	Stats RunStats `json:"stats"`

	// 逐词结果
	Results []WordResult `json:"results"`
}

// Failed 返回处理失败的词条
func (r *RunReport) Failed() []WordResult {
	failed := make([]WordResult, 0)
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed || res.Error != "" {
			failed = append(failed, res)
		}
	}
	return failed
}

// ToJSON 序列化为JSON
func (r *RunReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *RunReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
