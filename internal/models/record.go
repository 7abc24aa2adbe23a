package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cell 祖先表中的单元格
// 含超链接时Ref为链接路径,否则Text为去除首尾空白的文本
type Cell struct {
	Text string
	Ref  string
}

// IsRef 单元格是否为链接引用
func (c Cell) IsRef() bool {
	return c.Ref != ""
}

// Value 单元格取值: 链接优先
func (c Cell) Value() string {
	if c.IsRef() {
		return c.Ref
	}
	return c.Text
}

// MarshalJSON 序列化为纯字符串
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

// AncestorRow 祖先表的一行,列数随源表宽度变化
type AncestorRow []Cell

// Values 按顺序返回所有单元格取值
func (r AncestorRow) Values() []string {
	values := make([]string, len(r))
	for i, c := range r {
		values[i] = c.Value()
	}
	return values
}

// GraphEdge 祖先图中的一条有向边 (from -> to)
type GraphEdge struct {
	From string
	To   string
}

// MarshalJSON 序列化为二元数组 ["from","to"]
func (e GraphEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.From, e.To})
}

// UnmarshalJSON 从二元数组反序列化
func (e *GraphEdge) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("图边必须包含2个节点,实际为%d个", len(pair))
	}
	e.From, e.To = pair[0], pair[1]
	return nil
}

// DescendantList 后代标识列表,保持文档顺序,不去重
type DescendantList []string

// EtymologyRecord 一个已解析词条的完整抓取结果
type EtymologyRecord struct {
	Query       WordQuery      `json:"query"`
	Definition  string         `json:"definition"`
	Ancestors   []AncestorRow  `json:"ancestors"`
	Graph       []GraphEdge    `json:"graph"`
	Descendants DescendantList `json:"descendants"`
	SetID       uuid.UUID      `json:"set_id"`     // 同一次抓取结果的分组ID
	UploadDate  time.Time      `json:"upload_date"` // 抓取日期
}

// NewEtymologyRecord 组装记录,生成新的分组ID并标记当天日期
func NewEtymologyRecord(query WordQuery, definition string, ancestors []AncestorRow, graph []GraphEdge, descendants DescendantList, now time.Time) *EtymologyRecord {
	if graph == nil {
		graph = []GraphEdge{}
	}
	if descendants == nil {
		descendants = DescendantList{}
	}
	y, m, d := now.Date()
	return &EtymologyRecord{
		Query:       query,
		Definition:  definition,
		Ancestors:   ancestors,
		Graph:       graph,
		Descendants: descendants,
		SetID:       uuid.New(),
		UploadDate:  time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// RowRole 持久化行的角色
type RowRole string

const (
	RoleAncestor RowRole = "ancestor" // 祖先表行
	RoleSummary  RowRole = "summary"  // 末尾汇总行
)

// VocabularyRow 持久化到vocabulary表的一行
// 自然键: (QueryWord, QueryLanguage, Role, Position)
type VocabularyRow struct {
	SetID         uuid.UUID
	Role          RowRole
	Position      int
	QueryWord     string
	QueryLanguage string
	Word          string
	Language      string
	Definition    *string
	Graph         []GraphEdge
	Descendants   DescendantList
	Cells         AncestorRow
	UploadDate    time.Time
}

// Rows 将记录展开为持久化行: 每个祖先表行一行,最后追加汇总行
func (r *EtymologyRecord) Rows() []VocabularyRow {
	rows := make([]VocabularyRow, 0, len(r.Ancestors)+1)

	for i, ancestor := range r.Ancestors {
		row := VocabularyRow{
			SetID:         r.SetID,
			Role:          RoleAncestor,
			Position:      i,
			QueryWord:     r.Query.Word,
			QueryLanguage: r.Query.Language,
			Cells:         ancestor,
			UploadDate:    r.UploadDate,
		}
		// 前三列依次对应 word / language / definition
		if len(ancestor) > 0 {
			row.Word = ancestor[0].Value()
		}
		if len(ancestor) > 1 {
			row.Language = ancestor[1].Value()
		}
		if len(ancestor) > 2 {
			def := ancestor[2].Value()
			row.Definition = &def
		}
		rows = append(rows, row)
	}

	definition := r.Definition
	rows = append(rows, VocabularyRow{
		SetID:         r.SetID,
		Role:          RoleSummary,
		Position:      0,
		QueryWord:     r.Query.Word,
		QueryLanguage: r.Query.Language,
		Word:          r.Query.Word,
		Language:      r.Query.Language,
		Definition:    &definition,
		Graph:         r.Graph,
		Descendants:   r.Descendants,
		UploadDate:    r.UploadDate,
	})

	return rows
}

// GraphJSON 汇总行返回图边JSON,祖先行返回nil
func (r VocabularyRow) GraphJSON() (*string, error) {
	if r.Role != RoleSummary {
		return nil, nil
	}
	graph := r.Graph
	if graph == nil {
		graph = []GraphEdge{}
	}
	return marshalString(graph)
}

// DescendantsJSON 汇总行返回后代列表JSON,祖先行返回nil
func (r VocabularyRow) DescendantsJSON() (*string, error) {
	if r.Role != RoleSummary {
		return nil, nil
	}
	descendants := r.Descendants
	if descendants == nil {
		descendants = DescendantList{}
	}
	return marshalString(descendants)
}

// CellsJSON 祖先行返回原始单元格JSON,汇总行返回nil
func (r VocabularyRow) CellsJSON() (*string, error) {
	if r.Role != RoleAncestor {
		return nil, nil
	}
	cells := r.Cells
	if cells == nil {
		cells = AncestorRow{}
	}
	return marshalString(cells)
}

func marshalString(v interface{}) (*string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("序列化JSON失败: %w", err)
	}
	s := string(data)
	return &s, nil
}
