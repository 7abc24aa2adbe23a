package crawlers

import (
	"sync"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// WordQueue 词条工作队列
// 职责: 按先进先出顺序管理待处理词条,可选地对入队词条去重
type WordQueue struct {
	// 待处理词条
	pending []models.WordQuery

	// 曾入队过的词条标识 (去重开启时使用)
	seen map[string]bool

	// 是否启用去重
	dedupe bool

	// 累计入队数量
	total int

	mu sync.Mutex
}

// NewWordQueue 以种子词条创建队列
// 种子按原顺序入队,去重开启时重复种子只保留第一个
func NewWordQueue(seeds []models.WordQuery, dedupe bool) *WordQueue {
	q := &WordQueue{
		pending: make([]models.WordQuery, 0, len(seeds)),
		seen:    make(map[string]bool, len(seeds)),
		dedupe:  dedupe,
	}
	for _, s := range seeds {
		q.Push(s)
	}
	return q
}

// Push 追加词条到队尾
// 去重开启且该词条曾入队过时返回false
func (q *WordQueue) Push(query models.WordQuery) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := query.Key()
	if q.dedupe && q.seen[key] {
		return false
	}
	q.seen[key] = true
	q.pending = append(q.pending, query)
	q.total++
	return true
}

// Pop 取出队首词条,队列为空时返回false
func (q *WordQueue) Pop() (models.WordQuery, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return models.WordQuery{}, false
	}
	head := q.pending[0]
	q.pending[0] = models.WordQuery{}
	q.pending = q.pending[1:]
	return head, true
}

// Pending 返回待处理词条的副本,按出队顺序
func (q *WordQueue) Pending() []models.WordQuery {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := make([]models.WordQuery, len(q.pending))
	copy(pending, q.pending)
	return pending
}

// Len 当前待处理数量
func (q *WordQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Total 累计入队数量 (含已取出的)
func (q *WordQueue) Total() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.total
}

// Seen 词条是否曾入队
func (q *WordQueue) Seen(query models.WordQuery) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seen[query.Key()]
}
