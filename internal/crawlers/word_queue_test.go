package crawlers

import (
	"testing"

	"github.com/rymp/etymologeek-parse/internal/models"
)

func q(lang, word string) models.WordQuery {
	return models.WordQuery{Word: word, Language: lang}
}

func TestWordQueue_FIFO(t *testing.T) {
	queue := NewWordQueue([]models.WordQuery{q("deu", "Kampf"), q("deu", "Haus")}, true)

	if !queue.Push(q("deu", "Baum")) {
		t.Fatal("新词条应成功入队")
	}

	want := []string{"deu/Kampf", "deu/Haus", "deu/Baum"}
	for i, key := range want {
		got, ok := queue.Pop()
		if !ok {
			t.Fatalf("第%d次Pop队列为空", i)
		}
		if got.Key() != key {
			t.Errorf("第%d次Pop = %s, 期望 %s", i, got.Key(), key)
		}
	}

	if _, ok := queue.Pop(); ok {
		t.Error("队列应为空")
	}
	if queue.Total() != 3 {
		t.Errorf("Total() = %d, 期望 3", queue.Total())
	}
}

func TestWordQueue_AppendWhileIterating(t *testing.T) {
	queue := NewWordQueue([]models.WordQuery{q("deu", "Bank")}, false)

	var order []string
	for {
		item, ok := queue.Pop()
		if !ok {
			break
		}
		order = append(order, item.Key())
		if item.Word == "Bank" {
			queue.Push(q("deu", "Bank-1"))
			queue.Push(q("deu", "Bank-2"))
		}
	}

	want := []string{"deu/Bank", "deu/Bank-1", "deu/Bank-2"}
	if len(order) != len(want) {
		t.Fatalf("处理顺序 = %v, 期望 %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("处理顺序 = %v, 期望 %v", order, want)
			break
		}
	}
}

func TestWordQueue_Dedupe(t *testing.T) {
	tests := []struct {
		name      string
		dedupe    bool
		wantPush  bool
		wantTotal int
	}{
		{name: "开启去重", dedupe: true, wantPush: false, wantTotal: 1},
		{name: "关闭去重", dedupe: false, wantPush: true, wantTotal: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := NewWordQueue([]models.WordQuery{q("deu", "Bank")}, tt.dedupe)
			queue.Pop()

			// 已取出的词条仍视为入队过
			if got := queue.Push(q("deu", "Bank")); got != tt.wantPush {
				t.Errorf("Push() = %v, 期望 %v", got, tt.wantPush)
			}
			if queue.Total() != tt.wantTotal {
				t.Errorf("Total() = %d, 期望 %d", queue.Total(), tt.wantTotal)
			}
			if !queue.Seen(q("deu", "Bank")) {
				t.Error("Seen() 应为true")
			}
		})
	}
}

func TestWordQueue_DuplicateSeeds(t *testing.T) {
	seeds := []models.WordQuery{q("deu", "Kampf"), q("deu", "Kampf"), q("lat", "Kampf")}

	if got := NewWordQueue(seeds, true).Len(); got != 2 {
		t.Errorf("去重后队列长度 = %d, 期望 2", got)
	}
	if got := NewWordQueue(seeds, false).Len(); got != 3 {
		t.Errorf("不去重队列长度 = %d, 期望 3", got)
	}
}

func TestWordQueue_Pending(t *testing.T) {
	queue := NewWordQueue([]models.WordQuery{q("deu", "Kampf"), q("deu", "Haus")}, true)
	queue.Push(q("deu", "Bank/31959820"))
	queue.Pop()

	pending := queue.Pending()
	want := []string{"deu/Haus", "deu/Bank/31959820"}
	if len(pending) != len(want) {
		t.Fatalf("Pending() 数量 = %d, 期望 %d", len(pending), len(want))
	}
	for i, key := range want {
		if pending[i].Key() != key {
			t.Errorf("第%d个待处理 = %s, 期望 %s", i, pending[i].Key(), key)
		}
	}

	// 返回副本,修改不影响队列
	pending[0] = q("eng", "other")
	if got, _ := queue.Pop(); got.Key() != "deu/Haus" {
		t.Errorf("Pop() = %s, 期望 deu/Haus", got.Key())
	}
}
