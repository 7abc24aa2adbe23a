package crawlers

import (
	"errors"
	"testing"
)

func TestResourceMonitor_Check(t *testing.T) {
	tests := []struct {
		name        string
		minFreeMB   int
		availableMB uint64
		sampleErr   error
		wantOK      bool
	}{
		{name: "内存充足", minFreeMB: 500, availableMB: 2048, wantOK: true},
		{name: "内存不足", minFreeMB: 500, availableMB: 100, wantOK: false},
		{name: "阈值为0时不告警", minFreeMB: 0, availableMB: 1, wantOK: true},
		{name: "采样失败视为正常", minFreeMB: 500, sampleErr: errors.New("no /proc"), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := NewResourceMonitor(tt.minFreeMB)
			rm.sample = func() (MemoryStatus, error) {
				if tt.sampleErr != nil {
					return MemoryStatus{}, tt.sampleErr
				}
				available := tt.availableMB * 1024 * 1024
				return MemoryStatus{
					AvailableMemory: available,
					MemoryPressure:  pressureLevel(tt.availableMB),
				}, nil
			}

			if _, ok := rm.Check(); ok != tt.wantOK {
				t.Errorf("Check() ok = %v, 期望 %v", ok, tt.wantOK)
			}
		})
	}
}

func TestPressureLevel(t *testing.T) {
	tests := []struct {
		availableMB uint64
		want        string
	}{
		{100, "emergency"},
		{250, "critical"},
		{450, "warning"},
		{4096, "normal"},
	}
	for _, tt := range tests {
		if got := pressureLevel(tt.availableMB); got != tt.want {
			t.Errorf("pressureLevel(%d) = %s, 期望 %s", tt.availableMB, got, tt.want)
		}
	}
}

func TestSampleSystem(t *testing.T) {
	status, err := sampleSystem()
	if err != nil {
		t.Skipf("当前环境无法采样系统内存: %v", err)
	}
	if status.TotalMemory == 0 {
		t.Error("系统总内存不应为0")
	}
}
