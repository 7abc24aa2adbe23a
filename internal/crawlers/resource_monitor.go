package crawlers

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/rymp/etymologeek-parse/internal/utils"
)

// ResourceMonitor 系统资源监控器
// 职责: 在长时间爬取中定期采样内存和CPU,可用内存低于阈值时告警
type ResourceMonitor struct {
	// 可用内存告警阈值(字节)
	minFree uint64

	// 采样函数,测试时可替换
	sample func() (MemoryStatus, error)
}

// MemoryStatus 内存状态信息
type MemoryStatus struct {
	TotalMemory     uint64  // 系统总内存(字节)
	AvailableMemory uint64  // 系统可用内存(字节)
	AllocatedMemory uint64  // 当前程序已分配内存(字节)
	CPUUsage        float64 // CPU使用率(%)
	MemoryPressure  string  // 内存压力等级
}

// AvailableMB 可用内存(MB)
func (s MemoryStatus) AvailableMB() uint64 {
	return s.AvailableMemory / (1024 * 1024)
}

// NewResourceMonitor 创建资源监控器实例
func NewResourceMonitor(minFreeMB int) *ResourceMonitor {
	if minFreeMB < 0 {
		minFreeMB = 0
	}
	return &ResourceMonitor{
		minFree: uint64(minFreeMB) * 1024 * 1024,
		sample:  sampleSystem,
	}
}

// sampleSystem 使用gopsutil获取真实系统内存与CPU使用率
func sampleSystem() (MemoryStatus, error) {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return MemoryStatus{}, fmt.Errorf("获取系统内存失败: %w", err)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := MemoryStatus{
		TotalMemory:     vmStat.Total,
		AvailableMemory: vmStat.Available,
		AllocatedMemory: memStats.Alloc,
	}

	// 100毫秒采样间隔,避免阻塞过久
	if percentages, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percentages) > 0 {
		status.CPUUsage = percentages[0]
	}

	status.MemoryPressure = pressureLevel(status.AvailableMB())
	return status, nil
}

// pressureLevel 判断内存压力等级
func pressureLevel(availableMB uint64) string {
	switch {
	case availableMB < 200:
		return "emergency"
	case availableMB < 300:
		return "critical"
	case availableMB < 500:
		return "warning"
	default:
		return "normal"
	}
}

// Check 采样一次资源状态
// 返回ok=false表示可用内存低于阈值(已记录告警日志)
func (rm *ResourceMonitor) Check() (MemoryStatus, bool) {
	status, err := rm.sample()
	if err != nil {
		utils.Logger.Warn().Err(err).Msg("资源采样失败")
		return status, true
	}

	utils.Logger.Debug().
		Uint64("available_mb", status.AvailableMB()).
		Uint64("alloc_mb", status.AllocatedMemory/(1024*1024)).
		Float64("cpu", status.CPUUsage).
		Str("pressure", status.MemoryPressure).
		Msg("资源状态")

	if rm.minFree > 0 && status.AvailableMemory < rm.minFree {
		utils.Logger.Warn().Msgf("可用内存不足(当前%dMB,阈值%dMB),浏览器可能变慢或崩溃",
			status.AvailableMB(), rm.minFree/(1024*1024))
		return status, false
	}
	return status, true
}
