package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/shirou/gopsutil/v3/mem"
)

// 建议的最小可用内存(MB), 无头浏览器长时间运行时需要
const recommendedFreeMB = 500

func main() {
	fmt.Println("==============================================")
	fmt.Println("  etymocrawl 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	fmt.Printf("✅ Go版本: %s\n", runtime.Version())
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// 动态模式需要Chromium, 找不到时rod会在首次运行时下载
	if path, found := launcher.LookPath(); found {
		fmt.Printf("✅ 浏览器: %s\n", path)
	} else {
		fmt.Println("⚠️  未找到Chrome/Chromium - 动态模式首次运行时将自动下载")
		fmt.Println("   也可以通过 crawl.browser_bin 指定浏览器路径,或使用 --mode static")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		availableMB := vm.Available / (1024 * 1024)
		if availableMB < recommendedFreeMB {
			fmt.Printf("⚠️  可用内存较低: %dMB (建议至少%dMB)\n", availableMB, recommendedFreeMB)
		} else {
			fmt.Printf("✅ 可用内存: %dMB\n", availableMB)
		}
	} else {
		fmt.Printf("⚠️  无法获取内存信息: %v\n", err)
	}

	// PostgreSQL客户端仅用于手动排查, 不是必需的
	if checkCommand("psql", "--version") {
		fmt.Printf("✅ psql已安装: %s\n", strings.TrimSpace(getCommandOutput("psql", "--version")))
	} else {
		fmt.Println("⚠️  psql未安装 - 可设置 database.driver=sqlite 在本地运行")
	}

	fmt.Println()
	fmt.Println("检查项目结构...")
	requiredDirs := []string{
		"cmd/etymocrawl",
		"internal/core",
		"internal/crawlers",
		"internal/extractor",
		"internal/models",
		"internal/store",
		"internal/utils",
		"configs",
	}

	for _, dir := range requiredDirs {
		if _, err := os.Stat(dir); err == nil {
			fmt.Printf("✅ %s/\n", dir)
		} else {
			fmt.Printf("❌ %s/ 不存在\n", dir)
			allOK = false
		}
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 编辑 configs/config.yaml 配置数据库连接")
		fmt.Println("  2. 运行 'etymocrawl migrate' 创建数据表")
		fmt.Println("  3. 运行 'etymocrawl run --seed configs/seeds.txt'")
		os.Exit(0)
	} else {
		fmt.Println("❌ 环境验证失败,请解决上述问题。")
		os.Exit(1)
	}
}

// checkCommand 检查命令是否可用
func checkCommand(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	return cmd.Run() == nil
}

// getCommandOutput 获取命令输出
func getCommandOutput(name string, args ...string) string {
	cmd := exec.Command(name, args...)
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return string(output)
}
