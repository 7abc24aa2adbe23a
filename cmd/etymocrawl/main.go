package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rymp/etymologeek-parse/internal/core"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 验证配置文件

	// 已加载的配置 (PersistentPreRunE中初始化)
	appConfig *core.Config
)

var rootCmd = &cobra.Command{
	Use:   "etymocrawl",
	Short: "etymologeek.com 词源爬取工具",
	Long: `etymocrawl - 批量爬取 etymologeek.com 的词源数据并写入关系数据库

对每个词条:
  • 获取渲染后的页面 (无头浏览器或静态HTTP)
  • 判定页面类别: 不存在 / 多个同形词 / 单个词条
  • 提取祖先表、后代列表和祖先图
  • 多义页面的候选词条追加到队列末尾
  • 以 (词, 语言, 角色, 位置) 为自然键幂等写入

示例:
  # 爬取种子文件中的德语词条
  etymocrawl run --seed words.csv --language deu

  # 直接指定词条, lang/word 形式可覆盖默认语言
  etymocrawl run Kampf Haus lat/campus

  # 静态模式, 写入本地SQLite
  ETYMO_DATABASE_DRIVER=sqlite etymocrawl run --mode static Kampf

  # 仅执行数据库迁移
  etymocrawl migrate

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig = config

		logConfig := config.LogConfig()
		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}
		if verbose {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	// 版本信息不需要加载配置和日志
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "etymocrawl %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "构建时间: %s\n", BuildTime)
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式 (等同 --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件正确性后退出")

	// 添加子命令
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
