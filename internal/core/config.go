package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/store"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// EnvPrefix 环境变量前缀, 例如 ETYMO_DATABASE_PASSWORD
const EnvPrefix = "ETYMO"

// Config 应用程序配置
type Config struct {
	Crawl    models.CrawlConfig `mapstructure:"crawl"`
	Database store.Config       `mapstructure:"database"`
	Logging  LoggingConfig      `mapstructure:"logging"`
	Output   OutputConfig       `mapstructure:"output"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	ReportDir string `mapstructure:"report_dir"` // 运行报告目录
	SeedFile  string `mapstructure:"seed_file"`  // 默认种子文件
}

// LoadConfig 加载配置文件
// configPath为空时依次搜索 ./configs, 当前目录, ~/.etymocrawl; 找不到配置文件时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		// 显式指定的配置文件必须存在
		if _, err := os.Stat(configPath); err != nil {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".etymocrawl"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
		utils.Debug("未找到配置文件,使用默认配置")
	} else {
		utils.Debugf("已加载配置文件: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置值
// AutomaticEnv只覆盖已知的键,所有可由环境变量覆盖的键都需要在这里登记
func setDefaults(v *viper.Viper) {
	// 爬取配置默认值
	v.SetDefault("crawl.language", "deu")
	v.SetDefault("crawl.base_url", "https://etymologeek.com")
	v.SetDefault("crawl.mode", string(models.ModeDynamic))
	v.SetDefault("crawl.settle_delay", "1s")
	v.SetDefault("crawl.page_timeout", "30s")
	v.SetDefault("crawl.headless", true)
	v.SetDefault("crawl.browser_bin", "")
	v.SetDefault("crawl.user_agent", "")
	v.SetDefault("crawl.window_width", 1920)
	v.SetDefault("crawl.window_height", 1080)
	v.SetDefault("crawl.dedupe", true)
	v.SetDefault("crawl.progress", true)
	v.SetDefault("crawl.monitor_every", 50)
	v.SetDefault("crawl.min_free_mb", 500)

	// 数据库配置默认值
	v.SetDefault("database.driver", store.DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "etymology")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.path", "etymology.db")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.migrate", true)

	// 日志配置默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	// 输出配置默认值
	v.SetDefault("output.report_dir", "output")
	v.SetDefault("output.seed_file", "")
}

// LogConfig 转换为日志系统配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}

// MergeCLIFlags 合并命令行参数到配置
// 空值表示未指定,保留配置文件中的设置
func (c *Config) MergeCLIFlags(language string, mode string, headless *bool, seedFile string) {
	if language != "" {
		c.Crawl.Language = language
	}
	if mode != "" {
		c.Crawl.Mode = models.CrawlMode(mode)
	}
	if headless != nil {
		c.Crawl.Headless = *headless
	}
	if seedFile != "" {
		c.Output.SeedFile = seedFile
	}
}

// Validate 验证爬取和数据库配置
func (c *Config) Validate() error {
	if err := c.Crawl.Validate(); err != nil {
		return fmt.Errorf("爬取配置无效: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("数据库配置无效: %w", err)
	}
	return nil
}
