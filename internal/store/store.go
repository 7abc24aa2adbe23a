// Package store 持久化层
//
// 每个解析成功的词条展开为若干VocabularyRow,以一条INSERT原子写入。
// 自然键 (query_word, query_language, role, position) 冲突表示该词条在之前的运行中
// 已经写入,Append返回AppendAlreadyExists且不报错,重复运行不会产生重复数据。
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/store/migrations"
	"github.com/rymp/etymologeek-parse/internal/store/postgres"
	"github.com/rymp/etymologeek-parse/internal/store/sqlite"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// ErrPersistence 持久化失败 (唯一约束冲突除外)
var ErrPersistence = models.ErrPersistence

// 支持的数据库驱动
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Sink 持久化接口
type Sink interface {
	Append(ctx context.Context, rows []models.VocabularyRow) (models.AppendResult, error)
	Close() error
}

// Config 数据库配置
type Config struct {
	Driver   string `mapstructure:"driver"`   // postgres|sqlite (默认:postgres)
	Host     string `mapstructure:"host"`     // 主机 (默认:localhost)
	Port     int    `mapstructure:"port"`     // 端口 (默认:5432)
	User     string `mapstructure:"user"`     // 用户名
	Password string `mapstructure:"password"` // 密码,建议通过 ETYMO_DATABASE_PASSWORD 提供
	Database string `mapstructure:"database"` // 数据库名
	SSLMode  string `mapstructure:"sslmode"`  // disable|require|verify-full
	DSN      string `mapstructure:"dsn"`      // 完整DSN,设置后忽略上面的连接参数
	Path     string `mapstructure:"path"`     // SQLite文件路径
	MaxConns int32  `mapstructure:"max_conns"`
	Migrate  bool   `mapstructure:"migrate"` // 启动时执行迁移
}

// PostgresDSN 返回PostgreSQL连接串
func (c Config) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	if c.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.SSLMode)
	}
	return u.String()
}

// Validate 验证数据库配置
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.DSN == "" && (c.Host == "" || c.Database == "") {
			return fmt.Errorf("PostgreSQL需要配置dsn,或者host和database")
		}
		if c.DSN == "" && (c.Port <= 0 || c.Port > 65535) {
			return fmt.Errorf("数据库端口必须在1-65535之间")
		}
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("SQLite需要配置path")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %s (有效值: postgres, sqlite)", c.Driver)
	}
	return nil
}

// Open 按配置打开持久化层,Migrate为true时先执行迁移
func Open(ctx context.Context, cfg Config) (Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case DriverSQLite:
		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := Migrate(ctx, db, DriverSQLite); err != nil {
				db.Close()
				return nil, err
			}
		}
		utils.Infof("已连接SQLite数据库: %s", cfg.Path)
		return sqlite.New(db), nil

	default:
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DSN:             cfg.PostgresDSN(),
			MaxConns:        cfg.MaxConns,
			MaxConnLifetime: time.Hour,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			db := stdlib.OpenDBFromPool(pool)
			err := Migrate(ctx, db, DriverPostgres)
			db.Close()
			if err != nil {
				pool.Close()
				return nil, err
			}
		}
		utils.Infof("已连接PostgreSQL数据库: %s", postgres.Target(pool.Config()))
		return postgres.NewWithPool(pool), nil
	}
}

// Migrate 执行内嵌的goose迁移
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var (
		dialect goose.Dialect
		fsys    fs.FS
	)
	switch driver {
	case DriverPostgres:
		dialect, fsys = goose.DialectPostgres, migrations.Postgres()
	case DriverSQLite:
		dialect, fsys = goose.DialectSQLite3, migrations.SQLite()
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", driver)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("创建迁移器失败: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("执行迁移失败: %w", err)
	}
	for _, r := range results {
		utils.Infof("已应用迁移: %s (%s)", r.Source.Path, r.Duration)
	}
	return nil
}

// OpenDB 打开database/sql连接,供迁移命令使用
func OpenDB(ctx context.Context, cfg Config) (*sql.DB, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if cfg.Driver == DriverSQLite {
		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2})
	if err != nil {
		return nil, nil, err
	}
	db := stdlib.OpenDBFromPool(pool)
	return db, func() {
		db.Close()
		pool.Close()
	}, nil
}
