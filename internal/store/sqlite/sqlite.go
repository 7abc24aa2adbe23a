// Package sqlite 将词源记录写入本地SQLite文件,用于开发和离线运行
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// DriverName database/sql驱动名
const DriverName = "sqlite"

// TableName 目标表
const TableName = "vocabulary"

// 日期列格式
const dateLayout = "2006-01-02"

// Columns 插入列,顺序与rowValues一致
var Columns = []string{
	"set_id", "role", "position",
	"query_word", "query_language",
	"word", "language", "definition",
	"graph", "descendants", "cells",
	"upload",
}

// Sink SQLite持久化
type Sink struct {
	db *sql.DB
}

// Open 打开(或创建)SQLite数据库文件
func Open(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("打开SQLite数据库失败: %w", err)
	}
	// 单连接,保证串行写入
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接SQLite数据库失败: %w", err)
	}
	return db, nil
}

// New 创建Sink,Close时关闭db
func New(db *sql.DB) *Sink {
	return &Sink{db: db}
}

// Append 以一条多行INSERT写入一个词条的全部行
func (s *Sink) Append(ctx context.Context, rows []models.VocabularyRow) (models.AppendResult, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: 没有可写入的行", models.ErrPersistence)
	}

	query, args, err := buildInsert(rows)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return models.AppendAlreadyExists, nil
		}
		return "", fmt.Errorf("%w: 写入 %s/%s 失败: %v", models.ErrPersistence, rows[0].QueryLanguage, rows[0].QueryWord, err)
	}

	return models.AppendInserted, nil
}

// Close 关闭数据库
func (s *Sink) Close() error {
	return s.db.Close()
}

// isUniqueViolation 是否为唯一约束或主键冲突
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}

// buildInsert 构造多行INSERT语句
func buildInsert(rows []models.VocabularyRow) (string, []any, error) {
	builder := sq.StatementBuilder.
		PlaceholderFormat(sq.Question).
		Insert(TableName).
		Columns(Columns...)

	for _, row := range rows {
		values, err := rowValues(row)
		if err != nil {
			return "", nil, err
		}
		builder = builder.Values(values...)
	}

	return builder.ToSql()
}

// rowValues 单行的列值,UUID和日期以文本存储
func rowValues(row models.VocabularyRow) ([]any, error) {
	graph, err := row.GraphJSON()
	if err != nil {
		return nil, err
	}
	descendants, err := row.DescendantsJSON()
	if err != nil {
		return nil, err
	}
	cells, err := row.CellsJSON()
	if err != nil {
		return nil, err
	}

	return []any{
		row.SetID.String(), string(row.Role), row.Position,
		row.QueryWord, row.QueryLanguage,
		row.Word, row.Language, row.Definition,
		graph, descendants, cells,
		row.UploadDate.Format(dateLayout),
	}, nil
}
