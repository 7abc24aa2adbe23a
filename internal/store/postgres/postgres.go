// Package postgres 将词源记录写入PostgreSQL的 etymology.vocabulary 表
package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// TableName 目标表
const TableName = "etymology.vocabulary"

// 唯一约束冲突
const uniqueViolation = "23505"

// Columns 插入列,顺序与rowValues一致
var Columns = []string{
	"set_id", "role", "position",
	"query_word", "query_language",
	"word", "language", "definition",
	"graph", "descendants", "cells",
	"upload",
}

// Querier *pgxpool.Pool 和 pgx.Tx 的公共子集
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Sink PostgreSQL持久化
type Sink struct {
	q    Querier
	pool *pgxpool.Pool
}

// New 基于任意Querier创建Sink (测试时传入pgxmock)
func New(q Querier) *Sink {
	return &Sink{q: q}
}

// NewWithPool 基于连接池创建Sink,Close时关闭连接池
func NewWithPool(pool *pgxpool.Pool) *Sink {
	return &Sink{q: pool, pool: pool}
}

// Append 以一条多行INSERT写入一个词条的全部行
// 自然键冲突视为该词条已写入,返回AppendAlreadyExists
func (s *Sink) Append(ctx context.Context, rows []models.VocabularyRow) (models.AppendResult, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: 没有可写入的行", models.ErrPersistence)
	}

	query, args, err := buildInsert(rows)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.AppendAlreadyExists, nil
		}
		return "", fmt.Errorf("%w: 写入 %s/%s 失败: %v", models.ErrPersistence, rows[0].QueryLanguage, rows[0].QueryWord, err)
	}

	return models.AppendInserted, nil
}

// Close 关闭连接池
func (s *Sink) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// buildInsert 构造多行INSERT语句
func buildInsert(rows []models.VocabularyRow) (string, []any, error) {
	builder := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
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

// rowValues 单行的列值
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
		row.SetID, string(row.Role), row.Position,
		row.QueryWord, row.QueryLanguage,
		row.Word, row.Language, row.Definition,
		graph, descendants, cells,
		row.UploadDate,
	}, nil
}
