package models

import "errors"

// 错误类型定义
var (
	ErrPageNotFound        = errors.New("词条页面不存在")
	ErrAmbiguousPage       = errors.New("页面包含多个同形词")
	ErrExtractionMalformed = errors.New("页面结构异常,无法提取")
	ErrFetchFailure        = errors.New("页面获取失败")
	ErrPersistence         = errors.New("持久化失败")
)
