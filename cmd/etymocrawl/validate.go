package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// ValidateFlags 验证命令行标志
func ValidateFlags(language string, mode string) error {
	// 验证语言代码
	if language == "" {
		return fmt.Errorf("语言代码不能为空")
	}
	if strings.ContainsAny(language, "/ \t") {
		return fmt.Errorf("无效的语言代码: %q (不能包含斜杠或空白)", language)
	}

	// 验证模式
	validModes := map[string]bool{
		string(models.ModeDynamic): true,
		string(models.ModeStatic):  true,
	}
	if !validModes[mode] {
		return fmt.Errorf("无效的获取模式: %s (有效值: dynamic, static)", mode)
	}

	return nil
}

// ValidateSeedFile 验证种子文件路径
func ValidateSeedFile(path string) error {
	if path == "" {
		return fmt.Errorf("种子文件路径不能为空")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("无法访问种子文件: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("种子文件路径是目录: %s", path)
	}
	return nil
}
