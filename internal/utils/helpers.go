package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// ReadWordsFromFile 从种子文件中读取词条列表
// 支持纯文本(每行一个词)和CSV(取第一列),跳过空行和#注释行
func ReadWordsFromFile(filepath string, language string) ([]models.WordQuery, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("打开种子文件失败: %w", err)
	}
	defer file.Close()

	words, err := ReadWords(file, language)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败 [%s]: %w", filepath, err)
	}

	Infof("从文件加载了 %d 个词条", len(words))
	return words, nil
}

// ReadWords 从reader中读取词条
func ReadWords(r io.Reader, language string) ([]models.WordQuery, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	words := make([]models.WordQuery, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}

		word := strings.TrimSpace(record[0])
		if word == "" {
			continue
		}
		words = append(words, models.WordQuery{Word: word, Language: language})
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("种子文件中没有有效的词条")
	}
	return words, nil
}

// ParseSeeds 将命令行传入的词条转换为查询
// 形如 lang/word 的参数覆盖默认语言
func ParseSeeds(args []string, language string) []models.WordQuery {
	queries := make([]models.WordQuery, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if lang, word, ok := strings.Cut(arg, "/"); ok && lang != "" && word != "" {
			queries = append(queries, models.WordQuery{Word: word, Language: lang})
			continue
		}
		queries = append(queries, models.WordQuery{Word: arg, Language: language})
	}
	return queries
}
