package extractor

import (
	"github.com/rymp/etymologeek-parse/internal/models"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

// Homonyms 提取多义页面中的同形词候选
// 链接规范化为最后两个路径段,不足两段的链接被忽略
func Homonyms(fragment string) ([]models.HomonymCandidate, error) {
	doc, err := parseTableFragment(fragment)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.HomonymCandidate, 0)
	for _, href := range hrefs(doc) {
		candidate, ok := models.ParseHomonymHref(href)
		if !ok {
			utils.Logger.Debug().Str("href", href).Msg("忽略无法规范化的同形词链接")
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}
