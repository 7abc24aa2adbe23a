package extractor

import "github.com/rymp/etymologeek-parse/internal/models"

// Descendants 提取后代链接,保持文档顺序,不去重
func Descendants(fragment string) (models.DescendantList, error) {
	doc, err := parseFragment(fragment, bodyContext())
	if err != nil {
		return nil, err
	}
	return models.DescendantList(hrefs(doc)), nil
}
