package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rymp/etymologeek-parse/internal/models"
)

// Table 提取祖先表
// 每个<tr>输出一行(空行同样保留),单元格含a[href]时取链接,否则取文本
func Table(fragment string) ([]models.AncestorRow, error) {
	doc, err := parseTableFragment(fragment)
	if err != nil {
		return nil, err
	}

	rows := make([]models.AncestorRow, 0)
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		row := make(models.AncestorRow, 0)
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			if a := td.Find("a[href]").First(); a.Length() > 0 {
				href, _ := a.Attr("href")
				row = append(row, models.Cell{Ref: href})
				return
			}
			row = append(row, models.Cell{Text: strings.TrimSpace(td.Text())})
		})
		rows = append(rows, row)
	})

	return rows, nil
}
