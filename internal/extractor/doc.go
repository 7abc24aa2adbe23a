// Package extractor 将页面HTML片段转换为结构化数据
//
// 所有提取函数均为无状态纯函数,不执行任何网络请求:
//   - Table: 祖先表 -> []models.AncestorRow
//   - Descendants: 后代列表 -> models.DescendantList
//   - Graph: 祖先图 -> []models.GraphEdge
//   - Homonyms: 多义候选表 -> []models.HomonymCandidate
//
// 链接与行的输出顺序即文档顺序,不做去重。
package extractor
